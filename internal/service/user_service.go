package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/monedero/monedero-backend/internal/domain"
)

// UserService resolves token subjects to users, provisioning them on
// first login.
type UserService struct {
	store domain.Store
}

// NewUserService creates a UserService.
func NewUserService(store domain.Store) *UserService {
	return &UserService{store: store}
}

// EnsureUser returns the user for a token subject, creating it on
// first sight.
func (s *UserService) EnsureUser(ctx context.Context, subject, email, name string) (*domain.User, error) {
	user, err := s.store.Repos().Users.GetBySubject(ctx, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	var created *domain.User
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		created, err = repos.Users.Create(ctx, &domain.User{
			Subject: subject,
			Email:   email,
			Name:    name,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", created.ID.String()).
		Msg("User provisioned")

	return created, nil
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.store.Repos().Users.GetByID(ctx, id)
}
