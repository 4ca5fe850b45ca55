package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/monedero/monedero-backend/internal/domain"
	"github.com/monedero/monedero-backend/internal/util"
)

// SavingGoalService manages saving goals. Goals are shared: their
// names are unique across all users and anyone can save into them.
// A goal balance changes only through Save records.
type SavingGoalService struct {
	store     domain.Store
	notifier  domain.Notifier
	clock     domain.Clock
	converter domain.CurrencyConverter
}

// NewSavingGoalService creates a SavingGoalService.
func NewSavingGoalService(store domain.Store, notifier domain.Notifier, clock domain.Clock, converter domain.CurrencyConverter) *SavingGoalService {
	return &SavingGoalService{
		store:     store,
		notifier:  notifier,
		clock:     clock,
		converter: converter,
	}
}

// CreateSavingGoalInput contains the fields to create a saving goal.
type CreateSavingGoalInput struct {
	Name      string
	Currency  string
	Amount    decimal.Decimal
	StartDate time.Time
	LimitDate time.Time
	Note      *string
}

// UpdateSavingGoalInput contains the partial fields to update a saving
// goal. Balance is accepted only to be rejected.
type UpdateSavingGoalInput struct {
	Name      domain.Optional[string]
	Currency  domain.Optional[string]
	Amount    domain.Optional[decimal.Decimal]
	StartDate domain.Optional[time.Time]
	LimitDate domain.Optional[time.Time]
	Note      domain.Optional[*string]
	Active    domain.Optional[bool]
	Balance   domain.Optional[decimal.Decimal]
}

// Create validates and persists a new saving goal with a zero balance.
func (s *SavingGoalService) Create(ctx context.Context, userID uuid.UUID, input CreateSavingGoalInput) (*domain.SavingGoal, error) {
	name, err := domain.CanonicalName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateDate(input.StartDate, s.clock); err != nil {
		return nil, err
	}
	if !util.DateOnly(input.LimitDate).After(util.DateOnly(input.StartDate)) {
		return nil, domain.ErrEndDateNotAfterStart
	}
	if _, err := s.converter.Convert(decimal.NewFromInt(1), input.Currency, input.Currency); err != nil {
		return nil, domain.ErrUnknownCurrency
	}

	note, err := cleanNotePtr(input.Note)
	if err != nil {
		return nil, err
	}

	goal := &domain.SavingGoal{
		Name:      name,
		Currency:  input.Currency,
		Amount:    input.Amount,
		Balance:   decimal.Zero,
		StartDate: util.DateOnly(input.StartDate),
		LimitDate: util.DateOnly(input.LimitDate),
		Note:      note,
		Active:    true,
	}

	var created *domain.SavingGoal
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		created, err = repos.SavingGoals.Create(ctx, goal)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("saving_goal_id", created.ID.String()).
		Msg("Saving goal created")

	s.notifier.Notify(userID, "Saving goal created", created.Name, domain.SeveritySuccess)
	return created, nil
}

// Get returns one saving goal.
func (s *SavingGoalService) Get(ctx context.Context, id uuid.UUID) (*domain.SavingGoal, error) {
	return s.store.Repos().SavingGoals.GetByID(ctx, id)
}

// List returns all saving goals.
func (s *SavingGoalService) List(ctx context.Context, includeArchived bool) ([]*domain.SavingGoal, error) {
	return s.store.Repos().SavingGoals.List(ctx, includeArchived)
}

// Update applies a partial update. The currency is frozen while saves
// reference the goal, and the target amount must stay positive.
func (s *SavingGoalService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateSavingGoalInput) (*domain.SavingGoal, error) {
	if input.Balance.IsSet() {
		return nil, domain.ErrManualBalanceEdit
	}

	repos := s.store.Repos()
	goal, err := repos.SavingGoals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name, ok := input.Name.Get(); ok {
		canonical, err := domain.CanonicalName(name)
		if err != nil {
			return nil, err
		}
		if canonical != goal.Name {
			if err := s.ensureNameFree(ctx, canonical, goal.ID); err != nil {
				return nil, err
			}
			goal.Name = canonical
		}
	}

	if currency, ok := input.Currency.Get(); ok && currency != goal.Currency {
		refs, err := repos.Saves.CountByGoal(ctx, goal.ID)
		if err != nil {
			return nil, err
		}
		if refs > 0 {
			return nil, domain.ErrEntityInUse
		}
		if _, err := s.converter.Convert(decimal.NewFromInt(1), currency, currency); err != nil {
			return nil, domain.ErrUnknownCurrency
		}
		goal.Currency = currency
	}

	if amount, ok := input.Amount.Get(); ok {
		if err := validateAmount(amount); err != nil {
			return nil, err
		}
		goal.Amount = amount
	}

	if startDate, ok := input.StartDate.Get(); ok {
		if err := validateDate(startDate, s.clock); err != nil {
			return nil, err
		}
		goal.StartDate = util.DateOnly(startDate)
	}
	if limitDate, ok := input.LimitDate.Get(); ok {
		goal.LimitDate = util.DateOnly(limitDate)
	}
	if !goal.LimitDate.After(goal.StartDate) {
		return nil, domain.ErrEndDateNotAfterStart
	}

	goal.Note, err = applyNote(goal.Note, input.Note)
	if err != nil {
		return nil, err
	}
	if active, ok := input.Active.Get(); ok {
		goal.Active = active
	}

	var updated *domain.SavingGoal
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		updated, err = repos.SavingGoals.Update(ctx, goal)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(userID, "Saving goal updated", updated.Name, domain.SeverityInfo)
	return updated, nil
}

// Delete removes a saving goal that no save references.
func (s *SavingGoalService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	repos := s.store.Repos()
	goal, err := repos.SavingGoals.GetByID(ctx, id)
	if err != nil {
		return err
	}

	refs, err := repos.Saves.CountByGoal(ctx, goal.ID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrEntityInUse
	}

	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		return repos.SavingGoals.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(userID, "Saving goal deleted", goal.Name, domain.SeverityWarning)
	return nil
}

func (s *SavingGoalService) ensureNameFree(ctx context.Context, name string, selfID uuid.UUID) error {
	existing, err := s.store.Repos().SavingGoals.GetByName(ctx, name)
	if errors.Is(err, domain.ErrSavingGoalNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return domain.ErrDuplicateName
}
