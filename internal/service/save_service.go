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

// SaveService manages saving movements from an account into a shared
// saving goal.
type SaveService struct {
	store      domain.Store
	ledger     *Ledger
	notifier   domain.Notifier
	clock      domain.Clock
	dashboards *DashboardService
}

// NewSaveService creates a SaveService.
func NewSaveService(store domain.Store, ledger *Ledger, notifier domain.Notifier, clock domain.Clock, dashboards *DashboardService) *SaveService {
	return &SaveService{
		store:      store,
		ledger:     ledger,
		notifier:   notifier,
		clock:      clock,
		dashboards: dashboards,
	}
}

// CreateSaveInput contains the fields to create a save.
type CreateSaveInput struct {
	Name            string
	SourceAccountID uuid.UUID
	SavingGoalID    uuid.UUID
	Amount          decimal.Decimal
	Date            time.Time
	Note            *string
}

// UpdateSaveInput contains the partial fields to update a save.
type UpdateSaveInput struct {
	Name            domain.Optional[string]
	SourceAccountID domain.Optional[uuid.UUID]
	SavingGoalID    domain.Optional[uuid.UUID]
	Amount          domain.Optional[decimal.Decimal]
	Date            domain.Optional[time.Time]
	Note            domain.Optional[*string]
	Active          domain.Optional[bool]
}

// Create validates the save and moves the money from the account into
// the goal in one transaction.
func (s *SaveService) Create(ctx context.Context, userID uuid.UUID, input CreateSaveInput) (*domain.Save, error) {
	name, err := domain.CanonicalName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, userID, name, uuid.Nil); err != nil {
		return nil, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateDate(input.Date, s.clock); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	account, err := repos.Accounts.GetByID(ctx, userID, input.SourceAccountID)
	if err != nil {
		return nil, err
	}
	goal, err := repos.SavingGoals.GetByID(ctx, input.SavingGoalID)
	if err != nil {
		return nil, err
	}
	if account.Currency != goal.Currency {
		return nil, domain.ErrCurrencyMismatch
	}
	if input.Amount.GreaterThan(account.Balance) {
		return nil, domain.ErrInsufficientFunds
	}

	note, err := cleanNotePtr(input.Note)
	if err != nil {
		return nil, err
	}

	save := &domain.Save{
		UserID:          userID,
		Name:            name,
		SourceAccountID: account.ID,
		SavingGoalID:    goal.ID,
		Currency:        account.Currency,
		Amount:          input.Amount,
		Date:            util.DateOnly(input.Date),
		Note:            note,
		Active:          true,
	}

	var created *domain.Save
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		created, err = repos.Saves.Create(ctx, save)
		if err != nil {
			return err
		}
		if _, err := s.ledger.AdjustAccount(ctx, repos, userID, account.ID, input.Amount.Neg()); err != nil {
			return err
		}
		_, err = s.ledger.AdjustGoal(ctx, repos, goal.ID, input.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("save_id", created.ID.String()).
		Str("amount", created.Amount.String()).
		Msg("Save created")

	s.notifier.Notify(userID, "Balance updated", created.Name, domain.SeveritySuccess)
	if _, err := s.dashboards.Recalculate(ctx, userID); err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns one save.
func (s *SaveService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Save, error) {
	return s.store.Repos().Saves.GetByID(ctx, userID, id)
}

// List returns the user's saves.
func (s *SaveService) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Save, error) {
	return s.store.Repos().Saves.ListByUser(ctx, userID, includeArchived)
}

// Update applies a partial update. When the amount, the account or the
// goal changes, the old movement is undone before the new one is
// replayed, all in one transaction.
func (s *SaveService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateSaveInput) (*domain.Save, error) {
	repos := s.store.Repos()
	save, err := repos.Saves.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	oldAmount := save.Amount
	oldAccountID := save.SourceAccountID
	oldGoalID := save.SavingGoalID

	if name, ok := input.Name.Get(); ok {
		canonical, err := domain.CanonicalName(name)
		if err != nil {
			return nil, err
		}
		if canonical != save.Name {
			if err := s.ensureNameFree(ctx, userID, canonical, save.ID); err != nil {
				return nil, err
			}
			save.Name = canonical
		}
	}

	if amount, ok := input.Amount.Get(); ok {
		if err := validateAmount(amount); err != nil {
			return nil, err
		}
		save.Amount = amount
	}
	if date, ok := input.Date.Get(); ok {
		if err := validateDate(date, s.clock); err != nil {
			return nil, err
		}
		save.Date = util.DateOnly(date)
	}
	if accountID, ok := input.SourceAccountID.Get(); ok {
		save.SourceAccountID = accountID
	}
	if goalID, ok := input.SavingGoalID.Get(); ok {
		save.SavingGoalID = goalID
	}

	account, err := repos.Accounts.GetByID(ctx, userID, save.SourceAccountID)
	if err != nil {
		return nil, err
	}
	goal, err := repos.SavingGoals.GetByID(ctx, save.SavingGoalID)
	if err != nil {
		return nil, err
	}
	if account.Currency != save.Currency || goal.Currency != save.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	save.Note, err = applyNote(save.Note, input.Note)
	if err != nil {
		return nil, err
	}
	if active, ok := input.Active.Get(); ok {
		save.Active = active
	}

	moved := save.SourceAccountID != oldAccountID ||
		save.SavingGoalID != oldGoalID ||
		!save.Amount.Equal(oldAmount)

	var updated *domain.Save
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		if moved {
			if _, err := s.ledger.AdjustGoal(ctx, repos, oldGoalID, oldAmount.Neg()); err != nil {
				return err
			}
			if _, err := s.ledger.AdjustAccount(ctx, repos, userID, oldAccountID, oldAmount); err != nil {
				return err
			}
			if _, err := s.ledger.AdjustAccount(ctx, repos, userID, save.SourceAccountID, save.Amount.Neg()); err != nil {
				return err
			}
			if _, err := s.ledger.AdjustGoal(ctx, repos, save.SavingGoalID, save.Amount); err != nil {
				return err
			}
		}
		updated, err = repos.Saves.Update(ctx, save)
		return err
	})
	if err != nil {
		return nil, err
	}

	if moved {
		s.notifier.Notify(userID, "Balance updated", updated.Name, domain.SeveritySuccess)
	} else {
		s.notifier.Notify(userID, "Save updated", updated.Name, domain.SeverityInfo)
	}
	if _, err := s.dashboards.Recalculate(ctx, userID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a save and moves the money back from the goal to the
// account. It fails if the goal balance no longer covers it.
func (s *SaveService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	save, err := s.store.Repos().Saves.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		if _, err := s.ledger.AdjustGoal(ctx, repos, save.SavingGoalID, save.Amount.Neg()); err != nil {
			return err
		}
		if _, err := s.ledger.AdjustAccount(ctx, repos, userID, save.SourceAccountID, save.Amount); err != nil {
			return err
		}
		return repos.Saves.Delete(ctx, userID, id)
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("save_id", id.String()).
		Msg("Save deleted")

	s.notifier.Notify(userID, "Balance updated", save.Name, domain.SeverityWarning)
	_, err = s.dashboards.Recalculate(ctx, userID)
	return err
}

func (s *SaveService) ensureNameFree(ctx context.Context, userID uuid.UUID, name string, selfID uuid.UUID) error {
	existing, err := s.store.Repos().Saves.GetByName(ctx, userID, name)
	if errors.Is(err, domain.ErrSaveNotFound) {
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
