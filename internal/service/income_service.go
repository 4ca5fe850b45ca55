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

// IncomeService manages income lifecycle. Creating an income credits
// its account; deleting takes the credit back; updates reconcile the
// difference.
type IncomeService struct {
	store      domain.Store
	ledger     *Ledger
	notifier   domain.Notifier
	clock      domain.Clock
	dashboards *DashboardService
}

// NewIncomeService creates an IncomeService.
func NewIncomeService(store domain.Store, ledger *Ledger, notifier domain.Notifier, clock domain.Clock, dashboards *DashboardService) *IncomeService {
	return &IncomeService{
		store:      store,
		ledger:     ledger,
		notifier:   notifier,
		clock:      clock,
		dashboards: dashboards,
	}
}

// CreateIncomeInput contains the fields to create an income.
type CreateIncomeInput struct {
	Name       string
	AccountID  uuid.UUID
	CategoryID uuid.UUID
	Amount     decimal.Decimal
	Date       time.Time
	Note       *string
}

// UpdateIncomeInput contains the partial fields to update an income.
type UpdateIncomeInput struct {
	Name       domain.Optional[string]
	AccountID  domain.Optional[uuid.UUID]
	CategoryID domain.Optional[uuid.UUID]
	Amount     domain.Optional[decimal.Decimal]
	Date       domain.Optional[time.Time]
	Note       domain.Optional[*string]
	Active     domain.Optional[bool]
}

// Create validates the income and credits the account in one
// transaction.
func (s *IncomeService) Create(ctx context.Context, userID uuid.UUID, input CreateIncomeInput) (*domain.Income, error) {
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
	account, err := repos.Accounts.GetByID(ctx, userID, input.AccountID)
	if err != nil {
		return nil, err
	}
	category, err := repos.Categories.GetByID(ctx, userID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.Type == domain.CategoryTypeExpense {
		return nil, domain.ErrInvalidCategoryType
	}

	note, err := cleanNotePtr(input.Note)
	if err != nil {
		return nil, err
	}

	income := &domain.Income{
		UserID:     userID,
		Name:       name,
		AccountID:  account.ID,
		CategoryID: category.ID,
		Currency:   account.Currency,
		Amount:     input.Amount,
		Date:       util.DateOnly(input.Date),
		Note:       note,
		Active:     true,
	}

	var created *domain.Income
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		created, err = repos.Incomes.Create(ctx, income)
		if err != nil {
			return err
		}
		_, err = s.ledger.AdjustAccount(ctx, repos, userID, account.ID, input.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("income_id", created.ID.String()).
		Str("amount", created.Amount.String()).
		Msg("Income created")

	s.notifier.Notify(userID, "Balance updated", created.Name, domain.SeveritySuccess)
	if _, err := s.dashboards.Recalculate(ctx, userID); err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns one income.
func (s *IncomeService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Income, error) {
	return s.store.Repos().Incomes.GetByID(ctx, userID, id)
}

// List returns the user's incomes.
func (s *IncomeService) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Income, error) {
	return s.store.Repos().Incomes.ListByUser(ctx, userID, includeArchived)
}

// Update applies a partial update, reconciling balances when the
// amount or the account changes: the credit is removed from the old
// account before the new credit lands.
func (s *IncomeService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateIncomeInput) (*domain.Income, error) {
	repos := s.store.Repos()
	income, err := repos.Incomes.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	oldAmount := income.Amount
	oldAccountID := income.AccountID

	if name, ok := input.Name.Get(); ok {
		canonical, err := domain.CanonicalName(name)
		if err != nil {
			return nil, err
		}
		if canonical != income.Name {
			if err := s.ensureNameFree(ctx, userID, canonical, income.ID); err != nil {
				return nil, err
			}
			income.Name = canonical
		}
	}

	if categoryID, ok := input.CategoryID.Get(); ok && categoryID != income.CategoryID {
		category, err := repos.Categories.GetByID(ctx, userID, categoryID)
		if err != nil {
			return nil, err
		}
		if category.Type == domain.CategoryTypeExpense {
			return nil, domain.ErrInvalidCategoryType
		}
		income.CategoryID = categoryID
	}

	if amount, ok := input.Amount.Get(); ok {
		if err := validateAmount(amount); err != nil {
			return nil, err
		}
		income.Amount = amount
	}

	if date, ok := input.Date.Get(); ok {
		if err := validateDate(date, s.clock); err != nil {
			return nil, err
		}
		income.Date = util.DateOnly(date)
	}

	if accountID, ok := input.AccountID.Get(); ok && accountID != oldAccountID {
		account, err := repos.Accounts.GetByID(ctx, userID, accountID)
		if err != nil {
			return nil, err
		}
		if account.Currency != income.Currency {
			return nil, domain.ErrCurrencyMismatch
		}
		income.AccountID = accountID
	}

	income.Note, err = applyNote(income.Note, input.Note)
	if err != nil {
		return nil, err
	}
	if active, ok := input.Active.Get(); ok {
		income.Active = active
	}

	accountChanged := income.AccountID != oldAccountID
	amountChanged := !income.Amount.Equal(oldAmount)

	var updated *domain.Income
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		switch {
		case accountChanged:
			if _, err := s.ledger.AdjustAccount(ctx, repos, userID, oldAccountID, oldAmount.Neg()); err != nil {
				return err
			}
			if _, err := s.ledger.AdjustAccount(ctx, repos, userID, income.AccountID, income.Amount); err != nil {
				return err
			}
		case amountChanged:
			if _, err := s.ledger.AdjustAccount(ctx, repos, userID, income.AccountID, income.Amount.Sub(oldAmount)); err != nil {
				return err
			}
		}
		updated, err = repos.Incomes.Update(ctx, income)
		return err
	})
	if err != nil {
		return nil, err
	}

	if accountChanged || amountChanged {
		s.notifier.Notify(userID, "Balance updated", updated.Name, domain.SeveritySuccess)
	} else {
		s.notifier.Notify(userID, "Income updated", updated.Name, domain.SeverityInfo)
	}
	if _, err := s.dashboards.Recalculate(ctx, userID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an income and takes its credit back from the account.
// The removal fails if the account has already spent the money.
func (s *IncomeService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	income, err := s.store.Repos().Incomes.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		if _, err := s.ledger.AdjustAccount(ctx, repos, userID, income.AccountID, income.Amount.Neg()); err != nil {
			return err
		}
		return repos.Incomes.Delete(ctx, userID, id)
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("income_id", id.String()).
		Msg("Income deleted")

	s.notifier.Notify(userID, "Balance updated", income.Name, domain.SeverityWarning)
	_, err = s.dashboards.Recalculate(ctx, userID)
	return err
}

func (s *IncomeService) ensureNameFree(ctx context.Context, userID uuid.UUID, name string, selfID uuid.UUID) error {
	existing, err := s.store.Repos().Incomes.GetByName(ctx, userID, name)
	if errors.Is(err, domain.ErrIncomeNotFound) {
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
