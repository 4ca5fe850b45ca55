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

// BudgetService manages budget lifecycle. A budget reserves money from
// its account: creation debits the account by the budget amount and
// deletion releases the full amount back, regardless of how much of it
// was expended in the meantime.
type BudgetService struct {
	store      domain.Store
	ledger     *Ledger
	notifier   domain.Notifier
	clock      domain.Clock
	dashboards *DashboardService
}

// NewBudgetService creates a BudgetService.
func NewBudgetService(store domain.Store, ledger *Ledger, notifier domain.Notifier, clock domain.Clock, dashboards *DashboardService) *BudgetService {
	return &BudgetService{
		store:      store,
		ledger:     ledger,
		notifier:   notifier,
		clock:      clock,
		dashboards: dashboards,
	}
}

// CreateBudgetInput contains the fields to create a budget.
type CreateBudgetInput struct {
	Name       string
	AccountID  uuid.UUID
	CategoryID uuid.UUID
	Amount     decimal.Decimal
	StartDate  time.Time
	EndDate    time.Time
	Note       *string
}

// UpdateBudgetInput contains the partial fields to update a budget.
// Expended is accepted only to be rejected; it changes through
// expenses.
type UpdateBudgetInput struct {
	Name       domain.Optional[string]
	AccountID  domain.Optional[uuid.UUID]
	CategoryID domain.Optional[uuid.UUID]
	Amount     domain.Optional[decimal.Decimal]
	StartDate  domain.Optional[time.Time]
	EndDate    domain.Optional[time.Time]
	Note       domain.Optional[*string]
	Active     domain.Optional[bool]
	Expended   domain.Optional[decimal.Decimal]
}

// Create validates the budget and reserves its amount from the account
// in one transaction.
func (s *BudgetService) Create(ctx context.Context, userID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
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
	if err := validateDate(input.StartDate, s.clock); err != nil {
		return nil, err
	}
	if !util.DateOnly(input.EndDate).After(util.DateOnly(input.StartDate)) {
		return nil, domain.ErrEndDateNotAfterStart
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
	if category.Type != domain.CategoryTypeExpense {
		return nil, domain.ErrInvalidCategoryType
	}
	if input.Amount.GreaterThan(account.Balance) {
		return nil, domain.ErrInsufficientFunds
	}

	note, err := cleanNotePtr(input.Note)
	if err != nil {
		return nil, err
	}

	budget := &domain.Budget{
		UserID:     userID,
		Name:       name,
		AccountID:  account.ID,
		CategoryID: category.ID,
		Currency:   account.Currency,
		Amount:     input.Amount,
		Expended:   decimal.Zero,
		StartDate:  util.DateOnly(input.StartDate),
		EndDate:    util.DateOnly(input.EndDate),
		Note:       note,
		Active:     true,
	}

	var created *domain.Budget
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		created, err = repos.Budgets.Create(ctx, budget)
		if err != nil {
			return err
		}
		_, err = s.ledger.AdjustAccount(ctx, repos, userID, account.ID, input.Amount.Neg())
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("budget_id", created.ID.String()).
		Str("amount", created.Amount.String()).
		Msg("Budget created")

	s.notifier.Notify(userID, "Balance updated", created.Name, domain.SeveritySuccess)
	if _, err := s.dashboards.Recalculate(ctx, userID); err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns one budget.
func (s *BudgetService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Budget, error) {
	return s.store.Repos().Budgets.GetByID(ctx, userID, id)
}

// List returns the user's budgets.
func (s *BudgetService) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Budget, error) {
	return s.store.Repos().Budgets.ListByUser(ctx, userID, includeArchived)
}

// Update applies a partial update. Amount and account changes restore
// the old reserve before taking the new one, inside one transaction.
func (s *BudgetService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateBudgetInput) (*domain.Budget, error) {
	if input.Expended.IsSet() {
		return nil, domain.ErrManualBalanceEdit
	}

	repos := s.store.Repos()
	budget, err := repos.Budgets.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	oldAmount := budget.Amount
	oldAccountID := budget.AccountID

	if name, ok := input.Name.Get(); ok {
		canonical, err := domain.CanonicalName(name)
		if err != nil {
			return nil, err
		}
		if canonical != budget.Name {
			if err := s.ensureNameFree(ctx, userID, canonical, budget.ID); err != nil {
				return nil, err
			}
			budget.Name = canonical
		}
	}

	if categoryID, ok := input.CategoryID.Get(); ok && categoryID != budget.CategoryID {
		category, err := repos.Categories.GetByID(ctx, userID, categoryID)
		if err != nil {
			return nil, err
		}
		if category.Type != domain.CategoryTypeExpense {
			return nil, domain.ErrInvalidCategoryType
		}
		budget.CategoryID = categoryID
	}

	if startDate, ok := input.StartDate.Get(); ok {
		if err := validateDate(startDate, s.clock); err != nil {
			return nil, err
		}
		budget.StartDate = util.DateOnly(startDate)
	}
	if endDate, ok := input.EndDate.Get(); ok {
		budget.EndDate = util.DateOnly(endDate)
	}
	if !budget.EndDate.After(budget.StartDate) {
		return nil, domain.ErrEndDateNotAfterStart
	}

	if amount, ok := input.Amount.Get(); ok {
		if err := validateAmount(amount); err != nil {
			return nil, err
		}
		if amount.LessThan(budget.Expended) {
			return nil, domain.ErrAmountBelowExpended
		}
		budget.Amount = amount
	}

	if accountID, ok := input.AccountID.Get(); ok && accountID != oldAccountID {
		account, err := repos.Accounts.GetByID(ctx, userID, accountID)
		if err != nil {
			return nil, err
		}
		if account.Currency != budget.Currency {
			expenseRefs, err := repos.Expenses.CountByBudget(ctx, userID, budget.ID)
			if err != nil {
				return nil, err
			}
			if expenseRefs > 0 {
				return nil, domain.ErrEntityInUse
			}
			budget.Currency = account.Currency
		}
		budget.AccountID = accountID
	}

	budget.Note, err = applyNote(budget.Note, input.Note)
	if err != nil {
		return nil, err
	}
	if active, ok := input.Active.Get(); ok {
		budget.Active = active
	}

	accountChanged := budget.AccountID != oldAccountID
	amountChanged := !budget.Amount.Equal(oldAmount)

	var updated *domain.Budget
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		switch {
		case accountChanged:
			// Give the old account its reserve back before taking the
			// new reserve from the new account.
			if _, err := s.ledger.AdjustAccount(ctx, repos, userID, oldAccountID, oldAmount); err != nil {
				return err
			}
			if _, err := s.ledger.AdjustAccount(ctx, repos, userID, budget.AccountID, budget.Amount.Neg()); err != nil {
				return err
			}
		case amountChanged:
			if _, err := s.ledger.AdjustAccount(ctx, repos, userID, budget.AccountID, oldAmount.Sub(budget.Amount)); err != nil {
				return err
			}
		}
		updated, err = repos.Budgets.Update(ctx, budget)
		return err
	})
	if err != nil {
		return nil, err
	}

	if accountChanged || amountChanged {
		s.notifier.Notify(userID, "Balance updated", updated.Name, domain.SeveritySuccess)
	} else {
		s.notifier.Notify(userID, "Budget updated", updated.Name, domain.SeverityInfo)
	}
	if _, err := s.dashboards.Recalculate(ctx, userID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a budget that no expense references and returns the
// full reserved amount to the account.
func (s *BudgetService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	repos := s.store.Repos()
	budget, err := repos.Budgets.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	expenseRefs, err := repos.Expenses.CountByBudget(ctx, userID, budget.ID)
	if err != nil {
		return err
	}
	if expenseRefs > 0 {
		return domain.ErrEntityInUse
	}

	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		if _, err := s.ledger.AdjustAccount(ctx, repos, userID, budget.AccountID, budget.Amount); err != nil {
			return err
		}
		return repos.Budgets.Delete(ctx, userID, id)
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("budget_id", id.String()).
		Str("released", budget.Amount.String()).
		Msg("Budget deleted")

	s.notifier.Notify(userID, "Balance updated", budget.Name, domain.SeverityWarning)
	_, err = s.dashboards.Recalculate(ctx, userID)
	return err
}

func (s *BudgetService) ensureNameFree(ctx context.Context, userID uuid.UUID, name string, selfID uuid.UUID) error {
	existing, err := s.store.Repos().Budgets.GetByName(ctx, userID, name)
	if errors.Is(err, domain.ErrBudgetNotFound) {
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
