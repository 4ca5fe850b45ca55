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

// ExpenseService manages expense lifecycle. An expense spends from
// exactly one target: an account, whose balance drops, or a budget,
// whose expended total grows.
type ExpenseService struct {
	store      domain.Store
	ledger     *Ledger
	notifier   domain.Notifier
	clock      domain.Clock
	dashboards *DashboardService
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(store domain.Store, ledger *Ledger, notifier domain.Notifier, clock domain.Clock, dashboards *DashboardService) *ExpenseService {
	return &ExpenseService{
		store:      store,
		ledger:     ledger,
		notifier:   notifier,
		clock:      clock,
		dashboards: dashboards,
	}
}

// CreateExpenseInput contains the fields to create an expense. Exactly
// one of AccountID and BudgetID must be set.
type CreateExpenseInput struct {
	Name       string
	AccountID  *uuid.UUID
	BudgetID   *uuid.UUID
	CategoryID uuid.UUID
	Amount     decimal.Decimal
	Date       time.Time
	Note       *string
}

// UpdateExpenseInput contains the partial fields to update an expense.
// Setting AccountID while clearing BudgetID (or the reverse) moves the
// expense between target kinds.
type UpdateExpenseInput struct {
	Name       domain.Optional[string]
	AccountID  domain.Optional[*uuid.UUID]
	BudgetID   domain.Optional[*uuid.UUID]
	CategoryID domain.Optional[uuid.UUID]
	Amount     domain.Optional[decimal.Decimal]
	Date       domain.Optional[time.Time]
	Note       domain.Optional[*string]
	Active     domain.Optional[bool]
}

// Create validates the expense, checks availability on its target and
// applies the spend in one transaction.
func (s *ExpenseService) Create(ctx context.Context, userID uuid.UUID, input CreateExpenseInput) (*domain.Expense, error) {
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
	if input.AccountID == nil && input.BudgetID == nil {
		return nil, domain.ErrNoExpenseTarget
	}
	if input.AccountID != nil && input.BudgetID != nil {
		return nil, domain.ErrTwoExpenseTargets
	}

	repos := s.store.Repos()
	category, err := repos.Categories.GetByID(ctx, userID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.Type == domain.CategoryTypeIncome {
		return nil, domain.ErrInvalidCategoryType
	}

	var currency string
	if input.AccountID != nil {
		account, err := repos.Accounts.GetByID(ctx, userID, *input.AccountID)
		if err != nil {
			return nil, err
		}
		if input.Amount.GreaterThan(account.Balance) {
			return nil, domain.ErrInsufficientFunds
		}
		currency = account.Currency
	} else {
		budget, err := repos.Budgets.GetByID(ctx, userID, *input.BudgetID)
		if err != nil {
			return nil, err
		}
		if input.Amount.GreaterThan(budget.Balance()) {
			return nil, domain.ErrInsufficientFunds
		}
		currency = budget.Currency
	}

	note, err := cleanNotePtr(input.Note)
	if err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		UserID:     userID,
		Name:       name,
		AccountID:  input.AccountID,
		BudgetID:   input.BudgetID,
		CategoryID: category.ID,
		Currency:   currency,
		Amount:     input.Amount,
		Date:       util.DateOnly(input.Date),
		Note:       note,
		Active:     true,
	}

	var created *domain.Expense
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		created, err = repos.Expenses.Create(ctx, expense)
		if err != nil {
			return err
		}
		return s.applySpend(ctx, repos, userID, expense.AccountID, expense.BudgetID, input.Amount)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("expense_id", created.ID.String()).
		Str("amount", created.Amount.String()).
		Msg("Expense created")

	s.notifier.Notify(userID, "Balance updated", created.Name, domain.SeveritySuccess)
	if _, err := s.dashboards.Recalculate(ctx, userID); err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns one expense.
func (s *ExpenseService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Expense, error) {
	return s.store.Repos().Expenses.GetByID(ctx, userID, id)
}

// List returns the user's expenses.
func (s *ExpenseService) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Expense, error) {
	return s.store.Repos().Expenses.ListByUser(ctx, userID, includeArchived)
}

// Update applies a partial update. When the target or the amount
// changes the old spend is given back before the new spend is taken,
// all inside one transaction.
func (s *ExpenseService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateExpenseInput) (*domain.Expense, error) {
	repos := s.store.Repos()
	expense, err := repos.Expenses.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	oldAmount := expense.Amount
	oldAccountID := expense.AccountID
	oldBudgetID := expense.BudgetID

	if name, ok := input.Name.Get(); ok {
		canonical, err := domain.CanonicalName(name)
		if err != nil {
			return nil, err
		}
		if canonical != expense.Name {
			if err := s.ensureNameFree(ctx, userID, canonical, expense.ID); err != nil {
				return nil, err
			}
			expense.Name = canonical
		}
	}

	if categoryID, ok := input.CategoryID.Get(); ok && categoryID != expense.CategoryID {
		category, err := repos.Categories.GetByID(ctx, userID, categoryID)
		if err != nil {
			return nil, err
		}
		if category.Type == domain.CategoryTypeIncome {
			return nil, domain.ErrInvalidCategoryType
		}
		expense.CategoryID = categoryID
	}

	if amount, ok := input.Amount.Get(); ok {
		if err := validateAmount(amount); err != nil {
			return nil, err
		}
		expense.Amount = amount
	}

	if date, ok := input.Date.Get(); ok {
		if err := validateDate(date, s.clock); err != nil {
			return nil, err
		}
		expense.Date = util.DateOnly(date)
	}

	if accountID, ok := input.AccountID.Get(); ok {
		expense.AccountID = accountID
	}
	if budgetID, ok := input.BudgetID.Get(); ok {
		expense.BudgetID = budgetID
	}
	if expense.AccountID == nil && expense.BudgetID == nil {
		return nil, domain.ErrNoExpenseTarget
	}
	if expense.AccountID != nil && expense.BudgetID != nil {
		return nil, domain.ErrTwoExpenseTargets
	}

	// The new target must exist and keep the expense currency.
	if expense.AccountID != nil {
		account, err := repos.Accounts.GetByID(ctx, userID, *expense.AccountID)
		if err != nil {
			return nil, err
		}
		if account.Currency != expense.Currency {
			return nil, domain.ErrCurrencyMismatch
		}
	} else {
		budget, err := repos.Budgets.GetByID(ctx, userID, *expense.BudgetID)
		if err != nil {
			return nil, err
		}
		if budget.Currency != expense.Currency {
			return nil, domain.ErrCurrencyMismatch
		}
	}

	expense.Note, err = applyNote(expense.Note, input.Note)
	if err != nil {
		return nil, err
	}
	if active, ok := input.Active.Get(); ok {
		expense.Active = active
	}

	targetChanged := !uuidPtrEqual(expense.AccountID, oldAccountID) || !uuidPtrEqual(expense.BudgetID, oldBudgetID)
	amountChanged := !expense.Amount.Equal(oldAmount)

	var updated *domain.Expense
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		if targetChanged || amountChanged {
			if err := s.restoreSpend(ctx, repos, userID, oldAccountID, oldBudgetID, oldAmount); err != nil {
				return err
			}
			if err := s.applySpend(ctx, repos, userID, expense.AccountID, expense.BudgetID, expense.Amount); err != nil {
				return err
			}
		}
		updated, err = repos.Expenses.Update(ctx, expense)
		return err
	})
	if err != nil {
		return nil, err
	}

	if targetChanged || amountChanged {
		s.notifier.Notify(userID, "Balance updated", updated.Name, domain.SeveritySuccess)
	} else {
		s.notifier.Notify(userID, "Expense updated", updated.Name, domain.SeverityInfo)
	}
	if _, err := s.dashboards.Recalculate(ctx, userID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an expense and gives the spend back to its target.
func (s *ExpenseService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	expense, err := s.store.Repos().Expenses.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		if err := s.restoreSpend(ctx, repos, userID, expense.AccountID, expense.BudgetID, expense.Amount); err != nil {
			return err
		}
		return repos.Expenses.Delete(ctx, userID, id)
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("expense_id", id.String()).
		Msg("Expense deleted")

	s.notifier.Notify(userID, "Balance updated", expense.Name, domain.SeverityWarning)
	_, err = s.dashboards.Recalculate(ctx, userID)
	return err
}

// applySpend takes amount from the target.
func (s *ExpenseService) applySpend(ctx context.Context, repos *domain.Repositories, userID uuid.UUID, accountID, budgetID *uuid.UUID, amount decimal.Decimal) error {
	if accountID != nil {
		_, err := s.ledger.AdjustAccount(ctx, repos, userID, *accountID, amount.Neg())
		return err
	}
	_, err := s.ledger.AdjustBudgetExpended(ctx, repos, userID, *budgetID, amount)
	return err
}

// restoreSpend gives amount back to the target.
func (s *ExpenseService) restoreSpend(ctx context.Context, repos *domain.Repositories, userID uuid.UUID, accountID, budgetID *uuid.UUID, amount decimal.Decimal) error {
	if accountID != nil {
		_, err := s.ledger.AdjustAccount(ctx, repos, userID, *accountID, amount)
		return err
	}
	_, err := s.ledger.AdjustBudgetExpended(ctx, repos, userID, *budgetID, amount.Neg())
	return err
}

func (s *ExpenseService) ensureNameFree(ctx context.Context, userID uuid.UUID, name string, selfID uuid.UUID) error {
	existing, err := s.store.Repos().Expenses.GetByName(ctx, userID, name)
	if errors.Is(err, domain.ErrExpenseNotFound) {
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

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
