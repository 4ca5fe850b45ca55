package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
	"github.com/monedero/monedero-backend/internal/testutil"
)

// env wires the service stack onto in-memory repositories with a
// pinned clock.
type env struct {
	store      *testutil.MockStore
	notifier   *testutil.RecordingNotifier
	clock      testutil.FixedClock
	converter  *testutil.StaticConverter
	ledger     *Ledger
	dashboards *DashboardService
	userID     uuid.UUID
}

func newEnv() *env {
	store := testutil.NewMockStore()
	converter := testutil.NewStaticConverter("USD", "EUR")
	clock := testutil.FixedClock{Date: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)}

	return &env{
		store:      store,
		notifier:   &testutil.RecordingNotifier{},
		clock:      clock,
		converter:  converter,
		ledger:     NewLedger(),
		dashboards: NewDashboardService(store, converter, clock, "USD"),
		userID:     uuid.New(),
	}
}

func (e *env) accounts() *AccountService {
	return NewAccountService(e.store, e.notifier, e.converter, e.dashboards)
}

func (e *env) categories() *CategoryService {
	return NewCategoryService(e.store, e.notifier, e.dashboards)
}

func (e *env) budgets() *BudgetService {
	return NewBudgetService(e.store, e.ledger, e.notifier, e.clock, e.dashboards)
}

func (e *env) incomes() *IncomeService {
	return NewIncomeService(e.store, e.ledger, e.notifier, e.clock, e.dashboards)
}

func (e *env) expenses() *ExpenseService {
	return NewExpenseService(e.store, e.ledger, e.notifier, e.clock, e.dashboards)
}

func (e *env) transfers() *TransferService {
	return NewTransferService(e.store, e.ledger, e.notifier, e.clock, e.dashboards)
}

func (e *env) externalTransfers() *ExternalTransferService {
	return NewExternalTransferService(e.store, e.ledger, e.notifier, e.clock, e.dashboards)
}

func (e *env) saveService() *SaveService {
	return NewSaveService(e.store, e.ledger, e.notifier, e.clock, e.dashboards)
}

func (e *env) savingGoals() *SavingGoalService {
	return NewSavingGoalService(e.store, e.notifier, e.clock, e.converter)
}

func (e *env) seedAccount(name, currency, balance string) *domain.Account {
	return e.store.Accounts().Seed(&domain.Account{
		UserID:   e.userID,
		Name:     name,
		Type:     domain.AccountTypeBank,
		Currency: currency,
		Balance:  decimal.RequireFromString(balance),
		Active:   true,
	})
}

func (e *env) seedCategory(name string, kind domain.CategoryType) *domain.Category {
	return e.store.Categories().Seed(&domain.Category{
		UserID: e.userID,
		Name:   name,
		Type:   kind,
		Active: true,
	})
}

func (e *env) seedGoal(name, currency, balance string) *domain.SavingGoal {
	return e.store.SavingGoals().Seed(&domain.SavingGoal{
		Name:      name,
		Currency:  currency,
		Amount:    decimal.RequireFromString("1000"),
		Balance:   decimal.RequireFromString(balance),
		StartDate: june(1),
		LimitDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		Active:    true,
	})
}

func (e *env) accountBalance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	account, err := e.store.Accounts().GetByID(context.Background(), e.userID, id)
	require.NoError(t, err)
	return account.Balance
}

// june pins a day in the fixture's current month.
func june(day int) time.Time {
	return time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC)
}

// may pins a day in the fixture's previous month.
func may(day int) time.Time {
	return time.Date(2025, 5, day, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
