package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

func TestVariation(t *testing.T) {
	cases := []struct {
		name          string
		current, last string
		want          float64
	}{
		{"equal totals", "100", "100", 0},
		{"both zero", "0", "0", 0},
		{"growth from zero", "10", "0", 100},
		{"growth reports the plain ratio", "150", "100", 150},
		{"decline reports the ratio minus 100", "50", "100", -50},
		{"drop to zero", "0", "80", -100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Variation(amount(tc.current), amount(tc.last))
			assert.InDelta(t, tc.want, got, 0.0001)
		})
	}
}

func TestDashboardGetBuildsOnFirstAccess(t *testing.T) {
	e := newEnv()
	e.seedAccount("Main", "USD", "250")

	dashboard, err := e.dashboards.Get(context.Background(), e.userID)
	require.NoError(t, err)

	assert.Equal(t, "USD", dashboard.Currency)
	assert.True(t, dashboard.AccountsTotal.Equal(amount("250")))
	assert.True(t, dashboard.NetTotal.Equal(amount("250")))
}

func TestDashboardIncomeStats(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "0")
	salary := e.seedCategory("Salary", domain.CategoryTypeIncome)

	e.store.Incomes().Seed(&domain.Income{
		UserID: e.userID, Name: "June pay", AccountID: account.ID,
		CategoryID: salary.ID, Currency: "USD", Amount: amount("100"),
		Date: june(10), Active: true,
	})
	e.store.Incomes().Seed(&domain.Income{
		UserID: e.userID, Name: "May pay", AccountID: account.ID,
		CategoryID: salary.ID, Currency: "USD", Amount: amount("50"),
		Date: may(10), Active: true,
	})

	dashboard, err := e.dashboards.Recalculate(context.Background(), e.userID)
	require.NoError(t, err)

	assert.True(t, dashboard.Income.MonthTotal.Equal(amount("100")))
	assert.True(t, dashboard.Income.LastMonthTotal.Equal(amount("50")))
	assert.InDelta(t, 200.0, dashboard.Income.Variation, 0.0001)
	require.Len(t, dashboard.Income.Groups, 1)
	assert.Equal(t, "Salary", dashboard.Income.Top.Name)
	assert.InDelta(t, 200.0, dashboard.Income.TopVariation, 0.0001)
}

func TestDashboardExcludesAdjustmentCategory(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "0")
	salary := e.seedCategory("Salary", domain.CategoryTypeIncome)
	adjustment := e.seedCategory(domain.AdjustmentCategoryName, domain.CategoryTypeNA)

	e.store.Incomes().Seed(&domain.Income{
		UserID: e.userID, Name: "June pay", AccountID: account.ID,
		CategoryID: salary.ID, Currency: "USD", Amount: amount("100"),
		Date: june(10), Active: true,
	})
	e.store.Incomes().Seed(&domain.Income{
		UserID: e.userID, Name: "Correction", AccountID: account.ID,
		CategoryID: adjustment.ID, Currency: "USD", Amount: amount("999"),
		Date: june(11), Active: true,
	})

	dashboard, err := e.dashboards.Recalculate(context.Background(), e.userID)
	require.NoError(t, err)
	assert.True(t, dashboard.Income.MonthTotal.Equal(amount("100")))
}

func TestDashboardSaveTopIsShareOfMonth(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "0")
	goal := e.seedGoal("Trip", "USD", "0")

	e.store.Saves().Seed(&domain.Save{
		UserID: e.userID, Name: "Trip fund", SourceAccountID: account.ID,
		SavingGoalID: goal.ID, Currency: "USD", Amount: amount("75"),
		Date: june(5), Active: true,
	})
	e.store.Saves().Seed(&domain.Save{
		UserID: e.userID, Name: "Rainy day", SourceAccountID: account.ID,
		SavingGoalID: goal.ID, Currency: "USD", Amount: amount("25"),
		Date: june(6), Active: true,
	})

	dashboard, err := e.dashboards.Recalculate(context.Background(), e.userID)
	require.NoError(t, err)

	assert.True(t, dashboard.Save.MonthTotal.Equal(amount("100")))
	assert.Equal(t, "Trip fund", dashboard.Save.Top.Name)
	assert.InDelta(t, 75.0, dashboard.Save.TopVariation, 0.0001)
}

func TestDashboardNetTotalSumsHolders(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	goal := e.seedGoal("Trip", "USD", "0")

	e.store.Budgets().Seed(&domain.Budget{
		UserID: e.userID, Name: "Food", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD",
		Amount: amount("60"), Expended: amount("10"),
		StartDate: june(1), EndDate: june(30), Active: true,
	})
	e.store.Saves().Seed(&domain.Save{
		UserID: e.userID, Name: "Trip fund", SourceAccountID: account.ID,
		SavingGoalID: goal.ID, Currency: "USD", Amount: amount("40"),
		Date: june(5), Active: true,
	})

	dashboard, err := e.dashboards.Recalculate(context.Background(), e.userID)
	require.NoError(t, err)

	assert.True(t, dashboard.AccountsTotal.Equal(amount("100")))
	assert.True(t, dashboard.BudgetsTotal.Equal(amount("50")), "budget counts its remaining balance")
	assert.True(t, dashboard.GoalsTotal.Equal(amount("40")), "goal total is the user's own contribution")
	assert.True(t, dashboard.NetTotal.Equal(amount("190")))
}

func TestDashboardSetCurrency(t *testing.T) {
	e := newEnv()
	e.seedAccount("Main", "USD", "100")

	_, err := e.dashboards.SetCurrency(context.Background(), e.userID, "XXX")
	require.ErrorIs(t, err, domain.ErrUnknownCurrency)

	dashboard, err := e.dashboards.SetCurrency(context.Background(), e.userID, "EUR")
	require.NoError(t, err)
	assert.Equal(t, "EUR", dashboard.Currency)

	// Later rebuilds keep the chosen currency.
	dashboard, err = e.dashboards.Recalculate(context.Background(), e.userID)
	require.NoError(t, err)
	assert.Equal(t, "EUR", dashboard.Currency)
}

func TestDashboardSkipsArchivedAccounts(t *testing.T) {
	e := newEnv()
	e.seedAccount("Active", "USD", "100")
	e.store.Accounts().Seed(&domain.Account{
		UserID: e.userID, Name: "Old", Type: domain.AccountTypeBank,
		Currency: "USD", Balance: decimal.NewFromInt(500), Active: false,
	})

	dashboard, err := e.dashboards.Recalculate(context.Background(), e.userID)
	require.NoError(t, err)
	assert.True(t, dashboard.AccountsTotal.Equal(amount("100")))
}
