package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

func TestBudgetCreateReservesAmount(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "500")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)

	budget, err := e.budgets().Create(context.Background(), e.userID, CreateBudgetInput{
		Name:       "Food",
		AccountID:  account.ID,
		CategoryID: category.ID,
		Amount:     amount("200"),
		StartDate:  june(1),
		EndDate:    june(30),
	})
	require.NoError(t, err)

	assert.True(t, budget.Expended.IsZero())
	assert.Equal(t, "USD", budget.Currency)
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("300")))
}

func TestBudgetCreateInsufficientFunds(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "500")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)

	_, err := e.budgets().Create(context.Background(), e.userID, CreateBudgetInput{
		Name:       "Food",
		AccountID:  account.ID,
		CategoryID: category.ID,
		Amount:     amount("600"),
		StartDate:  june(1),
		EndDate:    june(30),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("500")))
}

func TestBudgetCreateRequiresExpenseCategory(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "500")
	category := e.seedCategory("Salary", domain.CategoryTypeIncome)

	_, err := e.budgets().Create(context.Background(), e.userID, CreateBudgetInput{
		Name:       "Food",
		AccountID:  account.ID,
		CategoryID: category.ID,
		Amount:     amount("100"),
		StartDate:  june(1),
		EndDate:    june(30),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategoryType)
}

func TestBudgetCreateEndBeforeStart(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "500")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)

	_, err := e.budgets().Create(context.Background(), e.userID, CreateBudgetInput{
		Name:       "Food",
		AccountID:  account.ID,
		CategoryID: category.ID,
		Amount:     amount("100"),
		StartDate:  june(10),
		EndDate:    june(10),
	})
	assert.ErrorIs(t, err, domain.ErrEndDateNotAfterStart)
}

func TestBudgetUpdateRejectsExpendedEdit(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "300")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	budget := e.store.Budgets().Seed(&domain.Budget{
		UserID: e.userID, Name: "Food", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD",
		Amount: amount("200"), Expended: amount("50"),
		StartDate: june(1), EndDate: june(30), Active: true,
	})

	_, err := e.budgets().Update(context.Background(), e.userID, budget.ID, UpdateBudgetInput{
		Expended: domain.Some(amount("0")),
	})
	assert.ErrorIs(t, err, domain.ErrManualBalanceEdit)
}

func TestBudgetUpdateAmountReconcilesAccount(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "300")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	budget := e.store.Budgets().Seed(&domain.Budget{
		UserID: e.userID, Name: "Food", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD",
		Amount: amount("200"), Expended: amount("50"),
		StartDate: june(1), EndDate: june(30), Active: true,
	})

	updated, err := e.budgets().Update(context.Background(), e.userID, budget.ID, UpdateBudgetInput{
		Amount: domain.Some(amount("150")),
	})
	require.NoError(t, err)

	// Shrinking the reserve by 50 returns 50 to the account.
	assert.True(t, updated.Amount.Equal(amount("150")))
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("350")))
}

func TestBudgetUpdateAmountBelowExpended(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "300")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	budget := e.store.Budgets().Seed(&domain.Budget{
		UserID: e.userID, Name: "Food", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD",
		Amount: amount("200"), Expended: amount("150"),
		StartDate: june(1), EndDate: june(30), Active: true,
	})

	_, err := e.budgets().Update(context.Background(), e.userID, budget.ID, UpdateBudgetInput{
		Amount: domain.Some(amount("100")),
	})
	assert.ErrorIs(t, err, domain.ErrAmountBelowExpended)
}

func TestBudgetUpdateMovesReserveBetweenAccounts(t *testing.T) {
	e := newEnv()
	oldAccount := e.seedAccount("Main", "USD", "300")
	newAccount := e.seedAccount("Backup", "USD", "250")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	budget := e.store.Budgets().Seed(&domain.Budget{
		UserID: e.userID, Name: "Food", AccountID: oldAccount.ID,
		CategoryID: category.ID, Currency: "USD",
		Amount: amount("200"), Expended: amount("0"),
		StartDate: june(1), EndDate: june(30), Active: true,
	})

	_, err := e.budgets().Update(context.Background(), e.userID, budget.ID, UpdateBudgetInput{
		AccountID: domain.Some(newAccount.ID),
	})
	require.NoError(t, err)

	assert.True(t, e.accountBalance(t, oldAccount.ID).Equal(amount("500")))
	assert.True(t, e.accountBalance(t, newAccount.ID).Equal(amount("50")))
}

func TestBudgetDeleteReleasesFullAmount(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "300")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	budget := e.store.Budgets().Seed(&domain.Budget{
		UserID: e.userID, Name: "Food", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD",
		Amount: amount("200"), Expended: amount("150"),
		StartDate: june(1), EndDate: june(30), Active: true,
	})

	require.NoError(t, e.budgets().Delete(context.Background(), e.userID, budget.ID))

	// The full reserve comes back regardless of how much was expended.
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("500")))
}

func TestBudgetDeleteBlockedByExpenses(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "300")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	budget := e.store.Budgets().Seed(&domain.Budget{
		UserID: e.userID, Name: "Food", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD",
		Amount: amount("200"), Expended: amount("40"),
		StartDate: june(1), EndDate: june(30), Active: true,
	})
	budgetID := budget.ID
	e.store.Expenses().Seed(&domain.Expense{
		UserID: e.userID, Name: "Weekly shop", BudgetID: &budgetID,
		CategoryID: category.ID, Currency: "USD", Amount: amount("40"),
		Date: june(5), Active: true,
	})

	err := e.budgets().Delete(context.Background(), e.userID, budget.ID)
	assert.ErrorIs(t, err, domain.ErrEntityInUse)
}
