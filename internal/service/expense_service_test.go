package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

func TestExpenseCreateRequiresExactlyOneTarget(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	budget := e.store.Budgets().Seed(&domain.Budget{
		UserID: e.userID, Name: "Food", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD",
		Amount: amount("50"), Expended: amount("0"),
		StartDate: june(1), EndDate: june(30), Active: true,
	})

	_, err := e.expenses().Create(context.Background(), e.userID, CreateExpenseInput{
		Name:       "Weekly shop",
		CategoryID: category.ID,
		Amount:     amount("40"),
		Date:       june(10),
	})
	assert.ErrorIs(t, err, domain.ErrNoExpenseTarget)

	accountID, budgetID := account.ID, budget.ID
	_, err = e.expenses().Create(context.Background(), e.userID, CreateExpenseInput{
		Name:       "Weekly shop",
		AccountID:  &accountID,
		BudgetID:   &budgetID,
		CategoryID: category.ID,
		Amount:     amount("40"),
		Date:       june(10),
	})
	assert.ErrorIs(t, err, domain.ErrTwoExpenseTargets)
}

func TestExpenseCreateFromAccount(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)

	accountID := account.ID
	expense, err := e.expenses().Create(context.Background(), e.userID, CreateExpenseInput{
		Name:       "Weekly shop",
		AccountID:  &accountID,
		CategoryID: category.ID,
		Amount:     amount("40"),
		Date:       june(10),
	})
	require.NoError(t, err)

	assert.Equal(t, "USD", expense.Currency)
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("60")))
}

func TestExpenseCreateFromBudget(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	budget := e.store.Budgets().Seed(&domain.Budget{
		UserID: e.userID, Name: "Food", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD",
		Amount: amount("50"), Expended: amount("0"),
		StartDate: june(1), EndDate: june(30), Active: true,
	})

	budgetID := budget.ID
	_, err := e.expenses().Create(context.Background(), e.userID, CreateExpenseInput{
		Name:       "Weekly shop",
		BudgetID:   &budgetID,
		CategoryID: category.ID,
		Amount:     amount("40"),
		Date:       june(10),
	})
	require.NoError(t, err)

	stored, err := e.store.Budgets().GetByID(context.Background(), e.userID, budget.ID)
	require.NoError(t, err)
	assert.True(t, stored.Expended.Equal(amount("40")))
	// The account is untouched; the budget already holds the reserve.
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("100")))
}

func TestExpenseCreateInsufficientBudgetBalance(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	budget := e.store.Budgets().Seed(&domain.Budget{
		UserID: e.userID, Name: "Food", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD",
		Amount: amount("50"), Expended: amount("30"),
		StartDate: june(1), EndDate: june(30), Active: true,
	})

	budgetID := budget.ID
	_, err := e.expenses().Create(context.Background(), e.userID, CreateExpenseInput{
		Name:       "Weekly shop",
		BudgetID:   &budgetID,
		CategoryID: category.ID,
		Amount:     amount("40"),
		Date:       june(10),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestExpenseCreateRejectsIncomeCategory(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	category := e.seedCategory("Salary", domain.CategoryTypeIncome)

	accountID := account.ID
	_, err := e.expenses().Create(context.Background(), e.userID, CreateExpenseInput{
		Name:       "Weekly shop",
		AccountID:  &accountID,
		CategoryID: category.ID,
		Amount:     amount("40"),
		Date:       june(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategoryType)
}

func TestExpenseUpdateMovesBetweenTargets(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "60")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	budget := e.store.Budgets().Seed(&domain.Budget{
		UserID: e.userID, Name: "Food", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD",
		Amount: amount("50"), Expended: amount("0"),
		StartDate: june(1), EndDate: june(30), Active: true,
	})
	accountID := account.ID
	expense := e.store.Expenses().Seed(&domain.Expense{
		UserID: e.userID, Name: "Weekly shop", AccountID: &accountID,
		CategoryID: category.ID, Currency: "USD", Amount: amount("40"),
		Date: june(10), Active: true,
	})

	budgetID := budget.ID
	updated, err := e.expenses().Update(context.Background(), e.userID, expense.ID, UpdateExpenseInput{
		AccountID: domain.Some[*uuid.UUID](nil),
		BudgetID:  domain.Some(&budgetID),
	})
	require.NoError(t, err)

	assert.Nil(t, updated.AccountID)
	require.NotNil(t, updated.BudgetID)

	// The account spend comes back, the budget takes it instead.
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("100")))
	stored, err := e.store.Budgets().GetByID(context.Background(), e.userID, budget.ID)
	require.NoError(t, err)
	assert.True(t, stored.Expended.Equal(amount("40")))
}

func TestExpenseDeleteRestoresTarget(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "60")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	accountID := account.ID
	expense := e.store.Expenses().Seed(&domain.Expense{
		UserID: e.userID, Name: "Weekly shop", AccountID: &accountID,
		CategoryID: category.ID, Currency: "USD", Amount: amount("40"),
		Date: june(10), Active: true,
	})

	require.NoError(t, e.expenses().Delete(context.Background(), e.userID, expense.ID))
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("100")))
}
