package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

// After any sequence of movements the money a user holds across
// accounts, budget reserves and goal contributions must equal net
// income minus spending.
func TestBalancesReconcileAfterMutationSequence(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	account := e.seedAccount("Main", "USD", "0")
	salary := e.seedCategory("Salary", domain.CategoryTypeIncome)
	groceries := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	goal := e.seedGoal("Trip", "USD", "0")

	_, err := e.incomes().Create(ctx, e.userID, CreateIncomeInput{
		Name: "June pay", AccountID: account.ID, CategoryID: salary.ID,
		Amount: amount("200"), Date: june(1),
	})
	require.NoError(t, err)

	accountID := account.ID
	_, err = e.expenses().Create(ctx, e.userID, CreateExpenseInput{
		Name: "Weekly shop", AccountID: &accountID, CategoryID: groceries.ID,
		Amount: amount("50"), Date: june(5),
	})
	require.NoError(t, err)

	budget, err := e.budgets().Create(ctx, e.userID, CreateBudgetInput{
		Name: "Food", AccountID: account.ID, CategoryID: groceries.ID,
		Amount: amount("60"), StartDate: june(1), EndDate: june(30),
	})
	require.NoError(t, err)

	_, err = e.saveService().Create(ctx, e.userID, CreateSaveInput{
		Name: "Trip fund", SourceAccountID: account.ID, SavingGoalID: goal.ID,
		Amount: amount("30"), Date: june(10),
	})
	require.NoError(t, err)

	storedBudget, err := e.store.Budgets().GetByID(ctx, e.userID, budget.ID)
	require.NoError(t, err)
	storedGoal, err := e.store.SavingGoals().GetByID(ctx, goal.ID)
	require.NoError(t, err)

	held := e.accountBalance(t, account.ID).
		Add(storedBudget.Balance()).
		Add(storedGoal.Balance)
	net := amount("200").Sub(amount("50"))
	assert.True(t, held.Equal(net), "held %s, net %s", held, net)
}
