package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

func TestAdjustAccountRejectsOverdraft(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "50")

	_, err := e.ledger.AdjustAccount(context.Background(), e.store.Repos(), e.userID, account.ID, amount("-80"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// Nothing was written.
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("50")))
}

func TestAdjustAccountAppliesDelta(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "50")

	updated, err := e.ledger.AdjustAccount(context.Background(), e.store.Repos(), e.userID, account.ID, amount("-50"))
	require.NoError(t, err)
	assert.True(t, updated.Balance.IsZero(), "draining to exactly zero is allowed")
}

func TestAdjustBudgetExpendedClampsAtZero(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "0")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	budget := e.store.Budgets().Seed(&domain.Budget{
		UserID:     e.userID,
		Name:       "Food",
		AccountID:  account.ID,
		CategoryID: category.ID,
		Currency:   "USD",
		Amount:     amount("100"),
		Expended:   amount("30"),
		StartDate:  june(1),
		EndDate:    june(30),
		Active:     true,
	})

	updated, err := e.ledger.AdjustBudgetExpended(context.Background(), e.store.Repos(), e.userID, budget.ID, amount("-50"))
	require.NoError(t, err)
	assert.True(t, updated.Expended.IsZero())
}

func TestAdjustBudgetExpendedPastAmount(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "0")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	budget := e.store.Budgets().Seed(&domain.Budget{
		UserID:     e.userID,
		Name:       "Food",
		AccountID:  account.ID,
		CategoryID: category.ID,
		Currency:   "USD",
		Amount:     amount("100"),
		Expended:   amount("80"),
		StartDate:  june(1),
		EndDate:    june(30),
		Active:     true,
	})

	_, err := e.ledger.AdjustBudgetExpended(context.Background(), e.store.Repos(), e.userID, budget.ID, amount("30"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	stored, err := e.store.Budgets().GetByID(context.Background(), e.userID, budget.ID)
	require.NoError(t, err)
	assert.True(t, stored.Expended.Equal(amount("80")))
}

func TestAdjustAccountConcurrentDeltasAllLand(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "0")

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := e.ledger.AdjustAccount(context.Background(), e.store.Repos(), e.userID, account.ID, decimal.NewFromInt(1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, e.accountBalance(t, account.ID).Equal(decimal.NewFromInt(n)))
}
