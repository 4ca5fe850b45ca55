package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

func TestSaveCreateMovesIntoGoal(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	goal := e.seedGoal("Trip", "USD", "0")

	_, err := e.saveService().Create(context.Background(), e.userID, CreateSaveInput{
		Name:            "Trip fund",
		SourceAccountID: account.ID,
		SavingGoalID:    goal.ID,
		Amount:          amount("40"),
		Date:            june(10),
	})
	require.NoError(t, err)

	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("60")))
	stored, err := e.store.SavingGoals().GetByID(context.Background(), goal.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(amount("40")))
}

func TestSaveCreateCurrencyMismatch(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	goal := e.seedGoal("Trip", "EUR", "0")

	_, err := e.saveService().Create(context.Background(), e.userID, CreateSaveInput{
		Name:            "Trip fund",
		SourceAccountID: account.ID,
		SavingGoalID:    goal.ID,
		Amount:          amount("40"),
		Date:            june(10),
	})
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestSaveCreateInsufficientFunds(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "10")
	goal := e.seedGoal("Trip", "USD", "0")

	_, err := e.saveService().Create(context.Background(), e.userID, CreateSaveInput{
		Name:            "Trip fund",
		SourceAccountID: account.ID,
		SavingGoalID:    goal.ID,
		Amount:          amount("40"),
		Date:            june(10),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("10")))
}

func TestSaveUpdateAmountUndoesThenReplays(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "60")
	goal := e.seedGoal("Trip", "USD", "40")
	save := e.store.Saves().Seed(&domain.Save{
		UserID: e.userID, Name: "Trip fund", SourceAccountID: account.ID,
		SavingGoalID: goal.ID, Currency: "USD", Amount: amount("40"),
		Date: june(10), Active: true,
	})

	_, err := e.saveService().Update(context.Background(), e.userID, save.ID, UpdateSaveInput{
		Amount: domain.Some(amount("70")),
	})
	require.NoError(t, err)

	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("30")))
	stored, err := e.store.SavingGoals().GetByID(context.Background(), goal.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(amount("70")))
}

func TestSaveDeleteMovesMoneyBack(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "60")
	goal := e.seedGoal("Trip", "USD", "40")
	save := e.store.Saves().Seed(&domain.Save{
		UserID: e.userID, Name: "Trip fund", SourceAccountID: account.ID,
		SavingGoalID: goal.ID, Currency: "USD", Amount: amount("40"),
		Date: june(10), Active: true,
	})

	require.NoError(t, e.saveService().Delete(context.Background(), e.userID, save.ID))

	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("100")))
	stored, err := e.store.SavingGoals().GetByID(context.Background(), goal.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.IsZero())
}

func TestSaveDeleteFailsWhenGoalDrained(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "60")
	goal := e.seedGoal("Trip", "USD", "10")
	save := e.store.Saves().Seed(&domain.Save{
		UserID: e.userID, Name: "Trip fund", SourceAccountID: account.ID,
		SavingGoalID: goal.ID, Currency: "USD", Amount: amount("40"),
		Date: june(10), Active: true,
	})

	err := e.saveService().Delete(context.Background(), e.userID, save.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = e.store.Saves().GetByID(context.Background(), e.userID, save.ID)
	assert.NoError(t, err)
}
