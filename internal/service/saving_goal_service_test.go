package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

func TestSavingGoalCreateStartsEmpty(t *testing.T) {
	e := newEnv()

	goal, err := e.savingGoals().Create(context.Background(), e.userID, CreateSavingGoalInput{
		Name:      "summer TRIP",
		Currency:  "USD",
		Amount:    amount("1000"),
		StartDate: june(1),
		LimitDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "Summer trip", goal.Name)
	assert.True(t, goal.Balance.IsZero())
	assert.True(t, goal.Active)
}

func TestSavingGoalNamesGloballyUnique(t *testing.T) {
	e := newEnv()
	e.seedGoal("Trip", "USD", "0")
	otherUser := newEnv().userID

	// Goals are shared, so another user collides on the same name.
	_, err := e.savingGoals().Create(context.Background(), otherUser, CreateSavingGoalInput{
		Name:      "tRiP",
		Currency:  "USD",
		Amount:    amount("500"),
		StartDate: june(1),
		LimitDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestSavingGoalCreateUnknownCurrency(t *testing.T) {
	e := newEnv()

	_, err := e.savingGoals().Create(context.Background(), e.userID, CreateSavingGoalInput{
		Name:      "Trip",
		Currency:  "XXX",
		Amount:    amount("1000"),
		StartDate: june(1),
		LimitDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)
}

func TestSavingGoalUpdateRejectsBalanceEdit(t *testing.T) {
	e := newEnv()
	goal := e.seedGoal("Trip", "USD", "40")

	_, err := e.savingGoals().Update(context.Background(), e.userID, goal.ID, UpdateSavingGoalInput{
		Balance: domain.Some(amount("999")),
	})
	assert.ErrorIs(t, err, domain.ErrManualBalanceEdit)
}

func TestSavingGoalCurrencyFrozenWithSaves(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "60")
	goal := e.seedGoal("Trip", "USD", "40")
	e.store.Saves().Seed(&domain.Save{
		UserID: e.userID, Name: "Trip fund", SourceAccountID: account.ID,
		SavingGoalID: goal.ID, Currency: "USD", Amount: amount("40"),
		Date: june(10), Active: true,
	})

	_, err := e.savingGoals().Update(context.Background(), e.userID, goal.ID, UpdateSavingGoalInput{
		Currency: domain.Some("EUR"),
	})
	assert.ErrorIs(t, err, domain.ErrEntityInUse)
}

func TestSavingGoalDeleteBlockedBySaves(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "60")
	goal := e.seedGoal("Trip", "USD", "40")
	e.store.Saves().Seed(&domain.Save{
		UserID: e.userID, Name: "Trip fund", SourceAccountID: account.ID,
		SavingGoalID: goal.ID, Currency: "USD", Amount: amount("40"),
		Date: june(10), Active: true,
	})

	err := e.savingGoals().Delete(context.Background(), e.userID, goal.ID)
	assert.ErrorIs(t, err, domain.ErrEntityInUse)
}

func TestSavingGoalVisibleToEveryone(t *testing.T) {
	e := newEnv()
	e.seedGoal("Trip", "USD", "0")

	goals, err := e.savingGoals().List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, goals, 1)
}
