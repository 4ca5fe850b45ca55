package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

func TestTransferCreateMovesMoney(t *testing.T) {
	e := newEnv()
	source := e.seedAccount("Main", "USD", "100")
	destination := e.seedAccount("Savings", "USD", "20")

	_, err := e.transfers().Create(context.Background(), e.userID, CreateTransferInput{
		Name:                 "Monthly savings",
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               amount("30"),
		Date:                 june(10),
	})
	require.NoError(t, err)

	assert.True(t, e.accountBalance(t, source.ID).Equal(amount("70")))
	assert.True(t, e.accountBalance(t, destination.ID).Equal(amount("50")))
}

func TestTransferCreateSameAccount(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")

	_, err := e.transfers().Create(context.Background(), e.userID, CreateTransferInput{
		Name:                 "Loop",
		SourceAccountID:      account.ID,
		DestinationAccountID: account.ID,
		Amount:               amount("30"),
		Date:                 june(10),
	})
	assert.ErrorIs(t, err, domain.ErrSameAccount)
}

func TestTransferCreateCurrencyMismatch(t *testing.T) {
	e := newEnv()
	source := e.seedAccount("Main", "USD", "100")
	destination := e.seedAccount("Euros", "EUR", "0")

	_, err := e.transfers().Create(context.Background(), e.userID, CreateTransferInput{
		Name:                 "Across",
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               amount("30"),
		Date:                 june(10),
	})
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestTransferCreateInsufficientFunds(t *testing.T) {
	e := newEnv()
	source := e.seedAccount("Main", "USD", "10")
	destination := e.seedAccount("Savings", "USD", "0")

	_, err := e.transfers().Create(context.Background(), e.userID, CreateTransferInput{
		Name:                 "Too much",
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               amount("30"),
		Date:                 june(10),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.True(t, e.accountBalance(t, source.ID).Equal(amount("10")))
}

func TestTransferUpdateAmountUndoesThenReplays(t *testing.T) {
	e := newEnv()
	source := e.seedAccount("Main", "USD", "70")
	destination := e.seedAccount("Savings", "USD", "50")
	transfer := e.store.Transfers().Seed(&domain.Transfer{
		UserID: e.userID, Name: "Monthly savings",
		SourceAccountID: source.ID, DestinationAccountID: destination.ID,
		Currency: "USD", Amount: amount("30"), Date: june(10), Active: true,
	})

	_, err := e.transfers().Update(context.Background(), e.userID, transfer.ID, UpdateTransferInput{
		Amount: domain.Some(amount("50")),
	})
	require.NoError(t, err)

	assert.True(t, e.accountBalance(t, source.ID).Equal(amount("50")))
	assert.True(t, e.accountBalance(t, destination.ID).Equal(amount("70")))
}

func TestTransferDeleteMovesMoneyBack(t *testing.T) {
	e := newEnv()
	source := e.seedAccount("Main", "USD", "70")
	destination := e.seedAccount("Savings", "USD", "50")
	transfer := e.store.Transfers().Seed(&domain.Transfer{
		UserID: e.userID, Name: "Monthly savings",
		SourceAccountID: source.ID, DestinationAccountID: destination.ID,
		Currency: "USD", Amount: amount("30"), Date: june(10), Active: true,
	})

	require.NoError(t, e.transfers().Delete(context.Background(), e.userID, transfer.ID))

	assert.True(t, e.accountBalance(t, source.ID).Equal(amount("100")))
	assert.True(t, e.accountBalance(t, destination.ID).Equal(amount("20")))
}

func TestTransferDeleteFailsWhenDestinationSpent(t *testing.T) {
	e := newEnv()
	source := e.seedAccount("Main", "USD", "70")
	destination := e.seedAccount("Savings", "USD", "10")
	transfer := e.store.Transfers().Seed(&domain.Transfer{
		UserID: e.userID, Name: "Monthly savings",
		SourceAccountID: source.ID, DestinationAccountID: destination.ID,
		Currency: "USD", Amount: amount("30"), Date: june(10), Active: true,
	})

	err := e.transfers().Delete(context.Background(), e.userID, transfer.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}
