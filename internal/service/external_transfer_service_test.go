package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

// seedReceiver provisions a second user with one account.
func seedReceiver(e *env, currency, balance string) (uuid.UUID, *domain.Account) {
	receiver := e.store.Users().Seed(&domain.User{
		Subject: "auth0|receiver",
		Email:   "receiver@example.com",
		Name:    "Receiver",
	})
	account := e.store.Accounts().Seed(&domain.Account{
		UserID:   receiver.ID,
		Name:     "Inbox",
		Type:     domain.AccountTypeBank,
		Currency: currency,
		Balance:  decimal.RequireFromString(balance),
		Active:   true,
	})
	return receiver.ID, account
}

func TestExternalTransferCreateMovesAcrossUsers(t *testing.T) {
	e := newEnv()
	source := e.seedAccount("Main", "USD", "100")
	receiverID, destination := seedReceiver(e, "USD", "10")

	created, err := e.externalTransfers().Create(context.Background(), e.userID, CreateExternalTransferInput{
		Name:                 "Rent share",
		SourceAccountID:      source.ID,
		ExternalUserID:       receiverID,
		DestinationAccountID: destination.ID,
		Amount:               amount("40"),
		Date:                 june(10),
	})
	require.NoError(t, err)

	assert.True(t, e.accountBalance(t, source.ID).Equal(amount("60")))
	stored, err := e.store.Accounts().GetByID(context.Background(), receiverID, destination.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(amount("50")))

	// Both sides get a dashboard rebuild.
	_, err = e.store.Repos().Dashboards.GetByUser(context.Background(), e.userID)
	assert.NoError(t, err)
	_, err = e.store.Repos().Dashboards.GetByUser(context.Background(), receiverID)
	assert.NoError(t, err)

	assert.Equal(t, created.ExternalUserID, receiverID)
}

func TestExternalTransferCreateToSelf(t *testing.T) {
	e := newEnv()
	source := e.seedAccount("Main", "USD", "100")

	_, err := e.externalTransfers().Create(context.Background(), e.userID, CreateExternalTransferInput{
		Name:                 "Loop",
		SourceAccountID:      source.ID,
		ExternalUserID:       e.userID,
		DestinationAccountID: source.ID,
		Amount:               amount("40"),
		Date:                 june(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExternalTransferUpdateFrozenFields(t *testing.T) {
	e := newEnv()
	source := e.seedAccount("Main", "USD", "60")
	receiverID, destination := seedReceiver(e, "USD", "50")
	transfer := e.store.ExternalTransfers().Seed(&domain.ExternalTransfer{
		UserID: e.userID, ExternalUserID: receiverID, Name: "Rent share",
		SourceAccountID: source.ID, DestinationAccountID: destination.ID,
		Currency: "USD", Amount: amount("40"), Date: june(10), Active: true,
	})

	_, err := e.externalTransfers().Update(context.Background(), e.userID, transfer.ID, UpdateExternalTransferInput{
		Amount: domain.Some(amount("50")),
	})
	assert.ErrorIs(t, err, domain.ErrImmutableField)

	_, err = e.externalTransfers().Update(context.Background(), e.userID, transfer.ID, UpdateExternalTransferInput{
		DestinationAccountID: domain.Some(uuid.New()),
	})
	assert.ErrorIs(t, err, domain.ErrImmutableField)

	_, err = e.externalTransfers().Update(context.Background(), e.userID, transfer.ID, UpdateExternalTransferInput{
		ExternalUserID: domain.Some(uuid.New()),
	})
	assert.ErrorIs(t, err, domain.ErrImmutableField)
}

func TestExternalTransferUpdateMovesDebit(t *testing.T) {
	e := newEnv()
	oldSource := e.seedAccount("Main", "USD", "60")
	newSource := e.seedAccount("Backup", "USD", "40")
	receiverID, destination := seedReceiver(e, "USD", "50")
	transfer := e.store.ExternalTransfers().Seed(&domain.ExternalTransfer{
		UserID: e.userID, ExternalUserID: receiverID, Name: "Rent share",
		SourceAccountID: oldSource.ID, DestinationAccountID: destination.ID,
		Currency: "USD", Amount: amount("40"), Date: june(10), Active: true,
	})

	_, err := e.externalTransfers().Update(context.Background(), e.userID, transfer.ID, UpdateExternalTransferInput{
		SourceAccountID: domain.Some(newSource.ID),
	})
	require.NoError(t, err)

	assert.True(t, e.accountBalance(t, oldSource.ID).Equal(amount("100")))
	assert.True(t, e.accountBalance(t, newSource.ID).Equal(amount("0")))
	// The receiver's side never moves.
	stored, err := e.store.Accounts().GetByID(context.Background(), receiverID, destination.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(amount("50")))
}

func TestExternalTransferDeleteAlwaysRefused(t *testing.T) {
	e := newEnv()
	source := e.seedAccount("Main", "USD", "60")
	receiverID, destination := seedReceiver(e, "USD", "50")
	transfer := e.store.ExternalTransfers().Seed(&domain.ExternalTransfer{
		UserID: e.userID, ExternalUserID: receiverID, Name: "Rent share",
		SourceAccountID: source.ID, DestinationAccountID: destination.ID,
		Currency: "USD", Amount: amount("40"), Date: june(10), Active: true,
	})

	err := e.externalTransfers().Delete(context.Background(), e.userID, transfer.ID)
	require.ErrorIs(t, err, domain.ErrExternalTransferDelete)

	// The record stays; archiving goes through Update.
	_, err = e.store.ExternalTransfers().GetByID(context.Background(), e.userID, transfer.ID)
	assert.NoError(t, err)
}
