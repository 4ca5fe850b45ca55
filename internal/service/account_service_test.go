package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

func TestAccountCreateCanonicalizesName(t *testing.T) {
	e := newEnv()

	account, err := e.accounts().Create(context.Background(), e.userID, CreateAccountInput{
		Name:     "  savings   ACCOUNT ",
		Type:     domain.AccountTypeBank,
		Currency: "USD",
		Balance:  amount("100"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Savings account", account.Name)
	assert.True(t, account.Active)
	assert.True(t, account.Balance.Equal(amount("100")))
}

func TestAccountCreateDuplicateNameCaseInsensitive(t *testing.T) {
	e := newEnv()
	e.seedAccount("Main", "USD", "0")

	_, err := e.accounts().Create(context.Background(), e.userID, CreateAccountInput{
		Name:     "mAiN",
		Type:     domain.AccountTypeBank,
		Currency: "USD",
		Balance:  decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestAccountCreateUnknownCurrency(t *testing.T) {
	e := newEnv()

	_, err := e.accounts().Create(context.Background(), e.userID, CreateAccountInput{
		Name:     "Main",
		Type:     domain.AccountTypeBank,
		Currency: "XXX",
		Balance:  decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)
}

func TestAccountCreateNegativeBalance(t *testing.T) {
	e := newEnv()

	_, err := e.accounts().Create(context.Background(), e.userID, CreateAccountInput{
		Name:     "Main",
		Type:     domain.AccountTypeBank,
		Currency: "USD",
		Balance:  amount("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrNegativeBalance)
}

func TestAccountUpdateRejectsBalanceEdit(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")

	_, err := e.accounts().Update(context.Background(), e.userID, account.ID, UpdateAccountInput{
		Balance: domain.Some(amount("500")),
	})
	require.ErrorIs(t, err, domain.ErrManualBalanceEdit)
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("100")))
}

func TestAccountUpdateCurrencyFrozenWhileReferenced(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	category := e.seedCategory("Salary", domain.CategoryTypeIncome)
	e.store.Incomes().Seed(&domain.Income{
		UserID: e.userID, Name: "June pay", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD", Amount: amount("100"),
		Date: june(10), Active: true,
	})

	_, err := e.accounts().Update(context.Background(), e.userID, account.ID, UpdateAccountInput{
		Currency: domain.Some("EUR"),
	})
	assert.ErrorIs(t, err, domain.ErrEntityInUse)
}

func TestAccountUpdateRename(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")

	updated, err := e.accounts().Update(context.Background(), e.userID, account.ID, UpdateAccountInput{
		Name: domain.Some("daily DRIVER"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Daily driver", updated.Name)
}

func TestAccountDeleteInUse(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	category := e.seedCategory("Salary", domain.CategoryTypeIncome)
	e.store.Incomes().Seed(&domain.Income{
		UserID: e.userID, Name: "June pay", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD", Amount: amount("100"),
		Date: june(10), Active: true,
	})

	err := e.accounts().Delete(context.Background(), e.userID, account.ID)
	assert.ErrorIs(t, err, domain.ErrEntityInUse)
}

func TestAccountDeleteLastInDashboardCurrency(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")

	// Materialize the dashboard so its display currency is USD.
	_, err := e.dashboards.Get(context.Background(), e.userID)
	require.NoError(t, err)

	err = e.accounts().Delete(context.Background(), e.userID, account.ID)
	assert.ErrorIs(t, err, domain.ErrLastAccountInCurrency)
}

func TestAccountDeleteWithAnotherInCurrency(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	e.seedAccount("Backup", "USD", "0")

	_, err := e.dashboards.Get(context.Background(), e.userID)
	require.NoError(t, err)

	require.NoError(t, e.accounts().Delete(context.Background(), e.userID, account.ID))

	_, err = e.store.Accounts().GetByID(context.Background(), e.userID, account.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountListScopedToUser(t *testing.T) {
	e := newEnv()
	e.seedAccount("Mine", "USD", "0")
	other := newEnv()
	e.store.Accounts().Seed(&domain.Account{
		UserID: other.userID, Name: "Theirs", Type: domain.AccountTypeBank,
		Currency: "USD", Balance: decimal.Zero, Active: true,
	})

	accounts, err := e.accounts().List(context.Background(), e.userID, false)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Mine", accounts[0].Name)
}
