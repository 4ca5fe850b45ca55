package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

func TestIncomeCreateCreditsAccount(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	category := e.seedCategory("Salary", domain.CategoryTypeIncome)

	income, err := e.incomes().Create(context.Background(), e.userID, CreateIncomeInput{
		Name:       "June pay",
		AccountID:  account.ID,
		CategoryID: category.ID,
		Amount:     amount("50"),
		Date:       june(10),
	})
	require.NoError(t, err)

	assert.Equal(t, "June pay", income.Name)
	assert.Equal(t, "USD", income.Currency)
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("150")))
}

func TestIncomeCreateRejectsFutureDate(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	category := e.seedCategory("Salary", domain.CategoryTypeIncome)

	_, err := e.incomes().Create(context.Background(), e.userID, CreateIncomeInput{
		Name:       "June pay",
		AccountID:  account.ID,
		CategoryID: category.ID,
		Amount:     amount("50"),
		Date:       june(16),
	})
	assert.ErrorIs(t, err, domain.ErrDateInFuture)
}

func TestIncomeCreateRejectsExpenseCategory(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)

	_, err := e.incomes().Create(context.Background(), e.userID, CreateIncomeInput{
		Name:       "June pay",
		AccountID:  account.ID,
		CategoryID: category.ID,
		Amount:     amount("50"),
		Date:       june(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategoryType)
}

func TestIncomeCreateRejectsNonPositiveAmount(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "100")
	category := e.seedCategory("Salary", domain.CategoryTypeIncome)

	_, err := e.incomes().Create(context.Background(), e.userID, CreateIncomeInput{
		Name:       "June pay",
		AccountID:  account.ID,
		CategoryID: category.ID,
		Amount:     amount("0"),
		Date:       june(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestIncomeUpdateAmountReconciles(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "150")
	category := e.seedCategory("Salary", domain.CategoryTypeIncome)
	income := e.store.Incomes().Seed(&domain.Income{
		UserID: e.userID, Name: "June pay", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD", Amount: amount("50"),
		Date: june(10), Active: true,
	})

	updated, err := e.incomes().Update(context.Background(), e.userID, income.ID, UpdateIncomeInput{
		Amount: domain.Some(amount("80")),
	})
	require.NoError(t, err)

	assert.True(t, updated.Amount.Equal(amount("80")))
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("180")))
}

func TestIncomeUpdateMoveRequiresSameCurrency(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "150")
	other := e.seedAccount("Euros", "EUR", "0")
	category := e.seedCategory("Salary", domain.CategoryTypeIncome)
	income := e.store.Incomes().Seed(&domain.Income{
		UserID: e.userID, Name: "June pay", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD", Amount: amount("50"),
		Date: june(10), Active: true,
	})

	_, err := e.incomes().Update(context.Background(), e.userID, income.ID, UpdateIncomeInput{
		AccountID: domain.Some(other.ID),
	})
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestIncomeDeleteTakesCreditBack(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "150")
	category := e.seedCategory("Salary", domain.CategoryTypeIncome)
	income := e.store.Incomes().Seed(&domain.Income{
		UserID: e.userID, Name: "June pay", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD", Amount: amount("50"),
		Date: june(10), Active: true,
	})

	require.NoError(t, e.incomes().Delete(context.Background(), e.userID, income.ID))
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("100")))
}

func TestIncomeDeleteFailsWhenAlreadySpent(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "20")
	category := e.seedCategory("Salary", domain.CategoryTypeIncome)
	income := e.store.Incomes().Seed(&domain.Income{
		UserID: e.userID, Name: "June pay", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD", Amount: amount("50"),
		Date: june(10), Active: true,
	})

	err := e.incomes().Delete(context.Background(), e.userID, income.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// The income survives and the balance is untouched.
	_, err = e.store.Incomes().GetByID(context.Background(), e.userID, income.ID)
	require.NoError(t, err)
	assert.True(t, e.accountBalance(t, account.ID).Equal(amount("20")))
}
