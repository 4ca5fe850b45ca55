package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

func TestCreateAccount(t *testing.T) {
	f := newFixture()
	h := NewAccountHandler(f.accountService())
	e := echo.New()

	body := `{"name":"Main Checking","type":"bank","currency":"USD","balance":"100.50"}`
	c, rec := newTestContext(e, http.MethodPost, "/api/v1/accounts", body, f.userID)

	require.NoError(t, h.CreateAccount(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Main checking", resp.Name)
	assert.Equal(t, "100.50", resp.Balance)
	assert.True(t, resp.Active)
}

func TestCreateAccountRejectsBadBalance(t *testing.T) {
	f := newFixture()
	h := NewAccountHandler(f.accountService())
	e := echo.New()

	body := `{"name":"Main","type":"bank","currency":"USD","balance":"not-a-number"}`
	c, rec := newTestContext(e, http.MethodPost, "/api/v1/accounts", body, f.userID)

	require.NoError(t, h.CreateAccount(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAccountRequiresUser(t *testing.T) {
	f := newFixture()
	h := NewAccountHandler(f.accountService())
	e := echo.New()

	c, rec := newTestContext(e, http.MethodPost, "/api/v1/accounts", `{"name":"x"}`, uuid.Nil)

	require.NoError(t, h.CreateAccount(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetAccountNotFound(t *testing.T) {
	f := newFixture()
	h := NewAccountHandler(f.accountService())
	e := echo.New()

	c, rec := newTestContext(e, http.MethodGet, "/api/v1/accounts/x", "", f.userID)
	withIDParam(c, uuid.New())

	require.NoError(t, h.GetAccount(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, ErrorTypeNotFound, problem.Type)
}

func TestUpdateAccountRefusesBalanceEdit(t *testing.T) {
	f := newFixture()
	account := f.store.Accounts().Seed(&domain.Account{
		UserID:   f.userID,
		Name:     "Main",
		Type:     domain.AccountTypeBank,
		Currency: "USD",
		Balance:  decimal.NewFromInt(100),
		Active:   true,
	})
	h := NewAccountHandler(f.accountService())
	e := echo.New()

	c, rec := newTestContext(e, http.MethodPatch, "/api/v1/accounts/x", `{"balance":"500"}`, f.userID)
	withIDParam(c, account.ID)

	require.NoError(t, h.UpdateAccount(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAccountInUse(t *testing.T) {
	f := newFixture()
	account := f.store.Accounts().Seed(&domain.Account{
		UserID:   f.userID,
		Name:     "Main",
		Type:     domain.AccountTypeBank,
		Currency: "USD",
		Balance:  decimal.NewFromInt(100),
		Active:   true,
	})
	category := f.store.Categories().Seed(&domain.Category{
		UserID: f.userID,
		Name:   "Salary",
		Type:   domain.CategoryTypeIncome,
		Active: true,
	})
	f.store.Incomes().Seed(&domain.Income{
		UserID:     f.userID,
		Name:       "June pay",
		AccountID:  account.ID,
		CategoryID: category.ID,
		Currency:   "USD",
		Amount:     decimal.NewFromInt(100),
		Date:       f.clock.Date,
		Active:     true,
	})

	h := NewAccountHandler(f.accountService())
	e := echo.New()

	c, rec := newTestContext(e, http.MethodDelete, "/api/v1/accounts/x", "", f.userID)
	withIDParam(c, account.ID)

	require.NoError(t, h.DeleteAccount(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListAccountsSkipsArchivedByDefault(t *testing.T) {
	f := newFixture()
	f.store.Accounts().Seed(&domain.Account{
		UserID: f.userID, Name: "Active", Type: domain.AccountTypeBank,
		Currency: "USD", Balance: decimal.Zero, Active: true,
	})
	f.store.Accounts().Seed(&domain.Account{
		UserID: f.userID, Name: "Old", Type: domain.AccountTypeBank,
		Currency: "USD", Balance: decimal.Zero, Active: false,
	})

	h := NewAccountHandler(f.accountService())
	e := echo.New()

	c, rec := newTestContext(e, http.MethodGet, "/api/v1/accounts", "", f.userID)
	require.NoError(t, h.GetAccounts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Active", resp[0].Name)

	c, rec = newTestContext(e, http.MethodGet, "/api/v1/accounts?includeArchived=true", "", f.userID)
	require.NoError(t, h.GetAccounts(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}
