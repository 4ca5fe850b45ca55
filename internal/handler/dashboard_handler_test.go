package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

func TestGetDashboardBuildsOnFirstAccess(t *testing.T) {
	f := newFixture()
	f.store.Accounts().Seed(&domain.Account{
		UserID: f.userID, Name: "Main", Type: domain.AccountTypeBank,
		Currency: "USD", Balance: decimal.RequireFromString("250.00"), Active: true,
	})

	h := NewDashboardHandler(f.dashboards)
	e := echo.New()

	c, rec := newTestContext(e, http.MethodGet, "/api/v1/dashboard", "", f.userID)
	require.NoError(t, h.GetDashboard(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, "250.00", resp.AccountsTotal)
	assert.Equal(t, "250.00", resp.NetTotal)
}

func TestSetDashboardCurrencyUnknown(t *testing.T) {
	f := newFixture()
	h := NewDashboardHandler(f.dashboards)
	e := echo.New()

	c, rec := newTestContext(e, http.MethodPut, "/api/v1/dashboard/currency", `{"currency":"XXX"}`, f.userID)
	require.NoError(t, h.SetDashboardCurrency(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetDashboardCurrencySwitches(t *testing.T) {
	f := newFixture()
	h := NewDashboardHandler(f.dashboards)
	e := echo.New()

	c, rec := newTestContext(e, http.MethodPut, "/api/v1/dashboard/currency", `{"currency":"EUR"}`, f.userID)
	require.NoError(t, h.SetDashboardCurrency(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "EUR", resp.Currency)
}
