package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

func respondTo(t *testing.T, err error) (int, ProblemDetails) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, RespondServiceError(c, err, "fallback"))

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec.Code, problem
}

func TestRespondServiceErrorNotFound(t *testing.T) {
	code, problem := respondTo(t, domain.ErrAccountNotFound)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, ErrorTypeNotFound, problem.Type)
}

func TestRespondServiceErrorConflict(t *testing.T) {
	for _, err := range []error{
		domain.ErrDuplicateName,
		domain.ErrEntityInUse,
		domain.ErrInsufficientFunds,
		domain.ErrLastAccountInCurrency,
		domain.ErrExternalTransferDelete,
	} {
		code, problem := respondTo(t, err)
		assert.Equal(t, http.StatusConflict, code, err.Error())
		assert.Equal(t, ErrorTypeConflict, problem.Type)
	}
}

func TestRespondServiceErrorValidation(t *testing.T) {
	for _, err := range []error{
		domain.ErrInvalidAmount,
		domain.ErrDateInFuture,
		domain.ErrManualBalanceEdit,
		domain.ErrImmutableField,
		domain.ErrUnknownCurrency,
	} {
		code, problem := respondTo(t, err)
		assert.Equal(t, http.StatusBadRequest, code, err.Error())
		assert.Equal(t, ErrorTypeValidation, problem.Type)
	}
}

func TestRespondServiceErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading budget: %w", domain.ErrBudgetNotFound)
	code, _ := respondTo(t, wrapped)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRespondServiceErrorUnknown(t *testing.T) {
	code, problem := respondTo(t, errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, ErrorTypeInternal, problem.Type)
	// The raw error never leaks to the client.
	assert.Equal(t, "fallback", problem.Detail)
}
