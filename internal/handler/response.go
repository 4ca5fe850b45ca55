package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/monedero/monedero-backend/internal/domain"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://monedero.app/errors/validation"
	ErrorTypeNotFound     = "https://monedero.app/errors/not-found"
	ErrorTypeUnauthorized = "https://monedero.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://monedero.app/errors/forbidden"
	ErrorTypeConflict     = "https://monedero.app/errors/conflict"
	ErrorTypeInternal     = "https://monedero.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ProblemDetails{
		Type:     ErrorTypeForbidden,
		Title:    "Forbidden",
		Status:   http.StatusForbidden,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// notFoundErrors map to 404.
var notFoundErrors = []error{
	domain.ErrAccountNotFound,
	domain.ErrBudgetNotFound,
	domain.ErrCategoryNotFound,
	domain.ErrIncomeNotFound,
	domain.ErrExpenseNotFound,
	domain.ErrTransferNotFound,
	domain.ErrExternalTransferNotFound,
	domain.ErrSaveNotFound,
	domain.ErrSavingGoalNotFound,
	domain.ErrDashboardNotFound,
	domain.ErrUserNotFound,
	domain.ErrReceiptNotFound,
}

// conflictErrors map to 409: the request is well formed but collides
// with the current state of the data.
var conflictErrors = []error{
	domain.ErrDuplicateName,
	domain.ErrEntityInUse,
	domain.ErrInsufficientFunds,
	domain.ErrLastAccountInCurrency,
	domain.ErrAdjustmentCategoryExists,
	domain.ErrExternalTransferDelete,
}

// validationErrors map to 400. All of them are raised before any write.
var validationErrors = []error{
	domain.ErrInvalidInput,
	domain.ErrInvalidAmount,
	domain.ErrNegativeBalance,
	domain.ErrDateInFuture,
	domain.ErrCurrencyMismatch,
	domain.ErrSameAccount,
	domain.ErrEndDateNotAfterStart,
	domain.ErrAmountBelowExpended,
	domain.ErrNoExpenseTarget,
	domain.ErrTwoExpenseTargets,
	domain.ErrInvalidCategoryType,
	domain.ErrUnknownCurrency,
	domain.ErrManualBalanceEdit,
	domain.ErrImmutableField,
	domain.ErrReservedCategoryName,
	domain.ErrCategoryNameFixed,
	domain.ErrCategoryTypeFixed,
	domain.ErrAdjustmentCategoryParent,
}

// RespondServiceError maps a service error onto the problem-details
// taxonomy. Unrecognized errors are logged and reported as internal.
func RespondServiceError(c echo.Context, err error, fallback string) error {
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			return NewNotFoundError(c, sentinel.Error())
		}
	}
	for _, sentinel := range conflictErrors {
		if errors.Is(err, sentinel) {
			return NewConflictError(c, sentinel.Error())
		}
	}
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return NewValidationError(c, sentinel.Error(), nil)
		}
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg(fallback)
	return NewInternalError(c, fallback)
}
