package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/monedero/monedero-backend/internal/domain"
	"github.com/monedero/monedero-backend/internal/middleware"
	"github.com/monedero/monedero-backend/internal/service"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// CreateAccountRequest represents the create account request body
type CreateAccountRequest struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Currency string  `json:"currency"`
	Balance  string  `json:"balance,omitempty"`
	Note     *string `json:"note,omitempty"`
}

// UpdateAccountRequest represents the update account request body.
// Absent fields are left untouched.
type UpdateAccountRequest struct {
	Name     *string `json:"name,omitempty"`
	Type     *string `json:"type,omitempty"`
	Currency *string `json:"currency,omitempty"`
	Note     *string `json:"note,omitempty"`
	Active   *bool   `json:"active,omitempty"`
	Balance  *string `json:"balance,omitempty"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Currency  string  `json:"currency"`
	Balance   string  `json:"balance"`
	Note      *string `json:"note,omitempty"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// CreateAccount handles POST /api/v1/accounts
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	balance := decimal.Zero
	if req.Balance != "" {
		var err error
		balance, err = decimal.NewFromString(req.Balance)
		if err != nil {
			return fieldError(c, "balance", "Must be a valid decimal number")
		}
	}

	account, err := h.accounts.Create(c.Request().Context(), userID, service.CreateAccountInput{
		Name:     req.Name,
		Type:     domain.AccountType(req.Type),
		Currency: req.Currency,
		Balance:  balance,
		Note:     req.Note,
	})
	if err != nil {
		return RespondServiceError(c, err, "Failed to create account")
	}

	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// GetAccounts handles GET /api/v1/accounts
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	accounts, err := h.accounts.List(c.Request().Context(), userID, includeArchived(c))
	if err != nil {
		return RespondServiceError(c, err, "Failed to list accounts")
	}

	response := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		response[i] = toAccountResponse(account)
	}
	return c.JSON(http.StatusOK, response)
}

// GetAccount handles GET /api/v1/accounts/:id
func (h *AccountHandler) GetAccount(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	account, err := h.accounts.Get(c.Request().Context(), userID, id)
	if err != nil {
		return RespondServiceError(c, err, "Failed to get account")
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// UpdateAccount handles PATCH /api/v1/accounts/:id
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateAccountInput{
		Name:   optionalOf(req.Name),
		Note:   domain.None[*string](),
		Active: optionalOf(req.Active),
	}
	if req.Type != nil {
		input.Type = domain.Some(domain.AccountType(*req.Type))
	}
	if req.Currency != nil {
		input.Currency = domain.Some(*req.Currency)
	}
	if req.Note != nil {
		input.Note = domain.Some(req.Note)
	}
	// A balance in the body is passed through so the service can refuse
	// it; balances only move through records.
	input.Balance, err = optionalAmount(req.Balance)
	if err != nil {
		return fieldError(c, "balance", "Must be a valid decimal number")
	}

	account, err := h.accounts.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return RespondServiceError(c, err, "Failed to update account")
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// DeleteAccount handles DELETE /api/v1/accounts/:id
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	if err := h.accounts.Delete(c.Request().Context(), userID, id); err != nil {
		return RespondServiceError(c, err, "Failed to delete account")
	}
	return c.NoContent(http.StatusNoContent)
}

func toAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID.String(),
		Name:      account.Name,
		Type:      string(account.Type),
		Currency:  account.Currency,
		Balance:   account.Balance.StringFixed(2),
		Note:      account.Note,
		Active:    account.Active,
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
		UpdatedAt: account.UpdatedAt.Format(time.RFC3339),
	}
}
