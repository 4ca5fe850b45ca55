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

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenses *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// CreateExpenseRequest represents the create expense request body.
// Exactly one of accountId and budgetId must be present.
type CreateExpenseRequest struct {
	Name       string  `json:"name"`
	AccountID  *string `json:"accountId,omitempty"`
	BudgetID   *string `json:"budgetId,omitempty"`
	CategoryID string  `json:"categoryId"`
	Amount     string  `json:"amount"`
	Date       string  `json:"date"`
	Note       *string `json:"note,omitempty"`
}

// UpdateExpenseRequest represents the update expense request body. An
// empty accountId or budgetId clears that target, which is how an
// expense moves between an account and a budget.
type UpdateExpenseRequest struct {
	Name       *string `json:"name,omitempty"`
	AccountID  *string `json:"accountId,omitempty"`
	BudgetID   *string `json:"budgetId,omitempty"`
	CategoryID *string `json:"categoryId,omitempty"`
	Amount     *string `json:"amount,omitempty"`
	Date       *string `json:"date,omitempty"`
	Note       *string `json:"note,omitempty"`
	Active     *bool   `json:"active,omitempty"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	AccountID  *string `json:"accountId,omitempty"`
	BudgetID   *string `json:"budgetId,omitempty"`
	CategoryID string  `json:"categoryId"`
	Currency   string  `json:"currency"`
	Amount     string  `json:"amount"`
	Date       string  `json:"date"`
	Note       *string `json:"note,omitempty"`
	HasReceipt bool    `json:"hasReceipt"`
	Active     bool    `json:"active"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var accountID, budgetID *uuid.UUID
	if req.AccountID != nil && *req.AccountID != "" {
		id, err := uuid.Parse(*req.AccountID)
		if err != nil {
			return fieldError(c, "accountId", "Must be a valid UUID")
		}
		accountID = &id
	}
	if req.BudgetID != nil && *req.BudgetID != "" {
		id, err := uuid.Parse(*req.BudgetID)
		if err != nil {
			return fieldError(c, "budgetId", "Must be a valid UUID")
		}
		budgetID = &id
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return fieldError(c, "categoryId", "Must be a valid UUID")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fieldError(c, "amount", "Must be a valid decimal number")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return fieldError(c, "date", "Must be a valid date")
	}

	expense, err := h.expenses.Create(c.Request().Context(), userID, service.CreateExpenseInput{
		Name:       req.Name,
		AccountID:  accountID,
		BudgetID:   budgetID,
		CategoryID: categoryID,
		Amount:     amount,
		Date:       date,
		Note:       req.Note,
	})
	if err != nil {
		return RespondServiceError(c, err, "Failed to create expense")
	}
	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// GetExpenses handles GET /api/v1/expenses
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	expenses, err := h.expenses.List(c.Request().Context(), userID, includeArchived(c))
	if err != nil {
		return RespondServiceError(c, err, "Failed to list expenses")
	}

	response := make([]ExpenseResponse, len(expenses))
	for i, expense := range expenses {
		response[i] = toExpenseResponse(expense)
	}
	return c.JSON(http.StatusOK, response)
}

// GetExpense handles GET /api/v1/expenses/:id
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	expense, err := h.expenses.Get(c.Request().Context(), userID, id)
	if err != nil {
		return RespondServiceError(c, err, "Failed to get expense")
	}
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// UpdateExpense handles PATCH /api/v1/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	var req UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateExpenseInput{
		Name:   optionalOf(req.Name),
		Active: optionalOf(req.Active),
	}
	input.AccountID, err = optionalIDPtr(req.AccountID)
	if err != nil {
		return fieldError(c, "accountId", "Must be a valid UUID")
	}
	input.BudgetID, err = optionalIDPtr(req.BudgetID)
	if err != nil {
		return fieldError(c, "budgetId", "Must be a valid UUID")
	}
	input.CategoryID, err = optionalID(req.CategoryID)
	if err != nil {
		return fieldError(c, "categoryId", "Must be a valid UUID")
	}
	input.Amount, err = optionalAmount(req.Amount)
	if err != nil {
		return fieldError(c, "amount", "Must be a valid decimal number")
	}
	input.Date, err = optionalDate(req.Date)
	if err != nil {
		return fieldError(c, "date", "Must be a valid date")
	}
	if req.Note != nil {
		input.Note = domain.Some(req.Note)
	}

	expense, err := h.expenses.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return RespondServiceError(c, err, "Failed to update expense")
	}
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense handles DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	if err := h.expenses.Delete(c.Request().Context(), userID, id); err != nil {
		return RespondServiceError(c, err, "Failed to delete expense")
	}
	return c.NoContent(http.StatusNoContent)
}

func toExpenseResponse(expense *domain.Expense) ExpenseResponse {
	var accountID, budgetID *string
	if expense.AccountID != nil {
		s := expense.AccountID.String()
		accountID = &s
	}
	if expense.BudgetID != nil {
		s := expense.BudgetID.String()
		budgetID = &s
	}
	return ExpenseResponse{
		ID:         expense.ID.String(),
		Name:       expense.Name,
		AccountID:  accountID,
		BudgetID:   budgetID,
		CategoryID: expense.CategoryID.String(),
		Currency:   expense.Currency,
		Amount:     expense.Amount.StringFixed(2),
		Date:       expense.Date.Format(dateLayout),
		Note:       expense.Note,
		HasReceipt: expense.HasReceipt(),
		Active:     expense.Active,
		CreatedAt:  expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  expense.UpdatedAt.Format(time.RFC3339),
	}
}
