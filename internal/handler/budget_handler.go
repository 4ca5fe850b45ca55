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

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgets *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgets *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

// CreateBudgetRequest represents the create budget request body
type CreateBudgetRequest struct {
	Name       string  `json:"name"`
	AccountID  string  `json:"accountId"`
	CategoryID string  `json:"categoryId"`
	Amount     string  `json:"amount"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Note       *string `json:"note,omitempty"`
}

// UpdateBudgetRequest represents the update budget request body
type UpdateBudgetRequest struct {
	Name       *string `json:"name,omitempty"`
	AccountID  *string `json:"accountId,omitempty"`
	CategoryID *string `json:"categoryId,omitempty"`
	Amount     *string `json:"amount,omitempty"`
	StartDate  *string `json:"startDate,omitempty"`
	EndDate    *string `json:"endDate,omitempty"`
	Note       *string `json:"note,omitempty"`
	Active     *bool   `json:"active,omitempty"`
	Expended   *string `json:"expended,omitempty"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	AccountID  string  `json:"accountId"`
	CategoryID string  `json:"categoryId"`
	Currency   string  `json:"currency"`
	Amount     string  `json:"amount"`
	Expended   string  `json:"expended"`
	Balance    string  `json:"balance"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Note       *string `json:"note,omitempty"`
	Active     bool    `json:"active"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// CreateBudget handles POST /api/v1/budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return fieldError(c, "accountId", "Must be a valid UUID")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return fieldError(c, "categoryId", "Must be a valid UUID")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fieldError(c, "amount", "Must be a valid decimal number")
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return fieldError(c, "startDate", "Must be a valid date")
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return fieldError(c, "endDate", "Must be a valid date")
	}

	budget, err := h.budgets.Create(c.Request().Context(), userID, service.CreateBudgetInput{
		Name:       req.Name,
		AccountID:  accountID,
		CategoryID: categoryID,
		Amount:     amount,
		StartDate:  startDate,
		EndDate:    endDate,
		Note:       req.Note,
	})
	if err != nil {
		return RespondServiceError(c, err, "Failed to create budget")
	}
	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets handles GET /api/v1/budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	budgets, err := h.budgets.List(c.Request().Context(), userID, includeArchived(c))
	if err != nil {
		return RespondServiceError(c, err, "Failed to list budgets")
	}

	response := make([]BudgetResponse, len(budgets))
	for i, budget := range budgets {
		response[i] = toBudgetResponse(budget)
	}
	return c.JSON(http.StatusOK, response)
}

// GetBudget handles GET /api/v1/budgets/:id
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	budget, err := h.budgets.Get(c.Request().Context(), userID, id)
	if err != nil {
		return RespondServiceError(c, err, "Failed to get budget")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// UpdateBudget handles PATCH /api/v1/budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateBudgetInput{
		Name:   optionalOf(req.Name),
		Active: optionalOf(req.Active),
	}
	input.AccountID, err = optionalID(req.AccountID)
	if err != nil {
		return fieldError(c, "accountId", "Must be a valid UUID")
	}
	input.CategoryID, err = optionalID(req.CategoryID)
	if err != nil {
		return fieldError(c, "categoryId", "Must be a valid UUID")
	}
	input.Amount, err = optionalAmount(req.Amount)
	if err != nil {
		return fieldError(c, "amount", "Must be a valid decimal number")
	}
	input.StartDate, err = optionalDate(req.StartDate)
	if err != nil {
		return fieldError(c, "startDate", "Must be a valid date")
	}
	input.EndDate, err = optionalDate(req.EndDate)
	if err != nil {
		return fieldError(c, "endDate", "Must be a valid date")
	}
	input.Expended, err = optionalAmount(req.Expended)
	if err != nil {
		return fieldError(c, "expended", "Must be a valid decimal number")
	}
	if req.Note != nil {
		input.Note = domain.Some(req.Note)
	}

	budget, err := h.budgets.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return RespondServiceError(c, err, "Failed to update budget")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeleteBudget handles DELETE /api/v1/budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	if err := h.budgets.Delete(c.Request().Context(), userID, id); err != nil {
		return RespondServiceError(c, err, "Failed to delete budget")
	}
	return c.NoContent(http.StatusNoContent)
}

func toBudgetResponse(budget *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:         budget.ID.String(),
		Name:       budget.Name,
		AccountID:  budget.AccountID.String(),
		CategoryID: budget.CategoryID.String(),
		Currency:   budget.Currency,
		Amount:     budget.Amount.StringFixed(2),
		Expended:   budget.Expended.StringFixed(2),
		Balance:    budget.Balance().StringFixed(2),
		StartDate:  budget.StartDate.Format(dateLayout),
		EndDate:    budget.EndDate.Format(dateLayout),
		Note:       budget.Note,
		Active:     budget.Active,
		CreatedAt:  budget.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  budget.UpdatedAt.Format(time.RFC3339),
	}
}
