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

// IncomeHandler handles income-related HTTP requests
type IncomeHandler struct {
	incomes *service.IncomeService
}

// NewIncomeHandler creates a new IncomeHandler
func NewIncomeHandler(incomes *service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomes: incomes}
}

// CreateIncomeRequest represents the create income request body
type CreateIncomeRequest struct {
	Name       string  `json:"name"`
	AccountID  string  `json:"accountId"`
	CategoryID string  `json:"categoryId"`
	Amount     string  `json:"amount"`
	Date       string  `json:"date"`
	Note       *string `json:"note,omitempty"`
}

// UpdateIncomeRequest represents the update income request body
type UpdateIncomeRequest struct {
	Name       *string `json:"name,omitempty"`
	AccountID  *string `json:"accountId,omitempty"`
	CategoryID *string `json:"categoryId,omitempty"`
	Amount     *string `json:"amount,omitempty"`
	Date       *string `json:"date,omitempty"`
	Note       *string `json:"note,omitempty"`
	Active     *bool   `json:"active,omitempty"`
}

// IncomeResponse represents an income in API responses
type IncomeResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	AccountID  string  `json:"accountId"`
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

// CreateIncome handles POST /api/v1/incomes
func (h *IncomeHandler) CreateIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateIncomeRequest
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
	date, err := parseDate(req.Date)
	if err != nil {
		return fieldError(c, "date", "Must be a valid date")
	}

	income, err := h.incomes.Create(c.Request().Context(), userID, service.CreateIncomeInput{
		Name:       req.Name,
		AccountID:  accountID,
		CategoryID: categoryID,
		Amount:     amount,
		Date:       date,
		Note:       req.Note,
	})
	if err != nil {
		return RespondServiceError(c, err, "Failed to create income")
	}
	return c.JSON(http.StatusCreated, toIncomeResponse(income))
}

// GetIncomes handles GET /api/v1/incomes
func (h *IncomeHandler) GetIncomes(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	incomes, err := h.incomes.List(c.Request().Context(), userID, includeArchived(c))
	if err != nil {
		return RespondServiceError(c, err, "Failed to list incomes")
	}

	response := make([]IncomeResponse, len(incomes))
	for i, income := range incomes {
		response[i] = toIncomeResponse(income)
	}
	return c.JSON(http.StatusOK, response)
}

// GetIncome handles GET /api/v1/incomes/:id
func (h *IncomeHandler) GetIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	income, err := h.incomes.Get(c.Request().Context(), userID, id)
	if err != nil {
		return RespondServiceError(c, err, "Failed to get income")
	}
	return c.JSON(http.StatusOK, toIncomeResponse(income))
}

// UpdateIncome handles PATCH /api/v1/incomes/:id
func (h *IncomeHandler) UpdateIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	var req UpdateIncomeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateIncomeInput{
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
	input.Date, err = optionalDate(req.Date)
	if err != nil {
		return fieldError(c, "date", "Must be a valid date")
	}
	if req.Note != nil {
		input.Note = domain.Some(req.Note)
	}

	income, err := h.incomes.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return RespondServiceError(c, err, "Failed to update income")
	}
	return c.JSON(http.StatusOK, toIncomeResponse(income))
}

// DeleteIncome handles DELETE /api/v1/incomes/:id
func (h *IncomeHandler) DeleteIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	if err := h.incomes.Delete(c.Request().Context(), userID, id); err != nil {
		return RespondServiceError(c, err, "Failed to delete income")
	}
	return c.NoContent(http.StatusNoContent)
}

func toIncomeResponse(income *domain.Income) IncomeResponse {
	return IncomeResponse{
		ID:         income.ID.String(),
		Name:       income.Name,
		AccountID:  income.AccountID.String(),
		CategoryID: income.CategoryID.String(),
		Currency:   income.Currency,
		Amount:     income.Amount.StringFixed(2),
		Date:       income.Date.Format(dateLayout),
		Note:       income.Note,
		HasReceipt: income.HasReceipt(),
		Active:     income.Active,
		CreatedAt:  income.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  income.UpdatedAt.Format(time.RFC3339),
	}
}
