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

// SavingGoalHandler handles saving goal HTTP requests. Goals are shared
// across users: any authenticated user can list, create and save into
// them.
type SavingGoalHandler struct {
	goals *service.SavingGoalService
}

// NewSavingGoalHandler creates a new SavingGoalHandler
func NewSavingGoalHandler(goals *service.SavingGoalService) *SavingGoalHandler {
	return &SavingGoalHandler{goals: goals}
}

// CreateSavingGoalRequest represents the create saving goal request body
type CreateSavingGoalRequest struct {
	Name      string  `json:"name"`
	Currency  string  `json:"currency"`
	Amount    string  `json:"amount"`
	StartDate string  `json:"startDate"`
	LimitDate string  `json:"limitDate"`
	Note      *string `json:"note,omitempty"`
}

// UpdateSavingGoalRequest represents the update saving goal request body
type UpdateSavingGoalRequest struct {
	Name      *string `json:"name,omitempty"`
	Currency  *string `json:"currency,omitempty"`
	Amount    *string `json:"amount,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	LimitDate *string `json:"limitDate,omitempty"`
	Note      *string `json:"note,omitempty"`
	Active    *bool   `json:"active,omitempty"`
	Balance   *string `json:"balance,omitempty"`
}

// SavingGoalResponse represents a saving goal in API responses
type SavingGoalResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Currency  string  `json:"currency"`
	Amount    string  `json:"amount"`
	Balance   string  `json:"balance"`
	StartDate string  `json:"startDate"`
	LimitDate string  `json:"limitDate"`
	Note      *string `json:"note,omitempty"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// CreateSavingGoal handles POST /api/v1/saving-goals
func (h *SavingGoalHandler) CreateSavingGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateSavingGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fieldError(c, "amount", "Must be a valid decimal number")
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return fieldError(c, "startDate", "Must be a valid date")
	}
	limitDate, err := parseDate(req.LimitDate)
	if err != nil {
		return fieldError(c, "limitDate", "Must be a valid date")
	}

	goal, err := h.goals.Create(c.Request().Context(), userID, service.CreateSavingGoalInput{
		Name:      req.Name,
		Currency:  req.Currency,
		Amount:    amount,
		StartDate: startDate,
		LimitDate: limitDate,
		Note:      req.Note,
	})
	if err != nil {
		return RespondServiceError(c, err, "Failed to create saving goal")
	}
	return c.JSON(http.StatusCreated, toSavingGoalResponse(goal))
}

// GetSavingGoals handles GET /api/v1/saving-goals
func (h *SavingGoalHandler) GetSavingGoals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	goals, err := h.goals.List(c.Request().Context(), includeArchived(c))
	if err != nil {
		return RespondServiceError(c, err, "Failed to list saving goals")
	}

	response := make([]SavingGoalResponse, len(goals))
	for i, goal := range goals {
		response[i] = toSavingGoalResponse(goal)
	}
	return c.JSON(http.StatusOK, response)
}

// GetSavingGoal handles GET /api/v1/saving-goals/:id
func (h *SavingGoalHandler) GetSavingGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	goal, err := h.goals.Get(c.Request().Context(), id)
	if err != nil {
		return RespondServiceError(c, err, "Failed to get saving goal")
	}
	return c.JSON(http.StatusOK, toSavingGoalResponse(goal))
}

// UpdateSavingGoal handles PATCH /api/v1/saving-goals/:id
func (h *SavingGoalHandler) UpdateSavingGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	var req UpdateSavingGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateSavingGoalInput{
		Name:     optionalOf(req.Name),
		Currency: optionalOf(req.Currency),
		Active:   optionalOf(req.Active),
	}
	input.Amount, err = optionalAmount(req.Amount)
	if err != nil {
		return fieldError(c, "amount", "Must be a valid decimal number")
	}
	input.StartDate, err = optionalDate(req.StartDate)
	if err != nil {
		return fieldError(c, "startDate", "Must be a valid date")
	}
	input.LimitDate, err = optionalDate(req.LimitDate)
	if err != nil {
		return fieldError(c, "limitDate", "Must be a valid date")
	}
	input.Balance, err = optionalAmount(req.Balance)
	if err != nil {
		return fieldError(c, "balance", "Must be a valid decimal number")
	}
	if req.Note != nil {
		input.Note = domain.Some(req.Note)
	}

	goal, err := h.goals.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return RespondServiceError(c, err, "Failed to update saving goal")
	}
	return c.JSON(http.StatusOK, toSavingGoalResponse(goal))
}

// DeleteSavingGoal handles DELETE /api/v1/saving-goals/:id
func (h *SavingGoalHandler) DeleteSavingGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	if err := h.goals.Delete(c.Request().Context(), userID, id); err != nil {
		return RespondServiceError(c, err, "Failed to delete saving goal")
	}
	return c.NoContent(http.StatusNoContent)
}

func toSavingGoalResponse(goal *domain.SavingGoal) SavingGoalResponse {
	return SavingGoalResponse{
		ID:        goal.ID.String(),
		Name:      goal.Name,
		Currency:  goal.Currency,
		Amount:    goal.Amount.StringFixed(2),
		Balance:   goal.Balance.StringFixed(2),
		StartDate: goal.StartDate.Format(dateLayout),
		LimitDate: goal.LimitDate.Format(dateLayout),
		Note:      goal.Note,
		Active:    goal.Active,
		CreatedAt: goal.CreatedAt.Format(time.RFC3339),
		UpdatedAt: goal.UpdatedAt.Format(time.RFC3339),
	}
}
