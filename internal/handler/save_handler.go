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

// SaveHandler handles save-related HTTP requests
type SaveHandler struct {
	saves *service.SaveService
}

// NewSaveHandler creates a new SaveHandler
func NewSaveHandler(saves *service.SaveService) *SaveHandler {
	return &SaveHandler{saves: saves}
}

// CreateSaveRequest represents the create save request body
type CreateSaveRequest struct {
	Name            string  `json:"name"`
	SourceAccountID string  `json:"sourceAccountId"`
	SavingGoalID    string  `json:"savingGoalId"`
	Amount          string  `json:"amount"`
	Date            string  `json:"date"`
	Note            *string `json:"note,omitempty"`
}

// UpdateSaveRequest represents the update save request body
type UpdateSaveRequest struct {
	Name            *string `json:"name,omitempty"`
	SourceAccountID *string `json:"sourceAccountId,omitempty"`
	SavingGoalID    *string `json:"savingGoalId,omitempty"`
	Amount          *string `json:"amount,omitempty"`
	Date            *string `json:"date,omitempty"`
	Note            *string `json:"note,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}

// SaveResponse represents a save in API responses
type SaveResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	SourceAccountID string  `json:"sourceAccountId"`
	SavingGoalID    string  `json:"savingGoalId"`
	Currency        string  `json:"currency"`
	Amount          string  `json:"amount"`
	Date            string  `json:"date"`
	Note            *string `json:"note,omitempty"`
	Active          bool    `json:"active"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// CreateSave handles POST /api/v1/saves
func (h *SaveHandler) CreateSave(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateSaveRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	accountID, err := uuid.Parse(req.SourceAccountID)
	if err != nil {
		return fieldError(c, "sourceAccountId", "Must be a valid UUID")
	}
	goalID, err := uuid.Parse(req.SavingGoalID)
	if err != nil {
		return fieldError(c, "savingGoalId", "Must be a valid UUID")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fieldError(c, "amount", "Must be a valid decimal number")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return fieldError(c, "date", "Must be a valid date")
	}

	save, err := h.saves.Create(c.Request().Context(), userID, service.CreateSaveInput{
		Name:            req.Name,
		SourceAccountID: accountID,
		SavingGoalID:    goalID,
		Amount:          amount,
		Date:            date,
		Note:            req.Note,
	})
	if err != nil {
		return RespondServiceError(c, err, "Failed to create save")
	}
	return c.JSON(http.StatusCreated, toSaveResponse(save))
}

// GetSaves handles GET /api/v1/saves
func (h *SaveHandler) GetSaves(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	saves, err := h.saves.List(c.Request().Context(), userID, includeArchived(c))
	if err != nil {
		return RespondServiceError(c, err, "Failed to list saves")
	}

	response := make([]SaveResponse, len(saves))
	for i, save := range saves {
		response[i] = toSaveResponse(save)
	}
	return c.JSON(http.StatusOK, response)
}

// GetSave handles GET /api/v1/saves/:id
func (h *SaveHandler) GetSave(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	save, err := h.saves.Get(c.Request().Context(), userID, id)
	if err != nil {
		return RespondServiceError(c, err, "Failed to get save")
	}
	return c.JSON(http.StatusOK, toSaveResponse(save))
}

// UpdateSave handles PATCH /api/v1/saves/:id
func (h *SaveHandler) UpdateSave(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	var req UpdateSaveRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateSaveInput{
		Name:   optionalOf(req.Name),
		Active: optionalOf(req.Active),
	}
	input.SourceAccountID, err = optionalID(req.SourceAccountID)
	if err != nil {
		return fieldError(c, "sourceAccountId", "Must be a valid UUID")
	}
	input.SavingGoalID, err = optionalID(req.SavingGoalID)
	if err != nil {
		return fieldError(c, "savingGoalId", "Must be a valid UUID")
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

	save, err := h.saves.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return RespondServiceError(c, err, "Failed to update save")
	}
	return c.JSON(http.StatusOK, toSaveResponse(save))
}

// DeleteSave handles DELETE /api/v1/saves/:id
func (h *SaveHandler) DeleteSave(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	if err := h.saves.Delete(c.Request().Context(), userID, id); err != nil {
		return RespondServiceError(c, err, "Failed to delete save")
	}
	return c.NoContent(http.StatusNoContent)
}

func toSaveResponse(save *domain.Save) SaveResponse {
	return SaveResponse{
		ID:              save.ID.String(),
		Name:            save.Name,
		SourceAccountID: save.SourceAccountID.String(),
		SavingGoalID:    save.SavingGoalID.String(),
		Currency:        save.Currency,
		Amount:          save.Amount.StringFixed(2),
		Date:            save.Date.Format(dateLayout),
		Note:            save.Note,
		Active:          save.Active,
		CreatedAt:       save.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       save.UpdatedAt.Format(time.RFC3339),
	}
}
