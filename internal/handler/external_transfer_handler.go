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

// ExternalTransferHandler handles external transfer HTTP requests
type ExternalTransferHandler struct {
	transfers *service.ExternalTransferService
}

// NewExternalTransferHandler creates a new ExternalTransferHandler
func NewExternalTransferHandler(transfers *service.ExternalTransferService) *ExternalTransferHandler {
	return &ExternalTransferHandler{transfers: transfers}
}

// CreateExternalTransferRequest represents the create request body
type CreateExternalTransferRequest struct {
	Name                 string  `json:"name"`
	SourceAccountID      string  `json:"sourceAccountId"`
	ExternalUserID       string  `json:"externalUserId"`
	DestinationAccountID string  `json:"destinationAccountId"`
	Amount               string  `json:"amount"`
	Date                 string  `json:"date"`
	Note                 *string `json:"note,omitempty"`
}

// UpdateExternalTransferRequest represents the update request body.
// Amount, destination and external user are frozen after creation.
type UpdateExternalTransferRequest struct {
	Name                 *string `json:"name,omitempty"`
	SourceAccountID      *string `json:"sourceAccountId,omitempty"`
	ExternalUserID       *string `json:"externalUserId,omitempty"`
	DestinationAccountID *string `json:"destinationAccountId,omitempty"`
	Amount               *string `json:"amount,omitempty"`
	Date                 *string `json:"date,omitempty"`
	Note                 *string `json:"note,omitempty"`
	Active               *bool   `json:"active,omitempty"`
}

// ExternalTransferResponse represents an external transfer in API
// responses
type ExternalTransferResponse struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	SourceAccountID      string  `json:"sourceAccountId"`
	ExternalUserID       string  `json:"externalUserId"`
	DestinationAccountID string  `json:"destinationAccountId"`
	Currency             string  `json:"currency"`
	Amount               string  `json:"amount"`
	Date                 string  `json:"date"`
	Note                 *string `json:"note,omitempty"`
	Active               bool    `json:"active"`
	CreatedAt            string  `json:"createdAt"`
	UpdatedAt            string  `json:"updatedAt"`
}

// CreateExternalTransfer handles POST /api/v1/external-transfers
func (h *ExternalTransferHandler) CreateExternalTransfer(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateExternalTransferRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	sourceID, err := uuid.Parse(req.SourceAccountID)
	if err != nil {
		return fieldError(c, "sourceAccountId", "Must be a valid UUID")
	}
	externalUserID, err := uuid.Parse(req.ExternalUserID)
	if err != nil {
		return fieldError(c, "externalUserId", "Must be a valid UUID")
	}
	destinationID, err := uuid.Parse(req.DestinationAccountID)
	if err != nil {
		return fieldError(c, "destinationAccountId", "Must be a valid UUID")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fieldError(c, "amount", "Must be a valid decimal number")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return fieldError(c, "date", "Must be a valid date")
	}

	transfer, err := h.transfers.Create(c.Request().Context(), userID, service.CreateExternalTransferInput{
		Name:                 req.Name,
		SourceAccountID:      sourceID,
		ExternalUserID:       externalUserID,
		DestinationAccountID: destinationID,
		Amount:               amount,
		Date:                 date,
		Note:                 req.Note,
	})
	if err != nil {
		return RespondServiceError(c, err, "Failed to create external transfer")
	}
	return c.JSON(http.StatusCreated, toExternalTransferResponse(transfer))
}

// GetExternalTransfers handles GET /api/v1/external-transfers
func (h *ExternalTransferHandler) GetExternalTransfers(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	transfers, err := h.transfers.List(c.Request().Context(), userID, includeArchived(c))
	if err != nil {
		return RespondServiceError(c, err, "Failed to list external transfers")
	}

	response := make([]ExternalTransferResponse, len(transfers))
	for i, transfer := range transfers {
		response[i] = toExternalTransferResponse(transfer)
	}
	return c.JSON(http.StatusOK, response)
}

// GetExternalTransfer handles GET /api/v1/external-transfers/:id
func (h *ExternalTransferHandler) GetExternalTransfer(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	transfer, err := h.transfers.Get(c.Request().Context(), userID, id)
	if err != nil {
		return RespondServiceError(c, err, "Failed to get external transfer")
	}
	return c.JSON(http.StatusOK, toExternalTransferResponse(transfer))
}

// UpdateExternalTransfer handles PATCH /api/v1/external-transfers/:id
func (h *ExternalTransferHandler) UpdateExternalTransfer(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	var req UpdateExternalTransferRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateExternalTransferInput{
		Name:   optionalOf(req.Name),
		Active: optionalOf(req.Active),
	}
	input.SourceAccountID, err = optionalID(req.SourceAccountID)
	if err != nil {
		return fieldError(c, "sourceAccountId", "Must be a valid UUID")
	}
	input.ExternalUserID, err = optionalID(req.ExternalUserID)
	if err != nil {
		return fieldError(c, "externalUserId", "Must be a valid UUID")
	}
	input.DestinationAccountID, err = optionalID(req.DestinationAccountID)
	if err != nil {
		return fieldError(c, "destinationAccountId", "Must be a valid UUID")
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

	transfer, err := h.transfers.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return RespondServiceError(c, err, "Failed to update external transfer")
	}
	return c.JSON(http.StatusOK, toExternalTransferResponse(transfer))
}

// DeleteExternalTransfer handles DELETE /api/v1/external-transfers/:id.
// It always refuses; external transfers can only be archived.
func (h *ExternalTransferHandler) DeleteExternalTransfer(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	if err := h.transfers.Delete(c.Request().Context(), userID, id); err != nil {
		return RespondServiceError(c, err, "Failed to delete external transfer")
	}
	return c.NoContent(http.StatusNoContent)
}

func toExternalTransferResponse(transfer *domain.ExternalTransfer) ExternalTransferResponse {
	return ExternalTransferResponse{
		ID:                   transfer.ID.String(),
		Name:                 transfer.Name,
		SourceAccountID:      transfer.SourceAccountID.String(),
		ExternalUserID:       transfer.ExternalUserID.String(),
		DestinationAccountID: transfer.DestinationAccountID.String(),
		Currency:             transfer.Currency,
		Amount:               transfer.Amount.StringFixed(2),
		Date:                 transfer.Date.Format(dateLayout),
		Note:                 transfer.Note,
		Active:               transfer.Active,
		CreatedAt:            transfer.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            transfer.UpdatedAt.Format(time.RFC3339),
	}
}
