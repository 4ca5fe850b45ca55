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

// TransferHandler handles transfer-related HTTP requests
type TransferHandler struct {
	transfers *service.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transfers *service.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// CreateTransferRequest represents the create transfer request body
type CreateTransferRequest struct {
	Name                 string  `json:"name"`
	SourceAccountID      string  `json:"sourceAccountId"`
	DestinationAccountID string  `json:"destinationAccountId"`
	Amount               string  `json:"amount"`
	Date                 string  `json:"date"`
	Note                 *string `json:"note,omitempty"`
}

// UpdateTransferRequest represents the update transfer request body
type UpdateTransferRequest struct {
	Name                 *string `json:"name,omitempty"`
	SourceAccountID      *string `json:"sourceAccountId,omitempty"`
	DestinationAccountID *string `json:"destinationAccountId,omitempty"`
	Amount               *string `json:"amount,omitempty"`
	Date                 *string `json:"date,omitempty"`
	Note                 *string `json:"note,omitempty"`
	Active               *bool   `json:"active,omitempty"`
}

// TransferResponse represents a transfer in API responses
type TransferResponse struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	SourceAccountID      string  `json:"sourceAccountId"`
	DestinationAccountID string  `json:"destinationAccountId"`
	Currency             string  `json:"currency"`
	Amount               string  `json:"amount"`
	Date                 string  `json:"date"`
	Note                 *string `json:"note,omitempty"`
	Active               bool    `json:"active"`
	CreatedAt            string  `json:"createdAt"`
	UpdatedAt            string  `json:"updatedAt"`
}

// CreateTransfer handles POST /api/v1/transfers
func (h *TransferHandler) CreateTransfer(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTransferRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	sourceID, err := uuid.Parse(req.SourceAccountID)
	if err != nil {
		return fieldError(c, "sourceAccountId", "Must be a valid UUID")
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

	transfer, err := h.transfers.Create(c.Request().Context(), userID, service.CreateTransferInput{
		Name:                 req.Name,
		SourceAccountID:      sourceID,
		DestinationAccountID: destinationID,
		Amount:               amount,
		Date:                 date,
		Note:                 req.Note,
	})
	if err != nil {
		return RespondServiceError(c, err, "Failed to create transfer")
	}
	return c.JSON(http.StatusCreated, toTransferResponse(transfer))
}

// GetTransfers handles GET /api/v1/transfers
func (h *TransferHandler) GetTransfers(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	transfers, err := h.transfers.List(c.Request().Context(), userID, includeArchived(c))
	if err != nil {
		return RespondServiceError(c, err, "Failed to list transfers")
	}

	response := make([]TransferResponse, len(transfers))
	for i, transfer := range transfers {
		response[i] = toTransferResponse(transfer)
	}
	return c.JSON(http.StatusOK, response)
}

// GetTransfer handles GET /api/v1/transfers/:id
func (h *TransferHandler) GetTransfer(c echo.Context) error {
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
		return RespondServiceError(c, err, "Failed to get transfer")
	}
	return c.JSON(http.StatusOK, toTransferResponse(transfer))
}

// UpdateTransfer handles PATCH /api/v1/transfers/:id
func (h *TransferHandler) UpdateTransfer(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	var req UpdateTransferRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateTransferInput{
		Name:   optionalOf(req.Name),
		Active: optionalOf(req.Active),
	}
	input.SourceAccountID, err = optionalID(req.SourceAccountID)
	if err != nil {
		return fieldError(c, "sourceAccountId", "Must be a valid UUID")
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
		return RespondServiceError(c, err, "Failed to update transfer")
	}
	return c.JSON(http.StatusOK, toTransferResponse(transfer))
}

// DeleteTransfer handles DELETE /api/v1/transfers/:id
func (h *TransferHandler) DeleteTransfer(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	if err := h.transfers.Delete(c.Request().Context(), userID, id); err != nil {
		return RespondServiceError(c, err, "Failed to delete transfer")
	}
	return c.NoContent(http.StatusNoContent)
}

func toTransferResponse(transfer *domain.Transfer) TransferResponse {
	return TransferResponse{
		ID:                   transfer.ID.String(),
		Name:                 transfer.Name,
		SourceAccountID:      transfer.SourceAccountID.String(),
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
