package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/monedero/monedero-backend/internal/middleware"
	"github.com/monedero/monedero-backend/internal/service"
)

// ReceiptHandler handles receipt uploads and downloads for incomes and
// expenses
type ReceiptHandler struct {
	receipts *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receipts *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// ReceiptURLResponse carries a short-lived download URL
type ReceiptURLResponse struct {
	URL string `json:"url"`
}

// UploadIncomeReceipt handles POST /api/v1/incomes/:id/receipt
func (h *ReceiptHandler) UploadIncomeReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	data, filename, err := readReceiptFile(c)
	if err != nil {
		return NewValidationError(c, "Invalid file upload", nil)
	}

	income, err := h.receipts.AttachToIncome(c.Request().Context(), userID, id, data, filename)
	if err != nil {
		return respondReceiptError(c, err)
	}
	return c.JSON(http.StatusOK, toIncomeResponse(income))
}

// GetIncomeReceipt handles GET /api/v1/incomes/:id/receipt
func (h *ReceiptHandler) GetIncomeReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	url, err := h.receipts.IncomeReceiptURL(c.Request().Context(), userID, id)
	if err != nil {
		return respondReceiptError(c, err)
	}
	return c.JSON(http.StatusOK, ReceiptURLResponse{URL: url})
}

// UploadExpenseReceipt handles POST /api/v1/expenses/:id/receipt
func (h *ReceiptHandler) UploadExpenseReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	data, filename, err := readReceiptFile(c)
	if err != nil {
		return NewValidationError(c, "Invalid file upload", nil)
	}

	expense, err := h.receipts.AttachToExpense(c.Request().Context(), userID, id, data, filename)
	if err != nil {
		return respondReceiptError(c, err)
	}
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// GetExpenseReceipt handles GET /api/v1/expenses/:id/receipt
func (h *ReceiptHandler) GetExpenseReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	url, err := h.receipts.ExpenseReceiptURL(c.Request().Context(), userID, id)
	if err != nil {
		return respondReceiptError(c, err)
	}
	return c.JSON(http.StatusOK, ReceiptURLResponse{URL: url})
}

// readReceiptFile reads the multipart "file" part, capped just past the
// service limit so oversized uploads fail with the size error rather
// than an open-ended read.
func readReceiptFile(c echo.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxReceiptSize+1))
	if err != nil {
		return nil, "", err
	}
	return data, fileHeader.Filename, nil
}

func respondReceiptError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrReceiptTooLarge),
		errors.Is(err, service.ErrReceiptInvalidFormat),
		errors.Is(err, service.ErrReceiptInvalidData):
		return NewValidationError(c, err.Error(), nil)
	case errors.Is(err, service.ErrReceiptsNotConfigured):
		return NewForbiddenError(c, err.Error())
	}
	return RespondServiceError(c, err, "Receipt operation failed")
}
