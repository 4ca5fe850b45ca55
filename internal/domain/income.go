package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Income credits an account. Its currency always equals the account's.
type Income struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Name       string          `json:"name"`
	AccountID  uuid.UUID       `json:"account_id"`
	CategoryID uuid.UUID       `json:"category_id"`
	Currency   string          `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Note       *string         `json:"note,omitempty"`
	ReceiptKey *string         `json:"receipt_key,omitempty"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// HasReceipt reports whether a receipt object is attached.
func (i *Income) HasReceipt() bool {
	return i.ReceiptKey != nil && *i.ReceiptKey != ""
}

// IncomeRepository defines data access for incomes.
type IncomeRepository interface {
	Create(ctx context.Context, income *Income) (*Income, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Income, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*Income, error)
	ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*Income, error)
	ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Income, error)
	CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error)
	CountByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int64, error)
	Update(ctx context.Context, income *Income) (*Income, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
