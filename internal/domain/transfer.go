package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transfer moves money between two accounts of the same user. Both
// accounts share one currency; no conversion happens.
type Transfer struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               uuid.UUID       `json:"user_id"`
	Name                 string          `json:"name"`
	SourceAccountID      uuid.UUID       `json:"source_account_id"`
	DestinationAccountID uuid.UUID       `json:"destination_account_id"`
	Currency             string          `json:"currency"`
	Amount               decimal.Decimal `json:"amount"`
	Date                 time.Time       `json:"date"`
	Note                 *string         `json:"note,omitempty"`
	Active               bool            `json:"active"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, transfer *Transfer) (*Transfer, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Transfer, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*Transfer, error)
	ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*Transfer, error)
	ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Transfer, error)
	CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error)
	Update(ctx context.Context, transfer *Transfer) (*Transfer, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
