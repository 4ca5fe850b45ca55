package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExternalTransfer moves money from one of the sender's accounts into
// an account owned by another user. Once created, the amount and the
// destination are frozen and the record cannot be deleted, only
// archived; the source account may still change, which moves the debit.
type ExternalTransfer struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               uuid.UUID       `json:"user_id"`
	ExternalUserID       uuid.UUID       `json:"external_user_id"`
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

// ExternalTransferRepository defines data access for external transfers.
type ExternalTransferRepository interface {
	Create(ctx context.Context, transfer *ExternalTransfer) (*ExternalTransfer, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*ExternalTransfer, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*ExternalTransfer, error)
	ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*ExternalTransfer, error)
	ListSentByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*ExternalTransfer, error)
	ListReceivedByUserAndDateRange(ctx context.Context, externalUserID uuid.UUID, from, to time.Time) ([]*ExternalTransfer, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
	Update(ctx context.Context, transfer *ExternalTransfer) (*ExternalTransfer, error)
}
