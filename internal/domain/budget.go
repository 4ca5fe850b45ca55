package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget reserves an amount from an account for expenses in one
// category. Creating it debits the account by Amount; deleting it
// releases the full Amount back regardless of Expended.
type Budget struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Name       string          `json:"name"`
	AccountID  uuid.UUID       `json:"account_id"`
	CategoryID uuid.UUID       `json:"category_id"`
	Currency   string          `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
	Expended   decimal.Decimal `json:"expended"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	Note       *string         `json:"note,omitempty"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Balance is the amount still available for expenses.
func (b *Budget) Balance() decimal.Decimal {
	return b.Amount.Sub(b.Expended)
}

// BudgetRepository defines data access for budgets.
//
// UpdateExpended is the privileged write for the expended total; only
// the ledger calls it.
type BudgetRepository interface {
	Create(ctx context.Context, budget *Budget) (*Budget, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Budget, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*Budget, error)
	ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*Budget, error)
	CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error)
	CountByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int64, error)
	Update(ctx context.Context, budget *Budget) (*Budget, error)
	UpdateExpended(ctx context.Context, id uuid.UUID, expended decimal.Decimal) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
