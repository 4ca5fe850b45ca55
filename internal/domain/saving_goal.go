package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingGoal is a shared target that any user can save into. Its name
// is unique across all users and its balance changes only through Save
// records.
type SavingGoal struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
	StartDate time.Time       `json:"start_date"`
	LimitDate time.Time       `json:"limit_date"`
	Note      *string         `json:"note,omitempty"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Completed reports whether the goal target has been reached.
func (g *SavingGoal) Completed() bool {
	return g.Balance.GreaterThanOrEqual(g.Amount)
}

// ReachedPercent returns the saved share of the target as a percentage.
func (g *SavingGoal) ReachedPercent() decimal.Decimal {
	if g.Amount.IsZero() {
		return decimal.Zero
	}
	return g.Balance.Div(g.Amount).Mul(decimal.NewFromInt(100))
}

// SavingGoalRepository defines data access for saving goals.
//
// UpdateBalance is the privileged balance write; only the ledger calls
// it.
type SavingGoalRepository interface {
	Create(ctx context.Context, goal *SavingGoal) (*SavingGoal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*SavingGoal, error)
	GetByName(ctx context.Context, name string) (*SavingGoal, error)
	List(ctx context.Context, includeArchived bool) ([]*SavingGoal, error)
	Update(ctx context.Context, goal *SavingGoal) (*SavingGoal, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}
