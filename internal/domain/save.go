package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Save moves money from one of the user's accounts into a saving goal.
type Save struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Name            string          `json:"name"`
	SourceAccountID uuid.UUID       `json:"source_account_id"`
	SavingGoalID    uuid.UUID       `json:"saving_goal_id"`
	Currency        string          `json:"currency"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	Note            *string         `json:"note,omitempty"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// SaveRepository defines data access for saves.
type SaveRepository interface {
	Create(ctx context.Context, save *Save) (*Save, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Save, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*Save, error)
	ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*Save, error)
	ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Save, error)
	CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error)
	CountByGoal(ctx context.Context, goalID uuid.UUID) (int64, error)
	Update(ctx context.Context, save *Save) (*Save, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
