package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense spends from exactly one target: an account (debits its
// balance) or a budget (grows its expended total). Exactly one of
// AccountID and BudgetID is set.
type Expense struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Name       string          `json:"name"`
	AccountID  *uuid.UUID      `json:"account_id,omitempty"`
	BudgetID   *uuid.UUID      `json:"budget_id,omitempty"`
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
func (e *Expense) HasReceipt() bool {
	return e.ReceiptKey != nil && *e.ReceiptKey != ""
}

// ExpenseRepository defines data access for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) (*Expense, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Expense, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*Expense, error)
	ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*Expense, error)
	ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Expense, error)
	CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error)
	CountByBudget(ctx context.Context, userID, budgetID uuid.UUID) (int64, error)
	CountByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int64, error)
	Update(ctx context.Context, expense *Expense) (*Expense, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
