package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CategoryType categorizes a category
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
	// CategoryTypeNA marks the per-user balance-adjustment singleton.
	CategoryTypeNA CategoryType = "NA"
)

// ValidCategoryType reports whether t is one of the known category types.
func ValidCategoryType(t CategoryType) bool {
	switch t {
	case CategoryTypeExpense, CategoryTypeIncome, CategoryTypeNA:
		return true
	}
	return false
}

// AdjustmentCategoryName is the stored name of the NA singleton.
const AdjustmentCategoryName = "AJUSTE DE SALDO"

// reservedCategoryNames are refused for any non-NA category, compared
// case-insensitively against the cleaned input.
var reservedCategoryNames = []string{
	"ajuste",
	"ajustar",
	"ajuste saldo",
	"ajustar saldo",
	"ajuste de saldo",
}

// ReservedCategoryName reports whether name is reserved for the
// balance-adjustment singleton.
func ReservedCategoryName(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, reserved := range reservedCategoryNames {
		if lower == reserved {
			return true
		}
	}
	return false
}

// Category classifies incomes, expenses and budgets. Categories form an
// optional hierarchy through ParentID; the NA singleton never does.
type Category struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Name        string       `json:"name"`
	Type        CategoryType `json:"type"`
	ParentID    *uuid.UUID   `json:"parent_id,omitempty"`
	Description *string      `json:"description,omitempty"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsAdjustment reports whether the category is the NA singleton.
func (c *Category) IsAdjustment() bool {
	return c.Type == CategoryTypeNA
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Category, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*Category, error)
	GetAdjustment(ctx context.Context, userID uuid.UUID) (*Category, error)
	ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*Category, error)
	CountChildren(ctx context.Context, userID, parentID uuid.UUID) (int64, error)
	Update(ctx context.Context, category *Category) (*Category, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
