package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType categorizes an account
type AccountType string

const (
	AccountTypeBank   AccountType = "bank"
	AccountTypeCredit AccountType = "credit"
	AccountTypeDebit  AccountType = "debit"
	AccountTypeCash   AccountType = "cash"
	AccountTypeOther  AccountType = "other"
)

// ValidAccountType reports whether t is one of the known account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeBank, AccountTypeCredit, AccountTypeDebit, AccountTypeCash, AccountTypeOther:
		return true
	}
	return false
}

// Account is a money holder owned by one user. Its balance is derived
// from movements and never written directly; see ErrManualBalanceEdit.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Note      *string         `json:"note,omitempty"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountRepository defines data access for accounts.
//
// UpdateBalance is the privileged balance write. Only the ledger calls
// it; Update never touches the balance column.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Account, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*Account, error)
	CountByCurrency(ctx context.Context, userID uuid.UUID, currency string) (int64, error)
	Update(ctx context.Context, account *Account) (*Account, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
