package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NamedTotal is one entry of a month grouping: a category or record
// name with its summed total in the dashboard currency.
type NamedTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// KindStats holds the monthly statistics for one movement kind.
//
// Variation compares the current month total with the previous one:
// equal totals give 0, a zero previous month gives 100, a growing total
// gives current/last*100 and a shrinking one current/last*100 - 100.
// TopVariation follows the same formula for incomes and expenses
// (comparing the top group against its own previous-month total); for
// saves and transfers it is the top entry's share of the month total.
type KindStats struct {
	MonthTotal     decimal.Decimal `json:"month_total"`
	LastMonthTotal decimal.Decimal `json:"last_month_total"`
	Groups         []NamedTotal    `json:"groups"`
	Top            NamedTotal      `json:"top"`
	Variation      float64         `json:"variation"`
	TopVariation   float64         `json:"top_variation"`
}

// Dashboard is the per-user snapshot of derived statistics. Every field
// except Currency is computed; it is rebuilt in full after each
// mutation that touches the user's records.
type Dashboard struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Currency string    `json:"currency"`

	AccountsTotal decimal.Decimal `json:"accounts_total"`
	BudgetsTotal  decimal.Decimal `json:"budgets_total"`
	GoalsTotal    decimal.Decimal `json:"goals_total"`
	NetTotal      decimal.Decimal `json:"net_total"`

	Income           KindStats `json:"income"`
	Expense          KindStats `json:"expense"`
	Save             KindStats `json:"save"`
	Transfer         KindStats `json:"transfer"`
	ExternalSent     KindStats `json:"external_sent"`
	ExternalReceived KindStats `json:"external_received"`

	RecalculatedAt time.Time `json:"recalculated_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DashboardRepository defines data access for dashboards.
type DashboardRepository interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
	Upsert(ctx context.Context, dashboard *Dashboard) (*Dashboard, error)
}
