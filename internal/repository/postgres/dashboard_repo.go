package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/monedero/monedero-backend/internal/domain"
)

// DashboardRepository implements domain.DashboardRepository using
// PostgreSQL. The per-kind statistics are stored as JSONB; the snapshot
// is always written whole.
type DashboardRepository struct {
	db DBTX
}

// NewDashboardRepository creates a new DashboardRepository
func NewDashboardRepository(db DBTX) *DashboardRepository {
	return &DashboardRepository{db: db}
}

const dashboardColumns = `id, user_id, currency, accounts_total, budgets_total, goals_total, net_total,
	income_stats, expense_stats, save_stats, transfer_stats, external_sent_stats, external_received_stats,
	recalculated_at, created_at, updated_at`

func scanDashboard(row pgx.Row) (*domain.Dashboard, error) {
	var (
		dashboard     domain.Dashboard
		accountsTotal pgtype.Numeric
		budgetsTotal  pgtype.Numeric
		goalsTotal    pgtype.Numeric
		netTotal      pgtype.Numeric
		statBlobs     [6][]byte
	)
	err := row.Scan(
		&dashboard.ID,
		&dashboard.UserID,
		&dashboard.Currency,
		&accountsTotal,
		&budgetsTotal,
		&goalsTotal,
		&netTotal,
		&statBlobs[0],
		&statBlobs[1],
		&statBlobs[2],
		&statBlobs[3],
		&statBlobs[4],
		&statBlobs[5],
		&dashboard.RecalculatedAt,
		&dashboard.CreatedAt,
		&dashboard.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	dashboard.AccountsTotal = pgNumericToDecimal(accountsTotal)
	dashboard.BudgetsTotal = pgNumericToDecimal(budgetsTotal)
	dashboard.GoalsTotal = pgNumericToDecimal(goalsTotal)
	dashboard.NetTotal = pgNumericToDecimal(netTotal)

	targets := []*domain.KindStats{
		&dashboard.Income, &dashboard.Expense, &dashboard.Save,
		&dashboard.Transfer, &dashboard.ExternalSent, &dashboard.ExternalReceived,
	}
	for i, blob := range statBlobs {
		if len(blob) == 0 {
			continue
		}
		if err := json.Unmarshal(blob, targets[i]); err != nil {
			return nil, fmt.Errorf("failed to decode dashboard stats: %w", err)
		}
	}
	return &dashboard, nil
}

// GetByUser retrieves a user's dashboard
func (r *DashboardRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Dashboard, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+dashboardColumns+` FROM dashboards WHERE user_id = $1`,
		userID,
	)
	dashboard, err := scanDashboard(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDashboardNotFound
	}
	return dashboard, err
}

// Upsert writes the full dashboard snapshot, inserting on first use
func (r *DashboardRepository) Upsert(ctx context.Context, dashboard *domain.Dashboard) (*domain.Dashboard, error) {
	accountsTotal, err := decimalToPgNumeric(dashboard.AccountsTotal)
	if err != nil {
		return nil, fmt.Errorf("invalid accounts total: %w", err)
	}
	budgetsTotal, err := decimalToPgNumeric(dashboard.BudgetsTotal)
	if err != nil {
		return nil, fmt.Errorf("invalid budgets total: %w", err)
	}
	goalsTotal, err := decimalToPgNumeric(dashboard.GoalsTotal)
	if err != nil {
		return nil, fmt.Errorf("invalid goals total: %w", err)
	}
	netTotal, err := decimalToPgNumeric(dashboard.NetTotal)
	if err != nil {
		return nil, fmt.Errorf("invalid net total: %w", err)
	}

	stats := []domain.KindStats{
		dashboard.Income, dashboard.Expense, dashboard.Save,
		dashboard.Transfer, dashboard.ExternalSent, dashboard.ExternalReceived,
	}
	blobs := make([][]byte, len(stats))
	for i, s := range stats {
		blob, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("failed to encode dashboard stats: %w", err)
		}
		blobs[i] = blob
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO dashboards (user_id, currency, accounts_total, budgets_total, goals_total, net_total,
			income_stats, expense_stats, save_stats, transfer_stats, external_sent_stats, external_received_stats,
			recalculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE
		SET currency = EXCLUDED.currency,
		    accounts_total = EXCLUDED.accounts_total,
		    budgets_total = EXCLUDED.budgets_total,
		    goals_total = EXCLUDED.goals_total,
		    net_total = EXCLUDED.net_total,
		    income_stats = EXCLUDED.income_stats,
		    expense_stats = EXCLUDED.expense_stats,
		    save_stats = EXCLUDED.save_stats,
		    transfer_stats = EXCLUDED.transfer_stats,
		    external_sent_stats = EXCLUDED.external_sent_stats,
		    external_received_stats = EXCLUDED.external_received_stats,
		    recalculated_at = EXCLUDED.recalculated_at,
		    updated_at = now()
		RETURNING `+dashboardColumns,
		dashboard.UserID, dashboard.Currency, accountsTotal, budgetsTotal,
		goalsTotal, netTotal, blobs[0], blobs[1], blobs[2], blobs[3],
		blobs[4], blobs[5], dashboard.RecalculatedAt,
	)
	return scanDashboard(row)
}
