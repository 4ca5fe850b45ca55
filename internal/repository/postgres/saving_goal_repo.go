package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/monedero/monedero-backend/internal/domain"
)

// SavingGoalRepository implements domain.SavingGoalRepository using
// PostgreSQL. Goals are shared records, not scoped to a user.
type SavingGoalRepository struct {
	db DBTX
}

// NewSavingGoalRepository creates a new SavingGoalRepository
func NewSavingGoalRepository(db DBTX) *SavingGoalRepository {
	return &SavingGoalRepository{db: db}
}

const savingGoalColumns = `id, name, currency, amount, balance, start_date, limit_date, note, active, created_at, updated_at`

func scanSavingGoal(row pgx.Row) (*domain.SavingGoal, error) {
	var (
		goal    domain.SavingGoal
		amount  pgtype.Numeric
		balance pgtype.Numeric
	)
	err := row.Scan(
		&goal.ID,
		&goal.Name,
		&goal.Currency,
		&amount,
		&balance,
		&goal.StartDate,
		&goal.LimitDate,
		&goal.Note,
		&goal.Active,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	goal.Amount = pgNumericToDecimal(amount)
	goal.Balance = pgNumericToDecimal(balance)
	return &goal, nil
}

// Create inserts a new saving goal
func (r *SavingGoalRepository) Create(ctx context.Context, goal *domain.SavingGoal) (*domain.SavingGoal, error) {
	amount, err := decimalToPgNumeric(goal.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	balance, err := decimalToPgNumeric(goal.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO saving_goals (name, currency, amount, balance, start_date, limit_date, note, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+savingGoalColumns,
		goal.Name, goal.Currency, amount, balance,
		goal.StartDate, goal.LimitDate, goal.Note, goal.Active,
	)
	return scanSavingGoal(row)
}

// GetByID retrieves a saving goal by ID
func (r *SavingGoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingGoal, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+savingGoalColumns+` FROM saving_goals WHERE id = $1`,
		id,
	)
	goal, err := scanSavingGoal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSavingGoalNotFound
	}
	return goal, err
}

// GetByName retrieves a saving goal by its stored name
func (r *SavingGoalRepository) GetByName(ctx context.Context, name string) (*domain.SavingGoal, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+savingGoalColumns+` FROM saving_goals WHERE name = $1`,
		name,
	)
	goal, err := scanSavingGoal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSavingGoalNotFound
	}
	return goal, err
}

// List retrieves all saving goals
func (r *SavingGoalRepository) List(ctx context.Context, includeArchived bool) ([]*domain.SavingGoal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+savingGoalColumns+` FROM saving_goals
		WHERE $1 OR active
		ORDER BY created_at`,
		includeArchived,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*domain.SavingGoal
	for rows.Next() {
		goal, err := scanSavingGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// Update writes every mutable column except the balance
func (r *SavingGoalRepository) Update(ctx context.Context, goal *domain.SavingGoal) (*domain.SavingGoal, error) {
	amount, err := decimalToPgNumeric(goal.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE saving_goals
		SET name = $2, currency = $3, amount = $4, start_date = $5, limit_date = $6,
		    note = $7, active = $8, updated_at = $9
		WHERE id = $1
		RETURNING `+savingGoalColumns,
		goal.ID, goal.Name, goal.Currency, amount,
		goal.StartDate, goal.LimitDate, goal.Note, goal.Active, time.Now(),
	)
	updated, err := scanSavingGoal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSavingGoalNotFound
	}
	return updated, err
}

// UpdateBalance writes the balance column. Reserved for the ledger.
func (r *SavingGoalRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	num, err := decimalToPgNumeric(balance)
	if err != nil {
		return fmt.Errorf("invalid balance: %w", err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE saving_goals SET balance = $2, updated_at = $3 WHERE id = $1`,
		id, num, time.Now(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSavingGoalNotFound
	}
	return nil
}

// Delete permanently removes a saving goal
func (r *SavingGoalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM saving_goals WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSavingGoalNotFound
	}
	return nil
}
