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

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	db DBTX
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(db DBTX) *BudgetRepository {
	return &BudgetRepository{db: db}
}

const budgetColumns = `id, user_id, name, account_id, category_id, currency, amount, expended, start_date, end_date, note, active, created_at, updated_at`

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		budget   domain.Budget
		amount   pgtype.Numeric
		expended pgtype.Numeric
	)
	err := row.Scan(
		&budget.ID,
		&budget.UserID,
		&budget.Name,
		&budget.AccountID,
		&budget.CategoryID,
		&budget.Currency,
		&amount,
		&expended,
		&budget.StartDate,
		&budget.EndDate,
		&budget.Note,
		&budget.Active,
		&budget.CreatedAt,
		&budget.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	budget.Amount = pgNumericToDecimal(amount)
	budget.Expended = pgNumericToDecimal(expended)
	return &budget, nil
}

// Create inserts a new budget
func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	expended, err := decimalToPgNumeric(budget.Expended)
	if err != nil {
		return nil, fmt.Errorf("invalid expended: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO budgets (user_id, name, account_id, category_id, currency, amount, expended, start_date, end_date, note, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+budgetColumns,
		budget.UserID, budget.Name, budget.AccountID, budget.CategoryID,
		budget.Currency, amount, expended, budget.StartDate, budget.EndDate,
		budget.Note, budget.Active,
	)
	return scanBudget(row)
}

// GetByID retrieves a budget by ID scoped to its owner
func (r *BudgetRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Budget, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+budgetColumns+` FROM budgets
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	budget, err := scanBudget(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBudgetNotFound
	}
	return budget, err
}

// GetByName retrieves a budget by its stored name scoped to its owner
func (r *BudgetRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Budget, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+budgetColumns+` FROM budgets
		WHERE user_id = $1 AND name = $2`,
		userID, name,
	)
	budget, err := scanBudget(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBudgetNotFound
	}
	return budget, err
}

// ListByUser retrieves all budgets for a user
func (r *BudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Budget, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+budgetColumns+` FROM budgets
		WHERE user_id = $1 AND ($2 OR active)
		ORDER BY created_at`,
		userID, includeArchived,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

// CountByAccount counts budgets funded by one account
func (r *BudgetRepository) CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM budgets
		WHERE user_id = $1 AND account_id = $2`,
		userID, accountID,
	).Scan(&count)
	return count, err
}

// CountByCategory counts budgets classified by one category
func (r *BudgetRepository) CountByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM budgets
		WHERE user_id = $1 AND category_id = $2`,
		userID, categoryID,
	).Scan(&count)
	return count, err
}

// Update writes every mutable column except the expended total
func (r *BudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE budgets
		SET name = $3, account_id = $4, category_id = $5, currency = $6, amount = $7,
		    start_date = $8, end_date = $9, note = $10, active = $11, updated_at = $12
		WHERE user_id = $1 AND id = $2
		RETURNING `+budgetColumns,
		budget.UserID, budget.ID, budget.Name, budget.AccountID, budget.CategoryID,
		budget.Currency, amount, budget.StartDate, budget.EndDate,
		budget.Note, budget.Active, time.Now(),
	)
	updated, err := scanBudget(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBudgetNotFound
	}
	return updated, err
}

// UpdateExpended writes the expended column. Reserved for the ledger.
func (r *BudgetRepository) UpdateExpended(ctx context.Context, id uuid.UUID, expended decimal.Decimal) error {
	num, err := decimalToPgNumeric(expended)
	if err != nil {
		return fmt.Errorf("invalid expended: %w", err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE budgets SET expended = $2, updated_at = $3 WHERE id = $1`,
		id, num, time.Now(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

// Delete permanently removes a budget
func (r *BudgetRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM budgets WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}
