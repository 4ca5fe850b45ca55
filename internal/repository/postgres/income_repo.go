package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/monedero/monedero-backend/internal/domain"
)

// IncomeRepository implements domain.IncomeRepository using PostgreSQL
type IncomeRepository struct {
	db DBTX
}

// NewIncomeRepository creates a new IncomeRepository
func NewIncomeRepository(db DBTX) *IncomeRepository {
	return &IncomeRepository{db: db}
}

const incomeColumns = `id, user_id, name, account_id, category_id, currency, amount, date, note, receipt_key, active, created_at, updated_at`

func scanIncome(row pgx.Row) (*domain.Income, error) {
	var (
		income domain.Income
		amount pgtype.Numeric
	)
	err := row.Scan(
		&income.ID,
		&income.UserID,
		&income.Name,
		&income.AccountID,
		&income.CategoryID,
		&income.Currency,
		&amount,
		&income.Date,
		&income.Note,
		&income.ReceiptKey,
		&income.Active,
		&income.CreatedAt,
		&income.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	income.Amount = pgNumericToDecimal(amount)
	return &income, nil
}

// Create inserts a new income
func (r *IncomeRepository) Create(ctx context.Context, income *domain.Income) (*domain.Income, error) {
	amount, err := decimalToPgNumeric(income.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO incomes (user_id, name, account_id, category_id, currency, amount, date, note, receipt_key, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+incomeColumns,
		income.UserID, income.Name, income.AccountID, income.CategoryID,
		income.Currency, amount, income.Date, income.Note, income.ReceiptKey,
		income.Active,
	)
	return scanIncome(row)
}

// GetByID retrieves an income by ID scoped to its owner
func (r *IncomeRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Income, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+incomeColumns+` FROM incomes
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	income, err := scanIncome(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIncomeNotFound
	}
	return income, err
}

// GetByName retrieves an income by its stored name scoped to its owner
func (r *IncomeRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Income, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+incomeColumns+` FROM incomes
		WHERE user_id = $1 AND name = $2`,
		userID, name,
	)
	income, err := scanIncome(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIncomeNotFound
	}
	return income, err
}

// ListByUser retrieves all incomes for a user
func (r *IncomeRepository) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Income, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+incomeColumns+` FROM incomes
		WHERE user_id = $1 AND ($2 OR active)
		ORDER BY date DESC, created_at DESC`,
		userID, includeArchived,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIncomes(rows)
}

// ListByUserAndDateRange retrieves active incomes dated in [from, to)
func (r *IncomeRepository) ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Income, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+incomeColumns+` FROM incomes
		WHERE user_id = $1 AND active AND date >= $2 AND date < $3
		ORDER BY date`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIncomes(rows)
}

func collectIncomes(rows pgx.Rows) ([]*domain.Income, error) {
	var incomes []*domain.Income
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, income)
	}
	return incomes, rows.Err()
}

// CountByAccount counts incomes crediting one account
func (r *IncomeRepository) CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM incomes
		WHERE user_id = $1 AND account_id = $2`,
		userID, accountID,
	).Scan(&count)
	return count, err
}

// CountByCategory counts incomes classified by one category
func (r *IncomeRepository) CountByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM incomes
		WHERE user_id = $1 AND category_id = $2`,
		userID, categoryID,
	).Scan(&count)
	return count, err
}

// Update writes every mutable column
func (r *IncomeRepository) Update(ctx context.Context, income *domain.Income) (*domain.Income, error) {
	amount, err := decimalToPgNumeric(income.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE incomes
		SET name = $3, account_id = $4, category_id = $5, currency = $6, amount = $7,
		    date = $8, note = $9, receipt_key = $10, active = $11, updated_at = $12
		WHERE user_id = $1 AND id = $2
		RETURNING `+incomeColumns,
		income.UserID, income.ID, income.Name, income.AccountID, income.CategoryID,
		income.Currency, amount, income.Date, income.Note, income.ReceiptKey,
		income.Active, time.Now(),
	)
	updated, err := scanIncome(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIncomeNotFound
	}
	return updated, err
}

// Delete permanently removes an income
func (r *IncomeRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM incomes WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIncomeNotFound
	}
	return nil
}
