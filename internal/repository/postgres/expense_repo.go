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

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	db DBTX
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(db DBTX) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseColumns = `id, user_id, name, account_id, budget_id, category_id, currency, amount, date, note, receipt_key, active, created_at, updated_at`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		expense domain.Expense
		amount  pgtype.Numeric
	)
	err := row.Scan(
		&expense.ID,
		&expense.UserID,
		&expense.Name,
		&expense.AccountID,
		&expense.BudgetID,
		&expense.CategoryID,
		&expense.Currency,
		&amount,
		&expense.Date,
		&expense.Note,
		&expense.ReceiptKey,
		&expense.Active,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	expense.Amount = pgNumericToDecimal(amount)
	return &expense, nil
}

// Create inserts a new expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO expenses (user_id, name, account_id, budget_id, category_id, currency, amount, date, note, receipt_key, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+expenseColumns,
		expense.UserID, expense.Name, expense.AccountID, expense.BudgetID,
		expense.CategoryID, expense.Currency, amount, expense.Date,
		expense.Note, expense.ReceiptKey, expense.Active,
	)
	return scanExpense(row)
}

// GetByID retrieves an expense by ID scoped to its owner
func (r *ExpenseRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Expense, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	expense, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrExpenseNotFound
	}
	return expense, err
}

// GetByName retrieves an expense by its stored name scoped to its owner
func (r *ExpenseRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Expense, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE user_id = $1 AND name = $2`,
		userID, name,
	)
	expense, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrExpenseNotFound
	}
	return expense, err
}

// ListByUser retrieves all expenses for a user
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Expense, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE user_id = $1 AND ($2 OR active)
		ORDER BY date DESC, created_at DESC`,
		userID, includeArchived,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExpenses(rows)
}

// ListByUserAndDateRange retrieves active expenses dated in [from, to)
func (r *ExpenseRepository) ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Expense, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE user_id = $1 AND active AND date >= $2 AND date < $3
		ORDER BY date`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func collectExpenses(rows pgx.Rows) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// CountByAccount counts expenses debiting one account
func (r *ExpenseRepository) CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM expenses
		WHERE user_id = $1 AND account_id = $2`,
		userID, accountID,
	).Scan(&count)
	return count, err
}

// CountByBudget counts expenses charged to one budget
func (r *ExpenseRepository) CountByBudget(ctx context.Context, userID, budgetID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM expenses
		WHERE user_id = $1 AND budget_id = $2`,
		userID, budgetID,
	).Scan(&count)
	return count, err
}

// CountByCategory counts expenses classified by one category
func (r *ExpenseRepository) CountByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM expenses
		WHERE user_id = $1 AND category_id = $2`,
		userID, categoryID,
	).Scan(&count)
	return count, err
}

// Update writes every mutable column
func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE expenses
		SET name = $3, account_id = $4, budget_id = $5, category_id = $6, currency = $7,
		    amount = $8, date = $9, note = $10, receipt_key = $11, active = $12, updated_at = $13
		WHERE user_id = $1 AND id = $2
		RETURNING `+expenseColumns,
		expense.UserID, expense.ID, expense.Name, expense.AccountID, expense.BudgetID,
		expense.CategoryID, expense.Currency, amount, expense.Date,
		expense.Note, expense.ReceiptKey, expense.Active, time.Now(),
	)
	updated, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrExpenseNotFound
	}
	return updated, err
}

// Delete permanently removes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM expenses WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}
