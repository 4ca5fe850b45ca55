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

// AccountRepository implements domain.AccountRepository using PostgreSQL
type AccountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, user_id, name, type, currency, balance, note, active, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account domain.Account
		balance pgtype.Numeric
	)
	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&account.Type,
		&account.Currency,
		&balance,
		&account.Note,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	account.Balance = pgNumericToDecimal(balance)
	return &account, nil
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	balance, err := decimalToPgNumeric(account.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO accounts (user_id, name, type, currency, balance, note, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+accountColumns,
		account.UserID, account.Name, account.Type, account.Currency,
		balance, account.Note, account.Active,
	)
	return scanAccount(row)
}

// GetByID retrieves an account by ID scoped to its owner
func (r *AccountRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	return account, err
}

// GetByName retrieves an account by its stored name scoped to its owner
func (r *AccountRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE user_id = $1 AND name = $2`,
		userID, name,
	)
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	return account, err
}

// ListByUser retrieves all accounts for a user
func (r *AccountRepository) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE user_id = $1 AND ($2 OR active)
		ORDER BY created_at`,
		userID, includeArchived,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// CountByCurrency counts a user's accounts in one currency
func (r *AccountRepository) CountByCurrency(ctx context.Context, userID uuid.UUID, currency string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM accounts
		WHERE user_id = $1 AND currency = $2`,
		userID, currency,
	).Scan(&count)
	return count, err
}

// Update writes every mutable column except the balance
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE accounts
		SET name = $3, type = $4, currency = $5, note = $6, active = $7, updated_at = $8
		WHERE user_id = $1 AND id = $2
		RETURNING `+accountColumns,
		account.UserID, account.ID, account.Name, account.Type,
		account.Currency, account.Note, account.Active, time.Now(),
	)
	updated, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	return updated, err
}

// UpdateBalance writes the balance column. Reserved for the ledger.
func (r *AccountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	num, err := decimalToPgNumeric(balance)
	if err != nil {
		return fmt.Errorf("invalid balance: %w", err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts SET balance = $2, updated_at = $3 WHERE id = $1`,
		id, num, time.Now(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// Delete permanently removes an account
func (r *AccountRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM accounts WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
