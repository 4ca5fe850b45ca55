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

// TransferRepository implements domain.TransferRepository using PostgreSQL
type TransferRepository struct {
	db DBTX
}

// NewTransferRepository creates a new TransferRepository
func NewTransferRepository(db DBTX) *TransferRepository {
	return &TransferRepository{db: db}
}

const transferColumns = `id, user_id, name, source_account_id, destination_account_id, currency, amount, date, note, active, created_at, updated_at`

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var (
		transfer domain.Transfer
		amount   pgtype.Numeric
	)
	err := row.Scan(
		&transfer.ID,
		&transfer.UserID,
		&transfer.Name,
		&transfer.SourceAccountID,
		&transfer.DestinationAccountID,
		&transfer.Currency,
		&amount,
		&transfer.Date,
		&transfer.Note,
		&transfer.Active,
		&transfer.CreatedAt,
		&transfer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	transfer.Amount = pgNumericToDecimal(amount)
	return &transfer, nil
}

// Create inserts a new transfer
func (r *TransferRepository) Create(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
	amount, err := decimalToPgNumeric(transfer.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO transfers (user_id, name, source_account_id, destination_account_id, currency, amount, date, note, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+transferColumns,
		transfer.UserID, transfer.Name, transfer.SourceAccountID,
		transfer.DestinationAccountID, transfer.Currency, amount,
		transfer.Date, transfer.Note, transfer.Active,
	)
	return scanTransfer(row)
}

// GetByID retrieves a transfer by ID scoped to its owner
func (r *TransferRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transfer, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+transferColumns+` FROM transfers
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	transfer, err := scanTransfer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransferNotFound
	}
	return transfer, err
}

// GetByName retrieves a transfer by its stored name scoped to its owner
func (r *TransferRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Transfer, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+transferColumns+` FROM transfers
		WHERE user_id = $1 AND name = $2`,
		userID, name,
	)
	transfer, err := scanTransfer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransferNotFound
	}
	return transfer, err
}

// ListByUser retrieves all transfers for a user
func (r *TransferRepository) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Transfer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+transferColumns+` FROM transfers
		WHERE user_id = $1 AND ($2 OR active)
		ORDER BY date DESC, created_at DESC`,
		userID, includeArchived,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransfers(rows)
}

// ListByUserAndDateRange retrieves active transfers dated in [from, to)
func (r *TransferRepository) ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Transfer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+transferColumns+` FROM transfers
		WHERE user_id = $1 AND active AND date >= $2 AND date < $3
		ORDER BY date`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransfers(rows)
}

func collectTransfers(rows pgx.Rows) ([]*domain.Transfer, error) {
	var transfers []*domain.Transfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}
	return transfers, rows.Err()
}

// CountByAccount counts transfers touching one account on either side
func (r *TransferRepository) CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM transfers
		WHERE user_id = $1 AND (source_account_id = $2 OR destination_account_id = $2)`,
		userID, accountID,
	).Scan(&count)
	return count, err
}

// Update writes every mutable column
func (r *TransferRepository) Update(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
	amount, err := decimalToPgNumeric(transfer.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE transfers
		SET name = $3, source_account_id = $4, destination_account_id = $5, currency = $6,
		    amount = $7, date = $8, note = $9, active = $10, updated_at = $11
		WHERE user_id = $1 AND id = $2
		RETURNING `+transferColumns,
		transfer.UserID, transfer.ID, transfer.Name, transfer.SourceAccountID,
		transfer.DestinationAccountID, transfer.Currency, amount,
		transfer.Date, transfer.Note, transfer.Active, time.Now(),
	)
	updated, err := scanTransfer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransferNotFound
	}
	return updated, err
}

// Delete permanently removes a transfer
func (r *TransferRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM transfers WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransferNotFound
	}
	return nil
}
