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

// ExternalTransferRepository implements domain.ExternalTransferRepository
// using PostgreSQL. There is no Delete: external transfers are audit
// records shared between two users and can only be archived.
type ExternalTransferRepository struct {
	db DBTX
}

// NewExternalTransferRepository creates a new ExternalTransferRepository
func NewExternalTransferRepository(db DBTX) *ExternalTransferRepository {
	return &ExternalTransferRepository{db: db}
}

const externalTransferColumns = `id, user_id, external_user_id, name, source_account_id, destination_account_id, currency, amount, date, note, active, created_at, updated_at`

func scanExternalTransfer(row pgx.Row) (*domain.ExternalTransfer, error) {
	var (
		transfer domain.ExternalTransfer
		amount   pgtype.Numeric
	)
	err := row.Scan(
		&transfer.ID,
		&transfer.UserID,
		&transfer.ExternalUserID,
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

// Create inserts a new external transfer
func (r *ExternalTransferRepository) Create(ctx context.Context, transfer *domain.ExternalTransfer) (*domain.ExternalTransfer, error) {
	amount, err := decimalToPgNumeric(transfer.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO external_transfers (user_id, external_user_id, name, source_account_id, destination_account_id, currency, amount, date, note, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+externalTransferColumns,
		transfer.UserID, transfer.ExternalUserID, transfer.Name,
		transfer.SourceAccountID, transfer.DestinationAccountID,
		transfer.Currency, amount, transfer.Date, transfer.Note,
		transfer.Active,
	)
	return scanExternalTransfer(row)
}

// GetByID retrieves an external transfer by ID scoped to the sender
func (r *ExternalTransferRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.ExternalTransfer, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+externalTransferColumns+` FROM external_transfers
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	transfer, err := scanExternalTransfer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrExternalTransferNotFound
	}
	return transfer, err
}

// GetByName retrieves an external transfer by its stored name scoped to
// the sender
func (r *ExternalTransferRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.ExternalTransfer, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+externalTransferColumns+` FROM external_transfers
		WHERE user_id = $1 AND name = $2`,
		userID, name,
	)
	transfer, err := scanExternalTransfer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrExternalTransferNotFound
	}
	return transfer, err
}

// ListByUser retrieves all external transfers sent by a user
func (r *ExternalTransferRepository) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.ExternalTransfer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+externalTransferColumns+` FROM external_transfers
		WHERE user_id = $1 AND ($2 OR active)
		ORDER BY date DESC, created_at DESC`,
		userID, includeArchived,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExternalTransfers(rows)
}

// ListSentByUserAndDateRange retrieves active transfers sent by the user
// dated in [from, to)
func (r *ExternalTransferRepository) ListSentByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.ExternalTransfer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+externalTransferColumns+` FROM external_transfers
		WHERE user_id = $1 AND active AND date >= $2 AND date < $3
		ORDER BY date`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExternalTransfers(rows)
}

// ListReceivedByUserAndDateRange retrieves active transfers received by
// the user dated in [from, to)
func (r *ExternalTransferRepository) ListReceivedByUserAndDateRange(ctx context.Context, externalUserID uuid.UUID, from, to time.Time) ([]*domain.ExternalTransfer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+externalTransferColumns+` FROM external_transfers
		WHERE external_user_id = $1 AND active AND date >= $2 AND date < $3
		ORDER BY date`,
		externalUserID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExternalTransfers(rows)
}

func collectExternalTransfers(rows pgx.Rows) ([]*domain.ExternalTransfer, error) {
	var transfers []*domain.ExternalTransfer
	for rows.Next() {
		transfer, err := scanExternalTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}
	return transfers, rows.Err()
}

// CountByAccount counts external transfers touching one account on
// either side, regardless of owner
func (r *ExternalTransferRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM external_transfers
		WHERE source_account_id = $1 OR destination_account_id = $1`,
		accountID,
	).Scan(&count)
	return count, err
}

// Update writes the mutable columns. Amount, destination and external
// user stay frozen at the service layer; the SQL still writes only the
// columns that may legally change.
func (r *ExternalTransferRepository) Update(ctx context.Context, transfer *domain.ExternalTransfer) (*domain.ExternalTransfer, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE external_transfers
		SET name = $3, source_account_id = $4, date = $5, note = $6, active = $7, updated_at = $8
		WHERE user_id = $1 AND id = $2
		RETURNING `+externalTransferColumns,
		transfer.UserID, transfer.ID, transfer.Name, transfer.SourceAccountID,
		transfer.Date, transfer.Note, transfer.Active, time.Now(),
	)
	updated, err := scanExternalTransfer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrExternalTransferNotFound
	}
	return updated, err
}
