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

// SaveRepository implements domain.SaveRepository using PostgreSQL
type SaveRepository struct {
	db DBTX
}

// NewSaveRepository creates a new SaveRepository
func NewSaveRepository(db DBTX) *SaveRepository {
	return &SaveRepository{db: db}
}

const saveColumns = `id, user_id, name, source_account_id, saving_goal_id, currency, amount, date, note, active, created_at, updated_at`

func scanSave(row pgx.Row) (*domain.Save, error) {
	var (
		save   domain.Save
		amount pgtype.Numeric
	)
	err := row.Scan(
		&save.ID,
		&save.UserID,
		&save.Name,
		&save.SourceAccountID,
		&save.SavingGoalID,
		&save.Currency,
		&amount,
		&save.Date,
		&save.Note,
		&save.Active,
		&save.CreatedAt,
		&save.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	save.Amount = pgNumericToDecimal(amount)
	return &save, nil
}

// Create inserts a new save
func (r *SaveRepository) Create(ctx context.Context, save *domain.Save) (*domain.Save, error) {
	amount, err := decimalToPgNumeric(save.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO saves (user_id, name, source_account_id, saving_goal_id, currency, amount, date, note, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+saveColumns,
		save.UserID, save.Name, save.SourceAccountID, save.SavingGoalID,
		save.Currency, amount, save.Date, save.Note, save.Active,
	)
	return scanSave(row)
}

// GetByID retrieves a save by ID scoped to its owner
func (r *SaveRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Save, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+saveColumns+` FROM saves
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	save, err := scanSave(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSaveNotFound
	}
	return save, err
}

// GetByName retrieves a save by its stored name scoped to its owner
func (r *SaveRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Save, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+saveColumns+` FROM saves
		WHERE user_id = $1 AND name = $2`,
		userID, name,
	)
	save, err := scanSave(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSaveNotFound
	}
	return save, err
}

// ListByUser retrieves all saves for a user
func (r *SaveRepository) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Save, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+saveColumns+` FROM saves
		WHERE user_id = $1 AND ($2 OR active)
		ORDER BY date DESC, created_at DESC`,
		userID, includeArchived,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSaves(rows)
}

// ListByUserAndDateRange retrieves active saves dated in [from, to)
func (r *SaveRepository) ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Save, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+saveColumns+` FROM saves
		WHERE user_id = $1 AND active AND date >= $2 AND date < $3
		ORDER BY date`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSaves(rows)
}

func collectSaves(rows pgx.Rows) ([]*domain.Save, error) {
	var saves []*domain.Save
	for rows.Next() {
		save, err := scanSave(rows)
		if err != nil {
			return nil, err
		}
		saves = append(saves, save)
	}
	return saves, rows.Err()
}

// CountByAccount counts saves funded from one account
func (r *SaveRepository) CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM saves
		WHERE user_id = $1 AND source_account_id = $2`,
		userID, accountID,
	).Scan(&count)
	return count, err
}

// CountByGoal counts saves into one goal across all users
func (r *SaveRepository) CountByGoal(ctx context.Context, goalID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM saves WHERE saving_goal_id = $1`,
		goalID,
	).Scan(&count)
	return count, err
}

// Update writes every mutable column
func (r *SaveRepository) Update(ctx context.Context, save *domain.Save) (*domain.Save, error) {
	amount, err := decimalToPgNumeric(save.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE saves
		SET name = $3, source_account_id = $4, saving_goal_id = $5, currency = $6,
		    amount = $7, date = $8, note = $9, active = $10, updated_at = $11
		WHERE user_id = $1 AND id = $2
		RETURNING `+saveColumns,
		save.UserID, save.ID, save.Name, save.SourceAccountID, save.SavingGoalID,
		save.Currency, amount, save.Date, save.Note, save.Active, time.Now(),
	)
	updated, err := scanSave(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSaveNotFound
	}
	return updated, err
}

// Delete permanently removes a save
func (r *SaveRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM saves WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaveNotFound
	}
	return nil
}
