package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/monedero/monedero-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	db DBTX
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, user_id, name, type, parent_id, description, active, created_at, updated_at`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var category domain.Category
	err := row.Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Type,
		&category.ParentID,
		&category.Description,
		&category.Active,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO categories (user_id, name, type, parent_id, description, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+categoryColumns,
		category.UserID, category.Name, category.Type,
		category.ParentID, category.Description, category.Active,
	)
	return scanCategory(row)
}

// GetByID retrieves a category by ID scoped to its owner
func (r *CategoryRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	category, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCategoryNotFound
	}
	return category, err
}

// GetByName retrieves a category by its stored name scoped to its owner
func (r *CategoryRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Category, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE user_id = $1 AND name = $2`,
		userID, name,
	)
	category, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCategoryNotFound
	}
	return category, err
}

// GetAdjustment retrieves the user's balance-adjustment singleton
func (r *CategoryRepository) GetAdjustment(ctx context.Context, userID uuid.UUID) (*domain.Category, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE user_id = $1 AND type = $2`,
		userID, domain.CategoryTypeNA,
	)
	category, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCategoryNotFound
	}
	return category, err
}

// ListByUser retrieves all categories for a user
func (r *CategoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE user_id = $1 AND ($2 OR active)
		ORDER BY created_at`,
		userID, includeArchived,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// CountChildren counts the direct children of a category
func (r *CategoryRepository) CountChildren(ctx context.Context, userID, parentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM categories
		WHERE user_id = $1 AND parent_id = $2`,
		userID, parentID,
	).Scan(&count)
	return count, err
}

// Update writes every mutable column
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE categories
		SET name = $3, type = $4, parent_id = $5, description = $6, active = $7, updated_at = $8
		WHERE user_id = $1 AND id = $2
		RETURNING `+categoryColumns,
		category.UserID, category.ID, category.Name, category.Type,
		category.ParentID, category.Description, category.Active, time.Now(),
	)
	updated, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCategoryNotFound
	}
	return updated, err
}

// Delete permanently removes a category
func (r *CategoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM categories WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
