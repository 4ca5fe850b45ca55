package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/monedero/monedero-backend/internal/domain"
)

// CategoryService manages category lifecycle, including the balance
// adjustment singleton.
type CategoryService struct {
	store      domain.Store
	notifier   domain.Notifier
	dashboards *DashboardService
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(store domain.Store, notifier domain.Notifier, dashboards *DashboardService) *CategoryService {
	return &CategoryService{
		store:      store,
		notifier:   notifier,
		dashboards: dashboards,
	}
}

// CreateCategoryInput contains the fields to create a category.
type CreateCategoryInput struct {
	Name        string
	Type        domain.CategoryType
	ParentID    *uuid.UUID
	Description *string
}

// UpdateCategoryInput contains the partial fields to update a category.
type UpdateCategoryInput struct {
	Name        domain.Optional[string]
	Type        domain.Optional[domain.CategoryType]
	ParentID    domain.Optional[*uuid.UUID]
	Description domain.Optional[*string]
	Active      domain.Optional[bool]
}

// Create validates and persists a new category. A type of NA creates
// the per-user adjustment singleton: the name must spell out "ajuste de
// saldo", only one may exist and it never has a parent. For any other
// type the adjustment name variants are refused.
func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, input CreateCategoryInput) (*domain.Category, error) {
	if !domain.ValidCategoryType(input.Type) {
		return nil, domain.ErrInvalidInput
	}

	cleaned, err := domain.CleanInput(input.Name, domain.TextTitle)
	if err != nil {
		return nil, err
	}
	if cleaned == "" {
		return nil, domain.ErrInvalidInput
	}

	var name string
	if input.Type == domain.CategoryTypeNA {
		if !strings.EqualFold(cleaned, domain.AdjustmentCategoryName) {
			return nil, domain.ErrReservedCategoryName
		}
		if input.ParentID != nil {
			return nil, domain.ErrAdjustmentCategoryParent
		}
		_, err := s.store.Repos().Categories.GetAdjustment(ctx, userID)
		if err == nil {
			return nil, domain.ErrAdjustmentCategoryExists
		}
		if !errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, err
		}
		name = domain.AdjustmentCategoryName
	} else {
		if domain.ReservedCategoryName(cleaned) {
			return nil, domain.ErrReservedCategoryName
		}
		name = domain.Capitalize(strings.ToLower(cleaned))
	}

	if err := s.ensureNameFree(ctx, userID, name, uuid.Nil); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := s.store.Repos().Categories.GetByID(ctx, userID, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.IsAdjustment() {
			return nil, domain.ErrAdjustmentCategoryParent
		}
	}

	description, err := cleanNotePtr(input.Description)
	if err != nil {
		return nil, err
	}

	category := &domain.Category{
		UserID:      userID,
		Name:        name,
		Type:        input.Type,
		ParentID:    input.ParentID,
		Description: description,
		Active:      true,
	}

	var created *domain.Category
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		created, err = repos.Categories.Create(ctx, category)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("category_id", created.ID.String()).
		Str("type", string(created.Type)).
		Msg("Category created")

	s.notifier.Notify(userID, "Category created", created.Name, domain.SeveritySuccess)
	return created, nil
}

// Get returns one category.
func (s *CategoryService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	return s.store.Repos().Categories.GetByID(ctx, userID, id)
}

// List returns the user's categories.
func (s *CategoryService) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Category, error) {
	return s.store.Repos().Categories.ListByUser(ctx, userID, includeArchived)
}

// Update applies a partial update. The adjustment singleton keeps its
// name and type forever; other categories cannot take a reserved name
// and cannot change type while records or children reference them.
func (s *CategoryService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.store.Repos().Categories.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if category.IsAdjustment() {
		if name, ok := input.Name.Get(); ok {
			cleaned, err := domain.CleanInput(name, domain.TextTitle)
			if err != nil {
				return nil, err
			}
			if !strings.EqualFold(cleaned, domain.AdjustmentCategoryName) {
				return nil, domain.ErrCategoryNameFixed
			}
		}
		if categoryType, ok := input.Type.Get(); ok && categoryType != domain.CategoryTypeNA {
			return nil, domain.ErrCategoryTypeFixed
		}
		if parentID, ok := input.ParentID.Get(); ok && parentID != nil {
			return nil, domain.ErrAdjustmentCategoryParent
		}
	} else {
		if name, ok := input.Name.Get(); ok {
			cleaned, err := domain.CleanInput(name, domain.TextTitle)
			if err != nil {
				return nil, err
			}
			if domain.ReservedCategoryName(cleaned) {
				return nil, domain.ErrReservedCategoryName
			}
			canonical := domain.Capitalize(strings.ToLower(cleaned))
			if canonical == "" {
				return nil, domain.ErrInvalidInput
			}
			if canonical != category.Name {
				if err := s.ensureNameFree(ctx, userID, canonical, category.ID); err != nil {
					return nil, err
				}
				category.Name = canonical
			}
		}

		if categoryType, ok := input.Type.Get(); ok && categoryType != category.Type {
			if categoryType == domain.CategoryTypeNA {
				_, err := s.store.Repos().Categories.GetAdjustment(ctx, userID)
				if err == nil {
					return nil, domain.ErrAdjustmentCategoryExists
				}
				if !errors.Is(err, domain.ErrCategoryNotFound) {
					return nil, err
				}
				return nil, domain.ErrReservedCategoryName
			}
			if !domain.ValidCategoryType(categoryType) {
				return nil, domain.ErrInvalidInput
			}
			refs, err := s.referenceCount(ctx, userID, category.ID)
			if err != nil {
				return nil, err
			}
			if refs > 0 {
				return nil, domain.ErrEntityInUse
			}
			category.Type = categoryType
		}

		if parentID, ok := input.ParentID.Get(); ok {
			if parentID == nil {
				category.ParentID = nil
			} else {
				if *parentID == category.ID {
					return nil, domain.ErrInvalidInput
				}
				parent, err := s.store.Repos().Categories.GetByID(ctx, userID, *parentID)
				if err != nil {
					return nil, err
				}
				if parent.IsAdjustment() {
					return nil, domain.ErrAdjustmentCategoryParent
				}
				if err := s.ensureNoCycle(ctx, userID, category.ID, parent); err != nil {
					return nil, err
				}
				category.ParentID = parentID
			}
		}
	}

	category.Description, err = applyNote(category.Description, input.Description)
	if err != nil {
		return nil, err
	}
	if active, ok := input.Active.Get(); ok {
		category.Active = active
	}

	var updated *domain.Category
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		updated, err = repos.Categories.Update(ctx, category)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(userID, "Category updated", updated.Name, domain.SeverityInfo)
	// Renames change the dashboard grouping labels.
	if _, err := s.dashboards.Recalculate(ctx, userID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a category that no record or child references.
func (s *CategoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	category, err := s.store.Repos().Categories.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	refs, err := s.referenceCount(ctx, userID, category.ID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrEntityInUse
	}

	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		return repos.Categories.Delete(ctx, userID, id)
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(userID, "Category deleted", category.Name, domain.SeverityWarning)
	return nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, userID uuid.UUID, name string, selfID uuid.UUID) error {
	existing, err := s.store.Repos().Categories.GetByName(ctx, userID, name)
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return domain.ErrDuplicateName
}

// ensureNoCycle walks up from the proposed parent and fails if it
// reaches the category itself.
func (s *CategoryService) ensureNoCycle(ctx context.Context, userID, categoryID uuid.UUID, parent *domain.Category) error {
	seen := 0
	for parent.ParentID != nil {
		if *parent.ParentID == categoryID {
			return domain.ErrInvalidInput
		}
		seen++
		if seen > 100 {
			return domain.ErrInvalidInput
		}
		next, err := s.store.Repos().Categories.GetByID(ctx, userID, *parent.ParentID)
		if err != nil {
			return err
		}
		parent = next
	}
	return nil
}

// referenceCount sums records and children pointing at the category.
func (s *CategoryService) referenceCount(ctx context.Context, userID, categoryID uuid.UUID) (int64, error) {
	repos := s.store.Repos()
	var total int64

	n, err := repos.Incomes.CountByCategory(ctx, userID, categoryID)
	if err != nil {
		return 0, err
	}
	total += n

	n, err = repos.Expenses.CountByCategory(ctx, userID, categoryID)
	if err != nil {
		return 0, err
	}
	total += n

	n, err = repos.Budgets.CountByCategory(ctx, userID, categoryID)
	if err != nil {
		return 0, err
	}
	total += n

	n, err = repos.Categories.CountChildren(ctx, userID, categoryID)
	if err != nil {
		return 0, err
	}
	total += n

	return total, nil
}
