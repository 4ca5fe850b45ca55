package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/monedero/monedero-backend/internal/domain"
	"github.com/monedero/monedero-backend/internal/middleware"
	"github.com/monedero/monedero-backend/internal/service"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	ParentID    *string `json:"parentId,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateCategoryRequest represents the update category request body.
// An empty parentId detaches the category from its parent.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Type        *string `json:"type,omitempty"`
	ParentID    *string `json:"parentId,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	ParentID    *string `json:"parentId,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      bool    `json:"active"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var parentID *uuid.UUID
	if req.ParentID != nil && *req.ParentID != "" {
		id, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return fieldError(c, "parentId", "Must be a valid UUID")
		}
		parentID = &id
	}

	category, err := h.categories.Create(c.Request().Context(), userID, service.CreateCategoryInput{
		Name:        req.Name,
		Type:        domain.CategoryType(req.Type),
		ParentID:    parentID,
		Description: req.Description,
	})
	if err != nil {
		return RespondServiceError(c, err, "Failed to create category")
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// GetCategories handles GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	categories, err := h.categories.List(c.Request().Context(), userID, includeArchived(c))
	if err != nil {
		return RespondServiceError(c, err, "Failed to list categories")
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toCategoryResponse(category)
	}
	return c.JSON(http.StatusOK, response)
}

// GetCategory handles GET /api/v1/categories/:id
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	category, err := h.categories.Get(c.Request().Context(), userID, id)
	if err != nil {
		return RespondServiceError(c, err, "Failed to get category")
	}
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// UpdateCategory handles PATCH /api/v1/categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateCategoryInput{
		Name:   optionalOf(req.Name),
		Active: optionalOf(req.Active),
	}
	if req.Type != nil {
		input.Type = domain.Some(domain.CategoryType(*req.Type))
	}
	input.ParentID, err = optionalIDPtr(req.ParentID)
	if err != nil {
		return fieldError(c, "parentId", "Must be a valid UUID")
	}
	if req.Description != nil {
		input.Description = domain.Some(req.Description)
	}

	category, err := h.categories.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return RespondServiceError(c, err, "Failed to update category")
	}
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory handles DELETE /api/v1/categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	if err := h.categories.Delete(c.Request().Context(), userID, id); err != nil {
		return RespondServiceError(c, err, "Failed to delete category")
	}
	return c.NoContent(http.StatusNoContent)
}

func toCategoryResponse(category *domain.Category) CategoryResponse {
	var parentID *string
	if category.ParentID != nil {
		s := category.ParentID.String()
		parentID = &s
	}
	return CategoryResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		Type:        string(category.Type),
		ParentID:    parentID,
		Description: category.Description,
		Active:      category.Active,
		CreatedAt:   category.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   category.UpdatedAt.Format(time.RFC3339),
	}
}
