package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/brunovilar/pedezap-backend/pkg/db/models"
	pkgerrors "github.com/brunovilar/pedezap-backend/pkg/errors"
)

type categoryRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context, storeID uuid.UUID) ([]models.Category, error)
	UpdateCategorySortOrders(ctx context.Context, storeID uuid.UUID, orderedIDs []uuid.UUID) error
}

// CategoryService exposes admin category operations, all scoped to the
// authenticated store.
type CategoryService interface {
	Create(ctx context.Context, storeID uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, storeID, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, storeID, categoryID uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID) ([]CategoryDTO, error)
	Reorder(ctx context.Context, storeID uuid.UUID, orderedIDs []uuid.UUID) ([]CategoryDTO, error)
}

// CreateCategoryInput holds creation-time category data.
type CreateCategoryInput struct {
	Name      string
	SortOrder *int
}

// UpdateCategoryInput captures the allowed category fields for mutation.
type UpdateCategoryInput struct {
	Name      *string
	SortOrder *int
}

type categoryService struct {
	repo categoryRepository
}

// NewCategoryService builds the category service.
func NewCategoryService(repo categoryRepository) (CategoryService, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &categoryService{repo: repo}, nil
}

func (s *categoryService) Create(ctx context.Context, storeID uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category := &models.Category{
		StoreID: storeID,
		Name:    name,
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	} else {
		existing, err := s.repo.ListCategories(ctx, storeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
		}
		category.SortOrder = len(existing)
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return CategoryFromModel(category), nil
}

func (s *categoryService) Update(ctx context.Context, storeID, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.loadOwned(ctx, storeID, categoryID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
		}
		category.Name = name
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return CategoryFromModel(category), nil
}

func (s *categoryService) Delete(ctx context.Context, storeID, categoryID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, storeID, categoryID); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, categoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *categoryService) List(ctx context.Context, storeID uuid.UUID) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *CategoryFromModel(&categories[i]))
	}
	return out, nil
}

func (s *categoryService) Reorder(ctx context.Context, storeID uuid.UUID, orderedIDs []uuid.UUID) ([]CategoryDTO, error) {
	if len(orderedIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ordered ids are required")
	}

	existing, err := s.repo.ListCategories(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}

	known := make(map[uuid.UUID]bool, len(existing))
	for _, category := range existing {
		known[category.ID] = true
	}

	var verr error
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			verr = multierr.Append(verr, fmt.Errorf("duplicate category id %s", id))
			continue
		}
		seen[id] = true
		if !known[id] {
			verr = multierr.Append(verr, fmt.Errorf("category %s not in store", id))
		}
	}
	if len(orderedIDs) != len(existing) {
		verr = multierr.Append(verr, fmt.Errorf("expected %d category ids, got %d", len(existing), len(orderedIDs)))
	}
	if verr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, verr, "invalid reorder request")
	}

	if err := s.repo.UpdateCategorySortOrders(ctx, storeID, orderedIDs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reorder categories")
	}
	return s.List(ctx, storeID)
}

func (s *categoryService) loadOwned(ctx context.Context, storeID, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if category.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "category belongs to another store")
	}
	return category, nil
}
