package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/brunovilar/pedezap-backend/pkg/db/models"
	pkgerrors "github.com/brunovilar/pedezap-backend/pkg/errors"
)

type productRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, storeID uuid.UUID, categoryID *uuid.UUID) ([]models.Product, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindExtraByID(ctx context.Context, id uuid.UUID) (*models.Extra, error)
	ReplaceProductExtras(ctx context.Context, productID uuid.UUID, extraIDs []uuid.UUID) error
	ListProductExtraIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error)
}

// ProductService exposes admin product operations scoped to the
// authenticated store.
type ProductService interface {
	Create(ctx context.Context, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, storeID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, storeID, productID uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, categoryID *uuid.UUID) ([]ProductDTO, error)
	SetExtras(ctx context.Context, storeID, productID uuid.UUID, extraIDs []uuid.UUID) (*ProductDTO, error)
	ApplicableExtraIDs(ctx context.Context, storeID, productID uuid.UUID) ([]uuid.UUID, error)
}

// CreateProductInput holds creation-time product data.
type CreateProductInput struct {
	CategoryID  uuid.UUID
	Name        string
	Description *string
	Price       decimal.Decimal
	ImageURL    *string
	IsActive    *bool
}

// UpdateProductInput captures the allowed product fields for mutation.
type UpdateProductInput struct {
	CategoryID  *uuid.UUID
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
	IsActive    *bool
}

type productService struct {
	repo productRepository
}

// NewProductService builds the product service.
func NewProductService(repo productRepository) (ProductService, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &productService{repo: repo}, nil
}

func (s *productService) Create(ctx context.Context, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}

	if err := s.checkCategory(ctx, storeID, input.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		StoreID:     storeID,
		CategoryID:  input.CategoryID,
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return ProductFromModel(product), nil
}

func (s *productService) Update(ctx context.Context, storeID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if err := s.checkCategory(ctx, storeID, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = cloneStringPtr(input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.ImageURL != nil {
		product.ImageURL = cloneStringPtr(input.ImageURL)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return ProductFromModel(product), nil
}

func (s *productService) Delete(ctx context.Context, storeID, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, storeID, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *productService) List(ctx context.Context, storeID uuid.UUID, categoryID *uuid.UUID) ([]ProductDTO, error) {
	products, err := s.repo.ListProducts(ctx, storeID, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *ProductFromModel(&products[i]))
	}
	return out, nil
}

func (s *productService) SetExtras(ctx context.Context, storeID, productID uuid.UUID, extraIDs []uuid.UUID) (*ProductDTO, error) {
	if _, err := s.loadOwned(ctx, storeID, productID); err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(extraIDs))
	for _, extraID := range extraIDs {
		if seen[extraID] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate extra id").
				WithDetails(map[string]any{"extra_id": extraID.String()})
		}
		seen[extraID] = true

		extra, err := s.repo.FindExtraByID(ctx, extraID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "extra not found").
					WithDetails(map[string]any{"extra_id": extraID.String()})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load extra")
		}
		if extra.StoreID != storeID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "extra belongs to another store")
		}
	}

	if err := s.repo.ReplaceProductExtras(ctx, productID, extraIDs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace product extras")
	}

	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return ProductFromModel(product), nil
}

func (s *productService) ApplicableExtraIDs(ctx context.Context, storeID, productID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.loadOwned(ctx, storeID, productID); err != nil {
		return nil, err
	}
	ids, err := s.repo.ListProductExtraIDs(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product extras")
	}
	return ids, nil
}

func (s *productService) loadOwned(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another store")
	}
	return product, nil
}

func (s *productService) checkCategory(ctx context.Context, storeID, categoryID uuid.UUID) error {
	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if category.StoreID != storeID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "category belongs to another store")
	}
	return nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
