package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brunovilar/pedezap-backend/internal/catalog"
	"github.com/brunovilar/pedezap-backend/internal/stores"
	"github.com/brunovilar/pedezap-backend/pkg/db/models"
	pkgerrors "github.com/brunovilar/pedezap-backend/pkg/errors"
)

type storeReader interface {
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
}

type catalogReader interface {
	ListCategories(ctx context.Context, storeID uuid.UUID) ([]models.Category, error)
	ListProducts(ctx context.Context, storeID uuid.UUID, categoryID *uuid.UUID) ([]models.Product, error)
}

// Service is the public read side: everything a menu page needs in one
// aggregate, loaded by slug.
type Service interface {
	LoadStorefront(ctx context.Context, slug string) (*StorefrontDTO, error)
	GetStore(ctx context.Context, slug string) (*stores.StoreDTO, error)
}

// StorefrontDTO is the complete public menu for one store.
type StorefrontDTO struct {
	Store      stores.StoreDTO   `json:"store"`
	Categories []CategorySection `json:"categories"`
}

// CategorySection groups the active products under one category.
type CategorySection struct {
	ID       uuid.UUID            `json:"id"`
	Name     string               `json:"name"`
	Products []catalog.ProductDTO `json:"products"`
}

type service struct {
	stores  storeReader
	catalog catalogReader
}

// NewService builds the storefront read service.
func NewService(storesRepo storeReader, catalogRepo catalogReader) (Service, error) {
	if storesRepo == nil {
		return nil, fmt.Errorf("store reader required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	return &service{stores: storesRepo, catalog: catalogRepo}, nil
}

func (s *service) LoadStorefront(ctx context.Context, slug string) (*StorefrontDTO, error) {
	store, err := s.loadStore(ctx, slug)
	if err != nil {
		return nil, err
	}

	categories, err := s.catalog.ListCategories(ctx, store.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	products, err := s.catalog.ListProducts(ctx, store.ID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	byCategory := make(map[uuid.UUID][]catalog.ProductDTO, len(categories))
	for i := range products {
		product := &products[i]
		if !product.IsActive {
			continue
		}
		dto := productWithActiveExtras(product)
		byCategory[product.CategoryID] = append(byCategory[product.CategoryID], *dto)
	}

	sections := make([]CategorySection, 0, len(categories))
	for i := range categories {
		category := &categories[i]
		productsInCategory := byCategory[category.ID]
		if productsInCategory == nil {
			productsInCategory = []catalog.ProductDTO{}
		}
		sections = append(sections, CategorySection{
			ID:       category.ID,
			Name:     category.Name,
			Products: productsInCategory,
		})
	}

	return &StorefrontDTO{
		Store:      *stores.FromModel(store),
		Categories: sections,
	}, nil
}

func (s *service) GetStore(ctx context.Context, slug string) (*stores.StoreDTO, error) {
	store, err := s.loadStore(ctx, slug)
	if err != nil {
		return nil, err
	}
	return stores.FromModel(store), nil
}

func (s *service) loadStore(ctx context.Context, slug string) (*models.Store, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store slug is required")
	}
	store, err := s.stores.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

// productWithActiveExtras maps a product keeping only its active extras, the
// only ones a customer may pick.
func productWithActiveExtras(product *models.Product) *catalog.ProductDTO {
	dto := catalog.ProductFromModel(product)
	active := dto.Extras[:0]
	for _, extra := range dto.Extras {
		if extra.IsActive {
			active = append(active, extra)
		}
	}
	dto.Extras = active
	return dto
}
