package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brunovilar/pedezap-backend/pkg/db/models"
)

// stubRepo is an in-memory catalogRepository shared by the service tests.
type stubRepo struct {
	categories map[uuid.UUID]*models.Category
	products   map[uuid.UUID]*models.Product
	extras     map[uuid.UUID]*models.Extra
	links      map[uuid.UUID][]uuid.UUID // product -> extra ids

	failNext error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		categories: map[uuid.UUID]*models.Category{},
		products:   map[uuid.UUID]*models.Product{},
		extras:     map[uuid.UUID]*models.Extra{},
		links:      map[uuid.UUID][]uuid.UUID{},
	}
}

func (r *stubRepo) fail() error {
	err := r.failNext
	r.failNext = nil
	return err
}

func (r *stubRepo) CreateCategory(_ context.Context, category *models.Category) error {
	if err := r.fail(); err != nil {
		return err
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	cpy := *category
	r.categories[category.ID] = &cpy
	return nil
}

func (r *stubRepo) FindCategoryByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if err := r.fail(); err != nil {
		return nil, err
	}
	category, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *category
	return &cpy, nil
}

func (r *stubRepo) UpdateCategory(_ context.Context, category *models.Category) error {
	if err := r.fail(); err != nil {
		return err
	}
	cpy := *category
	r.categories[category.ID] = &cpy
	return nil
}

func (r *stubRepo) DeleteCategory(_ context.Context, id uuid.UUID) error {
	if err := r.fail(); err != nil {
		return err
	}
	delete(r.categories, id)
	return nil
}

func (r *stubRepo) ListCategories(_ context.Context, storeID uuid.UUID) ([]models.Category, error) {
	if err := r.fail(); err != nil {
		return nil, err
	}
	var out []models.Category
	for _, category := range r.categories {
		if category.StoreID == storeID {
			out = append(out, *category)
		}
	}
	// deterministic order by sort_order
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].SortOrder < out[i].SortOrder {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *stubRepo) UpdateCategorySortOrders(_ context.Context, storeID uuid.UUID, orderedIDs []uuid.UUID) error {
	if err := r.fail(); err != nil {
		return err
	}
	for position, id := range orderedIDs {
		category, ok := r.categories[id]
		if !ok || category.StoreID != storeID {
			return gorm.ErrRecordNotFound
		}
		category.SortOrder = position
	}
	return nil
}

func (r *stubRepo) CreateProduct(_ context.Context, product *models.Product) error {
	if err := r.fail(); err != nil {
		return err
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	cpy := *product
	r.products[product.ID] = &cpy
	return nil
}

func (r *stubRepo) FindProductByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if err := r.fail(); err != nil {
		return nil, err
	}
	product, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *product
	cpy.Extras = nil
	for _, extraID := range r.links[id] {
		if extra, ok := r.extras[extraID]; ok {
			cpy.Extras = append(cpy.Extras, *extra)
		}
	}
	return &cpy, nil
}

func (r *stubRepo) UpdateProduct(_ context.Context, product *models.Product) error {
	if err := r.fail(); err != nil {
		return err
	}
	cpy := *product
	cpy.Extras = nil
	r.products[product.ID] = &cpy
	return nil
}

func (r *stubRepo) DeleteProduct(_ context.Context, id uuid.UUID) error {
	if err := r.fail(); err != nil {
		return err
	}
	delete(r.products, id)
	delete(r.links, id)
	return nil
}

func (r *stubRepo) ListProducts(_ context.Context, storeID uuid.UUID, categoryID *uuid.UUID) ([]models.Product, error) {
	if err := r.fail(); err != nil {
		return nil, err
	}
	var out []models.Product
	for id, product := range r.products {
		if product.StoreID != storeID {
			continue
		}
		if categoryID != nil && product.CategoryID != *categoryID {
			continue
		}
		loaded, _ := r.FindProductByID(context.Background(), id)
		out = append(out, *loaded)
	}
	return out, nil
}

func (r *stubRepo) ReplaceProductExtras(_ context.Context, productID uuid.UUID, extraIDs []uuid.UUID) error {
	if err := r.fail(); err != nil {
		return err
	}
	r.links[productID] = append([]uuid.UUID(nil), extraIDs...)
	return nil
}

func (r *stubRepo) ListProductExtraIDs(_ context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	if err := r.fail(); err != nil {
		return nil, err
	}
	return append([]uuid.UUID(nil), r.links[productID]...), nil
}

func (r *stubRepo) CreateExtra(_ context.Context, extra *models.Extra) error {
	if err := r.fail(); err != nil {
		return err
	}
	if extra.ID == uuid.Nil {
		extra.ID = uuid.New()
	}
	cpy := *extra
	r.extras[extra.ID] = &cpy
	return nil
}

func (r *stubRepo) FindExtraByID(_ context.Context, id uuid.UUID) (*models.Extra, error) {
	if err := r.fail(); err != nil {
		return nil, err
	}
	extra, ok := r.extras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *extra
	return &cpy, nil
}

func (r *stubRepo) UpdateExtra(_ context.Context, extra *models.Extra) error {
	if err := r.fail(); err != nil {
		return err
	}
	cpy := *extra
	r.extras[extra.ID] = &cpy
	return nil
}

func (r *stubRepo) DeleteExtra(_ context.Context, id uuid.UUID) error {
	if err := r.fail(); err != nil {
		return err
	}
	delete(r.extras, id)
	for productID, ids := range r.links {
		kept := ids[:0]
		for _, extraID := range ids {
			if extraID != id {
				kept = append(kept, extraID)
			}
		}
		r.links[productID] = kept
	}
	return nil
}

func (r *stubRepo) ListExtras(_ context.Context, storeID uuid.UUID, activeOnly bool) ([]models.Extra, error) {
	if err := r.fail(); err != nil {
		return nil, err
	}
	var out []models.Extra
	for _, extra := range r.extras {
		if extra.StoreID != storeID {
			continue
		}
		if activeOnly && !extra.IsActive {
			continue
		}
		out = append(out, *extra)
	}
	return out, nil
}
