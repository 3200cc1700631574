package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brunovilar/pedezap-backend/pkg/db/models"
)

// Repository handles catalog persistence: categories, products, extras and
// the product↔extra links.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to catalog operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateCategory persists a new category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// FindCategoryByID loads a category by its UUID.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory saves the provided category.
func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) error {
	if category == nil {
		return fmt.Errorf("category is required")
	}
	return r.db.WithContext(ctx).Save(category).Error
}

// DeleteCategory removes the category row; products cascade at the schema level.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

// ListCategories returns a store's categories ordered for display.
func (r *Repository) ListCategories(ctx context.Context, storeID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("sort_order ASC, created_at ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateCategorySortOrders rewrites sort_order for the given ids in one
// transaction, position in the slice becoming the new order.
func (r *Repository) UpdateCategorySortOrders(ctx context.Context, storeID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for position, id := range orderedIDs {
			res := tx.Model(&models.Category{}).
				Where("id = ? AND store_id = ?", id, storeID).
				Update("sort_order", position)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

// CreateProduct persists a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Extras").Create(product).Error
}

// FindProductByID loads a product with its linked extras.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Extras").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct saves the provided product without touching extra links.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	return r.db.WithContext(ctx).Omit("Extras").Save(product).Error
}

// DeleteProduct removes the product row; links cascade at the schema level.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// ListProducts returns a store's products, optionally limited to one category.
func (r *Repository) ListProducts(ctx context.Context, storeID uuid.UUID, categoryID *uuid.UUID) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Extras").
		Where("store_id = ?", storeID)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var products []models.Product
	if err := query.Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ReplaceProductExtras swaps the applicable-extras set for a product.
func (r *Repository) ReplaceProductExtras(ctx context.Context, productID uuid.UUID, extraIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProductExtra{}, "product_id = ?", productID).Error; err != nil {
			return err
		}
		if len(extraIDs) == 0 {
			return nil
		}
		links := make([]models.ProductExtra, 0, len(extraIDs))
		for _, extraID := range extraIDs {
			links = append(links, models.ProductExtra{ProductID: productID, ExtraID: extraID})
		}
		return tx.Create(&links).Error
	})
}

// ListProductExtraIDs returns the ids of extras linked to a product.
func (r *Repository) ListProductExtraIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.ProductExtra{}).
		Where("product_id = ?", productID).
		Pluck("extra_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FindActiveProduct loads an active product belonging to the store behind
// the given slug. Used by the public cart path.
func (r *Repository) FindActiveProduct(ctx context.Context, storeSlug string, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Joins("JOIN stores ON stores.id = products.store_id").
		Where("products.id = ? AND stores.slug = ? AND products.is_active", productID, storeSlug).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveExtras returns the subset of the given extras that are active and
// linked to the product.
func (r *Repository) FindActiveExtras(ctx context.Context, productID uuid.UUID, extraIDs []uuid.UUID) ([]models.Extra, error) {
	var extras []models.Extra
	if err := r.db.WithContext(ctx).
		Joins("JOIN product_extras ON product_extras.extra_id = extras.id").
		Where("product_extras.product_id = ? AND extras.id IN ? AND extras.is_active", productID, extraIDs).
		Find(&extras).Error; err != nil {
		return nil, err
	}
	return extras, nil
}

// CreateExtra persists a new extra row.
func (r *Repository) CreateExtra(ctx context.Context, extra *models.Extra) error {
	return r.db.WithContext(ctx).Create(extra).Error
}

// FindExtraByID loads an extra by its UUID.
func (r *Repository) FindExtraByID(ctx context.Context, id uuid.UUID) (*models.Extra, error) {
	var extra models.Extra
	if err := r.db.WithContext(ctx).First(&extra, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &extra, nil
}

// UpdateExtra saves the provided extra.
func (r *Repository) UpdateExtra(ctx context.Context, extra *models.Extra) error {
	if extra == nil {
		return fmt.Errorf("extra is required")
	}
	return r.db.WithContext(ctx).Save(extra).Error
}

// DeleteExtra removes the extra row and its product links.
func (r *Repository) DeleteExtra(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProductExtra{}, "extra_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Extra{}, "id = ?", id).Error
	})
}

// ListExtras returns a store's extras, optionally only the active ones.
func (r *Repository) ListExtras(ctx context.Context, storeID uuid.UUID, activeOnly bool) ([]models.Extra, error) {
	query := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if activeOnly {
		query = query.Where("is_active")
	}

	var extras []models.Extra
	if err := query.Order("name ASC").Find(&extras).Error; err != nil {
		return nil, err
	}
	return extras, nil
}
