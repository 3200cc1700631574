package cart

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

type catalogReader interface {
	FindActiveProduct(ctx context.Context, storeSlug string, productID uuid.UUID) (*models.Product, error)
	FindActiveExtras(ctx context.Context, productID uuid.UUID, extraIDs []uuid.UUID) ([]models.Extra, error)
}

type storeReader interface {
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
}

// Service exposes cart operations keyed by the opaque client-held cart key.
type Service interface {
	Get(ctx context.Context, key string) (*DTO, error)
	SetTenant(ctx context.Context, key, slug string) (*DTO, error)
	AddItem(ctx context.Context, key string, input AddItemInput) (*DTO, error)
	SetQuantity(ctx context.Context, key string, productID uuid.UUID, quantity int) (*DTO, error)
	RemoveItem(ctx context.Context, key string, productID uuid.UUID) (*DTO, error)
	Clear(ctx context.Context, key string) error
}

// AddItemInput identifies the catalog rows to snapshot into the cart.
type AddItemInput struct {
	StoreSlug string
	ProductID uuid.UUID
	ExtraIDs  []uuid.UUID
	Note      string
}

// DTO is the cart state plus derived totals returned to clients.
type DTO struct {
	StoreSlug   string          `json:"store_slug,omitempty"`
	Lines       []Line          `json:"lines"`
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

type service struct {
	port    StatePort
	catalog catalogReader
	stores  storeReader
}

// NewService builds the cart service around a persistence port and catalog
// read access.
func NewService(port StatePort, catalog catalogReader, stores storeReader) (Service, error) {
	if port == nil {
		return nil, fmt.Errorf("state port required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store reader required")
	}
	return &service{port: port, catalog: catalog, stores: stores}, nil
}

func (s *service) Get(ctx context.Context, key string) (*DTO, error) {
	state, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, state)
}

func (s *service) SetTenant(ctx context.Context, key, slug string) (*DTO, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store slug is required")
	}

	state, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	crt := New(state)
	crt.SetTenant(slug)

	if err := s.save(ctx, key, crt.State()); err != nil {
		return nil, err
	}
	return s.toDTO(ctx, crt.State())
}

func (s *service) AddItem(ctx context.Context, key string, input AddItemInput) (*DTO, error) {
	slug := strings.TrimSpace(input.StoreSlug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store slug is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.catalog.FindActiveProduct(ctx, slug, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	extras, err := s.resolveExtras(ctx, input.ProductID, input.ExtraIDs)
	if err != nil {
		return nil, err
	}

	state, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	crt := New(state)
	crt.SetTenant(slug)
	crt.AddItem(ProductSnapshot{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
	}, extras, strings.TrimSpace(input.Note))

	if err := s.save(ctx, key, crt.State()); err != nil {
		return nil, err
	}
	return s.toDTO(ctx, crt.State())
}

func (s *service) SetQuantity(ctx context.Context, key string, productID uuid.UUID, quantity int) (*DTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	state, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	crt := New(state)
	crt.SetQuantity(productID, quantity)

	if err := s.save(ctx, key, crt.State()); err != nil {
		return nil, err
	}
	return s.toDTO(ctx, crt.State())
}

func (s *service) RemoveItem(ctx context.Context, key string, productID uuid.UUID) (*DTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	state, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	crt := New(state)
	crt.RemoveItem(productID)

	if err := s.save(ctx, key, crt.State()); err != nil {
		return nil, err
	}
	return s.toDTO(ctx, crt.State())
}

func (s *service) Clear(ctx context.Context, key string) error {
	if err := s.port.Delete(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) resolveExtras(ctx context.Context, productID uuid.UUID, extraIDs []uuid.UUID) ([]ExtraSnapshot, error) {
	if len(extraIDs) == 0 {
		return nil, nil
	}

	rows, err := s.catalog.FindActiveExtras(ctx, productID, extraIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load extras")
	}

	byID := make(map[uuid.UUID]models.Extra, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	snapshots := make([]ExtraSnapshot, 0, len(extraIDs))
	for _, id := range extraIDs {
		row, ok := byID[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "extra not applicable to product").
				WithDetails(map[string]any{"extra_id": id.String()})
		}
		snapshots = append(snapshots, ExtraSnapshot{
			ID:    row.ID,
			Name:  row.Name,
			Price: row.Price,
		})
	}
	return snapshots, nil
}

func (s *service) load(ctx context.Context, key string) (*State, error) {
	if strings.TrimSpace(key) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart key is required")
	}
	state, err := s.port.Load(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return state, nil
}

func (s *service) save(ctx context.Context, key string, state *State) error {
	if err := s.port.Save(ctx, key, state); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *service) toDTO(ctx context.Context, state *State) (*DTO, error) {
	crt := New(state)

	fee := decimal.Zero
	if state.StoreSlug != "" {
		store, err := s.stores.FindBySlug(ctx, state.StoreSlug)
		switch {
		case err == nil:
			fee = store.DeliveryFee
		case errors.Is(err, gorm.ErrRecordNotFound):
			// store vanished; cart totals fall back to line sums
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
		}
	}

	subtotal := crt.ComputeTotal(decimal.Zero)
	return &DTO{
		StoreSlug:   state.StoreSlug,
		Lines:       state.Lines,
		ItemCount:   crt.TotalItemCount(),
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
	}, nil
}
