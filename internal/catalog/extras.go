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

type extraRepository interface {
	CreateExtra(ctx context.Context, extra *models.Extra) error
	FindExtraByID(ctx context.Context, id uuid.UUID) (*models.Extra, error)
	UpdateExtra(ctx context.Context, extra *models.Extra) error
	DeleteExtra(ctx context.Context, id uuid.UUID) error
	ListExtras(ctx context.Context, storeID uuid.UUID, activeOnly bool) ([]models.Extra, error)
}

// ExtraService exposes admin extra operations scoped to the authenticated
// store.
type ExtraService interface {
	Create(ctx context.Context, storeID uuid.UUID, input CreateExtraInput) (*ExtraDTO, error)
	Update(ctx context.Context, storeID, extraID uuid.UUID, input UpdateExtraInput) (*ExtraDTO, error)
	Delete(ctx context.Context, storeID, extraID uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, activeOnly bool) ([]ExtraDTO, error)
}

// CreateExtraInput holds creation-time extra data.
type CreateExtraInput struct {
	Name     string
	Price    decimal.Decimal
	IsActive *bool
}

// UpdateExtraInput captures the allowed extra fields for mutation.
type UpdateExtraInput struct {
	Name     *string
	Price    *decimal.Decimal
	IsActive *bool
}

type extraService struct {
	repo extraRepository
}

// NewExtraService builds the extra service.
func NewExtraService(repo extraRepository) (ExtraService, error) {
	if repo == nil {
		return nil, fmt.Errorf("extra repository required")
	}
	return &extraService{repo: repo}, nil
}

func (s *extraService) Create(ctx context.Context, storeID uuid.UUID, input CreateExtraInput) (*ExtraDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "extra name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	extra := &models.Extra{
		StoreID:  storeID,
		Name:     name,
		Price:    input.Price,
		IsActive: true,
	}
	if input.IsActive != nil {
		extra.IsActive = *input.IsActive
	}

	if err := s.repo.CreateExtra(ctx, extra); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create extra")
	}
	return ExtraFromModel(extra), nil
}

func (s *extraService) Update(ctx context.Context, storeID, extraID uuid.UUID, input UpdateExtraInput) (*ExtraDTO, error) {
	extra, err := s.loadOwned(ctx, storeID, extraID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "extra name is required")
		}
		extra.Name = name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		extra.Price = *input.Price
	}
	if input.IsActive != nil {
		extra.IsActive = *input.IsActive
	}

	if err := s.repo.UpdateExtra(ctx, extra); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update extra")
	}
	return ExtraFromModel(extra), nil
}

func (s *extraService) Delete(ctx context.Context, storeID, extraID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, storeID, extraID); err != nil {
		return err
	}
	if err := s.repo.DeleteExtra(ctx, extraID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete extra")
	}
	return nil
}

func (s *extraService) List(ctx context.Context, storeID uuid.UUID, activeOnly bool) ([]ExtraDTO, error) {
	extras, err := s.repo.ListExtras(ctx, storeID, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list extras")
	}
	out := make([]ExtraDTO, 0, len(extras))
	for i := range extras {
		out = append(out, *ExtraFromModel(&extras[i]))
	}
	return out, nil
}

func (s *extraService) loadOwned(ctx context.Context, storeID, extraID uuid.UUID) (*models.Extra, error) {
	extra, err := s.repo.FindExtraByID(ctx, extraID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "extra not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load extra")
	}
	if extra.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "extra belongs to another store")
	}
	return extra, nil
}
