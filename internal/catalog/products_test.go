package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brunovilar/pedezap-backend/pkg/db/models"
	pkgerrors "github.com/brunovilar/pedezap-backend/pkg/errors"
)

func seedCategory(repo *stubRepo, storeID uuid.UUID) *models.Category {
	category := &models.Category{ID: uuid.New(), StoreID: storeID, Name: "Lanches"}
	repo.categories[category.ID] = category
	return category
}

func seedExtra(repo *stubRepo, storeID uuid.UUID, name string) *models.Extra {
	extra := &models.Extra{
		ID:       uuid.New(),
		StoreID:  storeID,
		Name:     name,
		Price:    decimal.RequireFromString("3.50"),
		IsActive: true,
	}
	repo.extras[extra.ID] = extra
	return extra
}

func TestProductCreate(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewProductService(repo)
	if err != nil {
		t.Fatalf("NewProductService: %v", err)
	}
	storeID := uuid.New()
	category := seedCategory(repo, storeID)

	created, err := svc.Create(context.Background(), storeID, CreateProductInput{
		CategoryID: category.ID,
		Name:       "X-Burger",
		Price:      decimal.RequireFromString("20.00"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !created.IsActive {
		t.Fatal("expected product active by default")
	}
	if !created.Price.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("unexpected price %s", created.Price)
	}
}

func TestProductCreateValidation(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewProductService(repo)
	storeID := uuid.New()
	category := seedCategory(repo, storeID)

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing name", CreateProductInput{CategoryID: category.ID, Price: decimal.NewFromInt(1)}},
		{"negative price", CreateProductInput{CategoryID: category.ID, Name: "X", Price: decimal.NewFromInt(-1)}},
		{"missing category", CreateProductInput{Name: "X", Price: decimal.NewFromInt(1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), storeID, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestProductCreateForeignCategory(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewProductService(repo)
	category := seedCategory(repo, uuid.New())

	_, err := svc.Create(context.Background(), uuid.New(), CreateProductInput{
		CategoryID: category.ID,
		Name:       "X-Burger",
		Price:      decimal.NewFromInt(10),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN for foreign category, got %v", err)
	}
}

func TestProductUpdateFields(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewProductService(repo)
	storeID := uuid.New()
	category := seedCategory(repo, storeID)

	created, _ := svc.Create(context.Background(), storeID, CreateProductInput{
		CategoryID: category.ID,
		Name:       "X-Burger",
		Price:      decimal.RequireFromString("20.00"),
	})

	newPrice := decimal.RequireFromString("22.50")
	inactive := false
	image := "https://storage.googleapis.com/pedezap-media/x.png"
	updated, err := svc.Update(context.Background(), storeID, created.ID, UpdateProductInput{
		Price:    &newPrice,
		IsActive: &inactive,
		ImageURL: &image,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if !updated.Price.Equal(newPrice) || updated.IsActive {
		t.Fatalf("unexpected product after update: %+v", updated)
	}
	if updated.ImageURL == nil || *updated.ImageURL != image {
		t.Fatalf("expected image url attached, got %v", updated.ImageURL)
	}
}

func TestProductSetExtras(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewProductService(repo)
	storeID := uuid.New()
	category := seedCategory(repo, storeID)
	bacon := seedExtra(repo, storeID, "Bacon")
	cheese := seedExtra(repo, storeID, "Queijo")

	created, _ := svc.Create(context.Background(), storeID, CreateProductInput{
		CategoryID: category.ID,
		Name:       "X-Burger",
		Price:      decimal.RequireFromString("20.00"),
	})

	updated, err := svc.SetExtras(context.Background(), storeID, created.ID, []uuid.UUID{bacon.ID, cheese.ID})
	if err != nil {
		t.Fatalf("SetExtras: %v", err)
	}
	if len(updated.Extras) != 2 {
		t.Fatalf("expected 2 linked extras, got %d", len(updated.Extras))
	}

	ids, err := svc.ApplicableExtraIDs(context.Background(), storeID, created.ID)
	if err != nil {
		t.Fatalf("ApplicableExtraIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 extra ids, got %d", len(ids))
	}

	// replacement drops the old set
	updated, err = svc.SetExtras(context.Background(), storeID, created.ID, []uuid.UUID{cheese.ID})
	if err != nil {
		t.Fatalf("SetExtras replace: %v", err)
	}
	if len(updated.Extras) != 1 || updated.Extras[0].ID != cheese.ID {
		t.Fatalf("expected only cheese linked, got %+v", updated.Extras)
	}
}

func TestProductSetExtrasRejectsForeignExtra(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewProductService(repo)
	storeID := uuid.New()
	category := seedCategory(repo, storeID)
	foreign := seedExtra(repo, uuid.New(), "Alheio")

	created, _ := svc.Create(context.Background(), storeID, CreateProductInput{
		CategoryID: category.ID,
		Name:       "X-Burger",
		Price:      decimal.RequireFromString("20.00"),
	})

	_, err := svc.SetExtras(context.Background(), storeID, created.ID, []uuid.UUID{foreign.ID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN for foreign extra, got %v", err)
	}
}

func TestProductListByCategory(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewProductService(repo)
	storeID := uuid.New()
	lanches := seedCategory(repo, storeID)
	bebidas := &models.Category{ID: uuid.New(), StoreID: storeID, Name: "Bebidas"}
	repo.categories[bebidas.ID] = bebidas

	if _, err := svc.Create(context.Background(), storeID, CreateProductInput{
		CategoryID: lanches.ID, Name: "X-Burger", Price: decimal.NewFromInt(20),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), storeID, CreateProductInput{
		CategoryID: bebidas.ID, Name: "Refrigerante", Price: decimal.NewFromInt(6),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := svc.List(context.Background(), storeID, nil)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}

	drinks, err := svc.List(context.Background(), storeID, &bebidas.ID)
	if err != nil {
		t.Fatalf("List by category: %v", err)
	}
	if len(drinks) != 1 || drinks[0].Name != "Refrigerante" {
		t.Fatalf("unexpected category filter result: %+v", drinks)
	}
}

func TestProductDeleteCrossTenantForbidden(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewProductService(repo)
	owner := uuid.New()
	category := seedCategory(repo, owner)

	created, _ := svc.Create(context.Background(), owner, CreateProductInput{
		CategoryID: category.ID, Name: "X-Burger", Price: decimal.NewFromInt(20),
	})

	err := svc.Delete(context.Background(), uuid.New(), created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}
