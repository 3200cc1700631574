package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/brunovilar/pedezap-backend/internal/cart"
	"github.com/brunovilar/pedezap-backend/pkg/db/models"
	"github.com/brunovilar/pedezap-backend/pkg/enums"
	pkgerrors "github.com/brunovilar/pedezap-backend/pkg/errors"
)

type stubStores struct {
	stores map[string]*models.Store
}

func (s *stubStores) FindBySlug(_ context.Context, slug string) (*models.Store, error) {
	store, ok := s.stores[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return store, nil
}

func openStore(slug string) *models.Store {
	return &models.Store{
		ID:             uuid.New(),
		Name:           "Hamburgueria Top",
		Slug:           slug,
		WhatsAppNumber: "(11) 98765-4321",
		DeliveryFee:    decimal.RequireFromString("5.00"),
		IsOpen:         true,
		PaymentMethods: pq.StringArray{"pix", "credit", "money"},
	}
}

func seededCartPort(t *testing.T, key, slug string) cart.StatePort {
	t.Helper()
	port := cart.NewMemoryPort()
	state := &cart.State{
		StoreSlug: slug,
		Lines: []cart.Line{{
			Product: cart.ProductSnapshot{
				ID:    uuid.New(),
				Name:  "X-Burger",
				Price: decimal.RequireFromString("20.00"),
			},
			Extras: []cart.ExtraSnapshot{
				{ID: uuid.New(), Name: "Bacon", Price: decimal.RequireFromString("3.50")},
			},
			Quantity: 2,
		}},
	}
	if err := port.Save(context.Background(), key, state); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	return port
}

func validInput() CheckoutInput {
	return CheckoutInput{
		CustomerName:  "João Silva",
		Phone:         "(11) 91234-5678",
		Address:       "Rua das Flores, 123",
		PaymentMethod: enums.PaymentMethodPix,
	}
}

func newCheckoutService(t *testing.T, stores *stubStores, port cart.StatePort) Service {
	t.Helper()
	formatter, err := NewFormatter("America/Sao_Paulo", fixedClock)
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	svc, err := NewService(stores, port, formatter, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCheckoutHappyPath(t *testing.T) {
	slug := "hamburgueria-top"
	stores := &stubStores{stores: map[string]*models.Store{slug: openStore(slug)}}
	port := seededCartPort(t, "cart-1", slug)
	svc := newCheckoutService(t, stores, port)

	result, err := svc.Checkout(context.Background(), slug, "cart-1", validInput())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if !result.Total.Equal(decimal.RequireFromString("52.00")) {
		t.Fatalf("expected total 52.00, got %s", result.Total)
	}
	if !strings.HasPrefix(result.Link, "https://wa.me/11987654321?text=") {
		t.Fatalf("unexpected link %q", result.Link)
	}
	if !strings.Contains(result.Message, "💰 Total: R$ 52,00") {
		t.Fatalf("message missing total:\n%s", result.Message)
	}
}

func TestCheckoutDoesNotClearCart(t *testing.T) {
	slug := "hamburgueria-top"
	stores := &stubStores{stores: map[string]*models.Store{slug: openStore(slug)}}
	port := seededCartPort(t, "cart-1", slug)
	svc := newCheckoutService(t, stores, port)

	if _, err := svc.Checkout(context.Background(), slug, "cart-1", validInput()); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	state, err := port.Load(context.Background(), "cart-1")
	if err != nil {
		t.Fatalf("Load after checkout: %v", err)
	}
	if len(state.Lines) != 1 {
		t.Fatalf("checkout must leave the cart intact, got %d lines", len(state.Lines))
	}
}

func TestCheckoutClosedStore(t *testing.T) {
	slug := "hamburgueria-top"
	store := openStore(slug)
	store.IsOpen = false
	stores := &stubStores{stores: map[string]*models.Store{slug: store}}
	svc := newCheckoutService(t, stores, seededCartPort(t, "cart-1", slug))

	_, err := svc.Checkout(context.Background(), slug, "cart-1", validInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT for closed store, got %v", err)
	}
}

func TestCheckoutUnknownStore(t *testing.T) {
	svc := newCheckoutService(t, &stubStores{stores: map[string]*models.Store{}}, cart.NewMemoryPort())

	_, err := svc.Checkout(context.Background(), "ghost", "cart-1", validInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCheckoutRejectedPaymentMethod(t *testing.T) {
	slug := "hamburgueria-top"
	store := openStore(slug)
	store.PaymentMethods = pq.StringArray{"pix"}
	stores := &stubStores{stores: map[string]*models.Store{slug: store}}
	svc := newCheckoutService(t, stores, seededCartPort(t, "cart-1", slug))

	input := validInput()
	input.PaymentMethod = enums.PaymentMethodMoney
	_, err := svc.Checkout(context.Background(), slug, "cart-1", input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for rejected method, got %v", err)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	slug := "hamburgueria-top"
	stores := &stubStores{stores: map[string]*models.Store{slug: openStore(slug)}}
	svc := newCheckoutService(t, stores, cart.NewMemoryPort())

	_, err := svc.Checkout(context.Background(), slug, "cart-1", validInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for empty cart, got %v", err)
	}
}

func TestCheckoutCartFromAnotherStore(t *testing.T) {
	slug := "hamburgueria-top"
	stores := &stubStores{stores: map[string]*models.Store{slug: openStore(slug)}}
	svc := newCheckoutService(t, stores, seededCartPort(t, "cart-1", "pizzaria-do-ze"))

	_, err := svc.Checkout(context.Background(), slug, "cart-1", validInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for cross-store cart, got %v", err)
	}
}

func TestCheckoutInputValidation(t *testing.T) {
	slug := "hamburgueria-top"
	stores := &stubStores{stores: map[string]*models.Store{slug: openStore(slug)}}
	svc := newCheckoutService(t, stores, seededCartPort(t, "cart-1", slug))

	negative := decimal.RequireFromString("-1")
	cases := []struct {
		name string
		mut  func(*CheckoutInput)
	}{
		{"missing name", func(in *CheckoutInput) { in.CustomerName = " " }},
		{"missing phone", func(in *CheckoutInput) { in.Phone = "" }},
		{"missing address", func(in *CheckoutInput) { in.Address = "" }},
		{"bad method", func(in *CheckoutInput) { in.PaymentMethod = "bitcoin" }},
		{"negative change", func(in *CheckoutInput) { in.ChangeFor = &negative }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mut(&input)
			_, err := svc.Checkout(context.Background(), slug, "cart-1", input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestCheckoutChangeRenderedForMoney(t *testing.T) {
	slug := "hamburgueria-top"
	stores := &stubStores{stores: map[string]*models.Store{slug: openStore(slug)}}
	svc := newCheckoutService(t, stores, seededCartPort(t, "cart-1", slug))

	change := decimal.RequireFromString("100.00")
	input := validInput()
	input.PaymentMethod = enums.PaymentMethodMoney
	input.ChangeFor = &change

	result, err := svc.Checkout(context.Background(), slug, "cart-1", input)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !strings.Contains(result.Message, "🔄 Troco para: R$ 100,00") {
		t.Fatalf("expected Troco line:\n%s", result.Message)
	}
}
