package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/brunovilar/pedezap-backend/internal/cart"
	"github.com/brunovilar/pedezap-backend/pkg/db/models"
	"github.com/brunovilar/pedezap-backend/pkg/enums"
	pkgerrors "github.com/brunovilar/pedezap-backend/pkg/errors"
	"github.com/brunovilar/pedezap-backend/pkg/metrics"
)

type storeReader interface {
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
}

// Service turns a cart into a WhatsApp handoff. The cart is left untouched:
// the client clears it after the conversation actually opens.
type Service interface {
	Checkout(ctx context.Context, slug, cartKey string, input CheckoutInput) (*CheckoutResult, error)
}

// CheckoutInput is the customer-facing checkout form.
type CheckoutInput struct {
	CustomerName  string
	Phone         string
	Address       string
	PaymentMethod enums.PaymentMethod
	ChangeFor     *decimal.Decimal
	FinalNote     string
}

// CheckoutResult carries the rendered message and the deep link.
type CheckoutResult struct {
	Message string          `json:"message"`
	Link    string          `json:"link"`
	Total   decimal.Decimal `json:"total"`
}

type service struct {
	stores    storeReader
	carts     cart.StatePort
	formatter *Formatter
	metrics   *metrics.OrderMetrics
}

// NewService wires the checkout pipeline.
func NewService(stores storeReader, carts cart.StatePort, formatter *Formatter, orderMetrics *metrics.OrderMetrics) (Service, error) {
	if stores == nil {
		return nil, fmt.Errorf("store reader required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart port required")
	}
	if formatter == nil {
		return nil, fmt.Errorf("formatter required")
	}
	return &service{
		stores:    stores,
		carts:     carts,
		formatter: formatter,
		metrics:   orderMetrics,
	}, nil
}

func (s *service) Checkout(ctx context.Context, slug, cartKey string, input CheckoutInput) (*CheckoutResult, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store slug is required")
	}
	if strings.TrimSpace(cartKey) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart key is required")
	}
	if err := validateInput(input); err != nil {
		s.metrics.IncFailure(slug, "invalid_input")
		return nil, err
	}

	store, err := s.stores.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	if !store.IsOpen {
		s.metrics.IncFailure(slug, "store_closed")
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "store is closed")
	}
	if !storeAccepts(store, input.PaymentMethod) {
		s.metrics.IncFailure(slug, "payment_not_accepted")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method not accepted by store")
	}

	state, err := s.carts.Load(ctx, cartKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(state.Lines) == 0 {
		s.metrics.IncFailure(slug, "cart_empty")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if state.StoreSlug != slug {
		s.metrics.IncFailure(slug, "cart_store_mismatch")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart belongs to another store")
	}

	total := cart.New(state).ComputeTotal(store.DeliveryFee)

	draft := Draft{
		StoreName:     store.Name,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		Phone:         strings.TrimSpace(input.Phone),
		Address:       strings.TrimSpace(input.Address),
		Lines:         state.Lines,
		DeliveryFee:   store.DeliveryFee,
		Total:         total,
		PaymentMethod: input.PaymentMethod,
		ChangeFor:     input.ChangeFor,
		FinalNote:     strings.TrimSpace(input.FinalNote),
	}

	message, encoded := s.formatter.FormatOrder(draft)
	link := BuildHandoffLink(store.WhatsAppNumber, encoded)

	s.metrics.IncHandoff(slug, total)

	return &CheckoutResult{
		Message: message,
		Link:    link,
		Total:   total,
	}, nil
}

func validateInput(input CheckoutInput) error {
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.ChangeFor != nil && input.ChangeFor.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "change amount cannot be negative")
	}
	return nil
}

func storeAccepts(store *models.Store, method enums.PaymentMethod) bool {
	if len(store.PaymentMethods) == 0 {
		return true
	}
	for _, accepted := range store.PaymentMethods {
		if accepted == string(method) {
			return true
		}
	}
	return false
}
