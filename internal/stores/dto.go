package stores

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/brunovilar/pedezap-backend/pkg/db/models"
	"github.com/brunovilar/pedezap-backend/pkg/enums"
)

// StoreDTO exposes safe tenant data in API responses.
type StoreDTO struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	WhatsAppNumber string          `json:"whatsapp_number"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	IsOpen         bool            `json:"is_open"`
	PaymentMethods []string        `json:"payment_methods"`
	LogoURL        *string         `json:"logo_url,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreateStoreDTO holds creation-time data for a new store.
type CreateStoreDTO struct {
	OwnerID        uuid.UUID
	Name           string
	Slug           string
	WhatsAppNumber string
	DeliveryFee    *decimal.Decimal
	PaymentMethods []enums.PaymentMethod
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	return &StoreDTO{
		ID:             m.ID,
		Name:           m.Name,
		Slug:           m.Slug,
		WhatsAppNumber: m.WhatsAppNumber,
		DeliveryFee:    m.DeliveryFee,
		IsOpen:         m.IsOpen,
		PaymentMethods: append([]string(nil), m.PaymentMethods...),
		LogoURL:        m.LogoURL,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO, supplying defaults.
func (c CreateStoreDTO) ToModel() *models.Store {
	model := &models.Store{
		OwnerID:        c.OwnerID,
		Name:           c.Name,
		Slug:           c.Slug,
		WhatsAppNumber: c.WhatsAppNumber,
		IsOpen:         true,
		PaymentMethods: paymentMethodsToArray(c.PaymentMethods),
	}
	if c.DeliveryFee != nil {
		model.DeliveryFee = *c.DeliveryFee
	} else {
		model.DeliveryFee = decimal.Zero
	}
	return model
}

func paymentMethodsToArray(methods []enums.PaymentMethod) pq.StringArray {
	if len(methods) == 0 {
		methods = enums.AllPaymentMethods()
	}
	out := make(pq.StringArray, 0, len(methods))
	for _, method := range methods {
		out = append(out, string(method))
	}
	return out
}
