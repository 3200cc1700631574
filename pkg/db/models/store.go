package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Store represents the canonical tenant model. The slug namespaces every
// customer-facing route and is immutable after registration.
type Store struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID        uuid.UUID       `gorm:"column:owner_id;type:uuid;not null"`
	Name           string          `gorm:"column:name;not null"`
	Slug           string          `gorm:"column:slug;not null;uniqueIndex"`
	WhatsAppNumber string          `gorm:"column:whatsapp_number;not null"`
	DeliveryFee    decimal.Decimal `gorm:"column:delivery_fee;type:numeric(10,2);not null;default:0"`
	IsOpen         bool            `gorm:"column:is_open;not null;default:true"`
	PaymentMethods pq.StringArray  `gorm:"column:payment_methods;type:text[];not null;default:ARRAY['pix','credit','money']::text[]"`
	LogoURL        *string         `gorm:"column:logo_url"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
