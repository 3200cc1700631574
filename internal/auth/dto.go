package auth

import (
	"github.com/shopspring/decimal"

	"github.com/brunovilar/pedezap-backend/internal/stores"
	"github.com/brunovilar/pedezap-backend/internal/users"
	"github.com/brunovilar/pedezap-backend/pkg/enums"
)

// RegisterInput carries the owner account and the initial store settings
// created together at signup.
type RegisterInput struct {
	Email          string
	Password       string
	StoreName      string
	StoreSlug      string
	WhatsAppNumber string
	DeliveryFee    *decimal.Decimal
	PaymentMethods []enums.PaymentMethod
}

// LoginInput carries admin credentials.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	AccessToken string          `json:"access_token"`
	User        users.UserDTO   `json:"user"`
	Store       stores.StoreDTO `json:"store"`
}
