package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/brunovilar/pedezap-backend/api/middleware"
	"github.com/brunovilar/pedezap-backend/api/responses"
	"github.com/brunovilar/pedezap-backend/api/validators"
	"github.com/brunovilar/pedezap-backend/internal/auth"
	"github.com/brunovilar/pedezap-backend/pkg/enums"
	pkgerrors "github.com/brunovilar/pedezap-backend/pkg/errors"
	"github.com/brunovilar/pedezap-backend/pkg/logger"
)

type registerRequest struct {
	Email          string           `json:"email" validate:"required,email"`
	Password       string           `json:"password" validate:"required,min=8"`
	StoreName      string           `json:"store_name" validate:"required"`
	StoreSlug      string           `json:"store_slug" validate:"required"`
	WhatsAppNumber string           `json:"whatsapp_number" validate:"required"`
	DeliveryFee    *decimal.Decimal `json:"delivery_fee,omitempty"`
	PaymentMethods []string         `json:"payment_methods,omitempty"`
}

func (r registerRequest) toInput() auth.RegisterInput {
	methods := make([]enums.PaymentMethod, 0, len(r.PaymentMethods))
	for _, m := range r.PaymentMethods {
		methods = append(methods, enums.PaymentMethod(m))
	}
	return auth.RegisterInput{
		Email:          r.Email,
		Password:       r.Password,
		StoreName:      r.StoreName,
		StoreSlug:      r.StoreSlug,
		WhatsAppNumber: r.WhatsAppNumber,
		DeliveryFee:    r.DeliveryFee,
		PaymentMethods: methods,
	}
}

// AuthRegister creates the owner account with its store and signs in.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Register(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), auth.LoginInput{
			Email:    payload.Email,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}

// AuthLogout revokes the server-side session behind the presented token.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
			return
		}

		if err := svc.Logout(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}
