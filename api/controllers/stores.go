package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/brunovilar/pedezap-backend/api/responses"
	"github.com/brunovilar/pedezap-backend/api/validators"
	"github.com/brunovilar/pedezap-backend/internal/stores"
	"github.com/brunovilar/pedezap-backend/pkg/enums"
	pkgerrors "github.com/brunovilar/pedezap-backend/pkg/errors"
	"github.com/brunovilar/pedezap-backend/pkg/logger"
)

// StoreProfile returns the authenticated store's settings.
func StoreProfile(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetByID(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

type storeUpdateRequest struct {
	Name           *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	WhatsAppNumber *string          `json:"whatsapp_number,omitempty" validate:"omitempty,min=1"`
	DeliveryFee    *decimal.Decimal `json:"delivery_fee,omitempty"`
	IsOpen         *bool            `json:"is_open,omitempty"`
	PaymentMethods *[]string        `json:"payment_methods,omitempty"`
	LogoURL        *string          `json:"logo_url,omitempty"`
}

func (r storeUpdateRequest) toInput() stores.UpdateStoreInput {
	input := stores.UpdateStoreInput{
		Name:           r.Name,
		WhatsAppNumber: r.WhatsAppNumber,
		DeliveryFee:    r.DeliveryFee,
		IsOpen:         r.IsOpen,
		LogoURL:        r.LogoURL,
	}
	if r.PaymentMethods != nil {
		methods := make([]enums.PaymentMethod, 0, len(*r.PaymentMethods))
		for _, m := range *r.PaymentMethods {
			methods = append(methods, enums.PaymentMethod(m))
		}
		input.PaymentMethods = &methods
	}
	return input
}

// StoreUpdate adjusts the mutable store settings. The slug never changes.
func StoreUpdate(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload storeUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Update(r.Context(), storeID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}
