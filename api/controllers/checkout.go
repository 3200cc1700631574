package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/brunovilar/pedezap-backend/api/responses"
	"github.com/brunovilar/pedezap-backend/api/validators"
	"github.com/brunovilar/pedezap-backend/internal/orders"
	"github.com/brunovilar/pedezap-backend/pkg/enums"
	pkgerrors "github.com/brunovilar/pedezap-backend/pkg/errors"
	"github.com/brunovilar/pedezap-backend/pkg/logger"
)

type checkoutRequest struct {
	CartKey       string           `json:"cart_key" validate:"required"`
	CustomerName  string           `json:"customer_name" validate:"required"`
	Phone         string           `json:"phone" validate:"required"`
	Address       string           `json:"address" validate:"required"`
	PaymentMethod string           `json:"payment_method" validate:"required"`
	ChangeFor     *decimal.Decimal `json:"change_for,omitempty"`
	FinalNote     string           `json:"final_note,omitempty"`
}

func (r checkoutRequest) toInput() orders.CheckoutInput {
	return orders.CheckoutInput{
		CustomerName:  r.CustomerName,
		Phone:         r.Phone,
		Address:       r.Address,
		PaymentMethod: enums.PaymentMethod(r.PaymentMethod),
		ChangeFor:     r.ChangeFor,
		FinalNote:     r.FinalNote,
	}
}

// Checkout renders the order message for the store's cart and returns the
// WhatsApp deep link. The cart stays in place until the client clears it.
func Checkout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), chi.URLParam(r, "slug"), payload.CartKey, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
