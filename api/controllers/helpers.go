package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/brunovilar/pedezap-backend/api/middleware"
	pkgerrors "github.com/brunovilar/pedezap-backend/pkg/errors"
)

// storeIDFromRequest resolves the authenticated store from the request
// context. Admin handlers are always store-scoped.
func storeIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.StoreIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}
	return id, nil
}
