package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/brunovilar/pedezap-backend/pkg/auth"
	"github.com/brunovilar/pedezap-backend/pkg/config"
)

type stubChecker struct {
	ok  bool
	err error
}

func (s stubChecker) HasSession(_ context.Context, _ string) (bool, error) {
	return s.ok, s.err
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "pedezap-test",
		ExpirationMinutes: 60,
	}
}

func mintToken(t *testing.T, userID, storeID uuid.UUID, jti string) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now(), pkgauth.AccessTokenPayload{
		UserID:  userID,
		StoreID: storeID,
		JTI:     jti,
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	return token
}

func TestAuthSeedsContext(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()
	token := mintToken(t, userID, storeID, "session-1")

	var gotUser, gotStore, gotAccess string
	handler := Auth(testJWTConfig(), stubChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotStore = StoreIDFromContext(r.Context())
		gotAccess = AccessIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotUser != userID.String() || gotStore != storeID.String() || gotAccess != "session-1" {
		t.Fatalf("context not seeded: user=%q store=%q access=%q", gotUser, gotStore, gotAccess)
	}
}

func TestAuthRejections(t *testing.T) {
	token := mintToken(t, uuid.New(), uuid.New(), "session-1")

	tests := []struct {
		name       string
		header     string
		checker    stubChecker
		wantStatus int
	}{
		{"missing header", "", stubChecker{ok: true}, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", stubChecker{ok: true}, http.StatusUnauthorized},
		{"revoked session", "Bearer " + token, stubChecker{ok: false}, http.StatusUnauthorized},
		{"session store down", "Bearer " + token, stubChecker{err: fmt.Errorf("redis down")}, http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := Auth(testJWTConfig(), tc.checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAuthAcceptsTokenWithoutBearerPrefix(t *testing.T) {
	token := mintToken(t, uuid.New(), uuid.New(), "session-2")

	handler := Auth(testJWTConfig(), stubChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through, got %d: %s", rec.Code, rec.Body.String())
	}
}
