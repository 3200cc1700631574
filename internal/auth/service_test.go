package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/brunovilar/pedezap-backend/internal/stores"
	"github.com/brunovilar/pedezap-backend/internal/users"
	pkgauth "github.com/brunovilar/pedezap-backend/pkg/auth"
	"github.com/brunovilar/pedezap-backend/pkg/config"
	"github.com/brunovilar/pedezap-backend/pkg/db/models"
	"github.com/brunovilar/pedezap-backend/pkg/enums"
	pkgerrors "github.com/brunovilar/pedezap-backend/pkg/errors"
	"github.com/brunovilar/pedezap-backend/pkg/security"
)

type stubUsers struct {
	byEmail map[string]*models.User
	created []*models.User
}

func (s *stubUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUsers) CreateWithTx(_ *gorm.DB, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.created = append(s.created, user)
	if s.byEmail == nil {
		s.byEmail = map[string]*models.User{}
	}
	s.byEmail[user.Email] = user
	return user, nil
}

type stubStoreRepo struct {
	bySlug  map[string]*models.Store
	byOwner map[uuid.UUID]*models.Store
	created []*models.Store
}

func (s *stubStoreRepo) FindBySlug(_ context.Context, slug string) (*models.Store, error) {
	store, ok := s.bySlug[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return store, nil
}

func (s *stubStoreRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) (*models.Store, error) {
	store, ok := s.byOwner[ownerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return store, nil
}

func (s *stubStoreRepo) CreateWithTx(_ *gorm.DB, dto stores.CreateStoreDTO) (*models.Store, error) {
	store := dto.ToModel()
	store.ID = uuid.New()
	s.created = append(s.created, store)
	if s.bySlug == nil {
		s.bySlug = map[string]*models.Store{}
	}
	if s.byOwner == nil {
		s.byOwner = map[uuid.UUID]*models.Store{}
	}
	s.bySlug[store.Slug] = store
	s.byOwner[store.OwnerID] = store
	return store, nil
}

type stubTx struct{}

func (stubTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubSessions struct {
	created map[string]uuid.UUID
	revoked []string
}

func (s *stubSessions) Create(_ context.Context, accessID string, userID uuid.UUID) error {
	if s.created == nil {
		s.created = map[string]uuid.UUID{}
	}
	s.created[accessID] = userID
	return nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "pedezap-test",
		ExpirationMinutes: 60,
	}
}

func testPasswordConfig() config.PasswordConfig {
	// Minimum cost keeps the hashing fast in tests.
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func newTestService(t *testing.T, usersRepo *stubUsers, storesRepo *stubStoreRepo, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Users:          usersRepo,
		Stores:         storesRepo,
		Transactor:     stubTx{},
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func validRegisterInput() RegisterInput {
	fee := decimal.RequireFromString("5.00")
	return RegisterInput{
		Email:          "Dono@Example.com",
		Password:       "segredo-forte",
		StoreName:      "Hamburgueria Top",
		StoreSlug:      "hamburgueria-top",
		WhatsAppNumber: "(11) 98765-4321",
		DeliveryFee:    &fee,
		PaymentMethods: []enums.PaymentMethod{enums.PaymentMethodPix, enums.PaymentMethodMoney},
	}
}

func TestRegisterCreatesUserAndStore(t *testing.T) {
	usersRepo := &stubUsers{}
	storesRepo := &stubStoreRepo{}
	sessions := &stubSessions{}
	svc := newTestService(t, usersRepo, storesRepo, sessions)

	resp, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if resp.User.Email != "dono@example.com" {
		t.Fatalf("expected normalized email, got %q", resp.User.Email)
	}
	if resp.Store.Slug != "hamburgueria-top" {
		t.Fatalf("unexpected store %+v", resp.Store)
	}
	if len(usersRepo.created) != 1 || len(storesRepo.created) != 1 {
		t.Fatalf("expected one user and one store, got %d/%d", len(usersRepo.created), len(storesRepo.created))
	}
	if storesRepo.created[0].OwnerID != usersRepo.created[0].ID {
		t.Fatalf("store owner mismatch")
	}
	if len(sessions.created) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.created))
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != resp.User.ID || claims.StoreID != resp.Store.ID {
		t.Fatalf("token claims mismatch: %+v", claims)
	}
	if _, ok := sessions.created[claims.ID]; !ok {
		t.Fatalf("session was not created for jti %q", claims.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		mut  func(in *RegisterInput)
	}{
		{"missing at sign", func(in *RegisterInput) { in.Email = "dono.example.com" }},
		{"short password", func(in *RegisterInput) { in.Password = "curta" }},
		{"blank store name", func(in *RegisterInput) { in.StoreName = "   " }},
		{"bad slug", func(in *RegisterInput) { in.StoreSlug = "Hamburgueria Top!" }},
		{"slug with trailing hyphen", func(in *RegisterInput) { in.StoreSlug = "loja-" }},
		{"blank whatsapp", func(in *RegisterInput) { in.WhatsAppNumber = "" }},
		{"negative fee", func(in *RegisterInput) {
			fee := decimal.RequireFromString("-1")
			in.DeliveryFee = &fee
		}},
		{"unknown payment method", func(in *RegisterInput) {
			in.PaymentMethods = []enums.PaymentMethod{"bitcoin"}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t, &stubUsers{}, &stubStoreRepo{}, &stubSessions{})
			input := validRegisterInput()
			tc.mut(&input)

			_, err := svc.Register(context.Background(), input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected VALIDATION, got %v", err)
			}
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	existing := &models.User{ID: uuid.New(), Email: "dono@example.com"}
	usersRepo := &stubUsers{byEmail: map[string]*models.User{existing.Email: existing}}
	svc := newTestService(t, usersRepo, &stubStoreRepo{}, &stubSessions{})

	_, err := svc.Register(context.Background(), validRegisterInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT for taken email, got %v", err)
	}

	takenSlug := &models.Store{ID: uuid.New(), Slug: "hamburgueria-top"}
	storesRepo := &stubStoreRepo{bySlug: map[string]*models.Store{takenSlug.Slug: takenSlug}}
	svc = newTestService(t, &stubUsers{}, storesRepo, &stubSessions{})

	_, err = svc.Register(context.Background(), validRegisterInput())
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT for taken slug, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	hash, err := security.HashPassword("segredo-forte", testPasswordConfig())
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &models.User{ID: uuid.New(), Email: "dono@example.com", PasswordHash: hash}
	store := &models.Store{ID: uuid.New(), OwnerID: user.ID, Name: "Hamburgueria Top", Slug: "hamburgueria-top"}

	usersRepo := &stubUsers{byEmail: map[string]*models.User{user.Email: user}}
	storesRepo := &stubStoreRepo{
		bySlug:  map[string]*models.Store{store.Slug: store},
		byOwner: map[uuid.UUID]*models.Store{user.ID: store},
	}
	sessions := &stubSessions{}
	svc := newTestService(t, usersRepo, storesRepo, sessions)

	resp, err := svc.Login(context.Background(), LoginInput{Email: "Dono@Example.com", Password: "segredo-forte"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.ID != user.ID || resp.Store.ID != store.ID {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(sessions.created) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.created))
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	hash, err := security.HashPassword("segredo-forte", testPasswordConfig())
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &models.User{ID: uuid.New(), Email: "dono@example.com", PasswordHash: hash}
	usersRepo := &stubUsers{byEmail: map[string]*models.User{user.Email: user}}

	svc := newTestService(t, usersRepo, &stubStoreRepo{}, &stubSessions{})

	tests := []struct {
		name  string
		input LoginInput
	}{
		{"unknown email", LoginInput{Email: "outra@example.com", Password: "segredo-forte"}},
		{"wrong password", LoginInput{Email: "dono@example.com", Password: "errada-demais"}},
		{"blank credentials", LoginInput{}},
		// User exists but lost its store row; leaks nothing to the caller.
		{"user without store", LoginInput{Email: "dono@example.com", Password: "segredo-forte"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected UNAUTHORIZED, got %v", err)
			}
			if typed.Message() != invalidCredentialsMessage {
				t.Fatalf("expected constant message, got %q", typed.Message())
			}
		})
	}
}

func TestLogout(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, &stubUsers{}, &stubStoreRepo{}, sessions)

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-1" {
		t.Fatalf("expected revoked access-1, got %v", sessions.revoked)
	}

	if err := svc.Logout(context.Background(), "  "); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for blank access id, got %v", err)
	}
}
