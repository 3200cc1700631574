package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type stubStore struct {
	values map[string]string
	err    error
}

func newStubStore() *stubStore {
	return &stubStore{values: map[string]string{}}
}

func (s *stubStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.values[key] = value.(string)
	return nil
}

func (s *stubStore) Get(_ context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	v, ok := s.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (s *stubStore) Del(_ context.Context, keys ...string) error {
	if s.err != nil {
		return s.err
	}
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

type stubKeyer struct{}

func (stubKeyer) AccessSessionKey(accessID string) string { return "test:session:" + accessID }

func testManager(store sessionStore) *Manager {
	return &Manager{store: store, keyer: stubKeyer{}, ttl: time.Hour}
}

func TestCreateAndCheckSession(t *testing.T) {
	store := newStubStore()
	m := testManager(store)

	accessID := NewAccessID()
	if err := m.Create(context.Background(), accessID, uuid.New()); err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := m.HasSession(context.Background(), accessID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if !ok {
		t.Fatal("expected session to exist")
	}
}

func TestHasSessionMiss(t *testing.T) {
	m := testManager(newStubStore())
	ok, err := m.HasSession(context.Background(), "missing")
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if ok {
		t.Fatal("expected miss")
	}
}

func TestHasSessionBlankID(t *testing.T) {
	m := testManager(newStubStore())
	ok, err := m.HasSession(context.Background(), "  ")
	if err != nil || ok {
		t.Fatalf("expected blank id to miss quietly, got ok=%v err=%v", ok, err)
	}
}

func TestHasSessionStoreError(t *testing.T) {
	store := newStubStore()
	store.err = errors.New("redis down")
	m := testManager(store)

	if _, err := m.HasSession(context.Background(), "id"); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestRevokeRemovesSession(t *testing.T) {
	store := newStubStore()
	m := testManager(store)

	accessID := NewAccessID()
	if err := m.Create(context.Background(), accessID, uuid.New()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := m.Revoke(context.Background(), accessID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	ok, err := m.HasSession(context.Background(), accessID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if ok {
		t.Fatal("expected session revoked")
	}
}
