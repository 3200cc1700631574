package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	redislib "github.com/brunovilar/pedezap-backend/pkg/redis"
)

// StatePort abstracts cart persistence so the aggregation rules stay
// independent of the backing store.
type StatePort interface {
	Load(ctx context.Context, key string) (*State, error)
	Save(ctx context.Context, key string, state *State) error
	Delete(ctx context.Context, key string) error
}

type cartKeyer interface {
	CartKey(cartKey string) string
}

type cartStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisPort keeps cart state in Redis under a namespaced key with a sliding
// TTL, so an abandoned cart eventually expires on its own.
type RedisPort struct {
	store cartStore
	keyer cartKeyer
	ttl   time.Duration
}

// NewRedisPort wires the production cart store.
func NewRedisPort(client *redislib.Client, ttl time.Duration) (*RedisPort, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if ttl <= 0 {
		return nil, errors.New("cart ttl must be positive")
	}
	return &RedisPort{store: client, keyer: client, ttl: ttl}, nil
}

// Load returns the stored state, or an empty state on a cache miss.
func (p *RedisPort) Load(ctx context.Context, key string) (*State, error) {
	raw, err := p.store.Get(ctx, p.keyer.CartKey(key))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return &State{Lines: []Line{}}, nil
		}
		return nil, fmt.Errorf("loading cart state: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decoding cart state: %w", err)
	}
	if state.Lines == nil {
		state.Lines = []Line{}
	}
	return &state, nil
}

// Save writes the state back, refreshing the TTL.
func (p *RedisPort) Save(ctx context.Context, key string, state *State) error {
	if state == nil {
		return errors.New("state is required")
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding cart state: %w", err)
	}
	if err := p.store.Set(ctx, p.keyer.CartKey(key), string(raw), p.ttl); err != nil {
		return fmt.Errorf("saving cart state: %w", err)
	}
	return nil
}

// Delete drops the cart key.
func (p *RedisPort) Delete(ctx context.Context, key string) error {
	if err := p.store.Del(ctx, p.keyer.CartKey(key)); err != nil {
		return fmt.Errorf("deleting cart state: %w", err)
	}
	return nil
}

// MemoryPort is an in-process StatePort for tests and local tooling.
type MemoryPort struct {
	mu     sync.Mutex
	states map[string]*State
}

// NewMemoryPort builds an empty in-memory port.
func NewMemoryPort() *MemoryPort {
	return &MemoryPort{states: map[string]*State{}}
}

func (p *MemoryPort) Load(_ context.Context, key string) (*State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	stored, ok := p.states[key]
	if !ok {
		return &State{Lines: []Line{}}, nil
	}
	cpy := *stored
	cpy.Lines = make([]Line, len(stored.Lines))
	copy(cpy.Lines, stored.Lines)
	return &cpy, nil
}

func (p *MemoryPort) Save(_ context.Context, key string, state *State) error {
	if state == nil {
		return errors.New("state is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	cpy := *state
	cpy.Lines = make([]Line, len(state.Lines))
	copy(cpy.Lines, state.Lines)
	p.states[key] = &cpy
	return nil
}

func (p *MemoryPort) Delete(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.states, key)
	return nil
}
