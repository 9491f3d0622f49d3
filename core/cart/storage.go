package cart

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound reports that no payload was ever saved under a cart id.
var ErrNotFound = errors.New("cart not found")

// Storage is the durable key-value surface a cart survives reloads on.
// Payloads are opaque JSON; implementations never interpret them. The
// store treats every Storage failure as non-fatal.
type Storage interface {
	Load(ctx context.Context, cartID string) ([]byte, error)
	Save(ctx context.Context, cartID string, payload []byte) error
	Delete(ctx context.Context, cartID string) error
}

// Memory keeps carts in process memory. It backs tests and the default
// single-instance deployment.
type Memory struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{carts: make(map[string][]byte)}
}

func (m *Memory) Load(ctx context.Context, cartID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payload, ok := m.carts[cartID]
	if !ok {
		return nil, ErrNotFound
	}

	cp := make([]byte, len(payload))
	copy(cp, payload)
	return cp, nil
}

func (m *Memory) Save(ctx context.Context, cartID string, payload []byte) error {
	cp := make([]byte, len(payload))
	copy(cp, payload)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cartID] = cp
	return nil
}

func (m *Memory) Delete(ctx context.Context, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, cartID)
	return nil
}
