package token

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is a mutex-guarded in-memory token store used by tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]Token
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens: make(map[string]Token),
	}
}

func (m *MemoryStore) Create(_ context.Context, t Token) error {
	if t.ID == "" || t.UserID == "" {
		return fmt.Errorf("token: missing id or user_id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[t.ID] = t
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tokens[id]
	if !ok {
		return nil, nil
	}

	return &t, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tokens, id)
	return nil
}
