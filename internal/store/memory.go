package store

import (
	"context"
	"sync"

	"github.com/shopkart/storefront/internal/domain"
)

// MemoryStore is an in-process CartStore, used in tests and as a fallback
// backend when no durable store is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	state *domain.CartState

	// FailSaves forces Save to return an error, for exercising the
	// degraded-durability path.
	FailSaves error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (domain.CartState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return domain.CartState{}, ErrCartNotFound
	}
	return s.state.Copy(), nil
}

func (s *MemoryStore) Save(_ context.Context, state domain.CartState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves != nil {
		return s.FailSaves
	}
	copied := state.Copy()
	s.state = &copied
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves != nil {
		return s.FailSaves
	}
	s.state = nil
	return nil
}
