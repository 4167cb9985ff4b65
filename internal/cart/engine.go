package cart

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/shopkart/storefront/internal/domain"
	"github.com/shopkart/storefront/internal/store"
)

// Engine owns the cart state and serializes every mutation behind one
// mutex, preserving single-writer semantics: a mutation issued after a
// prior one always observes its result. Each mutation writes through to
// the persistent store inside the critical section. A failed write is a
// degraded-durability warning, not a user-facing error: the in-memory
// state stays authoritative until the next successful write.
type Engine struct {
	mu    sync.Mutex
	state domain.CartState
	store store.CartStore
}

func NewEngine(s store.CartStore) *Engine {
	return &Engine{
		state: domain.EmptyCart(),
		store: s,
	}
}

// Rehydrate loads the persisted cart at process start. An absent or
// corrupt record starts an empty cart; neither is fatal.
func (e *Engine) Rehydrate(ctx context.Context) {
	loaded, err := e.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrCartNotFound) {
			log.Printf("cart rehydrate failed, starting empty: %v", err)
		}
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = loaded
	if e.state.Items == nil {
		e.state.Items = []domain.CartLineItem{}
	}
}

// State returns a copy of the current cart state.
func (e *Engine) State() domain.CartState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Copy()
}

// AddItem merges qty units of the product into the cart. Unknown products
// are accepted as given; validating them is the catalog's responsibility.
func (e *Engine) AddItem(ctx context.Context, p domain.Product, qty int) domain.CartState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.AddItem(p, qty)
	e.persist(ctx)
	return e.state.Copy()
}

// SetQuantity sets the item's quantity; newQty <= 0 removes the item.
func (e *Engine) SetQuantity(ctx context.Context, productID int64, newQty int) domain.CartState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.SetQuantity(productID, newQty)
	e.persist(ctx)
	return e.state.Copy()
}

// RemoveItem drops the line item if present.
func (e *Engine) RemoveItem(ctx context.Context, productID int64) domain.CartState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.RemoveItem(productID)
	e.persist(ctx)
	return e.state.Copy()
}

// Clear resets the cart to empty and persists the empty state.
func (e *Engine) Clear(ctx context.Context) domain.CartState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Clear()
	e.persist(ctx)
	return e.state.Copy()
}

// persist writes the current state through to the store. Callers hold the
// mutex, so the write is ordered with respect to the in-memory update.
func (e *Engine) persist(ctx context.Context) {
	if err := e.store.Save(ctx, e.state); err != nil {
		log.Printf("cart persist failed, in-memory state ahead of storage: %v", err)
	}
}
