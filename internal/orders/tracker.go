package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/shopkart/storefront/internal/domain"
)

var (
	ErrCancelNotAllowed = errors.New("order can no longer be cancelled")
	ErrBadTransition    = errors.New("illegal status transition")
)

// Tracker owns the local order list for display and state purposes. Orders
// are created and persisted by the external order service; the tracker
// mirrors them, enforces the delivery lifecycle on reflected transitions,
// and is the gate for client-initiated cancellation.
type Tracker struct {
	mu      sync.RWMutex
	orders  []domain.Order
	service OrderService
	model   ReadModel // nil disables the local read model
}

func NewTracker(service OrderService, model ReadModel) *Tracker {
	return &Tracker{service: service, model: model}
}

// Refresh pulls the order list from the order service. When the service is
// unreachable it falls back to the local read model so the user still sees
// their last-known orders; the collaborator error is returned either way so
// the caller can surface a retry.
func (t *Tracker) Refresh(ctx context.Context) error {
	fetched, err := t.service.List(ctx)
	if err != nil {
		if t.model == nil {
			return fmt.Errorf("list orders: %w", err)
		}
		cached, cacheErr := t.model.List(ctx)
		if cacheErr != nil {
			log.Printf("order read model fallback failed: %v", cacheErr)
			return fmt.Errorf("list orders: %w", err)
		}
		t.mu.Lock()
		t.orders = cached
		t.mu.Unlock()
		return fmt.Errorf("list orders (showing cached view): %w", err)
	}

	t.mu.Lock()
	t.orders = fetched
	t.mu.Unlock()

	for _, order := range fetched {
		t.saveToModel(ctx, order)
	}
	return nil
}

// Add registers a freshly placed order.
func (t *Tracker) Add(ctx context.Context, order domain.Order) {
	t.mu.Lock()
	t.orders = append(t.orders, order)
	t.mu.Unlock()

	t.saveToModel(ctx, order)
}

// Orders returns a copy of the local order list.
func (t *Tracker) Orders() []domain.Order {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.Order, len(t.orders))
	copy(out, t.orders)
	return out
}

// Get returns the local view of one order.
func (t *Tracker) Get(id int64) (domain.Order, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, order := range t.orders {
		if order.ID == id {
			return order, true
		}
	}
	return domain.Order{}, false
}

// FilterByStatus returns the local orders currently in the given status.
func (t *Tracker) FilterByStatus(status domain.OrderStatus) []domain.Order {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []domain.Order
	for _, order := range t.orders {
		if order.Status == status {
			out = append(out, order)
		}
	}
	return out
}

// Cancel cancels an order. Cancellation is offered only while the status
// allows it; a non-cancellable order is rejected locally without calling
// the collaborator. Local state is updated only after the collaborator
// confirms; on failure it is left untouched.
func (t *Tracker) Cancel(ctx context.Context, id int64) (domain.Order, error) {
	current, ok := t.Get(id)
	if ok && !current.Status.CanCancel() {
		return domain.Order{}, ErrCancelNotAllowed
	}

	cancelled, err := t.service.Cancel(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("cancel order %d: %w", id, err)
	}

	t.replace(cancelled)
	t.saveToModel(ctx, cancelled)
	return cancelled, nil
}

// ApplyStatus reflects an externally-asserted transition into local state.
// Transitions outside the lifecycle table are rejected.
func (t *Tracker) ApplyStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrBadTransition, status)
	}

	t.mu.Lock()
	var updated *domain.Order
	for i := range t.orders {
		if t.orders[i].ID != id {
			continue
		}
		from := t.orders[i].Status
		if !domain.CanTransition(from, status) {
			t.mu.Unlock()
			return fmt.Errorf("%w: %s -> %s", ErrBadTransition, from, status)
		}
		t.orders[i].Status = status
		copied := t.orders[i]
		updated = &copied
		break
	}
	t.mu.Unlock()

	if updated == nil {
		return ErrOrderNotFound
	}

	t.saveToModel(ctx, *updated)
	return nil
}

func (t *Tracker) replace(order domain.Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.orders {
		if t.orders[i].ID == order.ID {
			t.orders[i] = order
			return
		}
	}
	t.orders = append(t.orders, order)
}

// saveToModel persists to the local read model. Failures degrade the
// offline view only, so they are logged and swallowed.
func (t *Tracker) saveToModel(ctx context.Context, order domain.Order) {
	if t.model == nil {
		return
	}
	if err := t.model.Upsert(ctx, order); err != nil {
		log.Printf("order read model upsert failed for %d: %v", order.ID, err)
	}
}
