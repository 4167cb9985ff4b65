package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/shopkart/storefront/internal/domain"
	"github.com/shopkart/storefront/internal/orders"
)

var (
	ErrSessionNotFound = errors.New("checkout session not found")
	ErrInvalidAddress  = errors.New("invalid delivery address")
)

// Cart is the slice of the cart engine the reconciler needs.
type Cart interface {
	State() domain.CartState
	Clear(ctx context.Context) domain.CartState
}

// OrderCreator is the order-submission slice of the order service.
type OrderCreator interface {
	Create(ctx context.Context, payload orders.CreateOrderPayload) (domain.Order, error)
}

// OrderSink receives the created order after successful placement.
type OrderSink interface {
	Add(ctx context.Context, order domain.Order)
}

// Session is one checkout attempt: an immutable snapshot taken at
// checkout-intent time. It lives until the order is placed or the
// checkout is abandoned.
type Session struct {
	ID       string
	Snapshot domain.CheckoutSnapshot
}

// Manager owns checkout sessions. It freezes cart snapshots, reconciles
// them against live cart state on checkout entry and on every subsequent
// cart change, and drives order placement from the snapshot.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cart    Cart
	creator OrderCreator
	sink    OrderSink
}

func NewManager(cart Cart, creator OrderCreator, sink OrderSink) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		cart:     cart,
		creator:  creator,
		sink:     sink,
	}
}

// Begin captures the current cart plus active promo application into a new
// session. The snapshot is frozen: later cart mutations do not touch it.
func (m *Manager) Begin(state domain.CartState, promo domain.PromoApplication) *Session {
	session := &Session{
		ID:       uuid.NewString(),
		Snapshot: domain.NewCheckoutSnapshot(state, promo),
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	return session
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Abandon discards a session, e.g. when the user navigates away.
func (m *Manager) Abandon(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// ValidateAtEntry reconciles the frozen snapshot against live cart state.
// It fails when either side is empty or when the product-id sets differ.
// Quantity drift is tolerated; item add/remove is not. A false result is a
// control-flow signal to redirect back to the cart, not an error. Callers
// re-run this whenever live cart state changes while checkout is open.
func (m *Manager) ValidateAtEntry(session *Session, live domain.CartState) bool {
	if session.Snapshot.IsEmpty() || live.IsEmpty() {
		return false
	}

	snapshotIDs := session.Snapshot.ProductIDSet()
	liveIDs := live.ProductIDSet()
	if len(snapshotIDs) != len(liveIDs) {
		return false
	}
	for id := range snapshotIDs {
		if _, ok := liveIDs[id]; !ok {
			return false
		}
	}
	return true
}

// PlaceOrder validates the address, builds the submission from the
// snapshot (never from the live cart, which may have drifted further), and
// submits with status PENDING. On success the cart is cleared, the order
// handed to the sink, and the session discarded. On failure the session is
// retained so the user can retry without losing the checkout.
func (m *Manager) PlaceOrder(ctx context.Context, sessionID string, addr domain.Address) (domain.Order, FieldErrors, error) {
	session, ok := m.Get(sessionID)
	if !ok {
		return domain.Order{}, nil, ErrSessionNotFound
	}

	if fieldErrs := ValidateAddress(addr); len(fieldErrs) > 0 {
		return domain.Order{}, fieldErrs, ErrInvalidAddress
	}

	snap := session.Snapshot
	payload := orders.CreateOrderPayload{
		AddressLine1:  addr.Line1,
		State:         addr.State,
		Pincode:       addr.Pincode,
		CartItems:     make([]orders.CartItemPayload, 0, len(snap.Items)),
		OriginalPrice: snap.Subtotal,
		PromoCode:     snap.PromoCode,
		Status:        domain.OrderStatusPending.String(),
	}
	for _, item := range snap.Items {
		payload.CartItems = append(payload.CartItems, orders.CartItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
		})
	}

	order, err := m.creator.Create(ctx, payload)
	if err != nil {
		// session kept for retry
		return domain.Order{}, nil, fmt.Errorf("create order: %w", err)
	}

	if m.sink != nil {
		m.sink.Add(ctx, order)
	}
	m.cart.Clear(ctx)
	m.Abandon(sessionID)

	return order, nil, nil
}
