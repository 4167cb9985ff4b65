package store

import (
	"context"
	"errors"

	"github.com/shopkart/storefront/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// CartStore is the durable key-value slot holding the serialized cart.
// Consumers define this interface, not the backend implementations.
// A Load that finds no record returns ErrCartNotFound; callers treat both
// that and decode failures as an empty cart, never as a fatal error.
type CartStore interface {
	Load(ctx context.Context) (domain.CartState, error)
	Save(ctx context.Context, state domain.CartState) error
	Clear(ctx context.Context) error
}
