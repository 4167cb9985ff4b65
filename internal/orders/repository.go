package orders

import (
	"context"

	"github.com/shopkart/storefront/internal/domain"
)

// ReadModel is the local order view persisted for display when the order
// service is unreachable. It is a cache of collaborator-owned data, never
// the source of truth.
type ReadModel interface {
	Upsert(ctx context.Context, order domain.Order) error
	List(ctx context.Context) ([]domain.Order, error)
	Close() error
}
