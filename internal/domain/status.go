package domain

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// validNext encodes the delivery lifecycle. Forward transitions are asserted
// by the external fulfillment side; cancellation is the only client-triggered
// transition and is reachable from PENDING or SHIPPED only.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:        {OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusShipped:        {OrderStatusOutForDelivery: true, OrderStatusCancelled: true},
	OrderStatusOutForDelivery: {OrderStatusDelivered: true},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// CanCancel reports whether cancellation may be offered for the status.
func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusPending || s == OrderStatusShipped
}

// IsValid reports whether s is one of the closed set of statuses.
func (s OrderStatus) IsValid() bool {
	_, ok := validNext[s]
	return ok
}

// Progress maps a status to its delivery progress percentage. The second
// return value is false for CANCELLED, where the indicator is hidden.
func (s OrderStatus) Progress() (int, bool) {
	switch s {
	case OrderStatusPending:
		return 25, true
	case OrderStatusShipped:
		return 50, true
	case OrderStatusOutForDelivery:
		return 75, true
	case OrderStatusDelivered:
		return 100, true
	default:
		return 0, false
	}
}

func (s OrderStatus) String() string {
	return string(s)
}
