package domain

import "time"

// CheckoutSnapshot freezes the cart at the moment the user proceeds to
// checkout. It is immutable once captured: order submission is built from
// the snapshot, not from the live cart, which may have drifted.
type CheckoutSnapshot struct {
	Items          []CartLineItem `json:"items"`
	Subtotal       float64        `json:"subtotal"`
	DiscountAmount float64        `json:"discount_amount"`
	FinalAmount    float64        `json:"final_amount"`
	PromoCode      string         `json:"promo_code,omitempty"`
	CapturedAt     time.Time      `json:"captured_at"`
}

// NewCheckoutSnapshot captures the cart state plus the active promo
// application (zero-valued when no promo is active).
func NewCheckoutSnapshot(state CartState, promo PromoApplication) CheckoutSnapshot {
	items := make([]CartLineItem, len(state.Items))
	copy(items, state.Items)

	discount := 0.0
	code := ""
	if promo.Valid {
		discount = promo.DiscountAmount
		code = promo.Code
	}

	return CheckoutSnapshot{
		Items:          items,
		Subtotal:       state.TotalAmount,
		DiscountAmount: discount,
		FinalAmount:    state.TotalAmount - discount,
		PromoCode:      code,
		CapturedAt:     time.Now(),
	}
}

// IsEmpty reports whether the snapshot was taken of an empty cart.
func (s CheckoutSnapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// ProductIDSet returns the set of product ids frozen into the snapshot.
func (s CheckoutSnapshot) ProductIDSet() map[int64]struct{} {
	set := make(map[int64]struct{}, len(s.Items))
	for _, item := range s.Items {
		set[item.ProductID] = struct{}{}
	}
	return set
}
