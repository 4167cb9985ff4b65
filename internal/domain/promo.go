package domain

// PromoApplication is the result of evaluating a promo code against a
// subtotal. Ephemeral: held only in checkout-session memory, recomputed
// per attempt, at most one active application per cart session.
type PromoApplication struct {
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discount_amount"`
	Valid          bool    `json:"valid"`
	Message        string  `json:"message"`
}
