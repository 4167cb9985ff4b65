package domain

import "time"

// OrderItem is a line item frozen into an order at submission time.
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// Address is the delivery address captured on the checkout form.
type Address struct {
	Line1   string `json:"address_line1"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// Order is created by the external order service and owned locally by the
// lifecycle tracker for display and state purposes. Status is mutated by
// external fulfillment events, except for client-initiated cancellation.
type Order struct {
	ID             int64       `json:"id"`
	Items          []OrderItem `json:"items"`
	Address        Address     `json:"address"`
	OriginalPrice  float64     `json:"original_price"`
	DiscountAmount float64     `json:"discount_amount"`
	FinalPrice     float64     `json:"final_price"`
	PromoCode      string      `json:"promo_code,omitempty"`
	Status         OrderStatus `json:"status"`
	OrderDate      time.Time   `json:"order_date"`
	DeliveryDate   *time.Time  `json:"delivery_date,omitempty"`
}
