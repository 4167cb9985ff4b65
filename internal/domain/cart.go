package domain

// CartLineItem is one product entry in the cart with its own quantity
// and computed line total. LineTotal must always equal UnitPrice * Quantity.
type CartLineItem struct {
	ProductID int64   `json:"product_id" bson:"product_id"`
	Name      string  `json:"name" bson:"name"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	LineTotal float64 `json:"line_total" bson:"line_total"`
	ImageURL  string  `json:"image_url" bson:"image_url"`
	Category  string  `json:"category" bson:"category"`
}

// CartState is the full cart: an ordered sequence of line items (unique
// product id) plus aggregates kept in lockstep with the items.
// TotalQuantity == sum of item quantities, TotalAmount == sum of line totals.
type CartState struct {
	Items         []CartLineItem `json:"items" bson:"items"`
	TotalQuantity int            `json:"total_quantity" bson:"total_quantity"`
	TotalAmount   float64        `json:"total_amount" bson:"total_amount"`
}

// EmptyCart returns a cart with zero items and zero aggregates.
// Items is non-nil so the serialized form is [] rather than null.
func EmptyCart() CartState {
	return CartState{Items: []CartLineItem{}}
}

func (c *CartState) findItem(productID int64) *CartLineItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddItem merges qty units of the product into the cart. An existing line
// item is incremented, otherwise a new line item is appended. Aggregates
// are adjusted by the delta, never recomputed from scratch.
func (c *CartState) AddItem(p Product, qty int) {
	if qty < 1 {
		qty = 1
	}

	// an existing line keeps the price it was added at; the line-total and
	// aggregate deltas both use that price
	unitPrice := p.Price
	if item := c.findItem(p.ID); item != nil {
		unitPrice = item.UnitPrice
		item.Quantity += qty
		item.LineTotal += float64(qty) * unitPrice
	} else {
		c.Items = append(c.Items, CartLineItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  qty,
			LineTotal: float64(qty) * p.Price,
			ImageURL:  p.ImageURL,
			Category:  p.Category,
		})
	}

	c.TotalQuantity += qty
	c.TotalAmount += float64(qty) * unitPrice
}

// SetQuantity sets the line item's quantity to newQty. newQty <= 0 removes
// the item. Missing product ids are a no-op. The aggregate update is O(1):
// only the delta between old and new quantity is applied.
func (c *CartState) SetQuantity(productID int64, newQty int) {
	if newQty <= 0 {
		c.RemoveItem(productID)
		return
	}

	item := c.findItem(productID)
	if item == nil {
		return
	}

	diff := newQty - item.Quantity
	item.Quantity = newQty
	item.LineTotal = item.UnitPrice * float64(newQty)

	c.TotalQuantity += diff
	c.TotalAmount += float64(diff) * item.UnitPrice
}

// RemoveItem drops the line item if present, subtracting its quantity and
// line total from the aggregates. Missing product ids are a no-op.
func (c *CartState) RemoveItem(productID int64) {
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.TotalQuantity -= item.Quantity
			c.TotalAmount -= item.LineTotal
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear resets the cart to empty with zero aggregates.
func (c *CartState) Clear() {
	*c = EmptyCart()
}

// IsEmpty reports whether the cart holds no line items.
func (c CartState) IsEmpty() bool {
	return len(c.Items) == 0
}

// Copy returns a deep copy so callers can hold the state without racing
// against subsequent mutations.
func (c *CartState) Copy() CartState {
	out := CartState{
		Items:         make([]CartLineItem, len(c.Items)),
		TotalQuantity: c.TotalQuantity,
		TotalAmount:   c.TotalAmount,
	}
	copy(out.Items, c.Items)
	return out
}

// ProductIDSet returns the set of product ids currently in the cart.
func (c *CartState) ProductIDSet() map[int64]struct{} {
	set := make(map[int64]struct{}, len(c.Items))
	for _, item := range c.Items {
		set[item.ProductID] = struct{}{}
	}
	return set
}
