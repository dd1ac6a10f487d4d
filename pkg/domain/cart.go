package domain

// DiscountRate is the fixed reduction applied to discount-eligible payments.
const DiscountRate = 0.05

// LineItem is one selected product combination in a cart.
// Identity for merge-on-add is (ProductID, Size, Variant).
type LineItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Size      string  `json:"size"`
	Variant   string  `json:"variant"`
	Quantity  int     `json:"quantity"`
}

// LineTotal returns UnitPrice × Quantity.
func (l LineItem) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// SameItem reports whether two lines share the merge key.
func (l LineItem) SameItem(productID, size, variant string) bool {
	return l.ProductID == productID && l.Size == size && l.Variant == variant
}

// Totals are derived values, always recomputed from the current lines.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// CartContext is the summary handed to the responder when the cart is not empty.
type CartContext struct {
	ItemCount int     `json:"item_count"`
	Subtotal  float64 `json:"subtotal"`
}
