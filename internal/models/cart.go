package models

// LineItem is one row of the cart. UnitPrice is the effective price at the
// moment the product was first added and stays frozen for the life of the
// line, even when the product's discount rule changes mid-session.
type LineItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// CartSnapshot is a value copy of the cart state, safe to hand to the
// checkout flow while the live cart keeps mutating.
type CartSnapshot struct {
	Items      []LineItem `json:"items"`
	Discount   float64    `json:"discount"`
	IncludeTax bool       `json:"includeTax"`
}

func (s CartSnapshot) Empty() bool {
	return len(s.Items) == 0
}

// ItemCount returns the number of distinct lines, not the summed
// quantities; the cart badge counts lines.
func (s CartSnapshot) ItemCount() int {
	return len(s.Items)
}
