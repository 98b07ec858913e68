// Package pricing holds the pure price arithmetic of the terminal: discount
// resolution at add-to-cart time and cart total aggregation. Nothing here
// does I/O or keeps state.
package pricing

import "github.com/swiftretail/pos-terminal/internal/models"

// TaxRate is the fixed 10% service charge applied when tax inclusion is on.
const TaxRate = 0.10

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// EffectivePrice resolves a product's discount rule into the unit price to
// charge. No floor is applied: a flat discount larger than the price yields
// a negative effective price, which downstream code preserves as-is.
func EffectivePrice(p *models.Product) float64 {

	if p.DiscountType == models.DiscountNone || p.DiscountValue <= 0 {
		return p.Price
	}

	switch p.DiscountType {
	case models.DiscountFlat:
		return p.Price - p.DiscountValue
	case models.DiscountPercentage:
		return p.Price - p.Price*(p.DiscountValue/100)
	default:
		return p.Price
	}
}

// ComputeTotals aggregates the cart: subtotal over all lines, 10% tax on the
// subtotal when enabled, and the order-level discount subtracted last. The
// total is not floored; a discount exceeding subtotal+tax goes negative.
func ComputeTotals(items []models.LineItem, discount float64, includeTax bool) Totals {

	var subtotal float64

	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}

	var tax float64

	if includeTax {
		tax = subtotal * TaxRate
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax - discount,
	}
}
