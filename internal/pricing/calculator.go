// Package pricing computes cart subtotals, GST and totals in whole currency units.
package pricing

// TaxRate is the flat GST percentage applied to every bill
const TaxRate = 18

// Line is a single cart entry
type Line struct {
	UnitPrice  int64  `json:"unit_price"`
	OfferPrice *int64 `json:"offer_price,omitempty"`
	Quantity   int    `json:"quantity"`
}

// Breakdown is the priced result for a set of lines
type Breakdown struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// EffectivePrice returns the offer price when one is set, otherwise the list price.
// A zero offer is treated as no offer.
func EffectivePrice(price int64, offer *int64) int64 {
	if offer != nil && *offer > 0 {
		return *offer
	}
	return price
}

// Quote prices the given lines. Quantities are taken as-is; callers reject
// non-positive quantities before they reach the calculator.
func Quote(lines []Line) Breakdown {
	var subtotal int64
	for _, l := range lines {
		subtotal += EffectivePrice(l.UnitPrice, l.OfferPrice) * int64(l.Quantity)
	}
	return FromSubtotal(subtotal)
}

// FromSubtotal applies tax to an already summed subtotal
func FromSubtotal(subtotal int64) Breakdown {
	tax := Tax(subtotal)
	return Breakdown{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// Tax returns round-half-up(subtotal * TaxRate / 100).
// Halves round toward positive infinity, negatives included.
func Tax(subtotal int64) int64 {
	return floorDiv(subtotal*TaxRate*2+100, 200)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
