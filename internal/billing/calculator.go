package billing

import (
	"math"

	"github.com/jafarshop/pos-checkout/internal/domain"
)

// TaxRate is the flat rate applied to the cart subtotal.
const TaxRate = 0.01

// Totals holds the computed amounts for one cart.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grandTotal"`
}

// Calculate computes subtotal, tax and grand total for the given cart lines.
// Pure and deterministic; an empty cart yields zero totals. Amounts are
// rounded to two decimal places.
func Calculate(lines []domain.CartLine) Totals {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}
	subtotal = round2(subtotal)
	tax := round2(subtotal * TaxRate)

	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: round2(subtotal + tax),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
