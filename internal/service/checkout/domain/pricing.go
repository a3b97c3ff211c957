package domain

import "math"

// TaxRate is the flat sales tax applied to every order subtotal.
const TaxRate = 0.0625

// Round2 rounds to cents, half away from zero. Every monetary value is
// rounded at the point it is computed, and totals are sums of already-rounded
// parts, so recomputing from the persisted lines always reproduces the same
// figures.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UnitPrice applies the percent discount to the market price.
func UnitPrice(marketPrice, discountPercent float64) float64 {
	return Round2(marketPrice * (1 - discountPercent/100))
}

// LineTotal prices a line from its already-rounded unit price.
func LineTotal(unitPrice float64, quantity int) float64 {
	return Round2(unitPrice * float64(quantity))
}

// Totals computes subtotal, tax and total from priced lines.
func Totals(lines []PricedLine, taxRate float64) (subtotal, tax, total float64) {
	for _, line := range lines {
		subtotal += line.TotalPrice
	}
	subtotal = Round2(subtotal)
	tax = Round2(subtotal * taxRate)
	total = Round2(subtotal + tax)
	return subtotal, tax, total
}
