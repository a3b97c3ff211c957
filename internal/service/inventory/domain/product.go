package domain

import "time"

// Product is the catalog entry plus the one mutable field the reservation
// protocol touches: Quantity.
type Product struct {
	ProductID       int64
	BrandID         int64
	BrandName       string
	ProductName     string
	Description     string
	MarketPrice     float64
	DiscountPercent float64
	Quantity        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FinalPrice is the catalog price after discount, before any snapshot
// rounding done at checkout.
func (p *Product) FinalPrice() float64 {
	return p.MarketPrice * (1 - p.DiscountPercent/100)
}

type Brand struct {
	BrandID   int64
	BrandName string
}

// StockLevel is the result of a validate call.
type StockLevel struct {
	ProductID    int64
	Available    bool
	CurrentStock int
}
