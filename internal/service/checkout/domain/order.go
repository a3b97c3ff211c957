package domain

// PricedLine is one cart line with its checkout-time price snapshot. Later
// catalog changes never alter it.
type PricedLine struct {
	ProductID   int64   `json:"product_id"`
	BrandName   string  `json:"brand_name"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// CheckoutOrder is the aggregate the saga builds up step by step: lines come
// from the cart, prices from the catalog snapshot, totals from the pricing
// rules.
type CheckoutOrder struct {
	UserID   int64        `json:"user_id"`
	Lines    []PricedLine `json:"items"`
	Subtotal float64      `json:"subtotal_amount"`
	Tax      float64      `json:"tax_amount"`
	Total    float64      `json:"total_amount"`
}

// OrderConfirmedEvent is the payload published for the notification service
// and the push gateway after an order is persisted.
type OrderConfirmedEvent struct {
	OrderID  int64        `json:"order_id"`
	UserID   int64        `json:"user_id"`
	Email    string       `json:"email"`
	Lines    []PricedLine `json:"items"`
	Subtotal float64      `json:"subtotal_amount"`
	Tax      float64      `json:"tax_amount"`
	Total    float64      `json:"total_amount"`
}
