package application

import "sneakerspot/internal/service/checkout/domain"

// CheckoutResult is the response body of a successful checkout.
type CheckoutResult struct {
	OrderID  int64               `json:"order_id"`
	Status   string              `json:"status"`
	Items    []domain.PricedLine `json:"items"`
	Subtotal float64             `json:"subtotal_amount"`
	Tax      float64             `json:"tax_amount"`
	Total    float64             `json:"total_amount"`
}
