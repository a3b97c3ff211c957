package adapter

import (
	"context"

	"sneakerspot/internal/pkg/httpclient"
	"sneakerspot/internal/service/checkout/domain"
)

// OrderStoreHTTPAdapter persists orders through the user service. The
// payload field names match the user service's order endpoint exactly;
// totals travel pre-computed.
type OrderStoreHTTPAdapter struct {
	baseURL string
	client  *httpclient.Client
}

func NewOrderStoreHTTPAdapter(baseURL string, client *httpclient.Client) *OrderStoreHTTPAdapter {
	return &OrderStoreHTTPAdapter{baseURL: baseURL, client: client}
}

func (a *OrderStoreHTTPAdapter) CreateOrder(ctx context.Context, order *domain.CheckoutOrder) (int64, error) {
	var out struct {
		OrderID int64 `json:"order_id"`
	}
	if err := a.client.PostJSON(ctx, a.baseURL+"/orders", order, &out); err != nil {
		return 0, err
	}
	return out.OrderID, nil
}
