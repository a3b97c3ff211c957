package adapter

import (
	"context"
	"fmt"

	"sneakerspot/internal/pkg/httpclient"
	"sneakerspot/internal/service/checkout/port"
)

// CartHTTPAdapter implements port.CartService against the user service.
type CartHTTPAdapter struct {
	baseURL string
	client  *httpclient.Client
}

func NewCartHTTPAdapter(baseURL string, client *httpclient.Client) *CartHTTPAdapter {
	return &CartHTTPAdapter{baseURL: baseURL, client: client}
}

func (a *CartHTTPAdapter) GetCart(ctx context.Context, userID int64) ([]port.CartLine, error) {
	var lines []port.CartLine
	url := fmt.Sprintf("%s/carts/%d", a.baseURL, userID)
	if err := a.client.Get(ctx, url, nil, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (a *CartHTTPAdapter) ClearCart(ctx context.Context, userID int64) error {
	url := fmt.Sprintf("%s/carts/%d", a.baseURL, userID)
	return a.client.Delete(ctx, url, nil, nil)
}
