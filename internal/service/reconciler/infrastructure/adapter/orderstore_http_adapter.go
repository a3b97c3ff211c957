package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"sneakerspot/internal/pkg/httpclient"
	"sneakerspot/internal/service/reconciler/domain"
	"sneakerspot/internal/service/reconciler/port"
)

// OrderStoreHTTPAdapter drives the user service's order status and items
// endpoints.
type OrderStoreHTTPAdapter struct {
	baseURL string
	client  *httpclient.Client
}

func NewOrderStoreHTTPAdapter(baseURL string, client *httpclient.Client) *OrderStoreHTTPAdapter {
	return &OrderStoreHTTPAdapter{baseURL: baseURL, client: client}
}

func (a *OrderStoreHTTPAdapter) UpdateStatus(ctx context.Context, orderID int64, status string) (string, int64, error) {
	var out struct {
		OldStatus string `json:"old_status"`
		UserID    int64  `json:"user_id"`
	}
	endpoint := fmt.Sprintf("%s/orders/%d/status", a.baseURL, orderID)

	// The status travels as a query parameter, matching the user service's
	// route.
	params := url.Values{"status": {status}}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", 0, err
	}
	parsed.RawQuery = params.Encode()
	if err := a.client.PutJSON(ctx, parsed.String(), struct{}{}, &out); err != nil {
		return "", 0, mapOrderErr(err, orderID)
	}
	return out.OldStatus, out.UserID, nil
}

func (a *OrderStoreHTTPAdapter) OrderLines(ctx context.Context, orderID int64) ([]port.OrderLine, error) {
	var lines []port.OrderLine
	endpoint := fmt.Sprintf("%s/orders/%d/items", a.baseURL, orderID)
	if err := a.client.Get(ctx, endpoint, nil, &lines); err != nil {
		return nil, mapOrderErr(err, orderID)
	}
	return lines, nil
}

func mapOrderErr(err error, orderID int64) error {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: order %d", domain.ErrOrderNotFound, orderID)
	}
	return err
}
