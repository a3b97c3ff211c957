package stockops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"sneakerspot/internal/pkg/httpclient"
)

// HTTPInventoryClient talks to the inventory service's stock endpoints.
type HTTPInventoryClient struct {
	baseURL string
	client  *httpclient.Client
}

func NewHTTPInventoryClient(baseURL string, client *httpclient.Client) *HTTPInventoryClient {
	return &HTTPInventoryClient{baseURL: baseURL, client: client}
}

func stockQuery(productID int64, quantity int) url.Values {
	return url.Values{
		"product_id": {strconv.FormatInt(productID, 10)},
		"quantity":   {strconv.Itoa(quantity)},
	}
}

func (c *HTTPInventoryClient) ValidateStock(ctx context.Context, productID int64, quantity int) (*StockLevel, error) {
	var out struct {
		Available    bool `json:"available"`
		CurrentStock int  `json:"current_stock"`
	}
	err := c.client.Get(ctx, c.baseURL+"/stock/validate", stockQuery(productID, quantity), &out)
	if err != nil {
		return nil, mapStockError(err, productID, quantity)
	}
	return &StockLevel{Available: out.Available, CurrentStock: out.CurrentStock}, nil
}

func (c *HTTPInventoryClient) ReserveStock(ctx context.Context, productID int64, quantity int) (int, error) {
	var out struct {
		RemainingStock int `json:"remaining_stock"`
	}
	err := c.client.Post(ctx, c.baseURL+"/stock/reserve", stockQuery(productID, quantity), &out)
	if err != nil {
		return 0, mapStockError(err, productID, quantity)
	}
	return out.RemainingStock, nil
}

func (c *HTTPInventoryClient) ReleaseStock(ctx context.Context, productID int64, quantity int) (int, error) {
	var out struct {
		CurrentStock int `json:"current_stock"`
	}
	err := c.client.Post(ctx, c.baseURL+"/stock/release", stockQuery(productID, quantity), &out)
	if err != nil {
		return 0, mapStockError(err, productID, quantity)
	}
	return out.CurrentStock, nil
}

// mapStockError turns upstream responses into the typed errors callers switch
// on. The 409 body carries available/requested; decoding failures fall back
// to the requested quantity alone.
func mapStockError(err error, productID int64, quantity int) error {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: product %d", ErrProductNotFound, productID)
		case http.StatusConflict:
			insufficient := &InsufficientStockError{ProductID: productID, Requested: quantity}
			var body struct {
				Available int `json:"available"`
				Requested int `json:"requested"`
			}
			if json.Unmarshal(statusErr.Body, &body) == nil {
				insufficient.Available = body.Available
				if body.Requested > 0 {
					insufficient.Requested = body.Requested
				}
			}
			return insufficient
		}
		return err
	}
	if errors.Is(err, httpclient.ErrUnavailable) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
