package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"sneakerspot/internal/pkg/httpclient"
	"sneakerspot/internal/service/checkout/port"
	"sneakerspot/internal/service/stockops"
)

// CatalogHTTPAdapter fetches product details from the inventory service for
// the pricing snapshot.
type CatalogHTTPAdapter struct {
	baseURL string
	client  *httpclient.Client
}

func NewCatalogHTTPAdapter(baseURL string, client *httpclient.Client) *CatalogHTTPAdapter {
	return &CatalogHTTPAdapter{baseURL: baseURL, client: client}
}

func (a *CatalogHTTPAdapter) GetProduct(ctx context.Context, productID int64) (*port.CatalogProduct, error) {
	var product port.CatalogProduct
	url := fmt.Sprintf("%s/products/%d", a.baseURL, productID)
	if err := a.client.Get(ctx, url, nil, &product); err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: product %d", stockops.ErrProductNotFound, productID)
		}
		if errors.Is(err, httpclient.ErrUnavailable) {
			return nil, fmt.Errorf("%w: %v", stockops.ErrUnavailable, err)
		}
		return nil, err
	}
	return &product, nil
}
