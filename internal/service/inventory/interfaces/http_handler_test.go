package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"sneakerspot/internal/service/inventory/application"
	"sneakerspot/internal/service/inventory/domain"
)

type stubRepo struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	brands   map[int64]string
}

func (r *stubRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubRepo) List(_ context.Context, _ domain.ListFilter) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubRepo) Create(_ context.Context, p *domain.Product) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.brands[p.BrandID]; !ok {
		return 0, domain.ErrBrandNotFound
	}
	id := int64(len(r.products) + 1)
	cp := *p
	cp.ProductID = id
	r.products[id] = &cp
	return id, nil
}

func (r *stubRepo) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ProductID]; !ok {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *stubRepo) DecrementStock(_ context.Context, id int64, qty int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	if p.Quantity < qty {
		return 0, &domain.InsufficientStockError{ProductID: id, Available: p.Quantity, Requested: qty}
	}
	p.Quantity -= qty
	return p.Quantity, nil
}

func (r *stubRepo) IncrementStock(_ context.Context, id int64, qty int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	p.Quantity += qty
	return p.Quantity, nil
}

func (r *stubRepo) ListBrands(_ context.Context) ([]domain.Brand, error) {
	return []domain.Brand{{BrandID: 1, BrandName: "Nike"}}, nil
}

func (r *stubRepo) CreateBrand(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := int64(len(r.brands) + 1)
	r.brands[id] = name
	return id, nil
}

func (r *stubRepo) Counts(_ context.Context) (int64, int64, int64, error) {
	return int64(len(r.products)), int64(len(r.brands)), 0, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *stubRepo) {
	t.Helper()
	repo := &stubRepo{
		products: map[int64]*domain.Product{
			1: {ProductID: 1, BrandID: 1, BrandName: "Nike", ProductName: "Air Max 90", MarketPrice: 100, DiscountPercent: 10, Quantity: 5},
		},
		brands: map[int64]string{1: "Nike"},
	}
	tracer := otel.Tracer("test")
	handler := NewInventoryHandler(
		application.NewStockService(repo, tracer),
		application.NewCatalogService(repo, tracer),
	)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, repo
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestStockValidateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/stock/validate?product_id=1&quantity=3")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Available    bool `json:"available"`
		CurrentStock int  `json:"current_stock"`
	}
	decodeBody(t, resp, &body)
	assert.True(t, body.Available)
	assert.Equal(t, 5, body.CurrentStock)
}

func TestStockReserveEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)

	resp, err := http.Post(srv.URL+"/stock/reserve?product_id=1&quantity=3", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		RemainingStock int `json:"remaining_stock"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, 2, body.RemainingStock)
	assert.Equal(t, 2, repo.products[1].Quantity)
}

func TestStockReserveEndpointInsufficient(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/stock/reserve?product_id=1&quantity=9", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body struct {
		Detail    string `json:"detail"`
		Available int    `json:"available"`
		Requested int    `json:"requested"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, 5, body.Available)
	assert.Equal(t, 9, body.Requested)
	assert.Contains(t, body.Detail, "insufficient stock")
}

func TestStockReserveEndpointUnknownProduct(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/stock/reserve?product_id=42&quantity=1", "application/json", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestStockReserveEndpointBadQuantity(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, q := range []string{"0", "-2", "abc"} {
		resp, err := http.Post(srv.URL+"/stock/reserve?product_id=1&quantity="+q, "application/json", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "quantity=%s", q)
		resp.Body.Close()
	}
}

func TestStockReleaseEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)

	resp, err := http.Post(srv.URL+"/stock/release?product_id=1&quantity=4", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		CurrentStock int `json:"current_stock"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, 9, body.CurrentStock)
	assert.Equal(t, 9, repo.products[1].Quantity)
}

func TestGetProductEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/products/1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "Air Max 90", body["product_name"])
	assert.Equal(t, "Nike", body["brand_name"])
}

func TestCreateProductUnknownBrand(t *testing.T) {
	srv, _ := newTestServer(t)

	payload := `{"brand_id": 99, "product_name": "Dunk Low", "market_price": 110, "quantity": 3}`
	resp, err := http.Post(srv.URL+"/products", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
