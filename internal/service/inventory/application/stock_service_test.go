package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"sneakerspot/internal/service/inventory/domain"
)

// fakeProductRepo keeps products in memory and guards stock mutation with a
// mutex, mirroring the atomicity the SQL conditional update provides.
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	brands   map[int64]string
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: make(map[int64]*domain.Product),
		brands:   make(map[int64]string),
	}
}

func (r *fakeProductRepo) FindByID(_ context.Context, productID int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ domain.ListFilter) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *domain.Product) (int64, error) {
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

func (r *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.products[p.ProductID]
	if !ok {
		return domain.ErrProductNotFound
	}
	existing.ProductName = p.ProductName
	existing.Description = p.Description
	existing.MarketPrice = p.MarketPrice
	existing.DiscountPercent = p.DiscountPercent
	return nil
}

func (r *fakeProductRepo) DecrementStock(_ context.Context, productID int64, quantity int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	if p.Quantity < quantity {
		return 0, &domain.InsufficientStockError{
			ProductID: productID,
			Available: p.Quantity,
			Requested: quantity,
		}
	}
	p.Quantity -= quantity
	return p.Quantity, nil
}

func (r *fakeProductRepo) IncrementStock(_ context.Context, productID int64, quantity int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	p.Quantity += quantity
	return p.Quantity, nil
}

func (r *fakeProductRepo) ListBrands(_ context.Context) ([]domain.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Brand, 0, len(r.brands))
	for id, name := range r.brands {
		out = append(out, domain.Brand{BrandID: id, BrandName: name})
	}
	return out, nil
}

func (r *fakeProductRepo) CreateBrand(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := int64(len(r.brands) + 1)
	r.brands[id] = name
	return id, nil
}

func (r *fakeProductRepo) Counts(_ context.Context) (int64, int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var discounted int64
	for _, p := range r.products {
		if p.DiscountPercent > 0 {
			discounted++
		}
	}
	return int64(len(r.products)), int64(len(r.brands)), discounted, nil
}

func newStockFixture(t *testing.T, quantity int) (*StockService, *fakeProductRepo) {
	t.Helper()
	repo := newFakeProductRepo()
	repo.brands[1] = "Nike"
	repo.products[1] = &domain.Product{
		ProductID:   1,
		BrandID:     1,
		ProductName: "Air Max 90",
		MarketPrice: 100,
		Quantity:    quantity,
	}
	return NewStockService(repo, otel.Tracer("test")), repo
}

func TestValidateStock(t *testing.T) {
	svc, _ := newStockFixture(t, 5)

	level, err := svc.ValidateStock(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.True(t, level.Available)
	assert.Equal(t, 5, level.CurrentStock)

	level, err = svc.ValidateStock(context.Background(), 1, 6)
	require.NoError(t, err)
	assert.False(t, level.Available)
	assert.Equal(t, 5, level.CurrentStock)
}

func TestValidateStockDoesNotMutate(t *testing.T) {
	svc, repo := newStockFixture(t, 5)

	_, err := svc.ValidateStock(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, repo.products[1].Quantity)
}

func TestValidateStockUnknownProduct(t *testing.T) {
	svc, _ := newStockFixture(t, 5)

	_, err := svc.ValidateStock(context.Background(), 99, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestReserveStock(t *testing.T) {
	svc, _ := newStockFixture(t, 5)

	remaining, err := svc.ReserveStock(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	var insufficient *domain.InsufficientStockError
	_, err = svc.ReserveStock(context.Background(), 1, 3)
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, 3, insufficient.Requested)
}

func TestReserveStockRejectsNonPositiveQuantity(t *testing.T) {
	svc, repo := newStockFixture(t, 5)

	for _, qty := range []int{0, -1} {
		_, err := svc.ReserveStock(context.Background(), 1, qty)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	assert.Equal(t, 5, repo.products[1].Quantity)
}

func TestReleaseStock(t *testing.T) {
	svc, _ := newStockFixture(t, 2)

	current, err := svc.ReleaseStock(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, current)
}

// Stock must never go negative however many reservations race: each request
// is either granted in full or rejected.
func TestConcurrentReservationsNeverOversell(t *testing.T) {
	const (
		stock   = 10
		workers = 50
	)
	svc, repo := newStockFixture(t, stock)

	var wg sync.WaitGroup
	var granted int32
	var grantedMu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ReserveStock(context.Background(), 1, 1); err == nil {
				grantedMu.Lock()
				granted++
				grantedMu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(stock), granted)
	assert.Equal(t, 0, repo.products[1].Quantity)
}
