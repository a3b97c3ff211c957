package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"sneakerspot/internal/service/checkout/domain"
	"sneakerspot/internal/service/checkout/port"
	"sneakerspot/internal/service/stockops"
)

type fakeCart struct {
	lines   []port.CartLine
	getErr  error
	cleared bool
}

func (c *fakeCart) GetCart(context.Context, int64) ([]port.CartLine, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.lines, nil
}

func (c *fakeCart) ClearCart(context.Context, int64) error {
	c.cleared = true
	return nil
}

type fakeCatalog struct {
	products map[int64]*port.CatalogProduct
}

func (c *fakeCatalog) GetProduct(_ context.Context, id int64) (*port.CatalogProduct, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, stockops.ErrProductNotFound
	}
	return p, nil
}

// fakeLedger tracks stock levels and every reserve/release call.
type fakeLedger struct {
	mu       sync.Mutex
	stock    map[int64]int
	reserves []stockops.ReservedLine
	releases []stockops.ReservedLine

	reserveErrAt int // 1-based call index that fails, 0 = never
	reserveCalls int
}

func (l *fakeLedger) ValidateStock(_ context.Context, id int64, qty int) (*stockops.StockLevel, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	current, ok := l.stock[id]
	if !ok {
		return nil, stockops.ErrProductNotFound
	}
	return &stockops.StockLevel{Available: current >= qty, CurrentStock: current}, nil
}

func (l *fakeLedger) ReserveStock(_ context.Context, id int64, qty int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reserveCalls++
	if l.reserveErrAt > 0 && l.reserveCalls == l.reserveErrAt {
		return 0, &stockops.InsufficientStockError{ProductID: id, Available: l.stock[id], Requested: qty}
	}
	current, ok := l.stock[id]
	if !ok {
		return 0, stockops.ErrProductNotFound
	}
	if current < qty {
		return 0, &stockops.InsufficientStockError{ProductID: id, Available: current, Requested: qty}
	}
	l.stock[id] = current - qty
	l.reserves = append(l.reserves, stockops.ReservedLine{ProductID: id, Quantity: qty})
	return l.stock[id], nil
}

func (l *fakeLedger) ReleaseStock(_ context.Context, id int64, qty int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stock[id] += qty
	l.releases = append(l.releases, stockops.ReservedLine{ProductID: id, Quantity: qty})
	return l.stock[id], nil
}

type fakeOrderStore struct {
	created   []*domain.CheckoutOrder
	createErr error
	nextID    int64
}

func (s *fakeOrderStore) CreateOrder(_ context.Context, o *domain.CheckoutOrder) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.nextID++
	s.created = append(s.created, o)
	return s.nextID, nil
}

type fakeNotifier struct {
	events []*domain.OrderConfirmedEvent
	err    error
}

func (n *fakeNotifier) OrderConfirmed(_ context.Context, e *domain.OrderConfirmedEvent) error {
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, e)
	return nil
}

type fakeGuard struct {
	inFlight map[string]bool
}

func (g *fakeGuard) Begin(_ context.Context, key string) (bool, error) {
	if g.inFlight == nil {
		g.inFlight = map[string]bool{}
	}
	if g.inFlight[key] {
		return false, nil
	}
	g.inFlight[key] = true
	return true, nil
}

func (g *fakeGuard) End(_ context.Context, key string) error {
	delete(g.inFlight, key)
	return nil
}

type fixture struct {
	svc      *CheckoutService
	cart     *fakeCart
	catalog  *fakeCatalog
	ledger   *fakeLedger
	orders   *fakeOrderStore
	notifier *fakeNotifier
	guard    *fakeGuard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		cart: &fakeCart{lines: []port.CartLine{
			{ProductID: 1, Quantity: 2},
		}},
		catalog: &fakeCatalog{products: map[int64]*port.CatalogProduct{
			1: {ProductID: 1, BrandName: "Nike", ProductName: "Air Max 90", MarketPrice: 100, DiscountPercent: 10},
			2: {ProductID: 2, BrandName: "Adidas", ProductName: "Samba", MarketPrice: 80, DiscountPercent: 0},
		}},
		ledger:   &fakeLedger{stock: map[int64]int{1: 5, 2: 3}},
		orders:   &fakeOrderStore{},
		notifier: &fakeNotifier{},
		guard:    &fakeGuard{},
	}
	f.svc = NewCheckoutService(
		f.cart, f.catalog, f.ledger, f.orders, f.notifier, f.guard,
		otel.Tracer("test"), domain.TaxRate, 0,
	)
	return f
}

func identity() *port.Identity {
	return &port.Identity{UserID: 7, Email: "jane@example.com", Role: "customer"}
}

func TestCheckoutHappyPath(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Checkout(context.Background(), identity(), "")
	require.NoError(t, err)

	// 2 x $100 at 10% off: unit 90.00, subtotal 180.00, tax 11.25.
	assert.Equal(t, 180.0, result.Subtotal)
	assert.Equal(t, 11.25, result.Tax)
	assert.Equal(t, 191.25, result.Total)
	assert.Equal(t, "pending", result.Status)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 90.0, result.Items[0].UnitPrice)
	assert.Equal(t, 180.0, result.Items[0].TotalPrice)

	assert.Equal(t, 3, f.ledger.stock[1])
	assert.True(t, f.cart.cleared)
	require.Len(t, f.orders.created, 1)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, "jane@example.com", f.notifier.events[0].Email)
	assert.Equal(t, result.OrderID, f.notifier.events[0].OrderID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	f.cart.lines = nil

	_, err := f.svc.Checkout(context.Background(), identity(), "")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, f.ledger.reserves)
	assert.Empty(t, f.orders.created)
}

func TestCheckoutValidationFailsBeforeAnyReserve(t *testing.T) {
	f := newFixture(t)
	f.cart.lines = []port.CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 99}, // cannot be satisfied
	}

	var insufficient *domain.InsufficientStockError
	_, err := f.svc.Checkout(context.Background(), identity(), "")
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(2), insufficient.ProductID)

	// Validation rejects the whole cart before any decrement happens.
	assert.Empty(t, f.ledger.reserves)
	assert.Equal(t, 5, f.ledger.stock[1])
	assert.Equal(t, 3, f.ledger.stock[2])
	assert.False(t, f.cart.cleared)
}

// A reservation that fails mid-way must release what it already took and
// leave the ledger exactly where it started.
func TestCheckoutReserveFailureIsNetZero(t *testing.T) {
	f := newFixture(t)
	f.cart.lines = []port.CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}
	f.ledger.reserveErrAt = 2

	var insufficient *domain.InsufficientStockError
	_, err := f.svc.Checkout(context.Background(), identity(), "")
	require.ErrorAs(t, err, &insufficient)

	assert.Equal(t, 5, f.ledger.stock[1])
	assert.Equal(t, 3, f.ledger.stock[2])
	require.Len(t, f.ledger.releases, 1)
	assert.Equal(t, stockops.ReservedLine{ProductID: 1, Quantity: 2}, f.ledger.releases[0])
	assert.Empty(t, f.orders.created)
	assert.False(t, f.cart.cleared)
}

// Order persistence failure comes after all lines are reserved; every line
// must be released, in reverse order.
func TestCheckoutOrderWriteFailureReleasesAllLines(t *testing.T) {
	f := newFixture(t)
	f.cart.lines = []port.CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}
	f.orders.createErr = errors.New("connection reset")

	_, err := f.svc.Checkout(context.Background(), identity(), "")
	assert.ErrorIs(t, err, domain.ErrPersistenceFailed)

	assert.Equal(t, 5, f.ledger.stock[1])
	assert.Equal(t, 3, f.ledger.stock[2])
	require.Len(t, f.ledger.releases, 2)
	assert.Equal(t, int64(2), f.ledger.releases[0].ProductID)
	assert.Equal(t, int64(1), f.ledger.releases[1].ProductID)
	assert.False(t, f.cart.cleared)
	assert.Empty(t, f.notifier.events)
}

// Prices are snapshotted at checkout time; later catalog edits must never
// change what the stored order says the customer paid.
func TestCheckoutPriceSnapshotSurvivesCatalogChange(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Checkout(context.Background(), identity(), "")
	require.NoError(t, err)
	assert.Equal(t, 90.0, result.Items[0].UnitPrice)

	f.catalog.products[1].MarketPrice = 250
	f.catalog.products[1].DiscountPercent = 0

	require.Len(t, f.orders.created, 1)
	stored := f.orders.created[0]
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, 90.0, stored.Lines[0].UnitPrice)
	assert.Equal(t, 180.0, stored.Lines[0].TotalPrice)
	assert.Equal(t, 180.0, stored.Subtotal)
	assert.Equal(t, 191.25, stored.Total)
}

// A client that drops the connection mid-checkout must not be able to cancel
// the stock releases: compensation detaches from the request context.
func TestCheckoutClientDisconnectStillReleasesStock(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledger := &deadContextLedger{fakeLedger: f.ledger}
	orders := &disconnectingOrderStore{cancel: cancel}
	f.svc = NewCheckoutService(
		f.cart, f.catalog, ledger, orders, f.notifier, f.guard,
		otel.Tracer("test"), domain.TaxRate, 0,
	)

	_, err := f.svc.Checkout(ctx, identity(), "")
	assert.ErrorIs(t, err, domain.ErrPersistenceFailed)

	require.Len(t, f.ledger.releases, 1)
	assert.Equal(t, stockops.ReservedLine{ProductID: 1, Quantity: 2}, f.ledger.releases[0])
	assert.Equal(t, 5, f.ledger.stock[1])
}

// deadContextLedger refuses releases on a cancelled context, the way the real
// HTTP adapter would.
type deadContextLedger struct {
	*fakeLedger
}

func (l *deadContextLedger) ReleaseStock(ctx context.Context, id int64, qty int) (int, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	return l.fakeLedger.ReleaseStock(ctx, id, qty)
}

// disconnectingOrderStore cancels the request context before failing,
// simulating a client disconnect racing the order write.
type disconnectingOrderStore struct {
	cancel context.CancelFunc
}

func (s *disconnectingOrderStore) CreateOrder(ctx context.Context, _ *domain.CheckoutOrder) (int64, error) {
	s.cancel()
	return 0, context.Canceled
}

func TestCheckoutNotifyFailureDoesNotFailCheckout(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("kafka unreachable")

	result, err := f.svc.Checkout(context.Background(), identity(), "")
	require.NoError(t, err)
	assert.NotZero(t, result.OrderID)
	assert.Len(t, f.orders.created, 1)
	assert.Empty(t, f.ledger.releases)
}

func TestCheckoutClearCartFailureDoesNotFailCheckout(t *testing.T) {
	f := newFixture(t)
	failing := &clearFailCart{fakeCart: f.cart}
	f.svc = NewCheckoutService(
		failing, f.catalog, f.ledger, f.orders, f.notifier, f.guard,
		otel.Tracer("test"), domain.TaxRate, 0,
	)

	result, err := f.svc.Checkout(context.Background(), identity(), "")
	require.NoError(t, err)
	assert.NotZero(t, result.OrderID)
	assert.Len(t, f.orders.created, 1)
}

type clearFailCart struct {
	*fakeCart
}

func (c *clearFailCart) ClearCart(context.Context, int64) error {
	return errors.New("cart service timeout")
}

func TestCheckoutUnknownProductInCart(t *testing.T) {
	f := newFixture(t)
	f.cart.lines = []port.CartLine{{ProductID: 42, Quantity: 1}}

	_, err := f.svc.Checkout(context.Background(), identity(), "")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, f.ledger.reserves)
}

func TestCheckoutDuplicateIdempotencyKey(t *testing.T) {
	f := newFixture(t)
	f.guard.inFlight = map[string]bool{"req-123": true}

	_, err := f.svc.Checkout(context.Background(), identity(), "req-123")
	assert.ErrorIs(t, err, domain.ErrDuplicateRequest)
	assert.Empty(t, f.ledger.reserves)
}

// A failed checkout must free its idempotency key so the client can retry.
func TestCheckoutFailureReleasesIdempotencyKey(t *testing.T) {
	f := newFixture(t)
	f.cart.lines = nil

	_, err := f.svc.Checkout(context.Background(), identity(), "req-456")
	require.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.False(t, f.guard.inFlight["req-456"])
}
