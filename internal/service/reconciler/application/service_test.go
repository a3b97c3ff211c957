package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"sneakerspot/internal/service/reconciler/domain"
	"sneakerspot/internal/service/reconciler/port"
	"sneakerspot/internal/service/stockops"
)

type fakeOrderStore struct {
	status map[int64]string
	lines  map[int64][]port.OrderLine
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, orderID int64, status string) (string, int64, error) {
	old, ok := s.status[orderID]
	if !ok {
		return "", 0, domain.ErrOrderNotFound
	}
	s.status[orderID] = status
	return old, 7, nil
}

func (s *fakeOrderStore) OrderLines(_ context.Context, orderID int64) ([]port.OrderLine, error) {
	return s.lines[orderID], nil
}

type fakeInventory struct {
	mu         sync.Mutex
	stock      map[int64]int
	releaseErr error
	reserveErr error
}

func (f *fakeInventory) ValidateStock(_ context.Context, id int64, qty int) (*stockops.StockLevel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current := f.stock[id]
	return &stockops.StockLevel{Available: current >= qty, CurrentStock: current}, nil
}

func (f *fakeInventory) ReserveStock(_ context.Context, id int64, qty int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reserveErr != nil {
		return 0, f.reserveErr
	}
	if f.stock[id] < qty {
		return 0, &stockops.InsufficientStockError{ProductID: id, Available: f.stock[id], Requested: qty}
	}
	f.stock[id] -= qty
	return f.stock[id], nil
}

func (f *fakeInventory) ReleaseStock(_ context.Context, id int64, qty int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.releaseErr != nil {
		return 0, f.releaseErr
	}
	f.stock[id] += qty
	return f.stock[id], nil
}

type capturingPublisher struct {
	events []*port.StatusChangedEvent
}

func (p *capturingPublisher) StatusChanged(_ context.Context, e *port.StatusChangedEvent) error {
	p.events = append(p.events, e)
	return nil
}

func newService(store *fakeOrderStore, inv *fakeInventory, pub port.EventPublisher) *ReconcilerService {
	return NewReconcilerService(store, inv, port.NoopLocker{}, pub, otel.Tracer("test"))
}

func pendingOrder() (*fakeOrderStore, *fakeInventory) {
	store := &fakeOrderStore{
		status: map[int64]string{10: domain.StatusPending},
		lines: map[int64][]port.OrderLine{
			10: {{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}},
		},
	}
	inv := &fakeInventory{stock: map[int64]int{1: 3, 2: 0}}
	return store, inv
}

func TestCancellationReleasesStock(t *testing.T) {
	store, inv := pendingOrder()
	svc := newService(store, inv, nil)

	result, err := svc.UpdateOrderStatus(context.Background(), 10, domain.StatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, result.OldStatus)
	assert.Equal(t, domain.StatusCancelled, result.NewStatus)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 5, inv.stock[1])
	assert.Equal(t, 1, inv.stock[2])
	assert.Equal(t, domain.StatusCancelled, store.status[10])
}

func TestReinstatementReservesStock(t *testing.T) {
	store, inv := pendingOrder()
	store.status[10] = domain.StatusCancelled
	svc := newService(store, inv, nil)

	result, err := svc.UpdateOrderStatus(context.Background(), 10, domain.StatusPending)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, result.OldStatus)
	assert.Equal(t, 1, inv.stock[1])
	// Product 2 had nothing left; the reserve fails as a warning, not an
	// error, and the status write stands.
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "product 2")
	assert.Equal(t, domain.StatusPending, store.status[10])
}

// Fulfillment transitions only check stock; a shortfall never blocks the
// status write.
func TestFulfillmentShortfallIsWarningOnly(t *testing.T) {
	store, inv := pendingOrder()
	svc := newService(store, inv, nil)

	result, err := svc.UpdateOrderStatus(context.Background(), 10, domain.StatusProcessing)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusProcessing, store.status[10])
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "product 2")
	// Validation never mutates the ledger.
	assert.Equal(t, 3, inv.stock[1])
	assert.Equal(t, 0, inv.stock[2])
}

func TestPlainTransitionTouchesNothing(t *testing.T) {
	store, inv := pendingOrder()
	store.status[10] = domain.StatusShipped
	svc := newService(store, inv, nil)

	result, err := svc.UpdateOrderStatus(context.Background(), 10, domain.StatusDelivered)
	require.NoError(t, err)

	assert.Empty(t, result.Warnings)
	assert.Equal(t, 3, inv.stock[1])
	assert.Equal(t, 0, inv.stock[2])
}

func TestUnknownOrder(t *testing.T) {
	store, inv := pendingOrder()
	svc := newService(store, inv, nil)

	_, err := svc.UpdateOrderStatus(context.Background(), 999, domain.StatusCancelled)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestInvalidStatusRejectedBeforeAnyWrite(t *testing.T) {
	store, inv := pendingOrder()
	svc := newService(store, inv, nil)

	_, err := svc.UpdateOrderStatus(context.Background(), 10, "canceled")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Equal(t, domain.StatusPending, store.status[10])
}

// Release failures leave the status written and the failure in the warnings.
func TestReleaseFailureDoesNotRollBackStatus(t *testing.T) {
	store, inv := pendingOrder()
	inv.releaseErr = errors.New("inventory unreachable")
	svc := newService(store, inv, nil)

	result, err := svc.UpdateOrderStatus(context.Background(), 10, domain.StatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, store.status[10])
	assert.Len(t, result.Warnings, 2)
}

func TestStatusChangedEventPublished(t *testing.T) {
	store, inv := pendingOrder()
	store.status[10] = domain.StatusShipped
	pub := &capturingPublisher{}
	svc := newService(store, inv, pub)

	_, err := svc.UpdateOrderStatus(context.Background(), 10, domain.StatusDelivered)
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, int64(10), pub.events[0].OrderID)
	assert.Equal(t, int64(7), pub.events[0].UserID)
	assert.Equal(t, domain.StatusShipped, pub.events[0].OldStatus)
	assert.Equal(t, domain.StatusDelivered, pub.events[0].NewStatus)
}
