package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sneakerspot/internal/pkg/logger"
	"sneakerspot/internal/service/user/domain"
)

type OrderService struct {
	orders domain.OrderRepository
	tracer trace.Tracer
}

func NewOrderService(orders domain.OrderRepository, tracer trace.Tracer) *OrderService {
	return &OrderService{orders: orders, tracer: tracer}
}

// CreateOrder persists a priced order. The monetary fields arrive already
// computed; this service never recalculates them.
func (s *OrderService) CreateOrder(ctx context.Context, o *domain.Order) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	if o.Status == "" {
		o.Status = domain.StatusPending
	}
	id, err := s.orders.Create(ctx, o)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	span.SetAttributes(attribute.Int64("order.id", id))
	logger.Ctx(ctx).Info().
		Int64("order_id", id).
		Int64("user_id", o.UserID).
		Float64("total", o.TotalAmount).
		Msg("order created")
	return id, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) OrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	return s.orders.Items(ctx, orderID)
}

// UpdateStatus writes the new status and reports the previous one together
// with the order's owner.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status domain.Status) (domain.Status, int64, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus")
	defer span.End()

	old, userID, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		span.RecordError(err)
		return "", 0, err
	}
	logger.Ctx(ctx).Info().
		Int64("order_id", orderID).
		Str("old_status", string(old)).
		Str("new_status", string(status)).
		Msg("order status updated")
	return old, userID, nil
}

type SalesAnalytics struct {
	TotalOrders  int64   `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
}

func (s *OrderService) Analytics(ctx context.Context) (*SalesAnalytics, error) {
	orders, revenue, err := s.orders.SalesTotals(ctx)
	if err != nil {
		return nil, err
	}
	return &SalesAnalytics{TotalOrders: orders, TotalRevenue: revenue}, nil
}
