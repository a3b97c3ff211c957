package application

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sneakerspot/internal/pkg/logger"
	"sneakerspot/internal/pkg/metrics"
	"sneakerspot/internal/service/checkout/application/saga"
	"sneakerspot/internal/service/checkout/domain"
	"sneakerspot/internal/service/checkout/port"
	"sneakerspot/internal/service/stockops"
)

// CheckoutService orchestrates the reservation saga. The chain owns the
// step-by-step flow; the service owns idempotency, the overall timeout, and
// translating outcomes into metrics.
type CheckoutService struct {
	cart      port.CartService
	catalog   port.ProductCatalog
	inventory stockops.InventoryClient
	orders    port.OrderStore
	notifier  port.Notifier
	guard     port.IdempotencyGuard
	tracer    trace.Tracer

	taxRate         float64
	upstreamTimeout time.Duration
}

func NewCheckoutService(
	cart port.CartService,
	catalog port.ProductCatalog,
	inventory stockops.InventoryClient,
	orders port.OrderStore,
	notifier port.Notifier,
	guard port.IdempotencyGuard,
	tracer trace.Tracer,
	taxRate float64,
	upstreamTimeout time.Duration,
) *CheckoutService {
	if taxRate == 0 {
		taxRate = domain.TaxRate
	}
	if upstreamTimeout == 0 {
		upstreamTimeout = 15 * time.Second
	}
	return &CheckoutService{
		cart: cart, catalog: catalog, inventory: inventory,
		orders: orders, notifier: notifier, guard: guard,
		tracer: tracer, taxRate: taxRate, upstreamTimeout: upstreamTimeout,
	}
}

// Checkout runs the full saga for the authenticated user. idempotencyKey may
// be empty, in which case no duplicate guard applies.
func (s *CheckoutService) Checkout(ctx context.Context, identity *port.Identity, idempotencyKey string) (*CheckoutResult, error) {
	ctx, span := s.tracer.Start(ctx, "app.Checkout")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", identity.UserID))

	if s.guard != nil && idempotencyKey != "" {
		ok, err := s.guard.Begin(ctx, idempotencyKey)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("idempotency guard unavailable, proceeding without it")
		} else if !ok {
			span.AddEvent("duplicate checkout request rejected")
			return nil, domain.ErrDuplicateRequest
		}
	}

	processingCtx, cancel := context.WithTimeout(ctx, s.upstreamTimeout)
	defer cancel()

	orderCtx := &saga.OrderContext{
		Ctx:       processingCtx,
		Tracer:    s.tracer,
		UserID:    identity.UserID,
		Email:     identity.Email,
		Cart:      s.cart,
		Catalog:   s.catalog,
		Inventory: s.inventory,
		Orders:    s.orders,
		Notifier:  s.notifier,
		TaxRate:   s.taxRate,
	}

	if err := s.buildChain().Handle(orderCtx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkout chain failed")
		orderCtx.TriggerCompensation()
		s.releaseGuard(ctx, idempotencyKey)
		metrics.CheckoutAttempts.WithLabelValues(resultLabel(err)).Inc()
		logger.Ctx(ctx).Error().
			Err(err).
			Int64("user_id", identity.UserID).
			Msg("checkout failed")
		return nil, err
	}

	metrics.CheckoutAttempts.WithLabelValues(metrics.ResultSuccess).Inc()
	logger.Ctx(ctx).Info().
		Int64("user_id", identity.UserID).
		Int64("order_id", orderCtx.OrderID).
		Float64("total", orderCtx.Order.Total).
		Msg("checkout completed")

	return &CheckoutResult{
		OrderID:  orderCtx.OrderID,
		Status:   "pending",
		Items:    orderCtx.Order.Lines,
		Subtotal: orderCtx.Order.Subtotal,
		Tax:      orderCtx.Order.Tax,
		Total:    orderCtx.Order.Total,
	}, nil
}

// releaseGuard frees the idempotency key after a failed attempt so the
// client's retry is not locked out for the whole TTL.
func (s *CheckoutService) releaseGuard(ctx context.Context, key string) {
	if s.guard == nil || key == "" {
		return
	}
	if err := s.guard.End(context.WithoutCancel(ctx), key); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("idempotency key release failed")
	}
}

func (s *CheckoutService) buildChain() saga.Handler {
	chain := new(saga.FetchCartHandler)
	chain.
		SetNext(new(saga.ValidateStockHandler)).
		SetNext(new(saga.ReserveStockHandler)).
		SetNext(new(saga.PriceHandler)).
		SetNext(new(saga.CreateOrderHandler)).
		SetNext(new(saga.ClearCartHandler)).
		SetNext(new(saga.NotifyHandler))
	return chain
}

func resultLabel(err error) string {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return metrics.ResultEmptyCart
	case errors.As(err, &insufficient):
		return metrics.ResultInsufficientStock
	case errors.Is(err, domain.ErrPersistenceFailed):
		return metrics.ResultPersistenceError
	default:
		return metrics.ResultUpstreamError
	}
}
