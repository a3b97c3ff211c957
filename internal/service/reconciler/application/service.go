package application

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sneakerspot/internal/pkg/logger"
	"sneakerspot/internal/pkg/metrics"
	"sneakerspot/internal/service/reconciler/domain"
	"sneakerspot/internal/service/reconciler/port"
	"sneakerspot/internal/service/stockops"
)

// Result reports what a status update did. Warnings carry stock operations
// that could not be completed; the status write itself already succeeded.
type Result struct {
	OrderID   int64    `json:"order_id"`
	UserID    int64    `json:"user_id"`
	OldStatus string   `json:"old_status"`
	NewStatus string   `json:"new_status"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ReconcilerService applies order status changes and keeps the stock ledger
// consistent with them. The status write is authoritative; stock follows,
// and stock trouble degrades to warnings rather than rolling the status
// back.
type ReconcilerService struct {
	orders    port.OrderStore
	inventory stockops.InventoryClient
	locker    port.Locker
	publisher port.EventPublisher
	tracer    trace.Tracer
}

func NewReconcilerService(
	orders port.OrderStore,
	inventory stockops.InventoryClient,
	locker port.Locker,
	publisher port.EventPublisher,
	tracer trace.Tracer,
) *ReconcilerService {
	if locker == nil {
		locker = port.NoopLocker{}
	}
	return &ReconcilerService{
		orders: orders, inventory: inventory,
		locker: locker, publisher: publisher, tracer: tracer,
	}
}

// UpdateOrderStatus moves the order to newStatus and performs the stock
// action the transition requires. Concurrent updates of the same order are
// serialized by the per-order lock.
func (s *ReconcilerService) UpdateOrderStatus(ctx context.Context, orderID int64, rawStatus string) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateOrderStatus")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("order.id", orderID),
		attribute.String("order.new_status", rawStatus),
	)

	newStatus, err := domain.ParseStatus(rawStatus)
	if err != nil {
		span.SetStatus(codes.Error, "invalid status")
		return nil, err
	}

	var result *Result
	lockName := fmt.Sprintf("order-%d", orderID)
	err = s.locker.WithLock(ctx, lockName, func() error {
		var lockErr error
		result, lockErr = s.apply(ctx, orderID, newStatus)
		return lockErr
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("order.old_status", result.OldStatus))
	if len(result.Warnings) > 0 {
		span.AddEvent("stock reconciliation incomplete")
	}
	return result, nil
}

func (s *ReconcilerService) apply(ctx context.Context, orderID int64, newStatus string) (*Result, error) {
	oldStatus, userID, err := s.orders.UpdateStatus(ctx, orderID, newStatus)
	if err != nil {
		return nil, err
	}

	result := &Result{OrderID: orderID, UserID: userID, OldStatus: oldStatus, NewStatus: newStatus}

	action := domain.ActionFor(oldStatus, newStatus)
	if action != domain.ActionNone {
		result.Warnings = s.applyStockAction(ctx, orderID, action)
	}

	logger.Ctx(ctx).Info().
		Int64("order_id", orderID).
		Str("old_status", oldStatus).
		Str("new_status", newStatus).
		Str("stock_action", action.String()).
		Int("warnings", len(result.Warnings)).
		Msg("order status reconciled")

	s.publish(ctx, result)
	return result, nil
}

// applyStockAction runs the per-line stock operation. Every failure becomes a
// warning; the lines that can be processed still are.
func (s *ReconcilerService) applyStockAction(ctx context.Context, orderID int64, action domain.StockAction) []string {
	lines, err := s.orders.OrderLines(ctx, orderID)
	if err != nil {
		metrics.ReconcilerStockWarnings.Inc()
		warning := fmt.Sprintf("could not load order lines for stock %s: %v", action, err)
		logger.Ctx(ctx).Warn().Err(err).Int64("order_id", orderID).Msg(warning)
		return []string{warning}
	}

	var warnings []string
	for _, line := range lines {
		if warning := s.applyLine(ctx, action, line); warning != "" {
			warnings = append(warnings, warning)
			metrics.ReconcilerStockWarnings.Inc()
			logger.Ctx(ctx).Warn().
				Int64("order_id", orderID).
				Int64("product_id", line.ProductID).
				Str("stock_action", action.String()).
				Msg(warning)
		}
	}
	return warnings
}

func (s *ReconcilerService) applyLine(ctx context.Context, action domain.StockAction, line port.OrderLine) string {
	switch action {
	case domain.ActionRelease:
		if _, err := s.inventory.ReleaseStock(ctx, line.ProductID, line.Quantity); err != nil {
			return fmt.Sprintf("release failed for product %d: %v", line.ProductID, err)
		}
	case domain.ActionReserve:
		if _, err := s.inventory.ReserveStock(ctx, line.ProductID, line.Quantity); err != nil {
			return fmt.Sprintf("reserve failed for product %d: %v", line.ProductID, err)
		}
	case domain.ActionValidate:
		level, err := s.inventory.ValidateStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return fmt.Sprintf("validate failed for product %d: %v", line.ProductID, err)
		}
		if !level.Available {
			return fmt.Sprintf("product %d short on stock: available %d, order holds %d",
				line.ProductID, level.CurrentStock, line.Quantity)
		}
	}
	return ""
}

func (s *ReconcilerService) publish(ctx context.Context, result *Result) {
	if s.publisher == nil {
		return
	}
	event := &port.StatusChangedEvent{
		OrderID:   result.OrderID,
		UserID:    result.UserID,
		OldStatus: result.OldStatus,
		NewStatus: result.NewStatus,
		Warnings:  result.Warnings,
	}
	if err := s.publisher.StatusChanged(ctx, event); err != nil {
		logger.Ctx(ctx).Error().
			Err(err).
			Int64("order_id", result.OrderID).
			Msg("status changed event publish failed")
	}
}
