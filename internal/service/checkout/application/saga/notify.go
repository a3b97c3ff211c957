package saga

import (
	"sneakerspot/internal/pkg/logger"
	"sneakerspot/internal/service/checkout/domain"
)

// NotifyHandler publishes the order-confirmed event. Delivery is best effort;
// the checkout outcome never depends on it.
type NotifyHandler struct {
	NextHandler
}

func (h *NotifyHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Notify")
	defer span.End()

	event := &domain.OrderConfirmedEvent{
		OrderID:  orderCtx.OrderID,
		UserID:   orderCtx.UserID,
		Email:    orderCtx.Email,
		Lines:    orderCtx.Order.Lines,
		Subtotal: orderCtx.Order.Subtotal,
		Tax:      orderCtx.Order.Tax,
		Total:    orderCtx.Order.Total,
	}
	if err := orderCtx.Notifier.OrderConfirmed(ctx, event); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().
			Err(err).
			Int64("order_id", orderCtx.OrderID).
			Msg("order confirmation event publish failed")
	}
	return h.executeNext(orderCtx)
}
