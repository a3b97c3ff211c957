package saga

import (
	"sneakerspot/internal/pkg/logger"
)

// ClearCartHandler empties the cart once the order exists. The order is
// already committed, so a failure here is logged and swallowed: a stale cart
// is an annoyance, a vanished order would be a lie.
type ClearCartHandler struct {
	NextHandler
}

func (h *ClearCartHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.ClearCart")
	defer span.End()

	if err := orderCtx.Cart.ClearCart(ctx, orderCtx.UserID); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().
			Err(err).
			Int64("user_id", orderCtx.UserID).
			Int64("order_id", orderCtx.OrderID).
			Msg("cart clear failed after order creation")
	}
	return h.executeNext(orderCtx)
}
