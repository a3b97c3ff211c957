package saga

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"sneakerspot/internal/service/checkout/domain"
)

// CreateOrderHandler persists the priced order. A failure here triggers the
// registered stock releases; the order write is the saga's point of no
// return.
type CreateOrderHandler struct {
	NextHandler
}

func (h *CreateOrderHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.CreateOrder")
	defer span.End()

	orderID, err := orderCtx.Orders.CreateOrder(ctx, orderCtx.Order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order persistence failed")
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	orderCtx.OrderID = orderID
	span.SetAttributes(attribute.Int64("order.id", orderID))
	return h.executeNext(orderCtx)
}
