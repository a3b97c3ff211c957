package saga

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"sneakerspot/internal/service/checkout/domain"
)

// FetchCartHandler loads the cart and rejects an empty one before anything
// else runs.
type FetchCartHandler struct {
	NextHandler
}

func (h *FetchCartHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.FetchCart")
	defer span.End()

	lines, err := orderCtx.Cart.GetCart(ctx, orderCtx.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cart fetch failed")
		return fmt.Errorf("%w: cart service: %v", domain.ErrUpstreamUnavailable, err)
	}
	if len(lines) == 0 {
		span.SetStatus(codes.Error, "empty cart")
		return domain.ErrEmptyCart
	}

	span.SetAttributes(attribute.Int("cart.lines", len(lines)))
	orderCtx.CartLines = lines
	return h.executeNext(orderCtx)
}
