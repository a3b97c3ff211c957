package saga

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"sneakerspot/internal/service/stockops"
)

// ReserveStockHandler decrements stock line by line. Reservations run
// sequentially so a failure knows exactly which lines are held; each granted
// line immediately registers its own release compensation. The validate pass
// already ran, so failures here mean a concurrent checkout won the race.
type ReserveStockHandler struct {
	NextHandler
}

func (h *ReserveStockHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.ReserveStock")
	defer span.End()

	var reserved []stockops.ReservedLine
	for _, line := range orderCtx.CartLines {
		_, err := orderCtx.Inventory.ReserveStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "stock reservation failed")
			return mapInventoryErr(err)
		}

		reservedLine := stockops.ReservedLine{ProductID: line.ProductID, Quantity: line.Quantity}
		reserved = append(reserved, reservedLine)
		orderCtx.AddCompensation(func(compCtx context.Context) {
			compCtx, compSpan := orderCtx.Tracer.Start(compCtx, "saga.compensation.ReleaseStock")
			defer compSpan.End()
			compSpan.SetAttributes(attribute.Int64("product.id", reservedLine.ProductID))
			stockops.Rollback(compCtx, orderCtx.Inventory, []stockops.ReservedLine{reservedLine})
		})
	}

	span.SetAttributes(attribute.Int("reserved.lines", len(reserved)))
	return h.executeNext(orderCtx)
}
