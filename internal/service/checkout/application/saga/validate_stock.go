package saga

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"sneakerspot/internal/service/checkout/domain"
	"sneakerspot/internal/service/stockops"
)

// ValidateStockHandler checks every cart line before any reservation is
// attempted, so a cart that can never succeed fails without touching the
// ledger. Validation is read-only and runs in parallel.
type ValidateStockHandler struct {
	NextHandler
}

func (h *ValidateStockHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.ValidateStock")
	defer span.End()

	span.SetAttributes(attribute.Int("cart.lines", len(orderCtx.CartLines)))

	g, gctx := errgroup.WithContext(ctx)
	for _, line := range orderCtx.CartLines {
		line := line
		g.Go(func() error {
			level, err := orderCtx.Inventory.ValidateStock(gctx, line.ProductID, line.Quantity)
			if err != nil {
				return mapInventoryErr(err)
			}
			if !level.Available {
				return &domain.InsufficientStockError{
					ProductID: line.ProductID,
					Available: level.CurrentStock,
					Requested: line.Quantity,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stock validation failed")
		return err
	}

	span.AddEvent("all lines in stock")
	return h.executeNext(orderCtx)
}

// mapInventoryErr lifts stockops errors into the checkout taxonomy.
func mapInventoryErr(err error) error {
	var insufficient *stockops.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		return &domain.InsufficientStockError{
			ProductID: insufficient.ProductID,
			Available: insufficient.Available,
			Requested: insufficient.Requested,
		}
	case errors.Is(err, stockops.ErrProductNotFound):
		return fmt.Errorf("%w: %v", domain.ErrProductNotFound, err)
	case errors.Is(err, stockops.ErrUnavailable):
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	default:
		return err
	}
}
