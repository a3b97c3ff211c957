package saga

import (
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"sneakerspot/internal/service/checkout/domain"
)

// PriceHandler snapshots prices from the catalog and computes the totals.
// Product fetches fan out in parallel; line order is preserved so the order
// reads like the cart did.
type PriceHandler struct {
	NextHandler
}

func (h *PriceHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Price")
	defer span.End()

	lines := make([]domain.PricedLine, len(orderCtx.CartLines))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, cartLine := range orderCtx.CartLines {
		i, cartLine := i, cartLine
		g.Go(func() error {
			product, err := orderCtx.Catalog.GetProduct(gctx, cartLine.ProductID)
			if err != nil {
				return mapInventoryErr(err)
			}
			unit := domain.UnitPrice(product.MarketPrice, product.DiscountPercent)
			mu.Lock()
			lines[i] = domain.PricedLine{
				ProductID:   product.ProductID,
				BrandName:   product.BrandName,
				ProductName: product.ProductName,
				Quantity:    cartLine.Quantity,
				UnitPrice:   unit,
				TotalPrice:  domain.LineTotal(unit, cartLine.Quantity),
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pricing failed")
		return err
	}

	taxRate := orderCtx.TaxRate
	if taxRate == 0 {
		taxRate = domain.TaxRate
	}
	subtotal, tax, total := domain.Totals(lines, taxRate)
	orderCtx.Order = &domain.CheckoutOrder{
		UserID:   orderCtx.UserID,
		Lines:    lines,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
	}

	span.SetAttributes(
		attribute.Float64("order.subtotal", subtotal),
		attribute.Float64("order.total", total),
	)
	return h.executeNext(orderCtx)
}
