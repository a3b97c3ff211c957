package saga

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"sneakerspot/internal/pkg/logger"
	"sneakerspot/internal/service/checkout/domain"
	"sneakerspot/internal/service/checkout/port"
	"sneakerspot/internal/service/stockops"
)

// compensationTimeout bounds the whole rollback pass once the original
// request context is gone.
const compensationTimeout = 30 * time.Second

// OrderContext carries the checkout state through the handler chain. Each
// step reads what earlier steps produced and appends its own results.
type OrderContext struct {
	Ctx    context.Context
	Tracer trace.Tracer

	UserID int64
	Email  string

	// Filled in by the steps.
	CartLines []port.CartLine
	Order     *domain.CheckoutOrder
	OrderID   int64

	// Outbound ports.
	Cart      port.CartService
	Catalog   port.ProductCatalog
	Inventory stockops.InventoryClient
	Orders    port.OrderStore
	Notifier  port.Notifier

	TaxRate float64

	compensations []func(ctx context.Context)
	compMu        sync.Mutex
}

// AddCompensation prepends so compensations run in reverse registration
// order.
func (c *OrderContext) AddCompensation(comp func(ctx context.Context)) {
	c.compMu.Lock()
	defer c.compMu.Unlock()
	c.compensations = append([]func(context.Context){comp}, c.compensations...)
}

// TriggerCompensation runs every registered compensation. It deliberately
// detaches from the request context: a client that disconnected mid-checkout
// must not be able to cancel the stock releases.
func (c *OrderContext) TriggerCompensation() {
	c.compMu.Lock()
	comps := c.compensations
	c.compensations = nil
	c.compMu.Unlock()
	if len(comps) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Ctx), compensationTimeout)
	defer cancel()

	logger.Ctx(ctx).Warn().
		Int64("user_id", c.UserID).
		Int("compensations", len(comps)).
		Msg("checkout failed, running compensations")
	for _, comp := range comps {
		comp(ctx)
	}
}

// Handler is one step of the checkout chain.
type Handler interface {
	SetNext(handler Handler) Handler
	Handle(orderCtx *OrderContext) error
}

type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(orderCtx *OrderContext) error {
	if h.next != nil {
		return h.next.Handle(orderCtx)
	}
	return nil
}
