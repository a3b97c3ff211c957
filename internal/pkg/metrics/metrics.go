package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters shared by the checkout saga and the status reconciler. Compensation
// failures represent stock that could not be released and must page an
// operator, so they get their own series rather than a log line only.
var (
	CheckoutAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by terminal result.",
	}, []string{"result"})

	StockCompensationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_compensation_failures_total",
		Help: "Stock release compensations that failed and left stock unreturned.",
	})

	ReconcilerStockWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconciler_stock_warnings_total",
		Help: "Order status updates whose stock reconciliation could not be completed.",
	})

	PushDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "push_deliveries_total",
		Help: "Status-change push attempts by outcome.",
	}, []string{"outcome"})
)

// Checkout attempt results.
const (
	ResultSuccess           = "success"
	ResultEmptyCart         = "empty_cart"
	ResultInsufficientStock = "insufficient_stock"
	ResultUpstreamError     = "upstream_error"
	ResultPersistenceError  = "persistence_error"
)
