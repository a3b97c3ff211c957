package stockops

import (
	"context"

	"sneakerspot/internal/pkg/logger"
	"sneakerspot/internal/pkg/metrics"
)

// Rollback releases every reserved line in reverse order. A failed release is
// logged and counted but never stops the remaining releases; the caller's
// original error stays the one reported. Returns how many lines could not be
// released.
func Rollback(ctx context.Context, client InventoryClient, lines []ReservedLine) int {
	failed := 0
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if _, err := client.ReleaseStock(ctx, line.ProductID, line.Quantity); err != nil {
			failed++
			metrics.StockCompensationFailures.Inc()
			logger.Ctx(ctx).Error().
				Err(err).
				Int64("product_id", line.ProductID).
				Int("quantity", line.Quantity).
				Msg("stock release compensation failed, stock not returned")
		}
	}
	return failed
}
