// Package stockops holds the stock-side primitives shared by the checkout
// saga and the status reconciler: the inventory client port, the reserved-line
// bookkeeping, and the reverse-order rollback both callers perform the same
// way.
package stockops

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")

	// ErrUnavailable wraps transport failures talking to the inventory
	// service.
	ErrUnavailable = errors.New("inventory service unavailable")
)

// InsufficientStockError mirrors the ledger's 409 payload.
type InsufficientStockError struct {
	ProductID int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// StockLevel is the result of a validate call.
type StockLevel struct {
	Available    bool
	CurrentStock int
}

// InventoryClient is the outbound port to the stock ledger.
type InventoryClient interface {
	// ValidateStock is read-only and safe to retry.
	ValidateStock(ctx context.Context, productID int64, quantity int) (*StockLevel, error)
	// ReserveStock atomically decrements; it either fully succeeds or leaves
	// the ledger untouched.
	ReserveStock(ctx context.Context, productID int64, quantity int) (remaining int, err error)
	// ReleaseStock returns previously reserved quantity to the ledger.
	ReleaseStock(ctx context.Context, productID int64, quantity int) (current int, err error)
}

// ReservedLine records one successful reservation so it can be compensated.
type ReservedLine struct {
	ProductID int64
	Quantity  int
}
