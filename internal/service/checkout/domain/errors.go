package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrProductNotFound = errors.New("product not found")

	// ErrUpstreamUnavailable covers transport failures to any dependency;
	// the client may retry the whole checkout.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// ErrPersistenceFailed means the order write failed after stock was
	// reserved; compensation has already run by the time callers see it.
	ErrPersistenceFailed = errors.New("order persistence failed")

	ErrDuplicateRequest = errors.New("checkout already in progress for this key")
)

// InsufficientStockError surfaces which line killed the checkout and the
// shortfall, so the storefront can show "only N left".
type InsufficientStockError struct {
	ProductID int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}
