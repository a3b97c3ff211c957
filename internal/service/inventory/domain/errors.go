package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrBrandNotFound   = errors.New("brand not found")

	// ErrInvalidQuantity covers zero and negative quantities on any stock
	// operation.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// InsufficientStockError reports a reservation that cannot be satisfied,
// carrying what was available at decision time against what was requested.
type InsufficientStockError struct {
	ProductID int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}
