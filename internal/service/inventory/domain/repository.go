package domain

import "context"

// ListFilter narrows product listings the way the admin surface filters them.
type ListFilter struct {
	Brand  string
	Search string
}

// ProductRepository is the persistence port for the catalog and the stock
// ledger. DecrementStock is the single atomic primitive the reservation
// protocol relies on; implementations must issue it as one conditional
// statement, never read-then-write.
type ProductRepository interface {
	FindByID(ctx context.Context, productID int64) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	Create(ctx context.Context, p *Product) (int64, error)
	Update(ctx context.Context, p *Product) error

	// DecrementStock subtracts quantity if and only if at least that much is
	// on hand, returning the remaining stock. Returns *InsufficientStockError
	// when the conditional update matches no row but the product exists, and
	// ErrProductNotFound when it does not.
	DecrementStock(ctx context.Context, productID int64, quantity int) (int, error)

	// IncrementStock adds quantity back unconditionally and returns the new
	// level. No upper bound is enforced; the ledger is aggregate-only.
	IncrementStock(ctx context.Context, productID int64, quantity int) (int, error)

	ListBrands(ctx context.Context) ([]Brand, error)
	CreateBrand(ctx context.Context, name string) (int64, error)

	Counts(ctx context.Context) (products, brands, discounted int64, err error)
}
