// Package port declares the outbound dependencies of the checkout saga. The
// orchestrator never talks to other services directly; every call crosses one
// of these interfaces so tests can substitute in-memory fakes.
package port

import (
	"context"

	"sneakerspot/internal/service/checkout/domain"
)

// CartLine is one cart entry as the cart service reports it.
type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartService reads and clears a user's cart.
type CartService interface {
	GetCart(ctx context.Context, userID int64) ([]CartLine, error)
	ClearCart(ctx context.Context, userID int64) error
}

// CatalogProduct is the pricing snapshot source.
type CatalogProduct struct {
	ProductID       int64   `json:"product_id"`
	BrandName       string  `json:"brand_name"`
	ProductName     string  `json:"product_name"`
	MarketPrice     float64 `json:"market_price"`
	DiscountPercent float64 `json:"discount_percent"`
}

// ProductCatalog fetches product details for pricing.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID int64) (*CatalogProduct, error)
}

// OrderStore persists the completed order.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.CheckoutOrder) (orderID int64, err error)
}

// Notifier publishes the order-confirmed event. Implementations must not
// block checkout on delivery.
type Notifier interface {
	OrderConfirmed(ctx context.Context, event *domain.OrderConfirmedEvent) error
}

// Identity is what a verified access token resolves to.
type Identity struct {
	UserID int64
	Email  string
	Role   string
}

// TokenVerifier is the narrow authentication seam the HTTP layer needs.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// IdempotencyGuard prevents a retried checkout request from reserving twice.
// Begin returns false when the key is already in flight or completed.
type IdempotencyGuard interface {
	Begin(ctx context.Context, key string) (bool, error)
	End(ctx context.Context, key string) error
}
