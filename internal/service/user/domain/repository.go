package domain

import (
	"context"
	"time"
)

// UserRepository is the persistence port for accounts.
type UserRepository interface {
	FindByID(ctx context.Context, userID int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) (int64, error)
}

// CartRepository stores cart lines keyed by (user, product).
type CartRepository interface {
	// Upsert adds quantity to an existing line or creates the line.
	Upsert(ctx context.Context, userID, productID int64, quantity int) error
	List(ctx context.Context, userID int64) ([]CartItem, error)
	Remove(ctx context.Context, userID, productID int64) error
	// Clear removes every line for the user and returns how many were
	// deleted.
	Clear(ctx context.Context, userID int64) (int64, error)
}

// OrderRepository persists orders with their items.
type OrderRepository interface {
	// Create writes the order header and all items in one transaction and
	// returns the new order id.
	Create(ctx context.Context, o *Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	// Items loads the lines of an order without the header.
	Items(ctx context.Context, orderID int64) ([]OrderItem, error)

	// UpdateStatus sets the order's status and returns the status the order
	// held immediately before the write, plus the owning user. The read and
	// the write happen in one transaction with the row locked.
	UpdateStatus(ctx context.Context, orderID int64, status Status) (old Status, userID int64, err error)

	// SalesTotals aggregates revenue and order counts for the admin surface.
	SalesTotals(ctx context.Context) (orders int64, revenue float64, err error)
}

// RefreshTokenStore persists hashed refresh tokens. Raw tokens are never
// stored; lookups go through the same hash.
type RefreshTokenStore interface {
	Save(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	// Find returns the owning user id if the hash exists and has not
	// expired.
	Find(ctx context.Context, tokenHash string) (int64, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteForUser(ctx context.Context, userID int64) error
}
