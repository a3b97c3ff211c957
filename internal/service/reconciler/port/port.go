// Package port declares the reconciler's outbound dependencies.
package port

import "context"

// OrderLine is one line of an order as the reconciler needs it: product and
// quantity, nothing monetary.
type OrderLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderStore writes statuses and reads order lines from the user service.
type OrderStore interface {
	// UpdateStatus writes the new status and returns the status the order
	// held before the write, plus the owning user for event fan-out.
	UpdateStatus(ctx context.Context, orderID int64, status string) (oldStatus string, userID int64, err error)
	OrderLines(ctx context.Context, orderID int64) ([]OrderLine, error)
}

// Locker serializes reconciliations of the same order. NoopLocker is used
// when no coordination backend is configured.
type Locker interface {
	// WithLock runs fn while holding the named lock.
	WithLock(ctx context.Context, name string, fn func() error) error
}

// NoopLocker runs fn unguarded.
type NoopLocker struct{}

func (NoopLocker) WithLock(_ context.Context, _ string, fn func() error) error {
	return fn()
}

// StatusChangedEvent is published after every successful status write so the
// push gateway can fan it out to connected clients.
type StatusChangedEvent struct {
	OrderID   int64    `json:"order_id"`
	UserID    int64    `json:"user_id,omitempty"`
	OldStatus string   `json:"old_status"`
	NewStatus string   `json:"new_status"`
	Warnings  []string `json:"warnings,omitempty"`
}

// EventPublisher pushes status-changed events. Best effort.
type EventPublisher interface {
	StatusChanged(ctx context.Context, event *StatusChangedEvent) error
}
