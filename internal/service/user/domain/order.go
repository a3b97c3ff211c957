package domain

import "time"

// Status is the order lifecycle state. Transitions between states drive
// stock reconciliation; the set is closed and validated at the edges.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

var validStatuses = map[Status]struct{}{
	StatusPending:    {},
	StatusProcessing: {},
	StatusShipped:    {},
	StatusDelivered:  {},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// ParseStatus validates a raw status string from the wire.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := validStatuses[st]; !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Order is the persisted record of a completed checkout. Monetary fields are
// snapshots taken at checkout time; later catalog changes never touch them.
type Order struct {
	OrderID        int64
	UserID         int64
	Status         Status
	SubtotalAmount float64
	TaxAmount      float64
	TotalAmount    float64
	Items          []OrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem is one priced line of an order. UnitPrice is the
// discount-applied price per unit at checkout time.
type OrderItem struct {
	OrderItemID int64
	OrderID     int64
	ProductID   int64
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
}

// CartItem is one line of a user's cart, keyed by (user, product). Adding an
// existing product increments the line rather than duplicating it.
type CartItem struct {
	UserID    int64
	ProductID int64
	Quantity  int
	CreatedAt time.Time
}
