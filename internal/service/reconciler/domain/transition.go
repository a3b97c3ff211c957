// Package domain holds the status transition rules that decide what the
// reconciler does to stock when an order changes state.
package domain

import "errors"

var (
	ErrInvalidStatus = errors.New("invalid order status")
	ErrOrderNotFound = errors.New("order not found")
)

// Statuses mirror the order store's closed set.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
)

var validStatuses = map[string]struct{}{
	StatusPending:    {},
	StatusProcessing: {},
	StatusShipped:    {},
	StatusDelivered:  {},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (string, error) {
	if _, ok := validStatuses[s]; !ok {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// StockAction is what a transition requires of the ledger.
type StockAction int

const (
	// ActionNone leaves the ledger untouched.
	ActionNone StockAction = iota
	// ActionRelease returns each line's quantity to the ledger.
	ActionRelease
	// ActionReserve re-decrements each line, for orders coming back to life.
	ActionReserve
	// ActionValidate only checks availability; a shortfall is a warning,
	// never a veto.
	ActionValidate
)

func (a StockAction) String() string {
	switch a {
	case ActionRelease:
		return "release"
	case ActionReserve:
		return "reserve"
	case ActionValidate:
		return "validate"
	default:
		return "none"
	}
}

type transition struct {
	from, to string
}

// transitions lists every (from, to) pair with a stock side effect. Any pair
// absent from the table is a plain status write.
var transitions = map[transition]StockAction{
	{StatusPending, StatusCancelled}: ActionRelease,
	{StatusPending, StatusRefunded}:  ActionRelease,

	{StatusCancelled, StatusPending}: ActionReserve,
	{StatusRefunded, StatusPending}:  ActionReserve,

	{StatusPending, StatusProcessing}: ActionValidate,
	{StatusPending, StatusShipped}:    ActionValidate,
	{StatusPending, StatusDelivered}:  ActionValidate,
}

// ActionFor returns the stock action the transition from oldStatus to
// newStatus requires. The result depends only on the pair.
func ActionFor(oldStatus, newStatus string) StockAction {
	return transitions[transition{from: oldStatus, to: newStatus}]
}
