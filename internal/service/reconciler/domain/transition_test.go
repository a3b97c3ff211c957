package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionForReleasingTransitions(t *testing.T) {
	assert.Equal(t, ActionRelease, ActionFor(StatusPending, StatusCancelled))
	assert.Equal(t, ActionRelease, ActionFor(StatusPending, StatusRefunded))
}

func TestActionForReservingTransitions(t *testing.T) {
	assert.Equal(t, ActionReserve, ActionFor(StatusCancelled, StatusPending))
	assert.Equal(t, ActionReserve, ActionFor(StatusRefunded, StatusPending))
}

func TestActionForFulfillmentTransitions(t *testing.T) {
	assert.Equal(t, ActionValidate, ActionFor(StatusPending, StatusProcessing))
	assert.Equal(t, ActionValidate, ActionFor(StatusPending, StatusShipped))
	assert.Equal(t, ActionValidate, ActionFor(StatusPending, StatusDelivered))
}

// Every pair not in the table is a plain status write, including self
// transitions and moves between terminal states.
func TestActionForUnlistedPairsIsNone(t *testing.T) {
	statuses := []string{
		StatusPending, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusRefunded,
	}
	listed := map[[2]string]bool{
		{StatusPending, StatusCancelled}:  true,
		{StatusPending, StatusRefunded}:   true,
		{StatusCancelled, StatusPending}:  true,
		{StatusRefunded, StatusPending}:   true,
		{StatusPending, StatusProcessing}: true,
		{StatusPending, StatusShipped}:    true,
		{StatusPending, StatusDelivered}:  true,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			if listed[[2]string{from, to}] {
				continue
			}
			assert.Equal(t, ActionNone, ActionFor(from, to), "%s -> %s", from, to)
		}
	}
}

// The action is a pure function of the pair.
func TestActionForIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, ActionRelease, ActionFor(StatusPending, StatusCancelled))
		assert.Equal(t, ActionNone, ActionFor(StatusShipped, StatusDelivered))
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "delivered", "cancelled", "refunded"} {
		parsed, err := ParseStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	for _, s := range []string{"", "PENDING", "unknown", "canceled"} {
		_, err := ParseStatus(s)
		assert.ErrorIs(t, err, ErrInvalidStatus, "%q", s)
	}
}
