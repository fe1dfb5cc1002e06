package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
)

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusAvailable, InitialStatus())
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusAvailable.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusCancellationPending.Terminal())
	assert.False(t, StatusOccupied.Terminal())
}

func TestTransitionGates(t *testing.T) {
	all := []Status{
		StatusAvailable,
		StatusPending,
		StatusCancellationPending,
		StatusOccupied,
		StatusCompleted,
		StatusCancelled,
	}

	allowed := map[string]map[Status]bool{
		"request":              {StatusAvailable: true},
		"approve":              {StatusPending: true},
		"assign":               {StatusAvailable: true},
		"request_cancellation": {StatusPending: true, StatusOccupied: true},
		"approve_cancellation": {StatusPending: true, StatusCancellationPending: true},
		"join":                 {StatusAvailable: true, StatusOccupied: true},
	}

	gates := map[string]func(Status) error{
		"request":              CanRequest,
		"approve":              CanApprove,
		"assign":               CanAssign,
		"request_cancellation": CanRequestCancellation,
		"approve_cancellation": CanApproveCancellation,
		"join":                 CanJoin,
	}

	for name, gate := range gates {
		for _, s := range all {
			err := gate(s)
			if allowed[name][s] {
				assert.NoError(t, err, "%s from %s", name, s)
			} else {
				assert.Error(t, err, "%s from %s", name, s)
				var be httperr.BusinessError
				assert.ErrorAs(t, err, &be, "%s from %s", name, s)
			}
		}
	}
}
