package order_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fieldservice/internal/order"
)

func TestNext(t *testing.T) {
	allowed := map[order.State]map[order.Action]order.State{
		order.StateDraft: {
			order.ActionSchedule: order.StateScheduled,
			order.ActionCancel:   order.StateCancelled,
		},
		order.StateScheduled: {
			order.ActionStart:     order.StateInProgress,
			order.ActionCancel:    order.StateCancelled,
			order.ActionReprogram: order.StateScheduled,
		},
		order.StateInProgress: {
			order.ActionComplete:  order.StateCompleted,
			order.ActionReprogram: order.StateScheduled,
		},
		order.StateCompleted: {},
		order.StateCancelled: {},
	}

	actions := []order.Action{
		order.ActionSchedule, order.ActionStart, order.ActionComplete, order.ActionCancel, order.ActionReprogram,
	}

	for from, legal := range allowed {
		for _, action := range actions {
			t.Run(string(from)+"/"+string(action), func(t *testing.T) {
				got, err := order.Next(from, action)

				want, ok := legal[action]
				if ok {
					require.NoError(t, err)
					assert.Equal(t, want, got)

					return
				}

				var stateErr *order.StateError
				require.True(t, errors.As(err, &stateErr))
				assert.Equal(t, action, stateErr.Action)
				assert.Equal(t, from, stateErr.State)
				assert.Equal(t, from, got)
			})
		}
	}
}

func TestAllowed(t *testing.T) {
	assert.Equal(t, []order.Action{order.ActionSchedule, order.ActionCancel}, order.Allowed(order.StateDraft))
	assert.Equal(t, []order.Action{order.ActionComplete, order.ActionReprogram}, order.Allowed(order.StateInProgress))
	assert.Empty(t, order.Allowed(order.StateCompleted))
}
