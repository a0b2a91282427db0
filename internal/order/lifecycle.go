package order

import "slices"

// Action is a lifecycle operation on an order.
type Action string

const (
	ActionSchedule  Action = "schedule"
	ActionStart     Action = "start"
	ActionComplete  Action = "complete"
	ActionCancel    Action = "cancel"
	ActionReprogram Action = "reprogram"

	// ActionInvoice is not a transition; it is only legal on completed orders.
	ActionInvoice Action = "invoice"
)

type transition struct {
	from []State
	to   State
}

var transitions = map[Action]transition{
	ActionSchedule:  {from: []State{StateDraft}, to: StateScheduled},
	ActionStart:     {from: []State{StateScheduled}, to: StateInProgress},
	ActionComplete:  {from: []State{StateInProgress}, to: StateCompleted},
	ActionCancel:    {from: []State{StateDraft, StateScheduled}, to: StateCancelled},
	ActionReprogram: {from: []State{StateScheduled, StateInProgress}, to: StateScheduled},
}

// Next returns the state reached by applying action from the given state.
func Next(from State, action Action) (State, error) {
	t, ok := transitions[action]
	if !ok || !slices.Contains(t.from, from) {
		return from, &StateError{Action: action, State: from}
	}

	return t.to, nil
}

// Allowed lists the actions that are legal from the given state.
func Allowed(from State) []Action {
	var actions []Action

	for _, a := range []Action{ActionSchedule, ActionStart, ActionComplete, ActionCancel, ActionReprogram} {
		if slices.Contains(transitions[a].from, from) {
			actions = append(actions, a)
		}
	}

	return actions
}
