package order

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("service order not found")
	ErrNoTechnician    = errors.New("no technician available")
	ErrNoSlot          = errors.New("no available slot found in the next days")
	ErrAlreadyInvoiced = errors.New("service order already invoiced")
)

// ValidationError reports missing or inconsistent input. Nothing is written when it is returned.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// validation collects problems and yields a *ValidationError only if any were added.
type validation struct {
	problems []string
}

func (v *validation) add(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validation) check(ok bool, format string, args ...any) {
	if !ok {
		v.add(format, args...)
	}
}

func (v *validation) err() error {
	if len(v.problems) == 0 {
		return nil
	}

	return &ValidationError{Problems: v.problems}
}

// StateError reports an action that is not legal from the order's current state.
type StateError struct {
	Action Action
	State  State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s a service order in state %s", e.Action, e.State)
}

// SchedulingError reports that no technician or slot could be found.
type SchedulingError struct {
	Err error
}

func (e *SchedulingError) Error() string {
	return "scheduling failed: " + e.Err.Error()
}

func (e *SchedulingError) Unwrap() error { return e.Err }

// ConflictError lists the orders overlapping a candidate window.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	reasons := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		reasons[i] = c.Reason
	}

	return "scheduling conflict: " + strings.Join(reasons, "; ")
}

// NotificationWarning is a non-fatal delivery failure attached to a successful action.
type NotificationWarning struct {
	Event     string
	Recipient string // customer or technician
	Err       error
}

func (w *NotificationWarning) Error() string {
	return fmt.Sprintf("notification %s to %s not delivered: %v", w.Event, w.Recipient, w.Err)
}

func (w *NotificationWarning) Unwrap() error { return w.Err }
