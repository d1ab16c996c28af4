package events

import "fmt"

// Error taxonomy of the scheduling core. Controllers translate these into
// HTTP status codes; the core never logs and never retries user mutations.

// ValidationError signals missing or out-of-range input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError signals that a referenced group, event or suggestion
// does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConflictError signals a duplicate game suggestion name.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// StateError signals an operation attempted outside its permitted
// event-state window (suggest/vote on a past event, rate an upcoming one).
type StateError struct {
	Reason string
}

func (e *StateError) Error() string { return e.Reason }

// PersistenceError wraps a failed store call.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
