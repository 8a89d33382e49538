package view

import (
	"errors"
	"fmt"
)

// Sentinel errors for the view registry.
var (
	// ErrNilNotification is returned when a nil notification is broadcast.
	ErrNilNotification = errors.New("notification cannot be nil")

	// ErrNilObserver is returned when a nil observer is registered.
	ErrNilObserver = errors.New("observer cannot be nil")

	// ErrEmptyName is returned when a notification name is empty.
	ErrEmptyName = errors.New("notification name cannot be empty")

	// ErrNilMediator is returned when a nil mediator is registered.
	ErrNilMediator = errors.New("mediator cannot be nil")

	// ErrMediatorExists is returned when registering a mediator whose name
	// is already taken. The registry is left unchanged.
	ErrMediatorExists = errors.New("mediator already registered")
)

// DispatchError wraps a failure from a single observer invocation. A
// broadcast collects one DispatchError per failing observer and joins
// them; the remaining observers still run.
type DispatchError struct {
	// Notification is the name of the notification being dispatched.
	Notification string

	// Observer is the position of the failing observer in the broadcast
	// snapshot, in registration order.
	Observer int

	// Err is the underlying handler error or panic error.
	Err error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch of %q to observer %d: %v", e.Notification, e.Observer, e.Err)
}

// Unwrap returns the underlying error.
func (e *DispatchError) Unwrap() error {
	return e.Err
}
