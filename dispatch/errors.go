package dispatch

import "errors"

// ErrHandlerPanic is the sentinel matched by errors.Is for any PanicError.
var ErrHandlerPanic = errors.New("notification handler panicked")

// PanicError wraps a panic raised by a handler as an error.
type PanicError struct {
	// Notification is the name of the notification being dispatched.
	Notification string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return "handler panic during dispatch of " + e.Notification
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
