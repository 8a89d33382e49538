package dispatch

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/relaycore/relay/notification"
)

// Result represents the outcome of a single handler invocation.
type Result struct {
	// Err is the error returned by the handler, if any.
	Err error

	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace at the point of panic.
	PanicStack []byte

	// Duration is how long the handler took to execute.
	Duration time.Duration

	// Skipped is true if the handler was not executed (context cancelled).
	Skipped bool
}

// OK returns true if the handler ran to completion without error or panic.
func (r Result) OK() bool {
	return !r.Panicked && !r.Skipped && r.Err == nil
}

// PanicHandler is called when a handler panics during execution.
// It receives the notification being dispatched, the panic value, and the
// captured stack trace.
type PanicHandler func(note *notification.Notification, panicValue any, stack []byte)

// Executor runs notification handlers with panic recovery and timing.
type Executor struct {
	panicHandler PanicHandler
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithPanicHandler sets the hook invoked when a handler panics.
func WithPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		e.panicHandler = h
	}
}

// NewExecutor creates an executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs a handler with the given notification and returns the result.
// It recovers from panics and captures timing information.
func (e *Executor) Execute(ctx context.Context, note *notification.Notification, h notification.Handler) (result Result) {
	select {
	case <-ctx.Done():
		return Result{Err: ctx.Err(), Skipped: true}
	default:
	}

	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()

			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = stack
			result.Err = &PanicError{Notification: note.Name(), Value: r, Stack: stack}

			if e.panicHandler != nil {
				// The panic hook must never crash the process either.
				func() {
					defer func() { _ = recover() }()
					e.panicHandler(note, r, stack)
				}()
			}
		}
	}()

	result.Err = h.HandleNotification(ctx, note)
	return result
}
