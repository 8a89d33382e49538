package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/relaycore/relay/notification"
	"github.com/relaycore/relay/view"
)

// Sentinel errors for the command registry.
var (
	// ErrNilFactory is returned when a nil factory is registered.
	ErrNilFactory = errors.New("command factory cannot be nil")

	// ErrNilCommand is returned when a factory produces a nil command.
	ErrNilCommand = errors.New("command factory produced nil command")
)

// Controller owns the notification-name to command-factory map. It is
// safe for concurrent use.
type Controller struct {
	view *view.View

	mu        sync.Mutex
	factories map[string]Factory

	executions atomic.Uint64
	failures   atomic.Uint64
}

// New creates a controller dispatching through the given view registry.
func New(v *view.View) *Controller {
	return &Controller{
		view:      v,
		factories: make(map[string]Factory),
	}
}

// RegisterCommand maps a notification name to a command factory. The
// first registration for a name binds exactly one observer (targeting
// this controller) with the view registry; later registrations for the
// same name only replace the factory.
func (c *Controller) RegisterCommand(name string, f Factory) error {
	if name == "" {
		return view.ErrEmptyName
	}
	if f == nil {
		return ErrNilFactory
	}

	c.mu.Lock()
	_, mapped := c.factories[name]
	c.factories[name] = f
	c.mu.Unlock()

	if mapped {
		return nil
	}
	// Observer registration happens with no controller lock held; a
	// concurrent broadcast may call back into ExecuteCommand.
	return c.view.RegisterObserver(name, notification.NewObserver(c, c))
}

// RemoveCommand removes the factory mapped to name and unregisters the
// controller's observer for that name. Removing an unmapped name is a
// no-op.
func (c *Controller) RemoveCommand(name string) {
	c.mu.Lock()
	_, mapped := c.factories[name]
	delete(c.factories, name)
	c.mu.Unlock()

	if mapped {
		c.view.RemoveObserver(name, c)
	}
}

// HasCommand reports whether a factory is mapped to name.
func (c *Controller) HasCommand(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.factories[name]
	return ok
}

// ExecuteCommand instantiates and runs the command mapped to the
// notification's name. An unmapped name is a no-op. A factory producing a
// nil command is a dispatch failure and is surfaced, not swallowed.
func (c *Controller) ExecuteCommand(ctx context.Context, note *notification.Notification) error {
	if note == nil {
		return view.ErrNilNotification
	}

	c.mu.Lock()
	f := c.factories[note.Name()]
	c.mu.Unlock()

	if f == nil {
		return nil
	}

	cmd := f()
	if cmd == nil {
		c.failures.Add(1)
		return fmt.Errorf("command for %q: %w", note.Name(), ErrNilCommand)
	}

	c.executions.Add(1)
	if err := cmd.Execute(ctx, note); err != nil {
		c.failures.Add(1)
		return err
	}
	return nil
}

// HandleNotification implements notification.Handler, making the
// controller an ordinary observer of the view registry.
func (c *Controller) HandleNotification(ctx context.Context, note *notification.Notification) error {
	return c.ExecuteCommand(ctx, note)
}

// CommandCount returns the number of mapped notification names.
func (c *Controller) CommandCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.factories)
}

// Stats contains command registry counters.
type Stats struct {
	// Commands is the current number of mapped notification names.
	Commands int

	// Executions is the number of commands instantiated and run.
	Executions uint64

	// Failures is the number of executions that failed, including
	// factories producing nil commands.
	Failures uint64
}

// Stats returns a snapshot of the registry counters.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	commands := len(c.factories)
	c.mu.Unlock()

	return Stats{
		Commands:   commands,
		Executions: c.executions.Load(),
		Failures:   c.failures.Load(),
	}
}
