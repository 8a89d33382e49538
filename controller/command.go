package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/relaycore/relay/notification"
)

// Command is a stateless unit of business logic executed once per
// matching notification.
type Command interface {
	// Execute runs the command with the triggering notification.
	Execute(ctx context.Context, note *notification.Notification) error
}

// CommandFunc is a function adapter for Command.
type CommandFunc func(ctx context.Context, note *notification.Notification) error

// Execute implements the Command interface.
func (f CommandFunc) Execute(ctx context.Context, note *notification.Notification) error {
	return f(ctx, note)
}

// Factory produces a fresh command instance. The controller invokes the
// factory once per matching notification; instances are never reused.
type Factory func() Command

// MacroCommand executes an ordered sequence of sub-commands with the same
// notification. The sequence is drained first-in-first-out during
// execution: a macro command is single-use, and executing it a second
// time is a no-op.
type MacroCommand struct {
	mu   sync.Mutex
	subs []Factory
}

// NewMacroCommand creates a macro command with the given sub-command
// factories, executed in argument order.
func NewMacroCommand(subs ...Factory) *MacroCommand {
	m := &MacroCommand{}
	for _, f := range subs {
		m.AddSubCommand(f)
	}
	return m
}

// AddSubCommand appends a sub-command factory to the sequence.
func (m *MacroCommand) AddSubCommand(f Factory) {
	if f == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, f)
}

// Execute drains the sub-command sequence, instantiating and executing
// each with the notification. Failures do not stop the drain; the joined
// errors are returned once the sequence is empty.
func (m *MacroCommand) Execute(ctx context.Context, note *notification.Notification) error {
	m.mu.Lock()
	subs := m.subs
	m.subs = nil
	m.mu.Unlock()

	var errs []error
	for _, f := range subs {
		cmd := f()
		if cmd == nil {
			errs = append(errs, ErrNilCommand)
			continue
		}
		if err := cmd.Execute(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
