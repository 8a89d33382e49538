package view

import (
	"context"

	"github.com/relaycore/relay/notification"
)

// Mediator is a named handler bound to one external view-like component,
// subscribing to a set of notification names.
type Mediator interface {
	notification.Handler

	// MediatorName returns the unique registry key for this mediator.
	MediatorName() string

	// Interests returns the notification names this mediator subscribes
	// to. It is queried once, at registration time.
	Interests() []string

	// OnRegister is called after the mediator has been registered. It runs
	// outside the registry mutex and may call back into the registry.
	OnRegister()

	// OnRemove is called after the mediator has been removed, outside the
	// registry mutex.
	OnRemove()
}

// BaseMediator is an embeddable default implementation of Mediator. It
// handles nothing and subscribes to nothing; embedders override Interests
// and HandleNotification.
type BaseMediator struct {
	name      string
	component any
}

// NewBaseMediator creates a base mediator with the given name and bound
// view component.
func NewBaseMediator(name string, component any) BaseMediator {
	return BaseMediator{name: name, component: component}
}

// MediatorName implements Mediator.
func (m *BaseMediator) MediatorName() string { return m.name }

// Component returns the bound view component.
func (m *BaseMediator) Component() any { return m.component }

// SetComponent rebinds the view component.
func (m *BaseMediator) SetComponent(component any) { m.component = component }

// Interests implements Mediator. The base subscribes to nothing.
func (m *BaseMediator) Interests() []string { return nil }

// HandleNotification implements notification.Handler as a no-op.
func (m *BaseMediator) HandleNotification(context.Context, *notification.Notification) error {
	return nil
}

// OnRegister implements Mediator as a no-op.
func (m *BaseMediator) OnRegister() {}

// OnRemove implements Mediator as a no-op.
func (m *BaseMediator) OnRemove() {}
