package notification

import "context"

// Observer binds a Handler to an opaque context reference. The context
// identifies the logical subscriber (usually a pointer to the mediator or
// registry that owns the handler) and is compared by identity when the
// observer is removed. Two observers with the same context are
// indistinguishable for removal purposes regardless of their handlers.
type Observer struct {
	handler Handler
	context any
}

// NewObserver creates an observer binding handler to context.
func NewObserver(handler Handler, context any) *Observer {
	return &Observer{handler: handler, context: context}
}

// Notify invokes the bound handler with the notification.
func (o *Observer) Notify(ctx context.Context, note *Notification) error {
	if o.handler == nil {
		return nil
	}
	return o.handler.HandleNotification(ctx, note)
}

// Handler returns the bound handler.
func (o *Observer) Handler() Handler {
	return o.handler
}

// Context returns the bound context reference.
func (o *Observer) Context() any {
	return o.context
}

// CompareContext reports whether the given reference identifies the same
// subscriber as this observer's context.
func (o *Observer) CompareContext(other any) bool {
	return o.context == other
}
