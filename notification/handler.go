package notification

import "context"

// Handler is the interface for notification handlers.
type Handler interface {
	// HandleNotification processes a notification.
	HandleNotification(ctx context.Context, note *Notification) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, note *Notification) error

// HandleNotification implements the Handler interface.
func (f HandlerFunc) HandleNotification(ctx context.Context, note *Notification) error {
	return f(ctx, note)
}
