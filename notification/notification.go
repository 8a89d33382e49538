package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Metadata contains standard information attached to every notification.
type Metadata struct {
	// ID is a unique identifier for this notification instance.
	ID string

	// Timestamp is when the notification was created.
	Timestamp time.Time

	// Source identifies the component that sent the notification.
	Source string
}

// Notification is a named message broadcast to interested observers.
// The name is immutable after construction. Body and Type are guarded by
// an internal mutex: concurrent writers race with last-write-wins
// semantics, which is the documented contract for payload mutation.
type Notification struct {
	name string
	meta Metadata

	mu   sync.RWMutex
	body any
	tag  string
}

// Option configures a Notification at construction time.
type Option func(*Notification)

// WithBody sets the initial payload body.
func WithBody(body any) Option {
	return func(n *Notification) {
		n.body = body
	}
}

// WithType sets the initial type tag.
func WithType(tag string) Option {
	return func(n *Notification) {
		n.tag = tag
	}
}

// WithSource sets the metadata source.
func WithSource(source string) Option {
	return func(n *Notification) {
		n.meta.Source = source
	}
}

// New creates a notification with the given name. Each call produces a
// fresh value with its own metadata; identity over time is by name only.
func New(name string, opts ...Option) *Notification {
	n := &Notification{
		name: name,
		meta: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
		},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name returns the notification name.
func (n *Notification) Name() string {
	return n.name
}

// Metadata returns the notification metadata.
func (n *Notification) Metadata() Metadata {
	return n.meta
}

// Body returns the current payload body.
func (n *Notification) Body() any {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.body
}

// SetBody replaces the payload body.
func (n *Notification) SetBody(body any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.body = body
}

// Type returns the current type tag.
func (n *Notification) Type() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.tag
}

// SetType replaces the type tag.
func (n *Notification) SetType(tag string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tag = tag
}

// String returns a human-readable description for logging.
func (n *Notification) String() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	s := "notification " + n.name
	if n.tag != "" {
		s += " (" + n.tag + ")"
	}
	return s
}
