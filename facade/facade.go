// Package facade composes the proxy, mediator, and command registries
// behind a single entry point.
package facade

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/relaycore/relay/controller"
	"github.com/relaycore/relay/dispatch"
	"github.com/relaycore/relay/model"
	"github.com/relaycore/relay/notification"
	"github.com/relaycore/relay/view"
)

// Facade is the unified entry point to a relay instance. Construct one
// per application (or per test) with New; a process-wide instance is
// available through Default for callers that want singleton semantics.
type Facade struct {
	model      *model.Model
	view       *view.View
	controller *controller.Controller

	log    zerolog.Logger
	source string
}

// Option configures a Facade.
type Option func(*config)

type config struct {
	log          zerolog.Logger
	source       string
	panicHandler dispatch.PanicHandler
}

// WithLogger sets the structured logger. The default discards all output.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithSource sets the source stamped into the metadata of notifications
// built by Send.
func WithSource(source string) Option {
	return func(c *config) {
		c.source = source
	}
}

// WithPanicHandler sets the hook invoked when a handler panics during a
// broadcast.
func WithPanicHandler(h dispatch.PanicHandler) Option {
	return func(c *config) {
		c.panicHandler = h
	}
}

// New creates a facade with freshly constructed registries: model first,
// then view, then the controller capturing the view reference.
func New(opts ...Option) *Facade {
	cfg := config{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var viewOpts []view.Option
	if cfg.panicHandler != nil {
		viewOpts = append(viewOpts, view.WithPanicHandler(cfg.panicHandler))
	}

	m := model.New()
	v := view.New(viewOpts...)
	c := controller.New(v)

	return &Facade{
		model:      m,
		view:       v,
		controller: c,
		log:        cfg.log,
		source:     cfg.source,
	}
}

// Send builds a notification with the given name and options and
// broadcasts it. Dispatch failures from individual observers are joined,
// logged, and returned; the broadcast always reaches every observer.
func (f *Facade) Send(ctx context.Context, name string, opts ...notification.Option) error {
	if f.source != "" {
		opts = append([]notification.Option{notification.WithSource(f.source)}, opts...)
	}
	note := notification.New(name, opts...)

	f.log.Debug().
		Str("notification", note.Name()).
		Str("type", note.Type()).
		Str("id", note.Metadata().ID).
		Msg("send")

	return f.NotifyObservers(ctx, note)
}

// NotifyObservers broadcasts a pre-built notification. This is the escape
// hatch for callers that construct notifications themselves.
func (f *Facade) NotifyObservers(ctx context.Context, note *notification.Notification) error {
	err := f.view.NotifyObservers(ctx, note)
	if err != nil && note != nil {
		f.log.Error().
			Err(err).
			Str("notification", note.Name()).
			Msg("dispatch failure")
	}
	return err
}

// RegisterProxy stores a proxy in the model registry.
func (f *Facade) RegisterProxy(p model.Proxy) error {
	return f.model.RegisterProxy(p)
}

// RetrieveProxy returns the proxy registered under name, or nil.
func (f *Facade) RetrieveProxy(name string) model.Proxy {
	return f.model.RetrieveProxy(name)
}

// RemoveProxy evicts and returns the proxy registered under name, or nil.
func (f *Facade) RemoveProxy(name string) model.Proxy {
	return f.model.RemoveProxy(name)
}

// HasProxy reports whether a proxy is registered under name.
func (f *Facade) HasProxy(name string) bool {
	return f.model.HasProxy(name)
}

// RegisterMediator stores a mediator and subscribes it to its interests.
func (f *Facade) RegisterMediator(m view.Mediator) error {
	return f.view.RegisterMediator(m)
}

// RetrieveMediator returns the mediator registered under name, or nil.
func (f *Facade) RetrieveMediator(name string) view.Mediator {
	return f.view.RetrieveMediator(name)
}

// RemoveMediator unsubscribes and returns the mediator registered under
// name, or nil.
func (f *Facade) RemoveMediator(name string) view.Mediator {
	return f.view.RemoveMediator(name)
}

// HasMediator reports whether a mediator is registered under name.
func (f *Facade) HasMediator(name string) bool {
	return f.view.HasMediator(name)
}

// RegisterCommand maps a notification name to a command factory.
func (f *Facade) RegisterCommand(name string, factory controller.Factory) error {
	return f.controller.RegisterCommand(name, factory)
}

// RemoveCommand removes the factory mapped to name.
func (f *Facade) RemoveCommand(name string) {
	f.controller.RemoveCommand(name)
}

// HasCommand reports whether a factory is mapped to name.
func (f *Facade) HasCommand(name string) bool {
	return f.controller.HasCommand(name)
}

// Model returns the proxy registry.
func (f *Facade) Model() *model.Model { return f.model }

// View returns the observer and mediator registry.
func (f *Facade) View() *view.View { return f.view }

// Controller returns the command registry.
func (f *Facade) Controller() *controller.Controller { return f.controller }

// Stats aggregates counters from all three registries.
type Stats struct {
	View       view.Stats
	Controller controller.Stats
	Proxies    int
}

// Stats returns a snapshot of the facade's registry counters.
func (f *Facade) Stats() Stats {
	return Stats{
		View:       f.view.Stats(),
		Controller: f.controller.Stats(),
		Proxies:    f.model.ProxyCount(),
	}
}
