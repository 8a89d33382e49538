package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/relaycore/relay/dispatch"
	"github.com/relaycore/relay/notification"
)

// binding records a registered mediator together with the interest set
// captured at registration time. Removal uses the recorded interests, not
// a fresh Interests() call, so a mediator whose interest set changes after
// registration is still fully unbound.
type binding struct {
	mediator  Mediator
	interests []string
}

// View is the observer and mediator registry. All methods are safe for
// concurrent use. The zero value is not usable; call New.
type View struct {
	mu        sync.Mutex
	observers map[string][]*notification.Observer
	mediators map[string]*binding

	executor *dispatch.Executor

	broadcasts    atomic.Uint64
	deliveries    atomic.Uint64
	handlerErrors atomic.Uint64
	handlerPanics atomic.Uint64
}

// Option configures a View.
type Option func(*View)

// WithPanicHandler sets the hook invoked when a handler panics during a
// broadcast. The panic is still converted into a DispatchError.
func WithPanicHandler(h dispatch.PanicHandler) Option {
	return func(v *View) {
		v.executor = dispatch.NewExecutor(dispatch.WithPanicHandler(h))
	}
}

// New creates an empty view registry.
func New(opts ...Option) *View {
	v := &View{
		observers: make(map[string][]*notification.Observer),
		mediators: make(map[string]*binding),
		executor:  dispatch.NewExecutor(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// RegisterObserver appends an observer to the list for the given
// notification name, creating the list if absent. Duplicate registrations
// append duplicates; the caller is responsible for avoiding them.
func (v *View) RegisterObserver(name string, obs *notification.Observer) error {
	if name == "" {
		return ErrEmptyName
	}
	if obs == nil {
		return ErrNilObserver
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.observers[name] = append(v.observers[name], obs)
	return nil
}

// RemoveObserver removes the first observer for name whose bound context
// matches contextRef by identity. If the list becomes empty the name key
// is deleted entirely.
func (v *View) RemoveObserver(name string, contextRef any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removeObserverLocked(name, contextRef)
}

func (v *View) removeObserverLocked(name string, contextRef any) {
	list := v.observers[name]
	for i, obs := range list {
		if obs.CompareContext(contextRef) {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(v.observers, name)
		return
	}
	v.observers[name] = list
}

// NotifyObservers broadcasts a notification to every observer registered
// for its name, in registration order. The observer list is snapshotted
// under the mutex and invoked outside it, so handlers may mutate the
// registry mid-broadcast; such mutations affect only future broadcasts.
//
// Each observer invocation is isolated: a handler error or panic is
// wrapped in a DispatchError and collected, and the fan-out continues.
// The joined errors are returned after all observers have run.
func (v *View) NotifyObservers(ctx context.Context, note *notification.Notification) error {
	if note == nil {
		return ErrNilNotification
	}
	if note.Name() == "" {
		return ErrEmptyName
	}

	v.mu.Lock()
	list := v.observers[note.Name()]
	snapshot := make([]*notification.Observer, len(list))
	copy(snapshot, list)
	v.mu.Unlock()

	if len(snapshot) == 0 {
		return nil
	}

	v.broadcasts.Add(1)

	var errs []error
	for i, obs := range snapshot {
		res := v.executor.Execute(ctx, note, notification.HandlerFunc(obs.Notify))

		switch {
		case res.Skipped:
			// Context cancelled; the remaining observers are not run.
			return errors.Join(append(errs, res.Err)...)
		case res.Panicked:
			v.handlerPanics.Add(1)
			errs = append(errs, &DispatchError{Notification: note.Name(), Observer: i, Err: res.Err})
		case res.Err != nil:
			v.handlerErrors.Add(1)
			errs = append(errs, &DispatchError{Notification: note.Name(), Observer: i, Err: res.Err})
		default:
			v.deliveries.Add(1)
		}
	}

	return errors.Join(errs...)
}

// RegisterMediator stores a mediator under its name and, if its interest
// set is non-empty, registers a single observer bound to the mediator
// under every interest name. Registering a name that is already present
// leaves the registry unchanged and returns ErrMediatorExists.
//
// OnRegister is invoked after the registry mutex has been released, so
// the hook may call back into the registry without deadlocking.
func (v *View) RegisterMediator(m Mediator) error {
	if m == nil {
		return ErrNilMediator
	}
	name := m.MediatorName()
	if name == "" {
		return ErrEmptyName
	}

	// Interest set is queried before taking the mutex; Interests is
	// foreign code and must not run under the registry lock.
	interests := append([]string(nil), m.Interests()...)

	v.mu.Lock()
	if _, exists := v.mediators[name]; exists {
		v.mu.Unlock()
		return ErrMediatorExists
	}
	v.mediators[name] = &binding{mediator: m, interests: interests}

	if len(interests) > 0 {
		obs := notification.NewObserver(m, m)
		for _, interest := range interests {
			v.observers[interest] = append(v.observers[interest], obs)
		}
	}
	v.mu.Unlock()

	m.OnRegister()
	return nil
}

// RetrieveMediator returns the mediator registered under name, or nil.
func (v *View) RetrieveMediator(name string) Mediator {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, ok := v.mediators[name]
	if !ok {
		return nil
	}
	return b.mediator
}

// HasMediator reports whether a mediator is registered under name.
func (v *View) HasMediator(name string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.mediators[name]
	return ok
}

// RemoveMediator unregisters the mediator's observer from every interest
// recorded at registration, evicts it from the mediator map, and returns
// it. Returns nil if no mediator is registered under name. OnRemove is
// invoked outside the registry mutex.
func (v *View) RemoveMediator(name string) Mediator {
	v.mu.Lock()
	b, ok := v.mediators[name]
	if !ok {
		v.mu.Unlock()
		return nil
	}
	for _, interest := range b.interests {
		v.removeObserverLocked(interest, b.mediator)
	}
	delete(v.mediators, name)
	v.mu.Unlock()

	b.mediator.OnRemove()
	return b.mediator
}

// MediatorCount returns the number of registered mediators.
func (v *View) MediatorCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.mediators)
}

// ObserverCount returns the number of observers registered for name.
func (v *View) ObserverCount(name string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.observers[name])
}

// Stats contains view registry counters.
type Stats struct {
	// Broadcasts is the number of broadcasts with at least one observer.
	Broadcasts uint64

	// Deliveries is the number of successful observer invocations.
	Deliveries uint64

	// HandlerErrors is the number of observer invocations that returned
	// an error.
	HandlerErrors uint64

	// HandlerPanics is the number of observer invocations that panicked.
	HandlerPanics uint64

	// Mediators is the current number of registered mediators.
	Mediators int

	// Subscriptions is the current total observer count across all names.
	Subscriptions int
}

// Stats returns a snapshot of the registry counters.
func (v *View) Stats() Stats {
	v.mu.Lock()
	subs := 0
	for _, list := range v.observers {
		subs += len(list)
	}
	mediators := len(v.mediators)
	v.mu.Unlock()

	return Stats{
		Broadcasts:    v.broadcasts.Load(),
		Deliveries:    v.deliveries.Load(),
		HandlerErrors: v.handlerErrors.Load(),
		HandlerPanics: v.handlerPanics.Load(),
		Mediators:     mediators,
		Subscriptions: subs,
	}
}
