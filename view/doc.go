// Package view implements the observer and mediator registry.
//
// The View owns two maps: notification name to ordered observer list, and
// mediator name to mediator. Broadcast copies the observer list under the
// registry mutex and invokes handlers outside it, so a handler is free to
// register or remove observers (including itself) mid-broadcast without
// corrupting the in-flight fan-out. Mediator lifecycle hooks are likewise
// invoked after the mutex is released; a hook may safely call back into
// the registry.
package view
