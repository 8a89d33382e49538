// Package notification defines the message value and observer types used
// throughout relay.
//
// A Notification is a named message with an optional payload body and an
// optional type tag. The name is fixed at construction; body and type may
// be updated after construction and are safe for concurrent access.
//
// An Observer binds a Handler to an opaque context reference. The context
// is used only for identity comparison during removal, never for dispatch;
// dispatch goes through the Handler interface so any type can subscribe
// without reflection or name-based method lookup.
package notification
