// Package dispatch executes notification handlers with panic isolation.
//
// The Executor runs a single handler invocation and captures its outcome
// in a Result: error, panic value plus stack, duration, or skipped due to
// context cancellation. Registries use it so one misbehaving handler can
// never take down a broadcast or the process.
package dispatch
