// Package controller maps notification names to commands.
//
// The Controller registers itself as an ordinary observer on the view
// registry: notification delivery and command execution share one fan-out
// mechanism. Commands are not stored instances; a factory produces a
// fresh command per matching notification and the instance is discarded
// after execution.
//
// Lock ordering: the controller never holds its own mutex across a call
// into the view registry. Registration and removal take the controller
// mutex only to mutate the factory map, then call the view unlocked. This
// must be preserved; holding both would allow a deadlock against a
// broadcast calling back into the controller.
package controller
