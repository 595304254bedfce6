// Package xserr holds the closed error taxonomy shared by the parameter
// and graph control plane. Every sentinel is reported locally by the
// command interpreter; none of them ever reach the audio thread.
package xserr

import "errors"

var (
	// ErrKeyMissing means no parameter slot exists with the given name on
	// this item.
	ErrKeyMissing = errors.New("xsched: parameter key missing")

	// ErrNoGet means the source Param does not expose a Get of the
	// required type for the slot.
	ErrNoGet = errors.New("xsched: source has no get access")

	// ErrNoSet means the source Param does not expose a Set of the
	// required type for the slot.
	ErrNoSet = errors.New("xsched: source has no set access")

	// ErrTagMismatch means the source Param's ValueTag does not match the
	// slot's ValueTag.
	ErrTagMismatch = errors.New("xsched: value tag mismatch")

	// ErrTypeNotFound means an unknown type_name was passed to a factory.
	ErrTypeNotFound = errors.New("xsched: unknown type_name")

	// ErrInvalidArgs means factory JSON args failed to parse or violated
	// the factory's constraints.
	ErrInvalidArgs = errors.New("xsched: invalid args")

	// ErrCycleDetected means binding would introduce a cycle through
	// Params' sub-parameter graphs.
	ErrCycleDetected = errors.New("xsched: cycle detected")

	// ErrNotFound means a referenced UUID (owner, parent, child) is
	// unknown to the system.
	ErrNotFound = errors.New("xsched: uuid not found")
)
