package dispatch

import "errors"

var (
	// ErrEventNotFound means the event id is unknown to the event store.
	// It propagates to the caller as a hard failure.
	ErrEventNotFound = errors.New("event not found")

	// ErrInvalidEventID means the event id is not a positive integer.
	ErrInvalidEventID = errors.New("event id must be a positive integer")

	// ErrCacheMiss is returned by a CapacityCache when the event is not
	// cached. Never surfaced to callers.
	ErrCacheMiss = errors.New("capacity cache miss")
)
