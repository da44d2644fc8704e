package pubsub

import "errors"

var (
	// ErrConnection marks transport-level send/receive failures. Conn
	// implementations wrap their errors with it so the reader loop can tell
	// connection faults apart from decode failures.
	ErrConnection = errors.New("pubsub connection failure")

	// ErrNotPubSubEvent is returned by ParseEvent when a reply cannot be
	// converted to a pub/sub event.
	ErrNotPubSubEvent = errors.New("response type not convertible to a pub/sub event")

	// ErrNoChannels is returned by subscription commands called without any
	// channel or pattern name.
	ErrNoChannels = errors.New("at least one channel is required")

	// ErrClosed is returned when closing an already closed engine.
	ErrClosed = errors.New("pubsub already closed")
)
