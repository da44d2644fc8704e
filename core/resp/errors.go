package resp

import "errors"

var (
	// ErrProtocol is returned when an inbound frame does not conform to the
	// RESP wire format. Use errors.Is to detect it under wrapping.
	ErrProtocol = errors.New("malformed resp frame")

	// ErrNestingTooDeep is returned when an aggregate frame exceeds the
	// maximum supported nesting depth.
	ErrNestingTooDeep = errors.New("resp frame nesting too deep")
)
