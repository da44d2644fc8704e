package redisconn

import "errors"

// Domain-specific connection errors. Use errors.Is to check them under
// wrapping.
var (
	ErrEmptyConnectionURL   = errors.New("empty redis connection URL")
	ErrInvalidConnectionURL = errors.New("failed to parse redis connection string")
	ErrNotReady             = errors.New("redis did not become ready within the given time period")
	ErrHandshake            = errors.New("redis handshake rejected")
)
