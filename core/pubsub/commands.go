package pubsub

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/pubsub/core/resp"
)

// The subscription command family. Each call serializes the command and
// sends it on the connection; none of them waits for the acknowledgment,
// which arrives later through every active stream as a SubscribeAck or
// UnsubscribeAck. A call fails only if the underlying send fails.

// Subscribe subscribes the connection to the given channels.
func (p *PubSub) Subscribe(ctx context.Context, channels ...string) error {
	return p.sendCommand(ctx, "SUBSCRIBE", channels)
}

// PSubscribe subscribes the connection to the given glob-style patterns.
func (p *PubSub) PSubscribe(ctx context.Context, patterns ...string) error {
	return p.sendCommand(ctx, "PSUBSCRIBE", patterns)
}

// SSubscribe subscribes the connection to the given shard channels.
func (p *PubSub) SSubscribe(ctx context.Context, channels ...string) error {
	return p.sendCommand(ctx, "SSUBSCRIBE", channels)
}

// Unsubscribe unsubscribes the connection from the given channels.
func (p *PubSub) Unsubscribe(ctx context.Context, channels ...string) error {
	return p.sendCommand(ctx, "UNSUBSCRIBE", channels)
}

// PUnsubscribe unsubscribes the connection from the given patterns.
func (p *PubSub) PUnsubscribe(ctx context.Context, patterns ...string) error {
	return p.sendCommand(ctx, "PUNSUBSCRIBE", patterns)
}

// SUnsubscribe unsubscribes the connection from the given shard channels.
func (p *PubSub) SUnsubscribe(ctx context.Context, channels ...string) error {
	return p.sendCommand(ctx, "SUNSUBSCRIBE", channels)
}

// Ping sends a PING on the connection, optionally with a payload. The
// server's reply surfaces asynchronously on active streams like any other
// frame. Useful as a liveness probe on an otherwise idle subscription.
func (p *PubSub) Ping(ctx context.Context, payload ...string) error {
	args := append([]string{"PING"}, payload...)
	if err := p.conn.Send(ctx, resp.EncodeCommand(args...)); err != nil {
		return fmt.Errorf("send PING: %w", err)
	}
	return nil
}

func (p *PubSub) sendCommand(ctx context.Context, name string, channels []string) error {
	if len(channels) == 0 {
		return ErrNoChannels
	}

	args := make([]string, 0, len(channels)+1)
	args = append(args, name)
	args = append(args, channels...)

	if err := p.conn.Send(ctx, resp.EncodeCommand(args...)); err != nil {
		return fmt.Errorf("send %s: %w", name, err)
	}
	return nil
}
