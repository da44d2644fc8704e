package pubsub_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pubsub/core/pubsub"
	"github.com/dmitrymomot/pubsub/core/resp"
)

func TestPubSub_SubscriptionCommands(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	cases := []struct {
		name    string
		issue   func(*pubsub.PubSub) error
		command string
		args    []string
	}{
		{
			name:    "subscribe",
			issue:   func(p *pubsub.PubSub) error { return p.Subscribe(ctx, "news", "alerts") },
			command: "SUBSCRIBE",
			args:    []string{"news", "alerts"},
		},
		{
			name:    "psubscribe",
			issue:   func(p *pubsub.PubSub) error { return p.PSubscribe(ctx, "news.*") },
			command: "PSUBSCRIBE",
			args:    []string{"news.*"},
		},
		{
			name:    "ssubscribe",
			issue:   func(p *pubsub.PubSub) error { return p.SSubscribe(ctx, "shard1") },
			command: "SSUBSCRIBE",
			args:    []string{"shard1"},
		},
		{
			name:    "unsubscribe",
			issue:   func(p *pubsub.PubSub) error { return p.Unsubscribe(ctx, "news") },
			command: "UNSUBSCRIBE",
			args:    []string{"news"},
		},
		{
			name:    "punsubscribe",
			issue:   func(p *pubsub.PubSub) error { return p.PUnsubscribe(ctx, "news.*") },
			command: "PUNSUBSCRIBE",
			args:    []string{"news.*"},
		},
		{
			name:    "sunsubscribe",
			issue:   func(p *pubsub.PubSub) error { return p.SUnsubscribe(ctx, "shard1") },
			command: "SUNSUBSCRIBE",
			args:    []string{"shard1"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			conn := newFakeConn()
			ps := pubsub.New(conn)
			t.Cleanup(func() { _ = ps.Close() })

			require.NoError(t, tc.issue(ps))

			wire := resp.EncodeCommand(append([]string{tc.command}, tc.args...)...)
			assert.Equal(t, []string{string(wire)}, conn.sentCommands())
		})
	}
}

func TestPubSub_SubscriptionCommands_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	conn := newFakeConn()
	ps := pubsub.New(conn)
	t.Cleanup(func() { _ = ps.Close() })

	require.ErrorIs(t, ps.Subscribe(ctx), pubsub.ErrNoChannels)
	require.ErrorIs(t, ps.PSubscribe(ctx), pubsub.ErrNoChannels)
	require.ErrorIs(t, ps.SSubscribe(ctx), pubsub.ErrNoChannels)
	require.ErrorIs(t, ps.Unsubscribe(ctx), pubsub.ErrNoChannels)
	require.ErrorIs(t, ps.PUnsubscribe(ctx), pubsub.ErrNoChannels)
	require.ErrorIs(t, ps.SUnsubscribe(ctx), pubsub.ErrNoChannels)

	assert.Empty(t, conn.sentCommands(), "nothing may be sent when validation fails")
}

func TestPubSub_SubscriptionCommands_SendFailure(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	conn.sendErr = fmt.Errorf("%w: broken pipe", pubsub.ErrConnection)
	ps := pubsub.New(conn)
	t.Cleanup(func() { _ = ps.Close() })

	err := ps.Subscribe(context.Background(), "news")
	require.ErrorIs(t, err, pubsub.ErrConnection)
}

func TestPubSub_Ping(t *testing.T) {
	t.Parallel()

	t.Run("bare ping", func(t *testing.T) {
		t.Parallel()

		conn := newFakeConn()
		ps := pubsub.New(conn)
		t.Cleanup(func() { _ = ps.Close() })

		require.NoError(t, ps.Ping(context.Background()))
		assert.Equal(t, []string{string(resp.EncodeCommand("PING"))}, conn.sentCommands())
	})

	t.Run("ping with payload", func(t *testing.T) {
		t.Parallel()

		conn := newFakeConn()
		ps := pubsub.New(conn)
		t.Cleanup(func() { _ = ps.Close() })

		require.NoError(t, ps.Ping(context.Background(), "probe"))
		assert.Equal(t, []string{string(resp.EncodeCommand("PING", "probe"))}, conn.sentCommands())
	})
}
