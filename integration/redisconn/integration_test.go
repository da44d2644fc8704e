package redisconn_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pubsub/core/pubsub"
	"github.com/dmitrymomot/pubsub/integration/redisconn"
)

// TestEngineOverFakeServer runs the whole stack against the in-process
// server: dial, lazy reader start, subscribe, ack and message fan-out.
func TestEngineOverFakeServer(t *testing.T) {
	t.Parallel()

	srv := startFakeServer(t)
	conn, err := redisconn.Dial(context.Background(), testConfig(srv.url()))
	require.NoError(t, err)
	defer conn.Close()

	ps := pubsub.New(conn)
	t.Cleanup(func() { _ = ps.Close() })

	ctx := context.Background()
	a := ps.Notifications(ctx)
	b := ps.Notifications(ctx)

	require.NoError(t, ps.Subscribe(ctx, "news"))

	for _, s := range []*pubsub.Stream{a, b} {
		n := waitEvent(t, s)
		require.NoError(t, n.Err)
		assert.Equal(t, pubsub.SubscribeAck{Channel: "news", Count: 1}, n.Event)
	}

	srv.publish("news", "hello")
	for _, s := range []*pubsub.Stream{a, b} {
		n := waitEvent(t, s)
		require.NoError(t, n.Err)
		assert.Equal(t, pubsub.Message{Channel: "news", Payload: "hello"}, n.Event)
	}
}

// TestEngineAgainstRedis exercises the stack against a real server, with
// go-redis as the publishing side. Skipped unless REDIS_TEST_URL is set.
func TestEngineAgainstRedis(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set; skipping live Redis test")
	}

	ctx := context.Background()

	conn, err := redisconn.Dial(ctx, redisconn.Config{
		ConnectionURL:  url,
		RetryAttempts:  3,
		RetryInterval:  100 * time.Millisecond,
		ConnectTimeout: 10 * time.Second,
		WriteTimeout:   5 * time.Second,
	})
	require.NoError(t, err)
	defer conn.Close()

	ps := pubsub.New(conn)
	t.Cleanup(func() { _ = ps.Close() })

	stream := ps.Notifications(ctx)
	require.NoError(t, ps.Subscribe(ctx, "redisconn-test"))

	n := waitEvent(t, stream)
	require.NoError(t, n.Err)
	require.Equal(t, pubsub.SubscribeAck{Channel: "redisconn-test", Count: 1}, n.Event)

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	publisher := redis.NewClient(opts)
	defer publisher.Close()

	// Publish until the subscription is visible to the publisher's node.
	require.Eventually(t, func() bool {
		return publisher.Publish(ctx, "redisconn-test", "live-payload").Val() > 0
	}, 5*time.Second, 100*time.Millisecond)

	n = waitEvent(t, stream)
	require.NoError(t, n.Err)
	require.Equal(t, pubsub.Message{Channel: "redisconn-test", Payload: "live-payload"}, n.Event)
}

func waitEvent(t *testing.T, s *pubsub.Stream) pubsub.Notification {
	t.Helper()
	select {
	case n, ok := <-s.Events():
		require.True(t, ok, "stream closed while an event was expected")
		return n
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for an event")
		return pubsub.Notification{}
	}
}
