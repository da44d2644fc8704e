// Package pubsub implements a fan-out engine for Redis-style pub/sub
// notifications delivered over one shared, ordered connection.
//
// A single background reader goroutine owns the connection's receive side,
// decodes every inbound frame into an Event, and broadcasts the result to
// every registered consumer stream. Consumers attach and detach at any time
// without disturbing each other or the reader.
//
// # Architecture
//
// The package is built around three pieces:
//
//   - PubSub: the engine; holds the subscriber registry and the reader loop
//     state, both guarded by a single mutex.
//   - Stream: a per-consumer handle; a buffered channel of Notification
//     values plus lifecycle plumbing that deregisters the consumer when the
//     stream is closed or its context is cancelled.
//   - Conn: the borrowed connection abstraction. The engine never dials or
//     closes it; it only sends serialized commands and receives decoded
//     frames. The reader loop is the connection's sole receiver.
//
// # Usage
//
//	conn, err := redisconn.Dial(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
//
//	ps := pubsub.New(conn)
//	defer ps.Close()
//
//	stream := ps.Notifications(ctx)
//	defer stream.Close()
//
//	if err := ps.Subscribe(ctx, "news", "alerts"); err != nil {
//	    return err
//	}
//
//	for n := range stream.Events() {
//	    if n.Err != nil {
//	        log.Printf("pubsub: %v", n.Err)
//	        continue
//	    }
//	    switch ev := n.Event.(type) {
//	    case pubsub.Message:
//	        log.Printf("%s: %s", ev.Channel, ev.Payload)
//	    case pubsub.SubscribeAck:
//	        log.Printf("joined %s (%d subscriptions)", ev.Channel, ev.Count)
//	    }
//	}
//
// # Lifecycle
//
// The reader loop starts lazily on the first Notifications call and runs
// until PubSub.Close. Starting is idempotent: the loop is spawned at most
// once per engine, and once stopped it is never restarted. Decode failures
// and connection-level receive errors do not stop the loop; they are
// broadcast to every active stream as a failed Notification and reading
// continues.
//
// Closing a stream (explicitly or via context cancellation) deregisters it
// asynchronously; the call never blocks on the registry. Subscription
// commands are fire-and-forget: the matching SubscribeAck or UnsubscribeAck
// arrives later through every active stream, like any other event.
//
// # Delivery guarantees
//
// Every notification broadcast strictly after a stream's registration
// completes and strictly before its deregistration completes is delivered to
// that stream, in FIFO order. Delivery into a stream whose buffer is full
// blocks the broadcaster until the consumer reads or the stream closes, so
// a stream must be drained or closed; binding it to a context bounds the
// worst case.
package pubsub
