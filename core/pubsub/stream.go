package pubsub

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Stream is one consumer's view of the broadcast: a FIFO sequence of
// notifications delivered while the stream is registered. Streams are
// independent; each sees only what was broadcast during its own lifetime.
type Stream struct {
	id   uuid.UUID
	ps   *PubSub
	ch   chan Notification
	done chan struct{}
	once sync.Once
}

// Notifications registers a new consumer stream and returns it, starting
// the reader loop on first use. The stream is closed automatically when ctx
// is cancelled; close it explicitly when done to release the registration
// earlier.
//
// Calling Notifications on a closed engine returns a stream that is already
// closed and yields nothing.
func (p *PubSub) Notifications(ctx context.Context) *Stream {
	s := &Stream{
		id:   uuid.New(),
		ps:   p,
		ch:   make(chan Notification, p.buffer),
		done: make(chan struct{}),
	}

	p.mu.Lock()
	if p.state == readerStopped {
		p.mu.Unlock()
		s.once.Do(func() {
			close(s.done)
			close(s.ch)
		})
		return s
	}
	p.sinks[s.id] = s
	p.startLocked()
	p.mu.Unlock()

	p.logger.DebugContext(ctx, "pubsub stream registered",
		slog.String("stream_id", s.id.String()))

	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()

	return s
}

// Events returns the channel the stream's notifications arrive on. The
// channel is closed once deregistration completes, so ranging over it
// terminates after Close.
func (s *Stream) Events() <-chan Notification {
	return s.ch
}

// Close stops delivery to the stream and deregisters it. Safe to call from
// any goroutine and any number of times; deregistration is dispatched in
// the background and runs exactly once, so Close never blocks on the
// registry even when a broadcast is in flight.
//
// A notification already being broadcast when Close is called may or may
// not be delivered.
func (s *Stream) Close() {
	s.once.Do(func() {
		close(s.done)
		go s.ps.unregister(s)
	})
}

// unregister removes the stream from the registry and closes its channel.
// Holding p.mu for the close guarantees no broadcast is mid-send on the
// channel. Removal of an absent entry is a no-op, which makes duplicate
// termination paths harmless.
func (p *PubSub) unregister(s *Stream) {
	p.mu.Lock()
	delete(p.sinks, s.id)
	close(s.ch)
	p.mu.Unlock()

	p.logger.Debug("pubsub stream deregistered",
		slog.String("stream_id", s.id.String()))
}

// broadcast delivers one notification to every registered stream. It runs
// under the registry mutex, so register and unregister cannot interleave
// with the delivery loop. A full stream buffer blocks until the consumer
// reads or the stream closes; a stream closed mid-broadcast is skipped.
func (p *PubSub) broadcast(n Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, s := range p.sinks {
		select {
		case <-s.done:
			// Closed but not yet deregistered.
		default:
			select {
			case s.ch <- n:
			case <-s.done:
			}
		}
	}
}
