package pubsub

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/pubsub/core/resp"
)

// DefaultStreamBuffer is the default per-stream notification buffer size.
const DefaultStreamBuffer = 64

// Conn is the borrowed connection the engine operates on. Send enqueues one
// fully serialized command; Receive blocks until the next decoded frame is
// available. Implementations wrap transport failures in ErrConnection.
//
// The engine never closes the Conn, and the reader loop is its only
// receiver; no other code may call Receive on a Conn handed to New.
type Conn interface {
	Send(ctx context.Context, cmd []byte) error
	Receive(ctx context.Context) (resp.Value, error)
}

// readerState tracks the reader loop lifecycle. The loop is spawned at most
// once per engine and, once stopped, is never restarted.
type readerState uint8

const (
	readerNotStarted readerState = iota
	readerRunning
	readerStopped
)

// PubSub fans inbound pub/sub frames out to any number of consumer streams.
// The zero value is not usable; construct with New.
//
// All methods are safe for concurrent use. The subscriber registry and the
// reader loop state share one mutex, so registry mutations, broadcasts and
// start/stop transitions are mutually exclusive.
type PubSub struct {
	conn   Conn
	logger *slog.Logger
	buffer int

	mu     sync.Mutex
	sinks  map[uuid.UUID]*Stream
	state  readerState
	cancel context.CancelFunc
}

// Option configures a PubSub.
type Option func(*PubSub)

// WithLogger configures structured logging for the engine.
// Use slog.New(slog.NewTextHandler(io.Discard, nil)) to disable logging.
func WithLogger(logger *slog.Logger) Option {
	return func(p *PubSub) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithStreamBuffer sets the notification buffer size for every stream
// created by Notifications. Default is DefaultStreamBuffer. A larger buffer
// tolerates slower consumers before broadcasts start blocking.
func WithStreamBuffer(size int) Option {
	return func(p *PubSub) {
		if size > 0 {
			p.buffer = size
		}
	}
}

// New creates a fan-out engine on top of conn. The reader loop is not
// started until the first Notifications call.
func New(conn Conn, opts ...Option) *PubSub {
	p := &PubSub{
		conn:   conn,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		buffer: DefaultStreamBuffer,
		sinks:  make(map[uuid.UUID]*Stream),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Close stops the reader loop and closes every live stream. It is the only
// way to stop the loop: decode and connection errors never do. The borrowed
// Conn is left untouched. Returns ErrClosed if already closed.
func (p *PubSub) Close() error {
	p.mu.Lock()
	if p.state == readerStopped {
		p.mu.Unlock()
		return ErrClosed
	}
	p.state = readerStopped
	cancel := p.cancel
	p.cancel = nil
	sinks := make([]*Stream, 0, len(p.sinks))
	for _, s := range p.sinks {
		sinks = append(sinks, s)
	}
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, s := range sinks {
		s.Close()
	}

	p.logger.Info("pubsub engine closed", slog.Int("streams_closed", len(sinks)))
	return nil
}

// startLocked spawns the reader loop if it has never run. Callers must hold
// p.mu. Idempotent: a running loop is left alone, a stopped one is never
// revived.
func (p *PubSub) startLocked() {
	if p.state != readerNotStarted {
		return
	}
	p.state = readerRunning

	// The loop outlives any single caller, so it gets its own context;
	// Close cancels it.
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.readLoop(ctx)
}
