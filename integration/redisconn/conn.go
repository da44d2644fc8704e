package redisconn

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrymomot/pubsub/core/pubsub"
	"github.com/dmitrymomot/pubsub/core/resp"
)

const (
	defaultRetryAttempts = 3
	defaultRetryInterval = 5 * time.Second
)

// Conn is an established Redis connection. It satisfies pubsub.Conn: Send
// may be called from any goroutine, Receive from exactly one (the fan-out
// engine's reader loop is that goroutine once the connection is handed to
// it). Close is owned by the dialing code, never by the engine.
type Conn struct {
	nc     net.Conn
	reader *resp.Reader

	writeMu      sync.Mutex
	writeTimeout time.Duration
}

var _ pubsub.Conn = (*Conn)(nil)

// Dial establishes a connection to the server described by cfg, retrying
// transient failures with exponential backoff. Every successful attempt is
// authenticated (when the URL carries credentials), switched to the URL's
// database and verified with a PING before being returned.
func Dial(ctx context.Context, cfg Config) (*Conn, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConnectionURL, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = defaultRetryAttempts
	}
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = defaultRetryInterval
	}

	var conn *Conn
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(interval))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		c, err := dialOnce(ctx, opts, cfg.WriteTimeout)
		if err != nil {
			return retry.RetryableError(err)
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	return conn, nil
}

func dialOnce(ctx context.Context, opts *redis.Options, writeTimeout time.Duration) (*Conn, error) {
	network := opts.Network
	if network == "" {
		network = "tcp"
	}

	var dialer net.Dialer
	nc, err := dialer.DialContext(ctx, network, opts.Addr)
	if err != nil {
		return nil, err
	}

	if opts.TLSConfig != nil {
		tc := tls.Client(nc, opts.TLSConfig)
		if err := tc.HandshakeContext(ctx); err != nil {
			_ = nc.Close()
			return nil, err
		}
		nc = tc
	}

	c := &Conn{
		nc:           nc,
		reader:       resp.NewReader(nc),
		writeTimeout: writeTimeout,
	}
	if err := c.handshake(ctx, opts); err != nil {
		_ = nc.Close()
		return nil, err
	}
	return c, nil
}

// handshake authenticates and verifies the fresh connection. It runs before
// the connection is handed to the engine, so issuing round trips here does
// not violate the single-receiver rule.
func (c *Conn) handshake(ctx context.Context, opts *redis.Options) error {
	if opts.Password != "" {
		args := []string{"AUTH"}
		if opts.Username != "" {
			args = append(args, opts.Username)
		}
		args = append(args, opts.Password)
		if err := c.roundTrip(ctx, args...); err != nil {
			return err
		}
	}
	if opts.DB != 0 {
		if err := c.roundTrip(ctx, "SELECT", strconv.Itoa(opts.DB)); err != nil {
			return err
		}
	}
	return c.roundTrip(ctx, "PING")
}

func (c *Conn) roundTrip(ctx context.Context, args ...string) error {
	if err := c.Send(ctx, resp.EncodeCommand(args...)); err != nil {
		return err
	}
	reply, err := c.Receive(ctx)
	if err != nil {
		return err
	}
	if reply.Kind == resp.Error {
		return fmt.Errorf("%w: %s: %s", ErrHandshake, args[0], reply.Str)
	}
	return nil
}

// Send writes one fully serialized command to the socket. Concurrent
// senders are serialized so frames never interleave; ordering across
// concurrent senders is the callers' concern.
func (c *Conn) Send(ctx context.Context, cmd []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Time{}
	if c.writeTimeout > 0 {
		deadline = time.Now().Add(c.writeTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	if err := c.nc.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("%w: %v", pubsub.ErrConnection, err)
	}

	if _, err := c.nc.Write(cmd); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", pubsub.ErrConnection, err)
	}
	return nil
}

// Receive blocks until the next frame arrives, the context is cancelled or
// the transport fails. Cancellation is delivered to the blocked read by
// forcing the read deadline into the past.
func (c *Conn) Receive(ctx context.Context) (resp.Value, error) {
	// A previous cancelled Receive may have left an expired deadline.
	if err := c.nc.SetReadDeadline(time.Time{}); err != nil {
		return resp.Value{}, fmt.Errorf("%w: %v", pubsub.ErrConnection, err)
	}

	if done := ctx.Done(); done != nil {
		stop := make(chan struct{})
		exited := make(chan struct{})
		go func() {
			defer close(exited)
			select {
			case <-done:
				_ = c.nc.SetReadDeadline(time.Now())
			case <-stop:
			}
		}()
		// Wait the watchdog out so a context cancelled after this Receive
		// returns cannot touch the deadline of a later read.
		defer func() {
			close(stop)
			<-exited
		}()
	}

	v, err := c.reader.ReadValue()
	if err != nil {
		if ctx.Err() != nil {
			return resp.Value{}, ctx.Err()
		}
		return resp.Value{}, fmt.Errorf("%w: %v", pubsub.ErrConnection, err)
	}
	return v, nil
}

// Close tears down the underlying socket. The fan-out engine never calls
// this; whoever dialed the connection owns its shutdown.
func (c *Conn) Close() error {
	return c.nc.Close()
}

// RemoteAddr reports the server address the connection is established to.
func (c *Conn) RemoteAddr() net.Addr {
	return c.nc.RemoteAddr()
}
