package pubsub

import (
	"context"
	"errors"
	"log/slog"
)

// readLoop is the sole receiver on the connection. It decodes every inbound
// frame and broadcasts the result, success or failure, to all registered
// streams. The loop is resilient by design: decode failures and
// connection-level receive errors are reported to consumers and reading
// continues. Only cancellation (via Close) ends the loop.
func (p *PubSub) readLoop(ctx context.Context) {
	p.logger.InfoContext(ctx, "pubsub reader started")

	for {
		reply, err := p.conn.Receive(ctx)
		if ctx.Err() != nil {
			p.logger.InfoContext(ctx, "pubsub reader stopped")
			return
		}
		if err != nil {
			if errors.Is(err, ErrConnection) {
				p.broadcast(Notification{Err: err})
			} else {
				// Unrecognized receive errors are swallowed to keep the
				// loop alive; logged so they are not invisible.
				p.logger.DebugContext(ctx, "pubsub reader discarding error",
					slog.String("error", err.Error()))
			}
			continue
		}

		event, err := ParseEvent(reply)
		if err != nil {
			p.broadcast(Notification{Err: err})
			continue
		}
		p.broadcast(Notification{Event: event})
	}
}
