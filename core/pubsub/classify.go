package pubsub

import (
	"fmt"

	"github.com/dmitrymomot/pubsub/core/resp"
)

// ParseEvent converts a generic decoded reply into a pub/sub Event.
//
// A convertible reply is an array or push frame whose first element is one
// of the known label strings. Anything else fails with ErrNotPubSubEvent;
// no partial event is ever returned.
func ParseEvent(reply resp.Value) (Event, error) {
	if !reply.IsAggregate() {
		return nil, fmt.Errorf("%w: got %s frame", ErrNotPubSubEvent, reply.Kind)
	}
	if len(reply.Elems) == 0 {
		return nil, fmt.Errorf("%w: empty frame", ErrNotPubSubEvent)
	}

	label, ok := reply.Elems[0].Text()
	if !ok {
		return nil, fmt.Errorf("%w: non-string label", ErrNotPubSubEvent)
	}

	switch label {
	case "message", "smessage":
		channel, payload, err := twoStrings(label, reply.Elems)
		if err != nil {
			return nil, err
		}
		return Message{Channel: channel, Payload: payload}, nil

	case "pmessage":
		if len(reply.Elems) != 4 {
			return nil, arityError(label, len(reply.Elems))
		}
		pattern, ok := reply.Elems[1].Text()
		if !ok {
			return nil, fieldError(label, "pattern")
		}
		channel, ok := reply.Elems[2].Text()
		if !ok {
			return nil, fieldError(label, "channel")
		}
		payload, ok := reply.Elems[3].Text()
		if !ok {
			return nil, fieldError(label, "payload")
		}
		return Message{Channel: channel, Pattern: pattern, Payload: payload}, nil

	case "subscribe", "ssubscribe", "psubscribe":
		channel, count, err := channelAndCount(label, reply.Elems, false)
		if err != nil {
			return nil, err
		}
		return SubscribeAck{Channel: channel, Count: count}, nil

	case "unsubscribe", "sunsubscribe", "punsubscribe":
		// A blanket unsubscribe acks with a null channel when nothing was
		// subscribed, so the channel element may be null here.
		channel, count, err := channelAndCount(label, reply.Elems, true)
		if err != nil {
			return nil, err
		}
		return UnsubscribeAck{Channel: channel, Count: count}, nil

	default:
		return nil, fmt.Errorf("%w: unknown label %q", ErrNotPubSubEvent, label)
	}
}

func twoStrings(label string, elems []resp.Value) (string, string, error) {
	if len(elems) != 3 {
		return "", "", arityError(label, len(elems))
	}
	first, ok := elems[1].Text()
	if !ok {
		return "", "", fieldError(label, "channel")
	}
	second, ok := elems[2].Text()
	if !ok {
		return "", "", fieldError(label, "payload")
	}
	return first, second, nil
}

// channelAndCount decodes the shared ack shape [label, channel, count].
// The trailing element is a subscription count, never a payload.
func channelAndCount(label string, elems []resp.Value, nullChannelOK bool) (string, int64, error) {
	if len(elems) != 3 {
		return "", 0, arityError(label, len(elems))
	}
	channel, ok := elems[1].Text()
	if !ok {
		if !nullChannelOK || !elems[1].IsNull() {
			return "", 0, fieldError(label, "channel")
		}
	}
	count, ok := elems[2].AsInt()
	if !ok {
		return "", 0, fieldError(label, "count")
	}
	return channel, count, nil
}

func arityError(label string, n int) error {
	return fmt.Errorf("%w: %s frame with %d elements", ErrNotPubSubEvent, label, n)
}

func fieldError(label, field string) error {
	return fmt.Errorf("%w: %s frame with invalid %s", ErrNotPubSubEvent, label, field)
}
