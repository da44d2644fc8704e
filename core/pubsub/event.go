package pubsub

import "fmt"

// Event is one decoded push notification. It is a sealed union: the only
// implementations are Message, SubscribeAck and UnsubscribeAck, and exactly
// one of them is produced per inbound frame.
type Event interface {
	fmt.Stringer

	event()
}

// Message is a value published to a channel the connection is subscribed to.
// Pattern is empty unless the message was matched via a pattern
// subscription, in which case it holds the matching pattern.
type Message struct {
	Channel string
	Pattern string
	Payload string
}

func (Message) event() {}

func (m Message) String() string {
	if m.Pattern != "" {
		return fmt.Sprintf("message on %s (pattern %s): %s", m.Channel, m.Pattern, m.Payload)
	}
	return fmt.Sprintf("message on %s: %s", m.Channel, m.Payload)
}

// SubscribeAck confirms that a subscribe, psubscribe or ssubscribe command
// took effect. Count is the connection's resulting subscription count.
type SubscribeAck struct {
	Channel string
	Count   int64
}

func (SubscribeAck) event() {}

func (a SubscribeAck) String() string {
	return fmt.Sprintf("subscribed to %s (%d active)", a.Channel, a.Count)
}

// UnsubscribeAck confirms that an unsubscribe, punsubscribe or sunsubscribe
// command took effect. Count is the connection's resulting subscription
// count; Channel may be empty when unsubscribing from all channels at once.
type UnsubscribeAck struct {
	Channel string
	Count   int64
}

func (UnsubscribeAck) event() {}

func (a UnsubscribeAck) String() string {
	return fmt.Sprintf("unsubscribed from %s (%d active)", a.Channel, a.Count)
}

// Notification is one delivery on a consumer stream: either a decoded Event
// or the error that prevented decoding. Exactly one field is set.
type Notification struct {
	Event Event
	Err   error
}
