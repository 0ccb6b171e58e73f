package broadcast

import (
	"errors"

	"github.com/seawatch/backend/internal/domain"
)

// ErrClosed is reported to subscribers when the transport shuts down
var ErrClosed = errors.New("broadcast: channel closed")

// TickHandler is invoked once per delivered tick, in publish order
type TickHandler func(tick *domain.Tick)

// ErrorHandler is invoked on a transport-level failure. The subscription
// is not retried automatically; resubscribing is the caller's policy.
type ErrorHandler func(err error)

// Channel is a minimal publish/subscribe abstraction over a named topic.
// It makes no delivery guarantee and keeps no message history: a
// subscriber that joins late misses prior ticks, and a subscriber that
// cannot keep up has ticks dropped rather than buffered indefinitely.
//
// The in-process Bus satisfies it for a single instance; any message-bus
// technology (WebSocket relay, hosted pub/sub) can replace it without
// touching producer or consumer logic.
type Channel interface {
	// Publish sends tick to all current subscribers of topic. It returns
	// once the send has been accepted, not once subscribers processed it.
	Publish(topic string, tick *domain.Tick) error

	// Subscribe registers handlers for topic and returns an unsubscribe
	// function. After unsubscribe returns, no further handler invocations
	// occur. Unsubscribe must not be called from within the handlers.
	Subscribe(topic string, onTick TickHandler, onError ErrorHandler) (func(), error)
}
