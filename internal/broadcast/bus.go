package broadcast

import (
	"sync"
	"sync/atomic"

	"github.com/seawatch/backend/internal/domain"
)

// subscriberQueueSize bounds how many undelivered ticks a slow
// subscriber may accumulate before the oldest pending tick is dropped.
const subscriberQueueSize = 16

// Bus is an in-process Channel implementation. Delivery to each
// subscriber happens on a dedicated goroutine, so per-publisher order
// is preserved while a slow handler never blocks the publisher.
type Bus struct {
	mu     sync.Mutex
	topics map[string]map[uint64]*subscriber
	nextID uint64
	closed bool

	dropped atomic.Int64
}

type subscriber struct {
	queue   chan *domain.Tick
	onTick  TickHandler
	onError ErrorHandler

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewBus creates an empty in-process bus
func NewBus() *Bus {
	return &Bus{topics: make(map[string]map[uint64]*subscriber)}
}

// Publish fans tick out to all current subscribers of topic without
// blocking on any of them. Slow subscribers lose their oldest pending
// tick (latest-wins, matching renderer semantics).
func (b *Bus) Publish(topic string, tick *domain.Tick) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	for _, sub := range b.topics[topic] {
		select {
		case sub.queue <- tick:
		default:
			select {
			case <-sub.queue:
				b.dropped.Add(1)
			default:
			}
			select {
			case sub.queue <- tick:
			default:
				b.dropped.Add(1)
			}
		}
	}
	return nil
}

// Subscribe registers handlers for topic. The returned function stops
// delivery and waits for the delivery goroutine to exit, so once it
// returns no further handler invocation can occur.
func (b *Bus) Subscribe(topic string, onTick TickHandler, onError ErrorHandler) (func(), error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}

	sub := &subscriber{
		queue:   make(chan *domain.Tick, subscriberQueueSize),
		onTick:  onTick,
		onError: onError,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	id := b.nextID
	b.nextID++
	if b.topics[topic] == nil {
		b.topics[topic] = make(map[uint64]*subscriber)
	}
	b.topics[topic][id] = sub
	b.mu.Unlock()

	go sub.run()

	unsubscribe := func() {
		b.mu.Lock()
		delete(b.topics[topic], id)
		b.mu.Unlock()
		sub.shutdown(nil)
	}
	return unsubscribe, nil
}

// Close tears the transport down: every subscriber receives ErrClosed
// through its error handler and stops, and further publishes fail.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	var subs []*subscriber
	for _, topic := range b.topics {
		for _, sub := range topic {
			subs = append(subs, sub)
		}
	}
	b.topics = make(map[string]map[uint64]*subscriber)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.shutdown(ErrClosed)
	}
}

// Dropped reports how many ticks were discarded for slow subscribers
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

func (s *subscriber) run() {
	defer close(s.stopped)
	for {
		select {
		case <-s.stop:
			return
		case tick := <-s.queue:
			// drain check so a pending stop wins over queued ticks
			select {
			case <-s.stop:
				return
			default:
			}
			s.onTick(tick)
		}
	}
}

// shutdown stops delivery and waits for the run loop to exit. A non-nil
// err is reported through the error handler first.
func (s *subscriber) shutdown(err error) {
	s.once.Do(func() {
		close(s.stop)
		<-s.stopped
		if err != nil && s.onError != nil {
			s.onError(err)
		}
	})
}
