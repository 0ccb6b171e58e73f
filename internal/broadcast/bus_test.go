package broadcast

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/seawatch/backend/internal/domain"
)

// collector accumulates delivered ticks behind a mutex
type collector struct {
	mu    sync.Mutex
	ticks []*domain.Tick
	errs  []error
}

func (c *collector) onTick(t *domain.Tick) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = append(c.ticks, t)
}

func (c *collector) onError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

func (c *collector) snapshot() []*domain.Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*domain.Tick, len(c.ticks))
	copy(out, c.ticks)
	return out
}

func (c *collector) errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]error, len(c.errs))
	copy(out, c.errs)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestBusFanOut(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus()
	defer bus.Close()

	a := &collector{}
	b := &collector{}
	unsubA, err := bus.Subscribe("telemetry", a.onTick, a.onError)
	require.NoError(t, err)
	defer unsubA()
	unsubB, err := bus.Subscribe("telemetry", b.onTick, b.onError)
	require.NoError(t, err)
	defer unsubB()

	require.NoError(t, bus.Publish("telemetry", &domain.Tick{TraceID: "t1", TS: 1}))

	waitFor(t, func() bool { return len(a.snapshot()) == 1 && len(b.snapshot()) == 1 })
	assert.Equal(t, "t1", a.snapshot()[0].TraceID)
	assert.Equal(t, "t1", b.snapshot()[0].TraceID)
}

func TestBusPreservesPublishOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus()
	defer bus.Close()

	c := &collector{}
	unsub, err := bus.Subscribe("telemetry", c.onTick, c.onError)
	require.NoError(t, err)
	defer unsub()

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish("telemetry", &domain.Tick{TS: int64(i)}))
		// stay under the queue size so nothing is dropped
		waitFor(t, func() bool { return len(c.snapshot()) == i+1 })
	}

	got := c.snapshot()
	for i, tick := range got {
		assert.Equal(t, int64(i), tick.TS)
	}
}

func TestBusTopicsAreIsolated(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus()
	defer bus.Close()

	c := &collector{}
	unsub, err := bus.Subscribe("telemetry", c.onTick, c.onError)
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, bus.Publish("other-topic", &domain.Tick{TraceID: "x"}))
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, c.snapshot())
}

func TestBusLateSubscriberMissesPriorTicks(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus()
	defer bus.Close()

	require.NoError(t, bus.Publish("telemetry", &domain.Tick{TraceID: "early"}))

	c := &collector{}
	unsub, err := bus.Subscribe("telemetry", c.onTick, c.onError)
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, bus.Publish("telemetry", &domain.Tick{TraceID: "late"}))
	waitFor(t, func() bool { return len(c.snapshot()) == 1 })
	assert.Equal(t, "late", c.snapshot()[0].TraceID)
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus()
	defer bus.Close()

	c := &collector{}
	unsub, err := bus.Subscribe("telemetry", c.onTick, c.onError)
	require.NoError(t, err)

	unsub()
	// idempotent
	unsub()

	require.NoError(t, bus.Publish("telemetry", &domain.Tick{TraceID: "after"}))
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, c.snapshot())
}

func TestBusCloseReportsErrorAndRejectsPublish(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus()

	c := &collector{}
	_, err := bus.Subscribe("telemetry", c.onTick, c.onError)
	require.NoError(t, err)

	bus.Close()

	waitFor(t, func() bool { return len(c.errors()) == 1 })
	assert.ErrorIs(t, c.errors()[0], ErrClosed)

	assert.ErrorIs(t, bus.Publish("telemetry", &domain.Tick{}), ErrClosed)
	_, err = bus.Subscribe("telemetry", c.onTick, c.onError)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestBusDropsForSlowSubscriber(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus()
	defer bus.Close()

	release := make(chan struct{})
	first := make(chan struct{})
	var once sync.Once
	unsub, err := bus.Subscribe("telemetry", func(tick *domain.Tick) {
		once.Do(func() { close(first) })
		<-release
	}, nil)
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, bus.Publish("telemetry", &domain.Tick{TS: 0}))
	<-first // handler is now stuck, queue no longer draining

	for i := 1; i <= subscriberQueueSize*3; i++ {
		require.NoError(t, bus.Publish("telemetry", &domain.Tick{TS: int64(i)}))
	}
	close(release)

	waitFor(t, func() bool { return bus.Dropped() > 0 })
}
