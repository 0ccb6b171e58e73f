package replay

import (
	"sync"
	"time"
)

// FrameClock delivers rendering-frame callbacks, decoupling marker
// smoothing from the tick rate. The returned cancel function guarantees
// no further callback once it returns.
type FrameClock interface {
	Subscribe(frame func()) (cancel func())
}

// TickerClock is a FrameClock backed by a fixed-interval time.Ticker
type TickerClock struct {
	Interval time.Duration
}

// Subscribe starts a goroutine invoking frame every interval
func (c *TickerClock) Subscribe(frame func()) func() {
	interval := c.Interval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	stop := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				select {
				case <-stop:
					return
				default:
				}
				frame()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-stopped
		})
	}
}
