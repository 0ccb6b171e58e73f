package replay

import (
	"sync"

	"github.com/google/uuid"

	"github.com/seawatch/backend/internal/domain"
	"github.com/seawatch/backend/pkg/utils"
)

// smoothingSteps is the fixed number of animation frames used to move a
// marker from its displayed position to a newly observed one
const smoothingSteps = 10

// MarkerRenderer is the map-facing collaborator. The animator issues
// these calls but does not own the rendering surface.
type MarkerRenderer interface {
	CreateMarker(mmsi int64, at domain.Coordinate)
	MoveMarker(mmsi int64, at domain.Coordinate)
	RemoveMarker(mmsi int64)
}

// Animator state for the indicator shown next to the map
const (
	StateLive         = "live"
	StateComplete     = "complete"
	StateDisconnected = "disconnected"
	StateDisposed     = "disposed"
)

// markerAnim tracks one marker's displayed position and its in-flight
// smoothing animation. step == smoothingSteps means settled.
type markerAnim struct {
	current  domain.Coordinate
	from, to domain.Coordinate
	step     int
}

// Animator keeps a consumer-local marker per vessel and moves it
// smoothly toward each newly observed position over a short fixed-step
// interpolation. It never re-publishes and holds no authoritative data.
type Animator struct {
	renderer MarkerRenderer

	mu           sync.Mutex
	markers      map[int64]*markerAnim
	traceID      string
	state        string
	cancelFrames func()
}

// NewAnimator subscribes to clock frames and animates markers on
// renderer. Callers must Dispose when playback mode is turned off.
func NewAnimator(renderer MarkerRenderer, clock FrameClock) *Animator {
	a := &Animator{
		renderer: renderer,
		markers:  make(map[int64]*markerAnim),
		state:    StateLive,
	}
	a.cancelFrames = clock.Subscribe(a.frame)
	return a
}

// OnTick applies one batch of vessel observations. Vessels seen for the
// first time get a marker at the exact reported coordinate immediately;
// known vessels start a smoothing animation from their current displayed
// position, superseding any in-flight animation. A done tick ends the
// session but keeps the markers in place.
func (a *Animator) OnTick(tick *domain.Tick) {
	if tick == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateLive {
		return
	}
	if a.traceID == "" {
		a.traceID = tick.TraceID
		if a.traceID == "" {
			// tolerated slack: adopt a local fallback correlation id
			a.traceID = uuid.NewString()
		}
	}
	if tick.Done {
		a.state = StateComplete
		return
	}

	// nil vessel list is an update with zero observations
	for _, obs := range tick.Vessels {
		target := domain.Coordinate{Lat: obs.Lat, Lon: obs.Lon}
		m, seen := a.markers[obs.MMSI]
		if !seen {
			a.markers[obs.MMSI] = &markerAnim{
				current: target,
				from:    target,
				to:      target,
				step:    smoothingSteps,
			}
			a.renderer.CreateMarker(obs.MMSI, target)
			continue
		}
		m.from = m.current
		m.to = target
		m.step = 0
	}
}

// OnError marks the consumer disconnected; further ticks are ignored
// until a fresh subscription feeds a new animator
func (a *Animator) OnError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateLive {
		a.state = StateDisconnected
	}
}

// frame advances every in-flight animation by one interpolation step
func (a *Animator) frame() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateDisposed {
		return
	}
	for mmsi, m := range a.markers {
		if m.step >= smoothingSteps {
			continue
		}
		m.step++
		t := float64(m.step) / float64(smoothingSteps)
		m.current = domain.Coordinate{
			Lat: utils.Lerp(m.from.Lat, m.to.Lat, t),
			Lon: utils.Lerp(m.from.Lon, m.to.Lon, t),
		}
		a.renderer.MoveMarker(mmsi, m.current)
	}
}

// Dispose removes every marker of this playback session and cancels the
// frame subscription. No renderer call is made after it returns.
func (a *Animator) Dispose() {
	a.mu.Lock()
	if a.state == StateDisposed {
		a.mu.Unlock()
		return
	}
	a.state = StateDisposed
	mmsis := make([]int64, 0, len(a.markers))
	for mmsi := range a.markers {
		mmsis = append(mmsis, mmsi)
	}
	a.markers = make(map[int64]*markerAnim)
	a.mu.Unlock()

	// cancel outside the lock; a frame callback may be waiting on it
	a.cancelFrames()
	for _, mmsi := range mmsis {
		a.renderer.RemoveMarker(mmsi)
	}
}

// TraceID returns the correlation id adopted from the first tick, or a
// locally synthesized fallback when the tick carried none
func (a *Animator) TraceID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.traceID
}

// State reports live, complete, disconnected or disposed
func (a *Animator) State() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// MarkerPosition returns the currently displayed coordinate for a vessel
func (a *Animator) MarkerPosition(mmsi int64) (domain.Coordinate, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.markers[mmsi]
	if !ok {
		return domain.Coordinate{}, false
	}
	return m.current, true
}
