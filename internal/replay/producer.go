package replay

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/seawatch/backend/internal/broadcast"
	"github.com/seawatch/backend/internal/domain"
	"github.com/seawatch/backend/pkg/utils"
)

const (
	// DefaultPointsPerPath is how many interpolation points each
	// trajectory is expanded to when the caller does not choose
	DefaultPointsPerPath = 20

	// Tick rate bounds in ticks per second
	MinTickRate = 1
	MaxTickRate = 10
)

// Producer turns static trajectory summaries into a time-ordered
// animation published to a broadcast topic, one playback session at a
// time per Session value.
type Producer struct {
	channel broadcast.Channel
	topic   string
	synth   PathSynthesizer
}

// NewProducer creates a producer publishing to topic on channel
func NewProducer(channel broadcast.Channel, topic string, synth PathSynthesizer) *Producer {
	return &Producer{channel: channel, topic: topic, synth: synth}
}

// SessionConfig controls one playback session
type SessionConfig struct {
	// TraceID correlates all ticks of the session; synthesized when empty
	TraceID string

	// TickRate in ticks per second, clamped to [MinTickRate, MaxTickRate]
	TickRate int

	// PointsPerPath overrides DefaultPointsPerPath when positive
	PointsPerPath int
}

// Session is one run of the producer, from start to natural completion
// or user-initiated stop
type Session struct {
	traceID   string
	maxPoints int

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	emitted   atomic.Int64
	completed atomic.Bool
}

// path is one vessel's remaining playback state
type path struct {
	points []domain.VesselObservation
	next   int
}

// Start synthesizes paths for the given trajectories and begins emitting
// ticks on a fixed-period timer. Trajectories lacking endpoints are
// skipped entirely. When every path is exhausted, one final tick with an
// empty vessel list and the done flag is published and the timer stops.
func (p *Producer) Start(cfg SessionConfig, trajectories []domain.TrajectorySummary) *Session {
	traceID := cfg.TraceID
	if traceID == "" {
		traceID = uuid.NewString()
	}
	rate := utils.ClampInt(cfg.TickRate, MinTickRate, MaxTickRate)
	points := cfg.PointsPerPath
	if points <= 0 {
		points = DefaultPointsPerPath
	}

	var paths []*path
	maxPoints := 0
	for _, trajectory := range trajectories {
		seq := p.synth.Synthesize(trajectory, points)
		if len(seq) == 0 {
			continue
		}
		paths = append(paths, &path{points: seq})
		if len(seq) > maxPoints {
			maxPoints = len(seq)
		}
	}

	s := &Session{
		traceID:   traceID,
		maxPoints: maxPoints,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	interval := time.Duration(1000/rate) * time.Millisecond
	go p.run(s, paths, interval)

	log.Printf("replay: session %s started, %d vessels, %d ticks/s", traceID, len(paths), rate)
	return s
}

func (p *Producer) run(s *Session, paths []*path, interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case ts := <-ticker.C:
			// a stop racing the timer wins; nothing fires after Stop returns
			select {
			case <-s.stop:
				return
			default:
			}

			batch := make([]domain.VesselObservation, 0, len(paths))
			for _, pp := range paths {
				if pp.next >= len(pp.points) {
					continue
				}
				batch = append(batch, pp.points[pp.next])
				pp.next++
			}

			if len(batch) == 0 {
				if err := p.channel.Publish(p.topic, &domain.Tick{
					TraceID: s.traceID,
					TS:      ts.UnixMilli(),
					Vessels: []domain.VesselObservation{},
					Done:    true,
				}); err != nil {
					log.Printf("replay: publish done tick failed: %v", err)
				}
				s.completed.Store(true)
				log.Printf("replay: session %s complete after %d ticks", s.traceID, s.emitted.Load())
				return
			}

			if err := p.channel.Publish(p.topic, &domain.Tick{
				TraceID: s.traceID,
				TS:      ts.UnixMilli(),
				Vessels: batch,
			}); err != nil {
				log.Printf("replay: publish tick failed: %v", err)
			}
			s.emitted.Add(1)
		}
	}
}

// TraceID returns the session correlation id
func (s *Session) TraceID() string {
	return s.traceID
}

// Stop halts the timer immediately without emitting a completion tick.
// When it returns, no further tick of this session will be published.
// Safe to call more than once and after natural completion.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

// Done is closed once the session has finished, naturally or by Stop
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Completed reports whether the session finished naturally, i.e. the
// done tick was published
func (s *Session) Completed() bool {
	return s.completed.Load()
}

// Progress reports ticks emitted over the longest path length, in [0, 1]
func (s *Session) Progress() float64 {
	if s.maxPoints == 0 {
		return 1
	}
	return utils.Clamp(float64(s.emitted.Load())/float64(s.maxPoints), 0, 1)
}
