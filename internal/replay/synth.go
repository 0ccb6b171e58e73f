package replay

import (
	"math/rand"

	"github.com/seawatch/backend/internal/domain"
	"github.com/seawatch/backend/pkg/utils"
)

// PathSynthesizer turns one trajectory summary into a playable sequence
// of vessel observations. Implementations returning nil (for example
// when the summary lacks endpoints) exclude the vessel from playback.
//
// The linear synthesizer below fabricates speed, course and jitter for
// demo purposes; real trajectory data with measured timestamp/speed/
// course arrays can be substituted here without touching the
// tick-emission mechanics.
type PathSynthesizer interface {
	Synthesize(trajectory domain.TrajectorySummary, points int) []domain.VesselObservation
}

// LinearSynthesizer interpolates positions on a straight line between
// the trajectory endpoints in lat/lon space
type LinearSynthesizer struct {
	// Jitter is the maximum absolute per-point offset in degrees applied
	// to every point after the first. Zero disables jitter.
	Jitter float64
}

// fixIntervalMinutes is the simulated time between successive fixes;
// synthetic speeds derive from it and the segment distance
const fixIntervalMinutes = 5.0

// kmPerNauticalMile converts segment speeds to knots
const kmPerNauticalMile = 1.852

// NewLinearSynthesizer creates a synthesizer with the given jitter
func NewLinearSynthesizer(jitter float64) *LinearSynthesizer {
	return &LinearSynthesizer{Jitter: jitter}
}

// Synthesize generates exactly points observations for a trajectory with
// both endpoints, and nothing for one missing either endpoint. The first
// point is the exact start coordinate; course is the start-to-end
// bearing; speed is randomized within a plausible range.
func (s *LinearSynthesizer) Synthesize(trajectory domain.TrajectorySummary, points int) []domain.VesselObservation {
	if !trajectory.HasEndpoints() || points <= 0 {
		return nil
	}

	start, end := *trajectory.Start, *trajectory.End
	course := utils.Bearing(start.Lat, start.Lon, end.Lat, end.Lon)

	path := make([]domain.VesselObservation, 0, points)
	for i := 0; i < points; i++ {
		t := 0.0
		if points > 1 {
			t = float64(i) / float64(points-1)
		}
		lat := utils.Lerp(start.Lat, end.Lat, t)
		lon := utils.Lerp(start.Lon, end.Lon, t)
		if s.Jitter > 0 && i > 0 {
			lat += (rand.Float64()*2 - 1) * s.Jitter
			lon += (rand.Float64()*2 - 1) * s.Jitter
		}

		speed := 0.0
		if len(path) > 0 {
			prev := path[len(path)-1]
			speed = segmentSpeedKnots(prev.Lat, prev.Lon, lat, lon)
		}
		crs := utils.RoundTo(course, 1)
		path = append(path, domain.VesselObservation{
			MMSI:   trajectory.MMSI,
			Lat:    lat,
			Lon:    lon,
			Speed:  &speed,
			Course: &crs,
			Idx:    i,
		})
	}
	// the first fix has no preceding segment; reuse the outbound speed
	if len(path) > 1 {
		*path[0].Speed = *path[1].Speed
	}
	return path
}

// segmentSpeedKnots converts the great-circle distance covered in one
// fix interval into a speed over ground
func segmentSpeedKnots(fromLat, fromLon, toLat, toLon float64) float64 {
	km := utils.Haversine(fromLat, fromLon, toLat, toLon)
	return utils.RoundTo(km/fixIntervalMinutes*60/kmPerNauticalMile, 1)
}
