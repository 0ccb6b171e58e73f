package replay

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seawatch/backend/internal/domain"
	"github.com/seawatch/backend/pkg/utils"
)

func coord(lat, lon float64) *domain.Coordinate {
	return &domain.Coordinate{Lat: lat, Lon: lon}
}

func TestLinearSynthesizerPointCountAndEndpoints(t *testing.T) {
	synth := NewLinearSynthesizer(0)
	trajectory := domain.TrajectorySummary{
		MMSI:  211002340,
		Start: coord(78.1, 15.5),
		End:   coord(78.3, 15.7),
	}

	path := synth.Synthesize(trajectory, 20)
	require.Len(t, path, 20)

	assert.Equal(t, 78.1, path[0].Lat)
	assert.Equal(t, 15.5, path[0].Lon)
	assert.InDelta(t, 78.3, path[19].Lat, 1e-9)
	assert.InDelta(t, 15.7, path[19].Lon, 1e-9)

	for i, obs := range path {
		assert.Equal(t, i, obs.Idx)
		assert.Equal(t, int64(211002340), obs.MMSI)
	}
}

func TestLinearSynthesizerSkipsMissingEndpoints(t *testing.T) {
	synth := NewLinearSynthesizer(0)

	tests := []struct {
		name       string
		trajectory domain.TrajectorySummary
	}{
		{"no start", domain.TrajectorySummary{MMSI: 1, End: coord(78.3, 15.7)}},
		{"no end", domain.TrajectorySummary{MMSI: 2, Start: coord(78.1, 15.5)}},
		{"neither", domain.TrajectorySummary{MMSI: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, synth.Synthesize(tt.trajectory, 20))
		})
	}
}

func TestLinearSynthesizerSyntheticSpeedAndCourse(t *testing.T) {
	synth := NewLinearSynthesizer(0)
	trajectory := domain.TrajectorySummary{
		MMSI:  257111222,
		Start: coord(78.1, 15.5),
		End:   coord(78.3, 15.7),
	}
	wantCourse := utils.Bearing(78.1, 15.5, 78.3, 15.7)

	path := synth.Synthesize(trajectory, 10)
	require.Len(t, path, 10)
	for i, obs := range path {
		require.NotNil(t, obs.Speed)
		require.NotNil(t, obs.Course)
		assert.InDelta(t, wantCourse, *obs.Course, 0.2)
		assert.Greater(t, *obs.Speed, 0.0)
		if i == 0 {
			continue
		}
		// speed over ground is the segment distance per fix interval
		prev := path[i-1]
		km := utils.Haversine(prev.Lat, prev.Lon, obs.Lat, obs.Lon)
		want := utils.RoundTo(km/5*60/1.852, 1)
		assert.InDelta(t, want, *obs.Speed, 1e-9)
	}
	// the first fix reuses the outbound segment speed
	assert.Equal(t, *path[1].Speed, *path[0].Speed)
}

func TestLinearSynthesizerJitterBounds(t *testing.T) {
	const jitter = 0.001
	synth := NewLinearSynthesizer(jitter)
	trajectory := domain.TrajectorySummary{
		MMSI:  273456789,
		Start: coord(78.1, 15.5),
		End:   coord(78.3, 15.7),
	}

	path := synth.Synthesize(trajectory, 20)
	require.Len(t, path, 20)

	// first point is never jittered
	assert.Equal(t, 78.1, path[0].Lat)
	assert.Equal(t, 15.5, path[0].Lon)

	for i, obs := range path {
		frac := float64(i) / 19.0
		wantLat := utils.Lerp(78.1, 78.3, frac)
		wantLon := utils.Lerp(15.5, 15.7, frac)
		assert.LessOrEqual(t, math.Abs(obs.Lat-wantLat), jitter)
		assert.LessOrEqual(t, math.Abs(obs.Lon-wantLon), jitter)
	}
}

func TestLinearSynthesizerSinglePoint(t *testing.T) {
	synth := NewLinearSynthesizer(0)
	trajectory := domain.TrajectorySummary{
		MMSI:  211002340,
		Start: coord(78.1, 15.5),
		End:   coord(78.3, 15.7),
	}

	path := synth.Synthesize(trajectory, 1)
	require.Len(t, path, 1)
	assert.Equal(t, 78.1, path[0].Lat)
	assert.Equal(t, 15.5, path[0].Lon)

	// a lone fix covers no distance
	require.NotNil(t, path[0].Speed)
	assert.Equal(t, 0.0, *path[0].Speed)
}
