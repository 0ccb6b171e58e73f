package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/seawatch/backend/internal/broadcast"
	"github.com/seawatch/backend/internal/domain"
	"github.com/seawatch/backend/internal/replay"
	"github.com/seawatch/backend/internal/repository/postgres"
)

func newLiveFixture(t *testing.T) (*LiveService, *broadcast.Bus) {
	t.Helper()
	bus := broadcast.NewBus()
	t.Cleanup(bus.Close)

	producer := replay.NewProducer(bus, "vessel-telemetry", replay.NewLinearSynthesizer(0))
	return NewLiveService(producer, postgres.NewMockRepository()), bus
}

func TestLiveServiceLifecycle(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	live, _ := newLiveFixture(t)
	assert.Equal(t, LiveIdle, live.Status().State)

	traceID, err := live.Start(context.Background(), StartLiveRequest{
		TickRate:      10,
		PointsPerPath: 50,
	})
	require.NoError(t, err)
	require.NotEmpty(t, traceID)
	assert.Equal(t, LiveStreaming, live.Status().State)
	assert.Equal(t, traceID, live.Status().TraceID)

	live.Stop()
	assert.Equal(t, LiveStopped, live.Status().State)

	// idempotent
	live.Stop()
	assert.Equal(t, LiveStopped, live.Status().State)
}

func TestLiveServiceNaturalCompletion(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	live, _ := newLiveFixture(t)

	_, err := live.Start(context.Background(), StartLiveRequest{
		TickRate:      10,
		PointsPerPath: 2,
	})
	require.NoError(t, err)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if live.Status().State == LiveComplete {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, LiveComplete, live.Status().State)
	assert.Equal(t, 1.0, live.Status().Progress)

	// stopping a completed session keeps the complete state
	live.Stop()
	assert.Equal(t, LiveComplete, live.Status().State)
}

func TestLiveServiceRestartReplacesSession(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	live, _ := newLiveFixture(t)

	first, err := live.Start(context.Background(), StartLiveRequest{TickRate: 10, PointsPerPath: 100})
	require.NoError(t, err)

	second, err := live.Start(context.Background(), StartLiveRequest{TickRate: 10, PointsPerPath: 100})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, LiveStreaming, live.Status().State)
	assert.Equal(t, second, live.Status().TraceID)

	live.Stop()
}

func TestLiveServiceExplicitTrajectories(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	live, bus := newLiveFixture(t)

	got := make(chan *domain.Tick, 64)
	unsub, err := bus.Subscribe("vessel-telemetry", func(tick *domain.Tick) {
		got <- tick
	}, nil)
	require.NoError(t, err)
	defer unsub()

	start := domain.Coordinate{Lat: 78.1, Lon: 15.5}
	end := domain.Coordinate{Lat: 78.3, Lon: 15.7}
	_, err = live.Start(context.Background(), StartLiveRequest{
		TickRate:      10,
		PointsPerPath: 2,
		Trajectories: []domain.TrajectorySummary{
			{MMSI: 999000111, Start: &start, End: &end},
		},
	})
	require.NoError(t, err)

	select {
	case tick := <-got:
		require.Len(t, tick.Vessels, 1)
		assert.Equal(t, int64(999000111), tick.Vessels[0].MMSI)
	case <-time.After(5 * time.Second):
		t.Fatal("no tick received")
	}
	live.Stop()
}

func TestLiveServiceRejectsEmptyPlaylist(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	bus := broadcast.NewBus()
	t.Cleanup(bus.Close)
	producer := replay.NewProducer(bus, "vessel-telemetry", replay.NewLinearSynthesizer(0))
	live := NewLiveService(producer, emptyRepo{})

	_, err := live.Start(context.Background(), StartLiveRequest{})
	assert.ErrorIs(t, err, ErrNoTrajectories)
	assert.Equal(t, LiveIdle, live.Status().State)
}

// emptyRepo returns no trajectories
type emptyRepo struct{}

func (emptyRepo) GetTrajectories(ctx context.Context, limit int) ([]domain.TrajectorySummary, error) {
	return nil, nil
}

func (emptyRepo) SaveTrajectories(ctx context.Context, traceID string, trajectories []domain.TrajectorySummary) error {
	return nil
}

func (emptyRepo) SaveProposalDecision(ctx context.Context, decision domain.ProposalDecision) error {
	return nil
}

func (emptyRepo) Health(ctx context.Context) error { return nil }
