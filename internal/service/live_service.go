package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/seawatch/backend/internal/domain"
	"github.com/seawatch/backend/internal/replay"
)

// ErrNoTrajectories is returned by Start when neither the request nor
// the repository yields anything to replay
var ErrNoTrajectories = errors.New("live: no trajectories to replay")

// Live playback states surfaced through /live/status
const (
	LiveIdle      = "idle"
	LiveStreaming = "streaming"
	LiveComplete  = "complete"
	LiveStopped   = "stopped"
)

// StartLiveRequest configures one playback session
type StartLiveRequest struct {
	TraceID       string                     `json:"traceId,omitempty"`
	TickRate      int                        `json:"tickRate,omitempty"`
	PointsPerPath int                        `json:"pointsPerPath,omitempty"`
	Trajectories  []domain.TrajectorySummary `json:"trajectories,omitempty"`
}

// LiveStatus describes the current playback session for the UI
type LiveStatus struct {
	State    string  `json:"state"`
	TraceID  string  `json:"trace_id,omitempty"`
	Progress float64 `json:"progress"`
}

// LiveService owns the single active playback session. Exactly one
// producer publishes to the telemetry topic at a time; starting a new
// session replaces the running one.
type LiveService struct {
	producer *replay.Producer
	repo     TrajectoryRepository

	mu      sync.Mutex
	session *replay.Session
	state   string
}

// NewLiveService creates a live service over producer and repo
func NewLiveService(producer *replay.Producer, repo TrajectoryRepository) *LiveService {
	return &LiveService{
		producer: producer,
		repo:     repo,
		state:    LiveIdle,
	}
}

// Start begins a playback session. Trajectories default to the most
// recent seeds in the repository when the request carries none.
func (s *LiveService) Start(ctx context.Context, req StartLiveRequest) (string, error) {
	trajectories := req.Trajectories
	if len(trajectories) == 0 {
		var err error
		trajectories, err = s.repo.GetTrajectories(ctx, trajectoryFetchLimit)
		if err != nil {
			return "", fmt.Errorf("live: failed to load trajectories: %w", err)
		}
	}
	if len(trajectories) == 0 {
		return "", ErrNoTrajectories
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		s.session.Stop()
	}

	session := s.producer.Start(replay.SessionConfig{
		TraceID:       req.TraceID,
		TickRate:      req.TickRate,
		PointsPerPath: req.PointsPerPath,
	}, trajectories)
	s.session = session
	s.state = LiveStreaming

	// flip to complete when this session (and not a successor) finishes
	go func() {
		<-session.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.session == session && session.Completed() {
			s.state = LiveComplete
		}
	}()

	return session.TraceID(), nil
}

// Stop halts the active session without a completion tick. A no-op when
// nothing is streaming.
func (s *LiveService) Stop() {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()

	if session == nil {
		return
	}
	session.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == session && !session.Completed() {
		s.state = LiveStopped
	}
}

// Status reports the current playback state and progress
func (s *LiveService) Status() LiveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := LiveStatus{State: s.state}
	if s.session != nil {
		status.TraceID = s.session.TraceID()
		status.Progress = s.session.Progress()
	}
	return status
}
