package service

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seawatch/backend/internal/domain"
)

// trajectoryFetchLimit bounds how many seeds the dashboard shows
const trajectoryFetchLimit = 25

// DashboardService aggregates all live data
type DashboardService struct {
	fleetSvc *FleetService
	repo     TrajectoryRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(fleetSvc *FleetService, repo TrajectoryRepository) *DashboardService {
	return &DashboardService{
		fleetSvc: fleetSvc,
		repo:     repo,
	}
}

// GetDashboardData fetches fleet status and trajectory seeds concurrently
func (s *DashboardService) GetDashboardData(ctx context.Context) (domain.DashboardData, error) {
	var (
		fleet        domain.FleetStatus
		trajectories []domain.TrajectorySummary
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		f, err := s.fleetSvc.GetFleetStatus(gctx)
		if err != nil {
			return err
		}
		fleet = f
		return nil
	})

	g.Go(func() error {
		t, err := s.repo.GetTrajectories(gctx, trajectoryFetchLimit)
		if err != nil {
			return err
		}
		trajectories = t
		return nil
	})

	// Even with a partial failure, return what we have
	if err := g.Wait(); err != nil {
		log.Printf("Dashboard data fetch error: %v", err)
	}

	return domain.DashboardData{
		Fleet:        fleet,
		Trajectories: trajectories,
		MapCenter:    domain.Coordinate{Lat: domain.SvalbardCenterLat, Lon: domain.SvalbardCenterLon},
		Timestamp:    time.Now(),
	}, nil
}

// GetFleet returns current fleet status
func (s *DashboardService) GetFleet(ctx context.Context) (domain.FleetStatus, error) {
	return s.fleetSvc.GetFleetStatus(ctx)
}

// GetTrajectories returns the most recent trajectory seeds
func (s *DashboardService) GetTrajectories(ctx context.Context) ([]domain.TrajectorySummary, error) {
	return s.repo.GetTrajectories(ctx, trajectoryFetchLimit)
}
