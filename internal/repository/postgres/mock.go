package postgres

import (
	"context"

	"github.com/seawatch/backend/internal/domain"
)

// MockRepository implements domain.TrajectoryRepository for testing/demo mode
type MockRepository struct{}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// GetTrajectories returns mock Svalbard trajectory seeds
func (r *MockRepository) GetTrajectories(ctx context.Context, limit int) ([]domain.TrajectorySummary, error) {
	seeds := []domain.TrajectorySummary{
		{
			MMSI:       211002340,
			ShipType:   "fishing",
			Start:      &domain.Coordinate{Lat: 78.10, Lon: 15.50},
			End:        &domain.Coordinate{Lat: 78.30, Lon: 15.70},
			PointCount: 20,
		},
		{
			MMSI:       257001100,
			ShipType:   "cargo",
			Start:      &domain.Coordinate{Lat: 78.45, Lon: 16.10},
			End:        &domain.Coordinate{Lat: 78.20, Lon: 15.30},
			PointCount: 20,
		},
		{
			MMSI:     273456789,
			ShipType: "tanker",
			// single position report, no destination fix
			Start: &domain.Coordinate{Lat: 78.05, Lon: 14.20},
		},
	}

	if limit > 0 && limit < len(seeds) {
		seeds = seeds[:limit]
	}
	return seeds, nil
}

// SaveTrajectories is a no-op in mock mode
func (r *MockRepository) SaveTrajectories(ctx context.Context, traceID string, trajectories []domain.TrajectorySummary) error {
	return nil
}

// SaveProposalDecision is a no-op in mock mode
func (r *MockRepository) SaveProposalDecision(ctx context.Context, decision domain.ProposalDecision) error {
	return nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
