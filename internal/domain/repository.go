package domain

import (
	"context"
)

// TrajectoryRepository defines the interface for data persistence
// This follows the Dependency Inversion Principle - domain defines the interface
type TrajectoryRepository interface {
	// GetTrajectories retrieves the most recent trajectory seeds
	GetTrajectories(ctx context.Context, limit int) ([]TrajectorySummary, error)

	// SaveTrajectories persists trajectory seeds under a trace id
	SaveTrajectories(ctx context.Context, traceID string, trajectories []TrajectorySummary) error

	// SaveProposalDecision persists a human approve/dismiss action
	SaveProposalDecision(ctx context.Context, decision ProposalDecision) error

	// Health checks database connectivity
	Health(ctx context.Context) error
}
