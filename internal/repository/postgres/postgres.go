package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seawatch/backend/internal/domain"
)

// PostgresRepository implements domain.TrajectoryRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetTrajectories retrieves the most recent trajectory seeds
func (r *PostgresRepository) GetTrajectories(ctx context.Context, limit int) ([]domain.TrajectorySummary, error) {
	query := `
		SELECT mmsi, ship_type, start_lat, start_lon, end_lat, end_lon, point_count
		FROM trajectory_seeds
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query trajectories: %w", err)
	}
	defer rows.Close()

	var results []domain.TrajectorySummary
	for rows.Next() {
		var (
			t                  domain.TrajectorySummary
			shipType           *string
			startLat, startLon *float64
			endLat, endLon     *float64
			pointCount         *int
		)
		err := rows.Scan(&t.MMSI, &shipType, &startLat, &startLon, &endLat, &endLon, &pointCount)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan trajectory row: %w", err)
		}
		if shipType != nil {
			t.ShipType = *shipType
		}
		if startLat != nil && startLon != nil {
			t.Start = &domain.Coordinate{Lat: *startLat, Lon: *startLon}
		}
		if endLat != nil && endLon != nil {
			t.End = &domain.Coordinate{Lat: *endLat, Lon: *endLon}
		}
		if pointCount != nil {
			t.PointCount = *pointCount
		}
		results = append(results, t)
	}

	return results, nil
}

// SaveTrajectories persists trajectory seeds under a trace id
func (r *PostgresRepository) SaveTrajectories(ctx context.Context, traceID string, trajectories []domain.TrajectorySummary) error {
	query := `
		INSERT INTO trajectory_seeds (
			trace_id, mmsi, ship_type, start_lat, start_lon, end_lat, end_lon, point_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, t := range trajectories {
		var startLat, startLon, endLat, endLon *float64
		if t.Start != nil {
			startLat, startLon = &t.Start.Lat, &t.Start.Lon
		}
		if t.End != nil {
			endLat, endLon = &t.End.Lat, &t.End.Lon
		}

		_, err := r.pool.Exec(ctx, query,
			traceID, t.MMSI, t.ShipType, startLat, startLon, endLat, endLon, t.PointCount,
		)
		if err != nil {
			return fmt.Errorf("postgres: failed to save trajectory: %w", err)
		}
	}

	return nil
}

// SaveProposalDecision persists a human approve/dismiss action
func (r *PostgresRepository) SaveProposalDecision(ctx context.Context, decision domain.ProposalDecision) error {
	query := `
		INSERT INTO proposal_decisions (
			proposal_id, action, note, decided_at
		) VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		decision.ProposalID, decision.Action, decision.Note, decision.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save proposal decision: %w", err)
	}

	return nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
