package service

import (
	"github.com/seawatch/backend/internal/domain"
)

// TrajectoryRepository is re-exported from domain for convenience
type TrajectoryRepository = domain.TrajectoryRepository
