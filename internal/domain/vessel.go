package domain

import "time"

// Coordinate is a WGS84 position
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TrajectorySummary seeds synthetic playback for one vessel.
// Immutable once retrieved; trajectories missing either endpoint
// produce no observations during replay.
type TrajectorySummary struct {
	MMSI       int64       `json:"mmsi"`
	ShipType   string      `json:"ship_type,omitempty"`
	Start      *Coordinate `json:"start,omitempty"`
	End        *Coordinate `json:"end,omitempty"`
	PointCount int         `json:"point_count,omitempty"`
}

// HasEndpoints reports whether the trajectory can be replayed
func (t TrajectorySummary) HasEndpoints() bool {
	return t.Start != nil && t.End != nil
}

// VesselObservation is one vessel position inside a tick.
// Speed and course are synthetic during replay.
type VesselObservation struct {
	MMSI   int64    `json:"mmsi"`
	Lat    float64  `json:"lat"`
	Lon    float64  `json:"lon"`
	Speed  *float64 `json:"speed,omitempty"`
	Course *float64 `json:"course,omitempty"`
	Idx    int      `json:"idx"`
}

// Tick is one timestamped batch of vessel observations broadcast to
// subscribers. TS is epoch milliseconds. Done marks the terminal tick
// of a playback session and always carries an empty vessel list.
type Tick struct {
	TraceID string              `json:"traceId"`
	TS      int64               `json:"ts"`
	Vessels []VesselObservation `json:"vessels"`
	Done    bool                `json:"done,omitempty"`
}

// FleetStatus summarizes current monitoring coverage
type FleetStatus struct {
	VesselsTracked  int       `json:"vessels_tracked"`
	AnomaliesOpen   int       `json:"anomalies_open"`
	CoveragePercent float64   `json:"coverage_percent"`
	AverageSpeedKn  float64   `json:"average_speed_kn"`
	Timestamp       time.Time `json:"timestamp"`
	IsMock          bool      `json:"is_mock"`
}

// DashboardData aggregates everything the dashboard renders at once
type DashboardData struct {
	Fleet        FleetStatus         `json:"fleet"`
	Trajectories []TrajectorySummary `json:"trajectories"`
	MapCenter    Coordinate          `json:"map_center"`
	Timestamp    time.Time           `json:"timestamp"`
}

// Svalbard monitoring area center
const (
	SvalbardCenterLat = 78.2232
	SvalbardCenterLon = 15.6267
)
