package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/seawatch/backend/internal/domain"
)

// InsightBridge handles communication with the external
// retrieval-and-generation service (vector search + hosted LLM)
type InsightBridge struct {
	serviceURL string
	httpClient *http.Client
}

// NewInsightBridge creates a new insight bridge
func NewInsightBridge(serviceURL string) *InsightBridge {
	return &InsightBridge{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Query forwards a natural-language prompt to the insight service and
// returns the reasoning trace, proposal and trajectory summaries
func (b *InsightBridge) Query(ctx context.Context, req domain.QueryRequest) (domain.QueryResponse, error) {
	// Prepare request body
	body, err := json.Marshal(req)
	if err != nil {
		return domain.QueryResponse{}, fmt.Errorf("insight_bridge: failed to marshal request: %w", err)
	}

	// Create HTTP request
	url := fmt.Sprintf("%s/query", b.serviceURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.QueryResponse{}, fmt.Errorf("insight_bridge: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	// Execute request
	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		// Return mock insight on network error
		return b.getMockInsight(req), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return b.getMockInsight(req), nil
	}

	// Parse response
	var insight domain.QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&insight); err != nil {
		return domain.QueryResponse{}, fmt.Errorf("insight_bridge: failed to decode response: %w", err)
	}

	if insight.TraceID == "" {
		insight.TraceID = uuid.NewString()
	}

	return insight, nil
}

// Health checks insight service connectivity
func (b *InsightBridge) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", b.serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("insight_bridge: failed to create health request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("insight_bridge: health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("insight_bridge: health check returned status %d", resp.StatusCode)
	}

	return nil
}

// getMockInsight returns a fallback anomaly analysis for demo mode
func (b *InsightBridge) getMockInsight(req domain.QueryRequest) domain.QueryResponse {
	start1 := domain.Coordinate{Lat: 78.10, Lon: 15.50}
	end1 := domain.Coordinate{Lat: 78.30, Lon: 15.70}
	start2 := domain.Coordinate{Lat: 78.45, Lon: 16.10}
	end2 := domain.Coordinate{Lat: 78.20, Lon: 15.30}
	start3 := domain.Coordinate{Lat: 78.05, Lon: 14.20}

	return domain.QueryResponse{
		TraceID: uuid.NewString(),
		Reasoning: []domain.ReasoningStep{
			{Step: 1, Title: "Retrieve trajectories", Detail: "Matched 3 vessel tracks near Isfjorden for the requested window."},
			{Step: 2, Title: "Screen for anomalies", Detail: "Vessel 211002340 shows an AIS gap of 47 minutes followed by a course deviation of 38 degrees."},
			{Step: 3, Title: "Assess context", Detail: "The deviation crosses a protected zone boundary; weather does not explain the track change."},
		},
		Proposal: domain.Proposal{
			ID:       uuid.NewString(),
			Action:   "flag_for_inspection",
			Severity: "medium",
			Summary:  "Flag vessel 211002340 for inspection: unexplained AIS gap and course deviation near a protected zone.",
			MMSI:     211002340,
		},
		Trajectories: []domain.TrajectorySummary{
			{MMSI: 211002340, ShipType: "fishing", Start: &start1, End: &end1, PointCount: 20},
			{MMSI: 257001100, ShipType: "cargo", Start: &start2, End: &end2, PointCount: 20},
			// last report only, no destination fix yet
			{MMSI: 273456789, ShipType: "tanker", Start: &start3},
		},
		ConfidenceScore: 0.72,
		IsMock:          true,
	}
}
