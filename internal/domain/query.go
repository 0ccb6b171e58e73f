package domain

import "time"

// QueryRequest represents a natural-language prompt from the query box
type QueryRequest struct {
	Prompt   string `json:"prompt"`
	Language string `json:"language,omitempty"`
}

// ReasoningStep is one entry of the displayed reasoning trace
type ReasoningStep struct {
	Step   int    `json:"step"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Proposal is an actionable suggestion awaiting a human decision
type Proposal struct {
	ID       string `json:"id"`
	Action   string `json:"action"`
	Severity string `json:"severity"` // "low", "medium", "high"
	Summary  string `json:"summary"`
	MMSI     int64  `json:"mmsi,omitempty"`
}

// QueryResponse is the insight service output rendered by the dashboard
type QueryResponse struct {
	TraceID         string              `json:"trace_id"`
	Reasoning       []ReasoningStep     `json:"reasoning"`
	Proposal        Proposal            `json:"proposal"`
	Trajectories    []TrajectorySummary `json:"trajectories"`
	ConfidenceScore float64             `json:"confidence_score"`
	IsMock          bool                `json:"is_mock"`
}

// ProposalDecision records a human approve/dismiss action
type ProposalDecision struct {
	ProposalID string    `json:"proposal_id"`
	Action     string    `json:"action"` // "approve" or "dismiss"
	Note       string    `json:"note,omitempty"`
	DecidedAt  time.Time `json:"decided_at"`
}
