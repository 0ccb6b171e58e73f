package http

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/seawatch/backend/internal/domain"
	"github.com/seawatch/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	dashboardSvc *service.DashboardService
	insight      *service.InsightBridge
	live         *service.LiveService
	repo         service.TrajectoryRepository
}

// NewHandler creates a new handler
func NewHandler(dashboardSvc *service.DashboardService, insight *service.InsightBridge, live *service.LiveService, repo service.TrajectoryRepository) *Handler {
	return &Handler{
		dashboardSvc: dashboardSvc,
		insight:      insight,
		live:         live,
		repo:         repo,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "seawatch-backend",
		"version": "1.0.0",
	})
}

// GetDashboard returns aggregated live data
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	ctx := c.Context()

	data, err := h.dashboardSvc.GetDashboardData(ctx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch dashboard data")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// GetFleet returns the current fleet status
func (h *Handler) GetFleet(c *fiber.Ctx) error {
	ctx := c.Context()

	fleet, err := h.dashboardSvc.GetFleet(ctx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fleet status")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fleet,
	})
}

// GetTrajectories returns the most recent trajectory seeds
func (h *Handler) GetTrajectories(c *fiber.Ctx) error {
	ctx := c.Context()

	trajectories, err := h.dashboardSvc.GetTrajectories(ctx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch trajectories")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    trajectories,
		"count":   len(trajectories),
	})
}

// Query proxies a natural-language prompt to the insight service
func (h *Handler) Query(c *fiber.Ctx) error {
	ctx := c.Context()

	var req domain.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Prompt == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Prompt is required")
	}

	insight, err := h.insight.Query(ctx, req)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to get insight")
	}

	// Persist the returned trajectory seeds asynchronously
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if saveErr := h.repo.SaveTrajectories(bgCtx, insight.TraceID, insight.Trajectories); saveErr != nil {
			log.Printf("Failed to save trajectory seeds: %v", saveErr)
		}
	}()

	return c.JSON(fiber.Map{
		"success": true,
		"data":    insight,
	})
}

// DecideProposal records a human approve/dismiss action on a proposal
func (h *Handler) DecideProposal(c *fiber.Ctx) error {
	ctx := c.Context()

	proposalID := c.Params("id")
	if proposalID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Proposal id is required")
	}

	var body struct {
		Action string `json:"action"`
		Note   string `json:"note,omitempty"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if body.Action != "approve" && body.Action != "dismiss" {
		return fiber.NewError(fiber.StatusBadRequest, "Action must be approve or dismiss")
	}

	decision := domain.ProposalDecision{
		ProposalID: proposalID,
		Action:     body.Action,
		Note:       body.Note,
		DecidedAt:  time.Now(),
	}
	if err := h.repo.SaveProposalDecision(ctx, decision); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save decision")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    decision,
	})
}

// StartLive begins a telemetry playback session
func (h *Handler) StartLive(c *fiber.Ctx) error {
	ctx := c.Context()

	var req service.StartLiveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	traceID, err := h.live.Start(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrNoTrajectories) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"trace_id": traceID,
	})
}

// StopLive halts the active playback session
func (h *Handler) StopLive(c *fiber.Ctx) error {
	h.live.Stop()
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.live.Status(),
	})
}

// LiveStatus reports the playback session state
func (h *Handler) LiveStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.live.Status(),
	})
}
