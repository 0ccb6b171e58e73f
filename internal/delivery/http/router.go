package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seawatch/backend/internal/broadcast"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler, channel broadcast.Channel, liveTopic string) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// Dashboard endpoints
		api.Get("/dashboard", handler.GetDashboard)
		api.Get("/fleet", handler.GetFleet)
		api.Get("/trajectories", handler.GetTrajectories)

		// Query endpoint (proxies to the insight service)
		api.Post("/query", handler.Query)

		// Human approve/dismiss actions
		api.Post("/proposals/:id/decision", handler.DecideProposal)

		// Live telemetry playback control
		api.Post("/live/start", handler.StartLive)
		api.Post("/live/stop", handler.StopLive)
		api.Get("/live/status", handler.LiveStatus)
	}

	// Telemetry broadcast relay
	app.Use("/ws", RequireWebSocketUpgrade)
	app.Get("/ws/live", LiveSocketHandler(channel, liveTopic))
}
