package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/seawatch/backend/internal/broadcast"
	"github.com/seawatch/backend/internal/delivery/http"
	"github.com/seawatch/backend/internal/replay"
	"github.com/seawatch/backend/internal/repository/postgres"
	"github.com/seawatch/backend/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Configuration
	cfg := loadConfig()

	// Database connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: Could not connect to database: %v", err)
			pool = nil
		}
	}
	if pool == nil {
		log.Println("Running with mock data only")
	} else {
		defer pool.Close()
		log.Println("Connected to PostgreSQL")
	}

	// Dependency Injection: Repositories
	var repo service.TrajectoryRepository
	if pool != nil {
		repo = postgres.NewPostgresRepository(pool)
	} else {
		repo = postgres.NewMockRepository()
	}

	// Telemetry broadcast channel and replay producer
	bus := broadcast.NewBus()
	defer bus.Close()
	producer := replay.NewProducer(bus, cfg.LiveTopic, replay.NewLinearSynthesizer(cfg.PathJitter))

	// Dependency Injection: Services
	fleetSvc := service.NewFleetService(cfg.AISAggregatorKey)
	insight := service.NewInsightBridge(cfg.InsightServiceURL)
	dashboardSvc := service.NewDashboardService(fleetSvc, repo)
	liveSvc := service.NewLiveService(producer, repo)
	defer liveSvc.Stop()

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "SeaWatch API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	handler := http.NewHandler(dashboardSvc, insight, liveSvc, repo)
	http.SetupRoutes(app, handler, bus, cfg.LiveTopic)

	// Graceful shutdown
	go func() {
		port := cfg.Port
		if port == "" {
			port = "8080"
		}
		log.Printf("Server starting on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}

type Config struct {
	DatabaseURL       string
	InsightServiceURL string
	AISAggregatorKey  string
	LiveTopic         string
	PathJitter        float64
	Port              string
	Env               string
}

func loadConfig() *Config {
	return &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		InsightServiceURL: getEnv("INSIGHT_SERVICE_URL", "http://localhost:8000"),
		AISAggregatorKey:  getEnv("AIS_AGGREGATOR_KEY", ""),
		LiveTopic:         getEnv("LIVE_TOPIC", "vessel-telemetry"),
		PathJitter:        getEnvFloat("PATH_JITTER", 0.0005),
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("GO_ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
