// LearnScope - Behavioral Signal Detection & Adaptive Learning Server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/learnscope/learnscope/internal/adapt"
	"github.com/learnscope/learnscope/internal/api"
	"github.com/learnscope/learnscope/internal/config"
	"github.com/learnscope/learnscope/internal/detect"
	"github.com/learnscope/learnscope/internal/dialog"
	"github.com/learnscope/learnscope/internal/generation"
	"github.com/learnscope/learnscope/internal/identity"
	"github.com/learnscope/learnscope/internal/iep"
	"github.com/learnscope/learnscope/internal/knowledge"
	"github.com/learnscope/learnscope/internal/middleware"
	"github.com/learnscope/learnscope/internal/store"
	"github.com/learnscope/learnscope/internal/telemetry"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// Initialize services.
	sessions := telemetry.NewSessionManager()
	detector := detect.New(cfg.Detector)
	history := detect.NewHistoryStore()
	kb := knowledge.NewBase()
	synth := iep.NewSynthesizer()

	dialogLogger, err := dialog.NewLogger(dialog.Config{
		Enabled:   cfg.DialogLog.Enabled,
		Path:      cfg.DialogLog.Path,
		QueueSize: cfg.DialogLog.QueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize dialog logger", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := dialogLogger.Close(); closeErr != nil {
			slog.Error("Failed to close dialog logger", "error", closeErr)
		}
	}()

	// Initialize the text-generation collaborator (optional).
	var engine *adapt.Engine
	aiEnabled := false
	if cfg.Gemini.APIKey != "" {
		gemini, err := generation.NewGeminiClient(context.Background(), generation.GeminiConfig{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		}, logger)
		if err != nil {
			slog.Warn("Failed to connect to Gemini, AI features will be disabled", "error", err)
		} else {
			engine = adapt.NewEngine(gemini, kb, cfg.GenerationTimeout)
			aiEnabled = true
		}
	}
	if !aiEnabled {
		slog.Info("AI features disabled (GEMINI_API_KEY not set or connection failed)")
	}

	// Initialize handlers.
	baseHandler := api.NewHandler(repo, sessions)
	healthHandler := api.NewHealthHandler(repo, aiEnabled)
	learningHandler := api.NewLearningHandler(baseHandler, detector, history)
	contentHandler := api.NewContentHandler(baseHandler, engine, dialogLogger,
		api.NewRateLimiter(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowDuration), aiEnabled)
	iepHandler := api.NewIEPHandler(baseHandler, synth, history)
	knowledgeHandler := api.NewKnowledgeHandler(kb)
	studentHandler := api.NewStudentHandler(baseHandler)
	wsHandler := telemetry.NewWebSocketHandler(sessions, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(identity.Middleware(repo, cfg.IsDevelopment()))

	// Public routes.
	healthHandler.RegisterHealth(r)

	// All routes use identity middleware (no auth needed).
	learningHandler.RegisterRoutes(r)
	contentHandler.RegisterRoutes(r)
	iepHandler.RegisterRoutes(r)
	knowledgeHandler.RegisterRoutes(r)
	studentHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/telemetry", wsHandler.ServeHTTP)

	// Create server.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start telemetry sweeper.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetry.StartSweeper(ctx, sessions, cfg.SessionTTL, func(userID, sessionID string, metrics telemetry.Metrics) {
		result, detected := detector.Analyze(metrics)
		if !detected {
			return
		}
		history.Append(userID, *result)
		slog.Info("Signal detected on session expiry",
			"user_id", userID,
			"session_id", sessionID,
			"condition", result.Condition,
			"confidence", result.Confidence)
	})
	slog.Info("Telemetry sweeper started", "session_ttl", cfg.SessionTTL)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
