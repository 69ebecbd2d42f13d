package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dialdesk/backend/internal/api"
	"github.com/dialdesk/backend/internal/auth"
	"github.com/dialdesk/backend/internal/config"
	"github.com/dialdesk/backend/internal/directory"
	"github.com/dialdesk/backend/internal/metrics"
	"github.com/dialdesk/backend/internal/queue"
	"github.com/dialdesk/backend/internal/registry"
	"github.com/dialdesk/backend/internal/router"
	"github.com/dialdesk/backend/internal/storage"
	"github.com/dialdesk/backend/internal/vip"
	"github.com/dialdesk/backend/internal/websocket"
	"github.com/dialdesk/backend/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Msg("starting dialdesk routing engine")

	// Create context for background services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create persistence store (DynamoDB or noop per DYNAMO_MODE)
	store, err := storage.NewStore(ctx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}

	// Create routing core
	agentRegistry := registry.NewRegistry(store, log.Logger)
	departments := directory.NewDirectory()
	vipResolver := vip.NewStaticResolver()
	queues := queue.NewManager(log.Logger)

	callRouter := router.NewRouter(agentRegistry, departments, vipResolver, queues, log.Logger)
	callRouter.SetStore(store)

	// Drain loop matches queued calls to agents that free up
	drainLoop := router.NewDrainLoop(callRouter, nil, cfg.DrainTickInterval)
	go drainLoop.Start(ctx)

	// Create WebSocket hub and queue snapshot broadcaster
	hub := websocket.NewHub(log.Logger)
	go hub.Run()

	snapshotter := websocket.NewSnapshotter(hub, callRouter, cfg.SnapshotInterval, log.Logger)
	go snapshotter.Start(ctx)

	wsHandler := websocket.NewHandler(hub, cfg, log.Logger)

	// Create REST handlers
	callsHandler := api.NewCallsHandler(callRouter, log.Logger)
	agentsHandler := api.NewAgentsHandler(agentRegistry, store, log.Logger)
	queuesHandler := api.NewQueuesHandler(callRouter, departments, log.Logger)
	provisioningHandler := api.NewProvisioningHandler(agentRegistry, departments, vipResolver, cfg.DefaultMaxQueueSize, log.Logger)

	// Create router
	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Register public routes (no auth required)
	r.Get("/health", healthHandler)
	r.Handle("/metrics", metrics.Handler())

	// Internal routes (no auth - for the control plane's directory syncs)
	r.Route("/internal", func(r chi.Router) {
		r.Post("/sync/agents", provisioningHandler.HandleSyncAgents)
		r.Post("/sync/departments", provisioningHandler.HandleSyncDepartments)
		r.Post("/sync/vips", provisioningHandler.HandleSyncVIPs)
	})

	// Add auth middleware for protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Post("/api/calls/route", callsHandler.HandleRoute)
		r.Get("/api/calls/{callId}", callsHandler.HandleGet)
		r.Post("/api/calls/{callId}/complete", callsHandler.HandleComplete)
		r.Post("/api/calls/{callId}/abandon", callsHandler.HandleAbandon)

		r.Get("/api/agents", agentsHandler.HandleList)
		r.Get("/api/agents/{agentId}", agentsHandler.HandleGet)
		r.Put("/api/agents/{agentId}/status", agentsHandler.HandleSetStatus)
		r.Get("/api/agents/{agentId}/sessions", agentsHandler.HandleSessions)
		r.Get("/api/agents/{agentId}/calls", agentsHandler.HandleCalls)

		r.Get("/api/departments", queuesHandler.HandleDepartments)
		r.Get("/api/departments/{code}/queue", queuesHandler.HandleQueueStatus)
		r.Get("/api/queues", queuesHandler.HandleQueueOverview)

		r.Get("/ws", wsHandler.ServeHTTP)
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop background loops
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"dialdesk-backend"}`)
}
