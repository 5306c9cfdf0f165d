// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/coursepath/internal/api"
	"github.com/tomtom215/coursepath/internal/config"
	"github.com/tomtom215/coursepath/internal/logging"
	"github.com/tomtom215/coursepath/internal/metrics"
	"github.com/tomtom215/coursepath/internal/studentstore"
	"github.com/tomtom215/coursepath/internal/supervisor"
	"github.com/tomtom215/coursepath/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "coursepath-server",
		Version:   version,
	})
	logger := logging.Logger()

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("degree_id", cfg.Recommend.DegreeID).
		Str("store_path", cfg.Store.Path).
		Bool("store_in_memory", cfg.Store.InMemory).
		Str("artifacts_path", cfg.Artifacts.Path).
		Msg("Starting CoursePath with supervisor tree")
	metrics.SetAppInfo(version, runtime.Version())

	storeOpts := cfg.StoreOptions()
	storeOpts.Logger = logging.WithComponent("studentstore")
	store, err := studentstore.Open(storeOpts)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open student store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing student store")
		}
	}()

	provider := studentstore.NewBreakerProvider(store, cfg.BreakerConfig(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine, err := initEngine(ctx, cfg, provider, logger)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize recommendation engine")
		return
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return
	}

	trainer, err := services.NewTrainingService(engine, services.TrainingServiceConfig{
		DegreeID:        cfg.Recommend.DegreeID,
		Schedule:        cfg.Training.Schedule,
		Interval:        cfg.Training.Interval,
		OnStartup:       cfg.Training.OnStartup,
		TriggerCooldown: cfg.Training.TriggerCooldown,
	}, logger)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create training service")
		return
	}

	if cfg.API.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().
			Strs("cors_origins", cfg.API.CORSOrigins).
			Msg("CORS allows any origin in production; set CORS_ORIGINS to the portal origins")
	}

	handler := api.NewHandler(engine, store, trainer, api.HandlerConfig{
		DefaultDegreeID: cfg.Recommend.DegreeID,
	})
	handler.SetBreakerState(provider)
	handler.SetCatalog(store)

	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.API.CORSOrigins
	mw.RateLimitRequests = cfg.API.RateLimitReqs
	mw.RateLimitWindow = cfg.API.RateLimitWindow
	mw.RateLimitDisabled = cfg.API.RateLimitDisabled

	router := api.NewRouter(handler, api.RouterConfig{
		Middleware:     mw,
		RequestTimeout: cfg.Server.Timeout,
		MaxBodyBytes:   cfg.API.MaxBodyBytes,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddDataService(services.NewStoreGCService(store, cfg.Store.GCInterval, logger))
	tree.AddTrainingService(trainer)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
