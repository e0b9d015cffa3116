// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

// Command api is the entry point for the Facilia mobile gateway.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis.
//  4. Construct the upstream CAFM client.
//  5. Wire domain services and HTTP handlers.
//  6. Start the wizard draft sweeper.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/facilia/facilia/internal/api"
	"github.com/facilia/facilia/internal/auth"
	"github.com/facilia/facilia/internal/cafm"
	"github.com/facilia/facilia/internal/core/asset"
	"github.com/facilia/facilia/internal/core/category"
	"github.com/facilia/facilia/internal/core/location"
	"github.com/facilia/facilia/internal/core/servicerequest"
	"github.com/facilia/facilia/internal/platform/cache"
	"github.com/facilia/facilia/internal/platform/config"
	"github.com/facilia/facilia/internal/platform/constants"
	redisstore "github.com/facilia/facilia/internal/platform/redis"
	"github.com/facilia/facilia/internal/platform/sec"
	"github.com/facilia/facilia/internal/wizard"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Facilia] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	cacheStore := cache.NewRedisStore(rdb)

	// ── 4. Upstream CAFM Client ───────────────────────────────────────────
	upstream := cafm.NewClient(cfg.UpstreamBaseURL, log)

	// ── 5. Auth Service ───────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckUpstream: func() error {
			return upstream.Ping(context.Background())
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(auth.NewCAFMUpstream(upstream), jwtSvc, log)
	authHandler := auth.NewHandler(authService)

	locationService := location.NewService(location.NewCAFMSource(upstream), cacheStore, log)
	locationHandler := location.NewHandler(locationService)

	assetService := asset.NewService(asset.NewCAFMSource(upstream), cacheStore, log)
	assetHandler := asset.NewHandler(assetService)

	categoryService := category.NewService(category.NewCAFMSource(upstream), cacheStore, log)
	categoryHandler := category.NewHandler(categoryService)

	requestService := servicerequest.NewService(servicerequest.NewCAFMSource(upstream), log)
	requestHandler := servicerequest.NewHandler(requestService)

	draftStore := wizard.NewStore(time.Duration(cfg.WizardDraftTTLMinutes) * time.Minute)
	wizardService := wizard.NewService(draftStore, assetService, categoryService, requestService, log)
	wizardHandler := wizard.NewHandler(wizardService)

	// ── 8. Background Workers ─────────────────────────────────────────────
	// The sweeper reaps idle drafts and deletes their spooled images.
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go draftStore.Run(workerCtx, constants.DraftSweepInterval, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:       liveness,
		Readiness:      readiness,
		Auth:           authHandler,
		Location:       locationHandler,
		Asset:          assetHandler,
		Category:       categoryHandler,
		ServiceRequest: requestHandler,
		Wizard:         wizardHandler,
	}

	server := api.NewServer(workerCtx, cfg, log, jwtSvc, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
