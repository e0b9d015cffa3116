// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/facilia/facilia/internal/auth"
	"github.com/facilia/facilia/internal/core/asset"
	"github.com/facilia/facilia/internal/core/category"
	"github.com/facilia/facilia/internal/core/location"
	"github.com/facilia/facilia/internal/core/servicerequest"
	"github.com/facilia/facilia/internal/platform/config"
	"github.com/facilia/facilia/internal/platform/constants"
	"github.com/facilia/facilia/internal/platform/middleware"
	"github.com/facilia/facilia/internal/platform/sec"
	"github.com/facilia/facilia/internal/wizard"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles session establishment (login).
	Auth *auth.Handler

	// Location serves the flattened, searchable location list.
	Location *location.Handler

	// Asset serves per-location asset lists and single-asset reads.
	Asset *asset.Handler

	// Category serves the issue-category taxonomy.
	Category *category.Handler

	// ServiceRequest serves created work-order records.
	ServiceRequest *servicerequest.Handler

	// Wizard drives the service-request creation flow.
	Wizard *wizard.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Login is the only anonymous business route; everything else requires
	// a verified gateway token.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		api.Group(func(authed chi.Router) {
			authed.Use(middleware.RequireAuth)
			authed.Use(middleware.RequireRole(sec.RoleRequester))
			authed.Mount("/locations", h.Location.Routes())
			authed.Mount("/assets", h.Asset.Routes())
			authed.Mount("/issue-categories", h.Category.Routes())
			authed.Mount("/service-requests", h.ServiceRequest.Routes())
			authed.Mount("/wizard", h.Wizard.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
