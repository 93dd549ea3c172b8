// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jiravision/jiravision/internal/api/handlers"
	"github.com/jiravision/jiravision/internal/api/middleware"
	"github.com/jiravision/jiravision/internal/pkg/logger"
)

// RouterConfig contains configuration for setting up routes.
type RouterConfig struct {
	// JWTSecret is the secret for JWT token validation.
	JWTSecret string

	// CORSConfig is the CORS configuration.
	CORSConfig middleware.CORSConfig

	// RateLimitPerMinute is the rate limit for API requests.
	RateLimitPerMinute int

	// RequestTimeout is the timeout for HTTP requests.
	RequestTimeout time.Duration

	// Logger for request logging. Nil disables request logs.
	Logger *logger.Logger
}

// DefaultRouterConfig returns a default router configuration.
func DefaultRouterConfig(jwtSecret string) RouterConfig {
	return RouterConfig{
		JWTSecret:          jwtSecret,
		CORSConfig:         middleware.DefaultCORSConfig(),
		RateLimitPerMinute: 100,
		RequestTimeout:     30 * time.Second,
	}
}

// Handlers contains all API handlers.
// All fields are optional - if nil, the corresponding routes won't be mounted.
type Handlers struct {
	System   *handlers.SystemHandler
	Calendar *handlers.CalendarHandler
	Team     *handlers.TeamHandler
}

// NewRouter creates a new chi router with all routes configured.
func NewRouter(config RouterConfig, h *Handlers) chi.Router {
	r := chi.NewRouter()

	log := config.Logger
	if log == nil {
		log = logger.Nop()
	}

	// =========================================================================
	// Global Middleware (applied to all routes)
	// =========================================================================

	// Request ID (must be first)
	r.Use(middleware.RequestID)

	// Request logging
	if config.Logger != nil {
		r.Use(middleware.Logging(config.Logger))
	}

	// Panic recovery
	r.Use(middleware.Recovery(log))

	// CORS
	r.Use(middleware.CORS(config.CORSConfig))

	// =========================================================================
	// Health Check Routes (no auth required)
	// =========================================================================

	if h.System != nil {
		r.Get("/health", h.System.Health)
		r.Get("/healthz", h.System.Liveness)
		r.Get("/ready", h.System.Readiness)
	}

	// =========================================================================
	// API Routes
	// =========================================================================

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(config.RequestTimeout))

		// -----------------------------------------------------------------
		// Public routes (no authentication)
		// -----------------------------------------------------------------
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRateLimit())

			if h.System != nil {
				r.Get("/system/version", h.System.Version)
			}
		})

		// -----------------------------------------------------------------
		// Authenticated routes
		// -----------------------------------------------------------------
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(middleware.DefaultAuthConfig(config.JWTSecret)))

			rateLimit := config.RateLimitPerMinute
			if rateLimit <= 0 {
				rateLimit = 100
			}
			r.Use(middleware.RateLimitByUser(rateLimit, time.Minute))

			if h.Calendar != nil {
				r.Mount("/calendar", h.Calendar.Routes())
			}
			if h.Team != nil {
				r.Mount("/team", h.Team.Routes())
			}
		})
	})

	return r
}
