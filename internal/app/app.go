// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

// Package app wires configuration, storage, services, and the HTTP
// server into a running JiraVision instance.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/jiravision/jiravision/internal/api"
	"github.com/jiravision/jiravision/internal/api/handlers"
	apimiddleware "github.com/jiravision/jiravision/internal/api/middleware"
	"github.com/jiravision/jiravision/internal/pkg/logger"
	"github.com/jiravision/jiravision/internal/repository/memory"
	"github.com/jiravision/jiravision/internal/repository/postgres"
	"github.com/jiravision/jiravision/internal/scheduler"
	calendarsvc "github.com/jiravision/jiravision/internal/services/calendar"
	teamsvc "github.com/jiravision/jiravision/internal/services/team"
)

// Version information, injected at build time via -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = ""
)

// PrintVersion prints build information to stdout.
func PrintVersion() {
	fmt.Printf("jiravision %s\n", Version)
	fmt.Printf("  commit:     %s\n", Commit)
	if BuildTime != "" {
		fmt.Printf("  built:      %s\n", BuildTime)
	}
	fmt.Printf("  go version: %s\n", runtime.Version())
}

// Application holds all application dependencies
type Application struct {
	Config *Config
	Logger *logger.Logger
	DB     *postgres.DB
	Server *api.Server

	schedulerService *scheduler.Scheduler
}

// Run starts the application with the given configuration
func Run(cfgFile string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewFromConfig(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, "")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting jiravision",
		"version", Version,
		"commit", Commit,
		"storage", cfg.Storage.Type,
	)

	app := &Application{
		Config: cfg,
		Logger: log,
	}

	// Initialize storage backend
	var (
		eventRepo calendarsvc.Repository
		teamRepo  teamsvc.Repository
	)

	if strings.ToLower(cfg.Storage.Type) == "memory" {
		log.Info("Using in-memory event store with demo team directory")
		eventRepo = memory.NewEventStore()
		teamRepo = memory.DemoTeamDirectory()
	} else {
		log.Info("Connecting to PostgreSQL...")
		db, err := postgres.New(ctx, cfg.Database.URL, postgres.Options{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
			QueryTimeout:    cfg.Database.QueryTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		defer db.Close()
		app.DB = db
		log.Info("PostgreSQL connected")

		// Run migrations
		log.Info("Running database migrations...")
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("Migrations completed")

		eventRepo = postgres.NewEventRepository(db)
		teamRepo = postgres.NewTeamRepository(db)
	}

	// Initialize services
	teamService := teamsvc.NewService(teamRepo, log)
	calendarService := calendarsvc.NewService(eventRepo, teamService, log)

	// Initialize HTTP server
	serverCfg := api.DefaultServerConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	serverCfg.TLSCert = cfg.Server.TLSCertFile
	serverCfg.TLSKey = cfg.Server.TLSKeyFile
	if cfg.Server.ReadTimeout > 0 {
		serverCfg.ReadTimeout = cfg.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout > 0 {
		serverCfg.WriteTimeout = cfg.Server.WriteTimeout
	}
	if cfg.Server.IdleTimeout > 0 {
		serverCfg.IdleTimeout = cfg.Server.IdleTimeout
	}
	if cfg.Server.ShutdownTimeout > 0 {
		serverCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	}
	serverCfg.Version = Version
	serverCfg.Commit = Commit
	serverCfg.BuildTime = BuildTime
	serverCfg.Logger = log

	routerCfg := api.DefaultRouterConfig(cfg.Security.JWTSecret)
	routerCfg.CORSConfig = apimiddleware.CORSFromConfig(strings.Join(cfg.CORS.AllowedOrigins, ","), cfg.CORS.AllowCredentials)
	routerCfg.RateLimitPerMinute = cfg.Server.RateLimitRPM
	if cfg.Server.RequestTimeout > 0 {
		routerCfg.RequestTimeout = cfg.Server.RequestTimeout
	}
	routerCfg.Logger = log
	serverCfg.RouterConfig = routerCfg

	server := api.NewServer(serverCfg)
	app.Server = server

	h := server.Handlers()
	h.Calendar = handlers.NewCalendarHandler(calendarService, log)
	h.Team = handlers.NewTeamHandler(teamService, log)

	if app.DB != nil {
		server.RegisterDatabaseHealth(app.DB.Ping)
	}

	server.Setup()

	// Start digest scheduler
	if cfg.Digest.Enabled {
		sched, err := scheduler.New(calendarService, nil, &scheduler.Config{
			DigestSchedule: cfg.Digest.Schedule,
			Timezone:       cfg.Digest.Timezone,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		app.schedulerService = sched
	}

	// Start HTTP server
	errChan := server.StartAsync()

	log.Info("jiravision ready", "addr", server.Addr())

	// Wait for shutdown signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", "signal", sig.String())
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", "error", err)
			app.stop()
			return err
		}
	}

	app.stop()
	return nil
}

// stop shuts down background components and the HTTP server.
func (app *Application) stop() {
	if app.schedulerService != nil {
		app.schedulerService.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()
	if app.Config.Server.ShutdownTimeout <= 0 {
		shutdownCtx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
	}

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("Shutdown error", "error", err)
	}
}
