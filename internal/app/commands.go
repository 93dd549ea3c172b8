// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jiravision/jiravision/internal/pkg/logger"
	"github.com/jiravision/jiravision/internal/repository/memory"
	"github.com/jiravision/jiravision/internal/repository/postgres"
	"github.com/jiravision/jiravision/internal/scheduler"
	calendarsvc "github.com/jiravision/jiravision/internal/services/calendar"
	teamsvc "github.com/jiravision/jiravision/internal/services/team"
)

// RunMigrations runs database migrations
func RunMigrations(cfgFile, action string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Database.URL == "" {
		return fmt.Errorf("database.url is required for migrations")
	}

	db, err := postgres.New(ctx, cfg.Database.URL, postgres.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	switch action {
	case "up":
		return db.Migrate(ctx)
	case "status":
		return db.MigrationStatus(ctx)
	default:
		// Handle down:N format
		if len(action) > 5 && action[:5] == "down:" {
			return db.MigrateDown(ctx, action[5:])
		}
		return fmt.Errorf("unknown migration action: %s", action)
	}
}

// RunDigestNow triggers the daily agenda digest once and exits. Useful
// for testing notifier configuration.
func RunDigestNow(cfgFile string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.NewFromConfig(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, "")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	var (
		eventRepo calendarsvc.Repository
		teamRepo  teamsvc.Repository
	)
	if strings.ToLower(cfg.Storage.Type) == "memory" {
		eventRepo = memory.NewEventStore()
		teamRepo = memory.DemoTeamDirectory()
	} else {
		db, err := postgres.New(ctx, cfg.Database.URL, postgres.Options{
			MaxOpenConns: 2,
			MaxIdleConns: 1,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		eventRepo = postgres.NewEventRepository(db)
		teamRepo = postgres.NewTeamRepository(db)
	}

	teamService := teamsvc.NewService(teamRepo, log)
	calendarService := calendarsvc.NewService(eventRepo, teamService, log)

	sched, err := scheduler.New(calendarService, nil, &scheduler.Config{
		DigestSchedule: cfg.Digest.Schedule,
		Timezone:       cfg.Digest.Timezone,
	}, log)
	if err != nil {
		return err
	}
	return sched.RunDigest(ctx, time.Now())
}
