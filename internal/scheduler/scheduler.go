// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

// Package scheduler runs recurring background tasks, currently the
// daily agenda digest.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jiravision/jiravision/internal/models"
	"github.com/jiravision/jiravision/internal/pkg/errors"
	"github.com/jiravision/jiravision/internal/pkg/logger"
)

// EventSource provides the events for a digest window.
type EventSource interface {
	EventsBetween(ctx context.Context, from, to time.Time) ([]*models.CalendarEvent, error)
}

// Notifier delivers a rendered digest. The default implementation
// writes it to the log; a mail or chat integration can replace it.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// LogNotifier writes digests to the application log.
type LogNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier creates a notifier backed by the given logger.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &LogNotifier{logger: log.Named("digest")}
}

// Notify logs the digest.
func (n *LogNotifier) Notify(ctx context.Context, subject, body string) error {
	n.logger.Info(subject, "digest", body)
	return nil
}

// Config holds scheduler configuration.
type Config struct {
	// DigestSchedule is the cron expression for the daily agenda
	// digest (standard 5-field format).
	DigestSchedule string

	// Timezone for digest day boundaries. Empty means UTC.
	Timezone string
}

// DefaultConfig returns default scheduler configuration.
func DefaultConfig() *Config {
	return &Config{
		DigestSchedule: "0 7 * * *", // 07:00 every day
	}
}

// Scheduler runs cron-driven background tasks.
type Scheduler struct {
	config   *Config
	events   EventSource
	notifier Notifier
	cron     *cron.Cron
	location *time.Location
	logger   *logger.Logger

	mu      sync.Mutex
	running bool
}

// New creates a new scheduler.
func New(events EventSource, notifier Notifier, config *Config, log *logger.Logger) (*Scheduler, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = logger.Nop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(log)
	}

	loc := time.UTC
	if config.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(config.Timezone)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationFailed, "invalid timezone "+config.Timezone)
		}
	}

	// Standard cron format with panic recovery
	cronInstance := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(
			cron.Recover(cron.DefaultLogger),
		),
	)

	return &Scheduler{
		config:   config,
		events:   events,
		notifier: notifier,
		cron:     cronInstance,
		location: loc,
		logger:   log.Named("scheduler"),
	}, nil
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New(errors.CodeValidationFailed, "scheduler already running")
	}

	if _, err := s.cron.AddFunc(s.config.DigestSchedule, func() {
		digestCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.RunDigest(digestCtx, time.Now().In(s.location)); err != nil {
			s.logger.Error("agenda digest failed", "error", err)
		}
	}); err != nil {
		return errors.Wrap(err, errors.CodeValidationFailed, "invalid digest schedule")
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("scheduler started", "digest_schedule", s.config.DigestSchedule)
	return nil
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()

	s.logger.Info("scheduler stopped")
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunDigest builds and delivers the agenda digest for the calendar day
// containing now. Exposed so the digest can be triggered manually.
func (s *Scheduler) RunDigest(ctx context.Context, now time.Time) error {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	events, err := s.events.EventsBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("agenda digest: %w", err)
	}

	subject := fmt.Sprintf("Agenda for %s", from.Format("Monday, January 2"))
	body := renderDigest(events)

	if err := s.notifier.Notify(ctx, subject, body); err != nil {
		return fmt.Errorf("agenda digest: %w", err)
	}

	s.logger.Info("agenda digest delivered", "date", from.Format("2006-01-02"), "events", len(events))
	return nil
}

// renderDigest formats the day's events as a plain-text agenda.
func renderDigest(events []*models.CalendarEvent) string {
	if len(events) == 0 {
		return "No events scheduled."
	}

	var b strings.Builder
	for _, ev := range events {
		if ev.IsAllDay {
			fmt.Fprintf(&b, "all day      %s", ev.Title)
		} else {
			fmt.Fprintf(&b, "%s-%s  %s",
				ev.StartTime.Format("15:04"),
				ev.EndTime.Format("15:04"),
				ev.Title,
			)
		}
		if ev.Location != "" {
			fmt.Fprintf(&b, " (%s)", ev.Location)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
