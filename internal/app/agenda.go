// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jiravision/jiravision/internal/calendar"
	"github.com/jiravision/jiravision/internal/gateway"
	"github.com/jiravision/jiravision/internal/pkg/logger"
)

// AgendaOptions configures the agenda command.
type AgendaOptions struct {
	// ServerURL is the base URL of the JiraVision instance. Defaults to
	// the configured server port on localhost.
	ServerURL string

	// Token is the bearer token for the API. Falls back to the
	// JIRAVISION_TOKEN environment variable.
	Token string

	// View is the view mode: day, week, or month (default).
	View string

	// Date anchors the view (YYYY-MM-DD). Defaults to today.
	Date string
}

// RunAgenda renders the calendar for the requested view and date by
// driving the view engine against a running server over HTTP.
func RunAgenda(cfgFile string, opts AgendaOptions) error {
	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	view := calendar.ViewMonth
	if opts.View != "" {
		view, err = calendar.ParseViewMode(opts.View)
		if err != nil {
			return err
		}
	}

	copts := []calendar.Option{calendar.WithInitialView(view)}
	if opts.Date != "" {
		anchor, err := time.ParseInLocation("2006-01-02", opts.Date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", opts.Date, err)
		}
		copts = append(copts, calendar.WithClock(func() time.Time { return anchor }))
	}

	baseURL := opts.ServerURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	token := opts.Token
	if token == "" {
		token = os.Getenv("JIRAVISION_TOKEN")
	}

	// Warnings only; the rendered agenda is the output.
	log, err := logger.New("error", "console")
	if err != nil {
		log = logger.Nop()
	}

	client := gateway.NewClient(&gateway.Config{BaseURL: baseURL, Token: token}, log)
	ctrl := calendar.NewController(client, log, copts...)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := ctrl.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load events from %s: %w", baseURL, err)
	}

	fmt.Print(renderAgenda(ctrl))
	return nil
}

// renderAgenda formats the controller's derived cells as a plain-text
// agenda: the header label, then one block per day that has events.
func renderAgenda(ctrl *calendar.Controller) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s view)\n", ctrl.FormattedDate(), ctrl.CurrentView())

	printed := false
	for _, day := range ctrl.Days() {
		if len(day.Events) == 0 {
			continue
		}
		printed = true

		fmt.Fprintf(&b, "\n%s\n", day.Date.Format("Mon Jan 2"))
		for _, e := range day.Events {
			if e.IsAllDay {
				fmt.Fprintf(&b, "  all day      %s", e.Title)
			} else {
				fmt.Fprintf(&b, "  %s-%s  %s",
					e.StartTime.Format("15:04"), e.EndTime.Format("15:04"), e.Title)
			}
			if e.Location != "" {
				fmt.Fprintf(&b, " (%s)", e.Location)
			}
			b.WriteString("\n")
		}
		if day.Overflow > 0 {
			fmt.Fprintf(&b, "  (+%d more)\n", day.Overflow)
		}
	}

	if !printed {
		b.WriteString("\nNo events in this period.\n")
	}
	return b.String()
}
