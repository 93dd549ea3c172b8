// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package scheduler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jiravision/jiravision/internal/models"
)

type fakeEventSource struct {
	events   []*models.CalendarEvent
	gotFrom  time.Time
	gotTo    time.Time
	listErrs error
}

func (f *fakeEventSource) EventsBetween(ctx context.Context, from, to time.Time) ([]*models.CalendarEvent, error) {
	f.gotFrom = from
	f.gotTo = to
	if f.listErrs != nil {
		return nil, f.listErrs
	}
	return f.events, nil
}

type fakeNotifier struct {
	subject string
	body    string
	calls   int
}

func (f *fakeNotifier) Notify(ctx context.Context, subject, body string) error {
	f.subject = subject
	f.body = body
	f.calls++
	return nil
}

func mustScheduler(t *testing.T, events EventSource, notifier Notifier) *Scheduler {
	t.Helper()
	s, err := New(events, notifier, nil, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

func TestRunDigest_WindowCoversWholeDay(t *testing.T) {
	source := &fakeEventSource{}
	notifier := &fakeNotifier{}
	s := mustScheduler(t, source, notifier)

	now := time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)
	if err := s.RunDigest(context.Background(), now); err != nil {
		t.Fatalf("RunDigest() error: %v", err)
	}

	wantFrom := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if !source.gotFrom.Equal(wantFrom) {
		t.Errorf("from = %v, want %v", source.gotFrom, wantFrom)
	}
	if !source.gotTo.Equal(wantFrom.AddDate(0, 0, 1)) {
		t.Errorf("to = %v, want %v", source.gotTo, wantFrom.AddDate(0, 0, 1))
	}
	if notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1", notifier.calls)
	}
}

func TestRunDigest_EmptyDay(t *testing.T) {
	notifier := &fakeNotifier{}
	s := mustScheduler(t, &fakeEventSource{}, notifier)

	if err := s.RunDigest(context.Background(), time.Now()); err != nil {
		t.Fatalf("RunDigest() error: %v", err)
	}
	if notifier.body != "No events scheduled." {
		t.Errorf("body = %q, want empty-day message", notifier.body)
	}
}

func TestRunDigest_FormatsEvents(t *testing.T) {
	source := &fakeEventSource{
		events: []*models.CalendarEvent{
			{
				Title:     "Daily Standup",
				StartTime: time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2026, 8, 31, 9, 15, 0, 0, time.UTC),
				Location:  "Zoom",
			},
			{
				Title:     "Company Offsite",
				StartTime: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC),
				IsAllDay:  true,
			},
		},
	}
	notifier := &fakeNotifier{}
	s := mustScheduler(t, source, notifier)

	if err := s.RunDigest(context.Background(), time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("RunDigest() error: %v", err)
	}

	if !strings.Contains(notifier.body, "09:00-09:15  Daily Standup (Zoom)") {
		t.Errorf("body missing timed entry:\n%s", notifier.body)
	}
	if !strings.Contains(notifier.body, "all day      Company Offsite") {
		t.Errorf("body missing all-day entry:\n%s", notifier.body)
	}
	if !strings.Contains(notifier.subject, "Monday, August 31") {
		t.Errorf("subject = %q", notifier.subject)
	}
}

func TestNew_InvalidTimezone(t *testing.T) {
	_, err := New(&fakeEventSource{}, nil, &Config{DigestSchedule: "0 7 * * *", Timezone: "Not/AZone"}, nil)
	if err == nil {
		t.Fatal("expected error for invalid timezone")
	}
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := mustScheduler(t, &fakeEventSource{}, &fakeNotifier{})
	s.config.DigestSchedule = "not a cron expr"

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestStartStop(t *testing.T) {
	s := mustScheduler(t, &fakeEventSource{}, &fakeNotifier{})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !s.IsRunning() {
		t.Error("expected scheduler to be running")
	}
	if err := s.Start(context.Background()); err == nil {
		t.Error("expected error on double start")
	}

	s.Stop()
	if s.IsRunning() {
		t.Error("expected scheduler to be stopped")
	}
}
