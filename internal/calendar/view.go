// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

// Package calendar implements the calendar view engine: grid date
// calculation, event placement, and the view state controller. The
// engine is pure with respect to time; callers inject the clock.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ViewMode selects the calendar granularity.
type ViewMode string

// Supported view modes.
const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// ErrInvalidViewMode reports a view mode outside day/week/month. It is
// a programming error: user input is validated before it reaches the
// engine, so the engine never silently substitutes a default.
var ErrInvalidViewMode = errors.New("invalid view mode")

// ParseViewMode converts a string to a ViewMode.
func ParseViewMode(s string) (ViewMode, error) {
	v := ViewMode(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidViewMode, s)
	}
	return v, nil
}

// Valid reports whether the view mode is one of day, week, or month.
func (v ViewMode) Valid() bool {
	switch v {
	case ViewDay, ViewWeek, ViewMonth:
		return true
	}
	return false
}

// StartOfDay truncates t to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Monday of the week containing t, at midnight.
// Weeks start on Monday (ISO 8601).
func StartOfWeek(t time.Time) time.Time {
	d := StartOfDay(t)
	// Go's Weekday puts Sunday at 0; shift so Monday is 0.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// StartOfMonth returns the first day of t's month at midnight.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last day of t's month at midnight.
func EndOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// AddMonths shifts t by n months, clamping the day of month to the
// target month's length instead of rolling over the way time.AddDate
// does. Jan 31 plus one month is Feb 28 (or 29), not Mar 2 (or 3).
func AddMonths(t time.Time, n int) time.Time {
	// Day 1 with an out-of-range month normalizes to the target month.
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())

	day := t.Day()
	// Day 0 of the following month is the last day of the target month.
	if last := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day(); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// NextPeriod advances t by one unit of the view: a day, a week, or a
// clamped month.
func NextPeriod(t time.Time, view ViewMode) (time.Time, error) {
	switch view {
	case ViewDay:
		return t.AddDate(0, 0, 1), nil
	case ViewWeek:
		return t.AddDate(0, 0, 7), nil
	case ViewMonth:
		return AddMonths(t, 1), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidViewMode, view)
}

// PreviousPeriod moves t back by one unit of the view.
func PreviousPeriod(t time.Time, view ViewMode) (time.Time, error) {
	switch view {
	case ViewDay:
		return t.AddDate(0, 0, -1), nil
	case ViewWeek:
		return t.AddDate(0, 0, -7), nil
	case ViewMonth:
		return AddMonths(t, -1), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidViewMode, view)
}
