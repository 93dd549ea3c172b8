// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package calendar

import (
	"sort"
	"time"

	"github.com/jiravision/jiravision/internal/models"
)

// MonthCellEvents is the number of events a month-view cell shows
// before collapsing the rest into an overflow counter. Week and day
// views show every event.
const MonthCellEvents = 3

// CalendarDay is one derived grid cell. It is never stored; the
// controller recomputes cells from the anchor date, view mode, and
// event list on every read.
type CalendarDay struct {
	Date           time.Time              `json:"date"`
	IsCurrentMonth bool                   `json:"isCurrentMonth"`
	IsToday        bool                   `json:"isToday"`
	Events         []models.CalendarEvent `json:"events"`
	Overflow       int                    `json:"overflow"`
}

// occupies reports whether the event spans the calendar day d. An
// event occupies every day from the start of its first day through the
// start of its last day, inclusive; a timed event ending at 00:00 still
// counts on its end date.
func occupies(e *models.CalendarEvent, d time.Time) bool {
	start := StartOfDay(e.StartTime)
	end := StartOfDay(e.EndTime)
	if end.Before(start) {
		end = start
	}
	return !d.Before(start) && !d.After(end)
}

// SortEvents orders events for display: all-day events first in their
// given order, then timed events by start ascending with id as the
// tiebreak. Sorting is stable, so equal elements keep their input
// order.
func SortEvents(events []models.CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := &events[i], &events[j]
		if a.IsAllDay != b.IsAllDay {
			return a.IsAllDay
		}
		if a.IsAllDay {
			return false
		}
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		return a.ID < b.ID
	})
}

// EventsOn returns the display-ordered events occupying the calendar
// day d. The input slice is not modified.
func EventsOn(d time.Time, events []models.CalendarEvent) []models.CalendarEvent {
	day := StartOfDay(d)
	var result []models.CalendarEvent
	for i := range events {
		if occupies(&events[i], day) {
			result = append(result, events[i])
		}
	}
	SortEvents(result)
	return result
}

// BuildDays derives the full cell list for a view: grid dates with
// per-cell event placement, current-month and today flags, and month
// overflow counts. today marks the cell matching the caller's clock.
func BuildDays(reference time.Time, view ViewMode, events []models.CalendarEvent, today time.Time) ([]CalendarDay, error) {
	dates, err := GridDates(reference, view)
	if err != nil {
		return nil, err
	}

	td := StartOfDay(today)
	days := make([]CalendarDay, 0, len(dates))
	for _, d := range dates {
		cellEvents := EventsOn(d, events)
		overflow := 0
		if view == ViewMonth && len(cellEvents) > MonthCellEvents {
			overflow = len(cellEvents) - MonthCellEvents
			cellEvents = cellEvents[:MonthCellEvents]
		}
		days = append(days, CalendarDay{
			Date:           d,
			IsCurrentMonth: d.Month() == reference.Month() && d.Year() == reference.Year(),
			IsToday:        d.Equal(td),
			Events:         cellEvents,
			Overflow:       overflow,
		})
	}
	return days, nil
}
