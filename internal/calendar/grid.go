// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package calendar

import (
	"fmt"
	"time"
)

// GridDates returns the ordered cell dates for a view anchored at
// reference, each at midnight in reference's location.
//
// Day view is the reference date alone. Week view is Monday through
// Sunday of the reference's week. Month view spans complete weeks: it
// begins on the Monday on or before the 1st and ends on the Sunday on
// or after the last day of the month, so its length is always a
// multiple of 7 (28, 35, or 42).
func GridDates(reference time.Time, view ViewMode) ([]time.Time, error) {
	switch view {
	case ViewDay:
		return []time.Time{StartOfDay(reference)}, nil

	case ViewWeek:
		start := StartOfWeek(reference)
		dates := make([]time.Time, 7)
		for i := range dates {
			dates[i] = start.AddDate(0, 0, i)
		}
		return dates, nil

	case ViewMonth:
		start := StartOfWeek(StartOfMonth(reference))
		last := EndOfMonth(reference)
		// Sunday on or after the last day closes the final week.
		end := StartOfWeek(last).AddDate(0, 0, 6)

		var dates []time.Time
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d)
		}
		return dates, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidViewMode, view)
}
