// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

// Package models contains the domain types shared across services,
// repositories, and API handlers.
package models

import (
	"time"
)

// CalendarEvent represents a scheduled event on the team calendar
// (meeting, deadline, workshop, etc.).
type CalendarEvent struct {
	ID               int64           `json:"id" db:"id"`
	Title            string          `json:"title" db:"title"`
	Description      string          `json:"description,omitempty" db:"description"`
	StartTime        time.Time       `json:"startTime" db:"start_time"`
	EndTime          time.Time       `json:"endTime" db:"end_time"`
	IsAllDay         bool            `json:"isAllDay" db:"is_all_day"`
	Location         string          `json:"location,omitempty" db:"location"`
	EventType        string          `json:"eventType" db:"event_type"`
	Color            string          `json:"color" db:"color"`
	IsRecurring      bool            `json:"isRecurring" db:"is_recurring"`
	RecurringPattern string          `json:"recurringPattern,omitempty" db:"recurring_pattern"`
	Organizer        *TeamMemberRef  `json:"organizer,omitempty"`
	Attendees        []TeamMemberRef `json:"attendees"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time       `json:"updatedAt" db:"updated_at"`
}

// CreateEventInput is the payload for creating or replacing an event.
// The id is never part of the input; storage assigns it on creation.
type CreateEventInput struct {
	Title            string    `json:"title" validate:"required,min=1,max=255"`
	Description      string    `json:"description" validate:"max=4096"`
	StartTime        time.Time `json:"startTime" validate:"required"`
	EndTime          time.Time `json:"endTime" validate:"required"`
	IsAllDay         bool      `json:"isAllDay"`
	Location         string    `json:"location" validate:"max=255"`
	EventType        string    `json:"eventType" validate:"required,event_type"`
	Color            string    `json:"color" validate:"omitempty,event_color"`
	IsRecurring      bool      `json:"isRecurring"`
	RecurringPattern string    `json:"recurringPattern" validate:"omitempty,rrule"`
	Attendees        []int64   `json:"attendees"`
}

// Event type constants.
const (
	EventTypeMeeting  = "meeting"
	EventTypeStandup  = "standup"
	EventTypePlanning = "planning"
	EventTypeReview   = "review"
	EventTypeDeadline = "deadline"
	EventTypeSocial   = "social"
)

// ValidEventTypes is the set of allowed event types.
var ValidEventTypes = map[string]bool{
	EventTypeMeeting:  true,
	EventTypeStandup:  true,
	EventTypePlanning: true,
	EventTypeReview:   true,
	EventTypeDeadline: true,
	EventTypeSocial:   true,
}

// Calendar color constants.
const (
	CalendarColorBlue   = "blue"
	CalendarColorRed    = "red"
	CalendarColorGreen  = "green"
	CalendarColorYellow = "yellow"
	CalendarColorPurple = "purple"
	CalendarColorOrange = "orange"
	CalendarColorPink   = "pink"
	CalendarColorGray   = "gray"
)

// ValidCalendarColors is the set of allowed event colors.
var ValidCalendarColors = map[string]bool{
	CalendarColorBlue:   true,
	CalendarColorRed:    true,
	CalendarColorGreen:  true,
	CalendarColorYellow: true,
	CalendarColorPurple: true,
	CalendarColorOrange: true,
	CalendarColorPink:   true,
	CalendarColorGray:   true,
}

// CalendarColorClasses maps a color key to the CSS classes the dashboard
// renders events with. Lookups for unknown keys fall back to blue; color
// is cosmetic, so a bad key is never an error.
var CalendarColorClasses = map[string]string{
	CalendarColorBlue:   "bg-blue-100 text-blue-700 border-blue-300",
	CalendarColorRed:    "bg-red-100 text-red-700 border-red-300",
	CalendarColorGreen:  "bg-green-100 text-green-700 border-green-300",
	CalendarColorYellow: "bg-yellow-100 text-yellow-700 border-yellow-300",
	CalendarColorPurple: "bg-purple-100 text-purple-700 border-purple-300",
	CalendarColorOrange: "bg-orange-100 text-orange-700 border-orange-300",
	CalendarColorPink:   "bg-pink-100 text-pink-700 border-pink-300",
	CalendarColorGray:   "bg-gray-100 text-gray-700 border-gray-300",
}

// ColorClasses resolves the event's color key through the palette,
// falling back to blue for missing or unrecognized keys.
func (e *CalendarEvent) ColorClasses() string {
	if classes, ok := CalendarColorClasses[e.Color]; ok {
		return classes
	}
	return CalendarColorClasses[CalendarColorBlue]
}
