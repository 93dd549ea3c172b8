// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

// Package ics serializes calendar events to the iCalendar format
// (RFC 5545) for export into external calendar clients.
package ics

import (
	"bytes"
	"fmt"

	"github.com/emersion/go-ical"

	"github.com/jiravision/jiravision/internal/models"
)

const prodID = "-//JiraVision//Calendar//EN"

// Export serializes the events into a single VCALENDAR document.
func Export(events []*models.CalendarEvent) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)

	for _, ev := range events {
		vevent, err := toVEvent(ev)
		if err != nil {
			return nil, fmt.Errorf("serialize event %d: %w", ev.ID, err)
		}
		cal.Children = append(cal.Children, vevent.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func toVEvent(ev *models.CalendarEvent) (*ical.Event, error) {
	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, fmt.Sprintf("event-%d@jiravision", ev.ID))
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, ev.UpdatedAt.UTC())
	vevent.Props.SetText(ical.PropSummary, ev.Title)

	if ev.Description != "" {
		vevent.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		vevent.Props.SetText(ical.PropLocation, ev.Location)
	}

	if ev.IsAllDay {
		// All-day events use DATE values; DTEND is exclusive per RFC 5545.
		vevent.Props.SetDate(ical.PropDateTimeStart, ev.StartTime)
		vevent.Props.SetDate(ical.PropDateTimeEnd, ev.EndTime.AddDate(0, 0, 1))
	} else {
		vevent.Props.SetDateTime(ical.PropDateTimeStart, ev.StartTime.UTC())
		vevent.Props.SetDateTime(ical.PropDateTimeEnd, ev.EndTime.UTC())
	}

	// The recurrence pattern is carried opaquely; it was syntax-checked
	// on the way in and is never expanded server-side.
	if ev.IsRecurring && ev.RecurringPattern != "" {
		vevent.Props.SetText(ical.PropRecurrenceRule, ev.RecurringPattern)
	}

	if ev.Organizer != nil {
		prop := ical.NewProp(ical.PropOrganizer)
		prop.Params.Set(ical.ParamCommonName, ev.Organizer.Name)
		prop.Value = fmt.Sprintf("urn:jiravision:member:%d", ev.Organizer.ID)
		vevent.Props.Set(prop)
	}
	for _, att := range ev.Attendees {
		prop := ical.NewProp(ical.PropAttendee)
		prop.Params.Set(ical.ParamCommonName, att.Name)
		prop.Value = fmt.Sprintf("urn:jiravision:member:%d", att.ID)
		vevent.Props.Add(prop)
	}

	return vevent, nil
}
