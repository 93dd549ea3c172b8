// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jiravision/jiravision/internal/models"
	apperrors "github.com/jiravision/jiravision/internal/pkg/errors"
)

// EventRepository handles CRUD operations for calendar events,
// including the attendee join table.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `
	e.id, e.title, e.description, e.start_time, e.end_time, e.is_all_day,
	e.location, e.event_type, e.color, e.is_recurring, e.recurring_pattern,
	e.organizer_id, o.name, e.created_at, e.updated_at`

// ListEvents returns all calendar events with attendees, ordered by
// start time then id.
func (r *EventRepository) ListEvents(ctx context.Context) ([]*models.CalendarEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+eventColumns+`
		FROM calendar_events e
		LEFT JOIN team_members o ON o.id = e.organizer_id
		ORDER BY e.start_time, e.id`)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list events: " + err.Error())
	}
	defer rows.Close()

	var events []*models.CalendarEvent
	byID := make(map[int64]*models.CalendarEvent)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, apperrors.NewPersistenceError("scan event: " + err.Error())
		}
		events = append(events, ev)
		byID[ev.ID] = ev
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("iterate events: " + err.Error())
	}

	if err := r.loadAttendees(ctx, byID); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent retrieves a calendar event by ID.
func (r *EventRepository) GetEvent(ctx context.Context, id int64) (*models.CalendarEvent, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM calendar_events e
		LEFT JOIN team_members o ON o.id = e.organizer_id
		WHERE e.id = $1`, id)

	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("event")
		}
		return nil, apperrors.NewPersistenceError("get event: " + err.Error())
	}

	if err := r.loadAttendees(ctx, map[int64]*models.CalendarEvent{ev.ID: ev}); err != nil {
		return nil, err
	}
	return ev, nil
}

// CreateEvent inserts a new event and its attendee rows, assigning the id.
func (r *EventRepository) CreateEvent(ctx context.Context, ev *models.CalendarEvent) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperrors.NewPersistenceError("begin create event: " + err.Error())
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var organizerID *int64
	if ev.Organizer != nil {
		organizerID = &ev.Organizer.ID
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO calendar_events
			(title, description, start_time, end_time, is_all_day, location,
			 event_type, color, is_recurring, recurring_pattern, organizer_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at`,
		ev.Title, ev.Description, ev.StartTime, ev.EndTime, ev.IsAllDay,
		ev.Location, ev.EventType, ev.Color, ev.IsRecurring,
		ev.RecurringPattern, organizerID,
	).Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return apperrors.NewPersistenceError("insert event: " + err.Error())
	}

	if err := insertAttendees(ctx, tx, ev.ID, ev.Attendees); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewPersistenceError("commit create event: " + err.Error())
	}
	return nil
}

// UpdateEvent replaces an event and its attendee rows.
func (r *EventRepository) UpdateEvent(ctx context.Context, ev *models.CalendarEvent) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperrors.NewPersistenceError("begin update event: " + err.Error())
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var organizerID *int64
	if ev.Organizer != nil {
		organizerID = &ev.Organizer.ID
	}

	tag, err := tx.Exec(ctx, `
		UPDATE calendar_events SET
			title=$2, description=$3, start_time=$4, end_time=$5,
			is_all_day=$6, location=$7, event_type=$8, color=$9,
			is_recurring=$10, recurring_pattern=$11, organizer_id=$12,
			updated_at=NOW()
		WHERE id=$1`,
		ev.ID, ev.Title, ev.Description, ev.StartTime, ev.EndTime,
		ev.IsAllDay, ev.Location, ev.EventType, ev.Color,
		ev.IsRecurring, ev.RecurringPattern, organizerID,
	)
	if err != nil {
		return apperrors.NewPersistenceError("update event: " + err.Error())
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("event")
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM event_attendees WHERE event_id = $1`, ev.ID); err != nil {
		return apperrors.NewPersistenceError("clear attendees: " + err.Error())
	}
	if err := insertAttendees(ctx, tx, ev.ID, ev.Attendees); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewPersistenceError("commit update event: " + err.Error())
	}
	return nil
}

// DeleteEvent deletes an event. Attendee rows cascade.
func (r *EventRepository) DeleteEvent(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return apperrors.NewPersistenceError("delete event: " + err.Error())
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("event")
	}
	return nil
}

func insertAttendees(ctx context.Context, tx pgx.Tx, eventID int64, attendees []models.TeamMemberRef) error {
	for i, ref := range attendees {
		if _, err := tx.Exec(ctx, `
			INSERT INTO event_attendees (event_id, member_id, position)
			VALUES ($1, $2, $3)`, eventID, ref.ID, i); err != nil {
			return apperrors.NewPersistenceError(
				fmt.Sprintf("insert attendee %d: %v", ref.ID, err))
		}
	}
	return nil
}

// loadAttendees fills the Attendees slice for each event in the map,
// preserving the stored ordering.
func (r *EventRepository) loadAttendees(ctx context.Context, byID map[int64]*models.CalendarEvent) error {
	if len(byID) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(byID))
	for id, ev := range byID {
		ids = append(ids, id)
		ev.Attendees = []models.TeamMemberRef{}
	}

	rows, err := r.db.Query(ctx, `
		SELECT a.event_id, m.id, m.name
		FROM event_attendees a
		JOIN team_members m ON m.id = a.member_id
		WHERE a.event_id = ANY($1)
		ORDER BY a.event_id, a.position`, ids)
	if err != nil {
		return apperrors.NewPersistenceError("load attendees: " + err.Error())
	}
	defer rows.Close()

	for rows.Next() {
		var eventID int64
		var ref models.TeamMemberRef
		if err := rows.Scan(&eventID, &ref.ID, &ref.Name); err != nil {
			return apperrors.NewPersistenceError("scan attendee: " + err.Error())
		}
		if ev, ok := byID[eventID]; ok {
			ev.Attendees = append(ev.Attendees, ref)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewPersistenceError("iterate attendees: " + err.Error())
	}
	return nil
}

// scanEvent scans one event row, including the joined organizer.
func scanEvent(row pgx.Row) (*models.CalendarEvent, error) {
	ev := &models.CalendarEvent{}
	var organizerID *int64
	var organizerName *string

	err := row.Scan(
		&ev.ID, &ev.Title, &ev.Description, &ev.StartTime, &ev.EndTime,
		&ev.IsAllDay, &ev.Location, &ev.EventType, &ev.Color,
		&ev.IsRecurring, &ev.RecurringPattern,
		&organizerID, &organizerName,
		&ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if organizerID != nil && organizerName != nil {
		ev.Organizer = &models.TeamMemberRef{ID: *organizerID, Name: *organizerName}
	}
	return ev, nil
}
