// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

// Package calendar orchestrates calendar event CRUD: input validation,
// attendee resolution, and persistence through the event repository.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/jiravision/jiravision/internal/models"
	"github.com/jiravision/jiravision/internal/pkg/errors"
	"github.com/jiravision/jiravision/internal/pkg/logger"
)

// Repository is the storage contract for calendar events. Implemented
// by the postgres event repository and the in-memory store.
type Repository interface {
	ListEvents(ctx context.Context) ([]*models.CalendarEvent, error)
	GetEvent(ctx context.Context, id int64) (*models.CalendarEvent, error)
	CreateEvent(ctx context.Context, ev *models.CalendarEvent) error
	UpdateEvent(ctx context.Context, ev *models.CalendarEvent) error
	DeleteEvent(ctx context.Context, id int64) error
}

// Directory resolves team member ids to event-embeddable references.
type Directory interface {
	Refs(ctx context.Context, ids []int64) ([]models.TeamMemberRef, error)
}

// Service manages calendar events.
type Service struct {
	repo      Repository
	directory Directory
	logger    *logger.Logger
}

// NewService creates a new calendar service.
func NewService(repo Repository, directory Directory, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		logger:    log.Named("calendar"),
	}
}

// ListEvents returns all calendar events.
func (s *Service) ListEvents(ctx context.Context) ([]*models.CalendarEvent, error) {
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return events, nil
}

// GetEvent retrieves a calendar event by ID.
func (s *Service) GetEvent(ctx context.Context, id int64) (*models.CalendarEvent, error) {
	ev, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get calendar event %d: %w", id, err)
	}
	return ev, nil
}

// CreateEvent creates a new calendar event after validation. The
// organizer is resolved from the authenticated member id; a zero id
// leaves the event without an organizer.
func (s *Service) CreateEvent(ctx context.Context, organizerID int64, input *models.CreateEventInput) (*models.CalendarEvent, error) {
	ev, err := s.buildEvent(ctx, organizerID, input)
	if err != nil {
		return nil, fmt.Errorf("create calendar event: %w", err)
	}

	if err := s.repo.CreateEvent(ctx, ev); err != nil {
		return nil, fmt.Errorf("create calendar event: %w", err)
	}

	s.logger.Info("created calendar event",
		"id", ev.ID,
		"title", ev.Title,
		"type", ev.EventType,
		"start", ev.StartTime,
	)
	return ev, nil
}

// UpdateEvent replaces a calendar event. The full input is validated
// the same way as on create; partial updates are not supported.
func (s *Service) UpdateEvent(ctx context.Context, id int64, input *models.CreateEventInput) (*models.CalendarEvent, error) {
	existing, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update calendar event %d: %w", id, err)
	}

	organizerID := int64(0)
	if existing.Organizer != nil {
		organizerID = existing.Organizer.ID
	}

	ev, err := s.buildEvent(ctx, organizerID, input)
	if err != nil {
		return nil, fmt.Errorf("update calendar event %d: %w", id, err)
	}
	ev.ID = id
	ev.CreatedAt = existing.CreatedAt

	if err := s.repo.UpdateEvent(ctx, ev); err != nil {
		return nil, fmt.Errorf("update calendar event %d: %w", id, err)
	}

	s.logger.Info("updated calendar event", "id", ev.ID, "title", ev.Title)
	return ev, nil
}

// DeleteEvent deletes a calendar event.
func (s *Service) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("delete calendar event %d: %w", id, err)
	}

	s.logger.Info("deleted calendar event", "id", id)
	return nil
}

// EventsBetween returns events overlapping [from, to). Used by the
// agenda digest and the ICS export.
func (s *Service) EventsBetween(ctx context.Context, from, to time.Time) ([]*models.CalendarEvent, error) {
	events, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if ev.StartTime.Before(to) && ev.EndTime.After(from) {
			filtered = append(filtered, ev)
		}
	}
	return filtered, nil
}

// buildEvent validates the input and assembles the event model,
// resolving organizer and attendee references through the directory.
func (s *Service) buildEvent(ctx context.Context, organizerID int64, input *models.CreateEventInput) (*models.CalendarEvent, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	ev := &models.CalendarEvent{
		Title:            input.Title,
		Description:      input.Description,
		StartTime:        input.StartTime,
		EndTime:          input.EndTime,
		IsAllDay:         input.IsAllDay,
		Location:         input.Location,
		EventType:        input.EventType,
		Color:            input.Color,
		IsRecurring:      input.IsRecurring,
		RecurringPattern: input.RecurringPattern,
		Attendees:        []models.TeamMemberRef{},
	}

	if ev.Color == "" {
		ev.Color = models.CalendarColorBlue
	}

	// All-day events span whole calendar days regardless of the
	// submitted times.
	if ev.IsAllDay {
		ev.StartTime = startOfDay(ev.StartTime)
		ev.EndTime = endOfDay(ev.EndTime)
		if ev.EndTime.Before(ev.StartTime) {
			ev.EndTime = endOfDay(ev.StartTime)
		}
	}

	if len(input.Attendees) > 0 {
		refs, err := s.directory.Refs(ctx, input.Attendees)
		if err != nil {
			return nil, err
		}
		ev.Attendees = refs
	}

	if organizerID != 0 {
		refs, err := s.directory.Refs(ctx, []int64{organizerID})
		if err == nil && len(refs) == 1 {
			ev.Organizer = &refs[0]
		}
	}

	return ev, nil
}

func (s *Service) validateInput(input *models.CreateEventInput) error {
	if input.Title == "" {
		return errors.NewValidationError("title is required")
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return errors.NewValidationError("startTime and endTime are required")
	}
	if !input.IsAllDay && input.EndTime.Before(input.StartTime) {
		return errors.NewValidationError("endTime must not be before startTime")
	}
	if !models.ValidEventTypes[input.EventType] {
		return errors.NewValidationError("invalid event type: " + input.EventType)
	}
	if input.Color != "" && !models.ValidCalendarColors[input.Color] {
		return errors.NewValidationError("invalid color: " + input.Color)
	}
	if input.IsRecurring && input.RecurringPattern == "" {
		return errors.NewValidationError("recurringPattern is required for recurring events")
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
