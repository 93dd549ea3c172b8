// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

// Package memory provides in-memory implementations of the storage
// contracts. Used for demo mode and tests; nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jiravision/jiravision/internal/models"
	apperrors "github.com/jiravision/jiravision/internal/pkg/errors"
)

// EventStore is an in-memory calendar event repository.
type EventStore struct {
	mu     sync.RWMutex
	events map[int64]*models.CalendarEvent
	nextID int64
}

// NewEventStore creates an empty in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		events: make(map[int64]*models.CalendarEvent),
		nextID: 1,
	}
}

// ListEvents returns all events ordered by start time then id.
func (s *EventStore) ListEvents(ctx context.Context) ([]*models.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]*models.CalendarEvent, 0, len(s.events))
	for _, ev := range s.events {
		events = append(events, cloneEvent(ev))
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].StartTime.Before(events[j].StartTime)
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

// GetEvent retrieves an event by id.
func (s *EventStore) GetEvent(ctx context.Context, id int64) (*models.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("event")
	}
	return cloneEvent(ev), nil
}

// CreateEvent stores a new event, assigning the next id.
func (s *EventStore) CreateEvent(ctx context.Context, ev *models.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	ev.CreatedAt = now
	ev.UpdatedAt = now
	s.events[ev.ID] = cloneEvent(ev)
	return nil
}

// UpdateEvent replaces a stored event.
func (s *EventStore) UpdateEvent(ctx context.Context, ev *models.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.events[ev.ID]
	if !ok {
		return apperrors.NewNotFoundError("event")
	}
	ev.CreatedAt = existing.CreatedAt
	ev.UpdatedAt = time.Now().UTC()
	s.events[ev.ID] = cloneEvent(ev)
	return nil
}

// DeleteEvent removes an event by id.
func (s *EventStore) DeleteEvent(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return apperrors.NewNotFoundError("event")
	}
	delete(s.events, id)
	return nil
}

func cloneEvent(ev *models.CalendarEvent) *models.CalendarEvent {
	clone := *ev
	clone.Attendees = append([]models.TeamMemberRef(nil), ev.Attendees...)
	if ev.Organizer != nil {
		org := *ev.Organizer
		clone.Organizer = &org
	}
	return &clone
}

// TeamDirectory is an in-memory team member repository.
type TeamDirectory struct {
	mu      sync.RWMutex
	members []*models.TeamMember
}

// NewTeamDirectory creates a directory with the given members.
func NewTeamDirectory(members ...*models.TeamMember) *TeamDirectory {
	d := &TeamDirectory{}
	for _, m := range members {
		clone := *m
		d.members = append(d.members, &clone)
	}
	return d
}

// DemoTeamDirectory returns the directory used by demo mode.
func DemoTeamDirectory() *TeamDirectory {
	created := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	return NewTeamDirectory(
		&models.TeamMember{ID: 1, Name: "Alice Johnson", Email: "alice@example.com", Role: "admin", CreatedAt: created},
		&models.TeamMember{ID: 2, Name: "Bob Smith", Email: "bob@example.com", Role: "member", CreatedAt: created},
		&models.TeamMember{ID: 3, Name: "Carol Perez", Email: "carol@example.com", Role: "member", CreatedAt: created},
		&models.TeamMember{ID: 4, Name: "Dan Lee", Email: "dan@example.com", Role: "member", CreatedAt: created},
	)
}

// ListMembers returns all members ordered by name.
func (d *TeamDirectory) ListMembers(ctx context.Context) ([]*models.TeamMember, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	members := make([]*models.TeamMember, 0, len(d.members))
	for _, m := range d.members {
		clone := *m
		members = append(members, &clone)
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Name != members[j].Name {
			return members[i].Name < members[j].Name
		}
		return members[i].ID < members[j].ID
	})
	return members, nil
}

// GetMembersByIDs returns members matching the given ids.
func (d *TeamDirectory) GetMembersByIDs(ctx context.Context, ids []int64) ([]*models.TeamMember, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var members []*models.TeamMember
	for _, m := range d.members {
		if want[m.ID] {
			clone := *m
			members = append(members, &clone)
		}
	}
	return members, nil
}
