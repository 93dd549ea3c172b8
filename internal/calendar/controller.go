// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jiravision/jiravision/internal/models"
	"github.com/jiravision/jiravision/internal/pkg/logger"
)

// Controller owns the calendar view state: the anchor date, the view
// mode, and the loaded event list. Everything else (grid cells, event
// placement, header label) is derived on demand and never cached, so a
// reader can never observe stale derived state.
//
// Mutations go through the EventSource and are followed by a full
// reload; the controller never patches its event list in place. A
// failed gateway call leaves the previous state fully intact.
//
// Controller is safe for concurrent use.
type Controller struct {
	mu     sync.RWMutex
	source EventSource
	log    *logger.Logger
	now    func() time.Time

	current time.Time
	view    ViewMode
	events  []models.CalendarEvent
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock injects the time source. Tests pin it to a fixed instant.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithInitialView sets the starting view mode. Invalid modes are
// ignored and the default (month) kept.
func WithInitialView(view ViewMode) Option {
	return func(c *Controller) {
		if view.Valid() {
			c.view = view
		}
	}
}

// NewController creates a controller anchored at today in month view.
// The event list starts empty; call Refresh to load it.
func NewController(source EventSource, log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		source: source,
		log:    log.Named("calendar"),
		now:    time.Now,
		view:   ViewMonth,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.current = StartOfDay(c.now())
	return c
}

// CurrentDate returns the anchor date.
func (c *Controller) CurrentDate() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// CurrentView returns the active view mode.
func (c *Controller) CurrentView() ViewMode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Events returns a copy of the loaded event list.
func (c *Controller) Events() []models.CalendarEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.CalendarEvent, len(c.events))
	copy(out, c.events)
	return out
}

// Days derives the grid cells for the current anchor, view, and event
// list. The result is recomputed on every call.
func (c *Controller) Days() []CalendarDay {
	c.mu.RLock()
	defer c.mu.RUnlock()
	days, err := BuildDays(c.current, c.view, c.events, c.now())
	if err != nil {
		// The view is validated on every write; reaching this is a bug.
		panic(fmt.Sprintf("calendar: invalid controller state: %v", err))
	}
	return days
}

// FormattedDate derives the header label for the current anchor and
// view. Month: "January 2026". Week: "Jan 5 - Jan 11, 2026". Day:
// "Monday, January 5, 2026".
func (c *Controller) FormattedDate() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch c.view {
	case ViewWeek:
		start := StartOfWeek(c.current)
		end := start.AddDate(0, 0, 6)
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
	case ViewDay:
		return c.current.Format("Monday, January 2, 2006")
	default:
		return c.current.Format("January 2006")
	}
}

// ChangeView switches the view mode, preserving the anchor date.
func (c *Controller) ChangeView(view ViewMode) error {
	if !view.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidViewMode, view)
	}
	c.mu.Lock()
	c.view = view
	c.mu.Unlock()
	return nil
}

// Next advances the anchor by one unit of the current view.
func (c *Controller) Next() {
	c.shift(1)
}

// Previous moves the anchor back by one unit of the current view.
func (c *Controller) Previous() {
	c.shift(-1)
}

func (c *Controller) shift(direction int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var next time.Time
	var err error
	if direction > 0 {
		next, err = NextPeriod(c.current, c.view)
	} else {
		next, err = PreviousPeriod(c.current, c.view)
	}
	if err != nil {
		panic(fmt.Sprintf("calendar: invalid controller state: %v", err))
	}
	c.current = next
}

// Today resets the anchor to the injected clock's current date.
func (c *Controller) Today() {
	c.mu.Lock()
	c.current = StartOfDay(c.now())
	c.mu.Unlock()
}

// Refresh reloads the full event list through the gateway. On failure
// the previous list is kept and the error returned.
func (c *Controller) Refresh(ctx context.Context) error {
	events, err := c.source.List(ctx)
	if err != nil {
		c.log.Warn("event refresh failed, keeping current state", "error", err)
		return err
	}

	c.mu.Lock()
	c.events = events
	c.mu.Unlock()
	return nil
}

// CreateEvent creates an event through the gateway and reloads the
// list on success.
func (c *Controller) CreateEvent(ctx context.Context, input *models.CreateEventInput) (*models.CalendarEvent, error) {
	event, err := c.source.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	if rerr := c.Refresh(ctx); rerr != nil {
		c.log.Warn("reload after create failed", "eventId", event.ID, "error", rerr)
	}
	return event, nil
}

// UpdateEvent replaces an event through the gateway and reloads the
// list on success. A failed update leaves the event list untouched.
func (c *Controller) UpdateEvent(ctx context.Context, id int64, input *models.CreateEventInput) (*models.CalendarEvent, error) {
	event, err := c.source.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	if rerr := c.Refresh(ctx); rerr != nil {
		c.log.Warn("reload after update failed", "eventId", id, "error", rerr)
	}
	return event, nil
}

// DeleteEvent deletes an event through the gateway. The list is
// reloaded even when the delete fails: a not-found delete means the
// local copy is out of date, and the reload converges it.
func (c *Controller) DeleteEvent(ctx context.Context, id int64) error {
	err := c.source.Delete(ctx, id)
	if rerr := c.Refresh(ctx); rerr != nil {
		c.log.Warn("reload after delete failed", "eventId", id, "error", rerr)
	}
	return err
}
