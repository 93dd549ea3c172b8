// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jiravision/jiravision/internal/api/middleware"
	"github.com/jiravision/jiravision/internal/ics"
	"github.com/jiravision/jiravision/internal/models"
	"github.com/jiravision/jiravision/internal/pkg/logger"
	"github.com/jiravision/jiravision/internal/services/calendar"
)

// CalendarHandler handles calendar API requests.
type CalendarHandler struct {
	BaseHandler
	calendarService *calendar.Service
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(calendarService *calendar.Service, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		BaseHandler:     NewBaseHandler(log),
		calendarService: calendarService,
	}
}

// Routes registers calendar API routes.
func (h *CalendarHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth)

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Post("/", h.CreateEvent)
		r.Get("/export.ics", h.ExportICS)
		r.Put("/{id}", h.UpdateEvent)
		r.Delete("/{id}", h.DeleteEvent)
	})

	return r
}

// listEventsResponse is the list endpoint envelope.
type listEventsResponse struct {
	Success bool                    `json:"success"`
	Events  []*models.CalendarEvent `json:"events"`
}

// eventResponse is the single-event envelope.
type eventResponse struct {
	Success bool                  `json:"success"`
	Event   *models.CalendarEvent `json:"event"`
}

// deleteResponse is the delete endpoint envelope.
type deleteResponse struct {
	Success bool `json:"success"`
}

// ListEvents returns all calendar events.
func (h *CalendarHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.calendarService.ListEvents(r.Context())
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if events == nil {
		events = []*models.CalendarEvent{}
	}
	h.OK(w, listEventsResponse{Success: true, Events: events})
}

// CreateEvent creates a new calendar event. The authenticated member
// becomes the organizer.
func (h *CalendarHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input models.CreateEventInput
	if err := h.ParseJSON(r, &input); err != nil {
		h.HandleError(w, err)
		return
	}

	ev, err := h.calendarService.CreateEvent(r.Context(), h.GetMemberID(r), &input)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.Created(w, eventResponse{Success: true, Event: ev})
}

// UpdateEvent replaces a calendar event.
func (h *CalendarHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	var input models.CreateEventInput
	if err := h.ParseJSON(r, &input); err != nil {
		h.HandleError(w, err)
		return
	}

	ev, err := h.calendarService.UpdateEvent(r.Context(), id, &input)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, eventResponse{Success: true, Event: ev})
}

// DeleteEvent deletes a calendar event.
func (h *CalendarHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := h.URLParamID(r, "id")
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.calendarService.DeleteEvent(r.Context(), id); err != nil {
		h.HandleError(w, err)
		return
	}

	h.OK(w, deleteResponse{Success: true})
}

// ExportICS streams all events as an iCalendar document.
func (h *CalendarHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	events, err := h.calendarService.ListEvents(r.Context())
	if err != nil {
		h.HandleError(w, err)
		return
	}

	data, err := ics.Export(events)
	if err != nil {
		h.InternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="jiravision.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write ICS export", "error", err)
	}
}
