// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package calendar

import (
	"context"

	"github.com/jiravision/jiravision/internal/models"
)

// EventSource is the gateway contract the controller loads and mutates
// events through. Implementations include the HTTP client against the
// calendar API and the in-memory store used for demo mode and tests.
//
// Errors follow the shared taxonomy: validation failures for
// constraint-violating input, not-found for unknown ids on update and
// delete, fetch errors for transport failures, and persistence errors
// for storage failures. A fetch or persistence error means the caller's
// current state is still the best available and must not be cleared.
type EventSource interface {
	List(ctx context.Context) ([]models.CalendarEvent, error)
	Create(ctx context.Context, input *models.CreateEventInput) (*models.CalendarEvent, error)
	Update(ctx context.Context, id int64, input *models.CreateEventInput) (*models.CalendarEvent, error)
	Delete(ctx context.Context, id int64) error
}
