// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package models

import (
	"strings"
	"time"
)

// TeamMemberRef is the lightweight reference carried on calendar events
// for organizers and attendees. The name is what the dashboard uses for
// avatar initials.
type TeamMemberRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TeamMember represents a member of the workspace team directory.
type TeamMember struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Ref returns the event-embeddable reference for the member.
func (m *TeamMember) Ref() TeamMemberRef {
	return TeamMemberRef{ID: m.ID, Name: m.Name}
}

// Initials derives up to two avatar initials from the member's name.
func (r TeamMemberRef) Initials() string {
	fields := strings.Fields(r.Name)
	switch len(fields) {
	case 0:
		return "?"
	case 1:
		return strings.ToUpper(fields[0][:1])
	default:
		return strings.ToUpper(fields[0][:1] + fields[len(fields)-1][:1])
	}
}
