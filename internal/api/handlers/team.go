// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jiravision/jiravision/internal/api/middleware"
	"github.com/jiravision/jiravision/internal/models"
	"github.com/jiravision/jiravision/internal/pkg/logger"
	"github.com/jiravision/jiravision/internal/services/team"
)

// TeamHandler handles team directory API requests.
type TeamHandler struct {
	BaseHandler
	teamService *team.Service
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(teamService *team.Service, log *logger.Logger) *TeamHandler {
	return &TeamHandler{
		BaseHandler: NewBaseHandler(log),
		teamService: teamService,
	}
}

// Routes registers team API routes.
func (h *TeamHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth)

	r.Get("/members", h.ListMembers)

	return r
}

// listMembersResponse is the member list envelope.
type listMembersResponse struct {
	Success bool                 `json:"success"`
	Members []*models.TeamMember `json:"members"`
}

// ListMembers returns the workspace member directory.
func (h *TeamHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.teamService.ListMembers(r.Context())
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if members == nil {
		members = []*models.TeamMember{}
	}
	h.OK(w, listMembersResponse{Success: true, Members: members})
}
