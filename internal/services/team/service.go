// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

// Package team provides read access to the workspace member directory.
package team

import (
	"context"
	"fmt"

	"github.com/jiravision/jiravision/internal/models"
	"github.com/jiravision/jiravision/internal/pkg/errors"
	"github.com/jiravision/jiravision/internal/pkg/logger"
)

// Repository is the storage contract for team members.
type Repository interface {
	ListMembers(ctx context.Context) ([]*models.TeamMember, error)
	GetMembersByIDs(ctx context.Context, ids []int64) ([]*models.TeamMember, error)
}

// Service reads the team member directory.
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new team service.
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log.Named("team"),
	}
}

// ListMembers returns all workspace members.
func (s *Service) ListMembers(ctx context.Context) ([]*models.TeamMember, error) {
	members, err := s.repo.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return members, nil
}

// Refs resolves member ids to event-embeddable references, preserving
// the input order. An unknown id is a validation error so a bad
// attendee list is rejected before anything is persisted.
func (s *Service) Refs(ctx context.Context, ids []int64) ([]models.TeamMemberRef, error) {
	if len(ids) == 0 {
		return []models.TeamMemberRef{}, nil
	}

	members, err := s.repo.GetMembersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve team members: %w", err)
	}

	byID := make(map[int64]*models.TeamMember, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	refs := make([]models.TeamMemberRef, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return nil, errors.NewValidationError(fmt.Sprintf("unknown team member id %d", id))
		}
		refs = append(refs, m.Ref())
	}
	return refs, nil
}
