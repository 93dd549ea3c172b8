// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package postgres

import (
	"context"

	"github.com/jiravision/jiravision/internal/models"
	apperrors "github.com/jiravision/jiravision/internal/pkg/errors"
)

// TeamRepository handles team member directory reads.
type TeamRepository struct {
	db *DB
}

// NewTeamRepository creates a new team repository.
func NewTeamRepository(db *DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// ListMembers returns all team members ordered by name.
func (r *TeamRepository) ListMembers(ctx context.Context) ([]*models.TeamMember, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, role, created_at
		FROM team_members
		ORDER BY name, id`)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list team members: " + err.Error())
	}
	defer rows.Close()

	var members []*models.TeamMember
	for rows.Next() {
		m := &models.TeamMember{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.CreatedAt); err != nil {
			return nil, apperrors.NewPersistenceError("scan team member: " + err.Error())
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("iterate team members: " + err.Error())
	}
	return members, nil
}

// GetMembersByIDs returns the members matching the given ids. Missing
// ids are simply absent from the result; callers decide whether that
// is an error.
func (r *TeamRepository) GetMembersByIDs(ctx context.Context, ids []int64) ([]*models.TeamMember, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, role, created_at
		FROM team_members
		WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, apperrors.NewPersistenceError("get team members: " + err.Error())
	}
	defer rows.Close()

	var members []*models.TeamMember
	for rows.Next() {
		m := &models.TeamMember{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.CreatedAt); err != nil {
			return nil, apperrors.NewPersistenceError("scan team member: " + err.Error())
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("iterate team members: " + err.Error())
	}
	return members, nil
}
