// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package postgres

import (
	"context"
	"embed"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migration is a single versioned schema change.
type migration struct {
	version int
	name    string
	upSQL   string
	downSQL string
}

// loadMigrations reads the embedded migration files. File naming:
// NNNN_name.up.sql / NNNN_name.down.sql.
func loadMigrations() ([]migration, error) {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	byVersion := make(map[int]*migration)
	for _, entry := range entries {
		base := entry.Name()

		var down bool
		var trimmed string
		switch {
		case strings.HasSuffix(base, ".up.sql"):
			trimmed = strings.TrimSuffix(base, ".up.sql")
		case strings.HasSuffix(base, ".down.sql"):
			trimmed = strings.TrimSuffix(base, ".down.sql")
			down = true
		default:
			continue
		}

		versionStr, name, ok := strings.Cut(trimmed, "_")
		if !ok {
			return nil, fmt.Errorf("malformed migration filename: %s", base)
		}
		version, err := strconv.Atoi(versionStr)
		if err != nil {
			return nil, fmt.Errorf("malformed migration version in %s: %w", base, err)
		}

		content, err := migrationFiles.ReadFile(path.Join("migrations", base))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", base, err)
		}

		m, exists := byVersion[version]
		if !exists {
			m = &migration{version: version, name: name}
			byVersion[version] = m
		}
		if down {
			m.downSQL = string(content)
		} else {
			m.upSQL = string(content)
		}
	}

	migrations := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.upSQL == "" {
			return nil, fmt.Errorf("migration %04d_%s has no up file", m.version, m.name)
		}
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].version < migrations[j].version
	})
	return migrations, nil
}

// ensureVersionTable creates the schema_migrations table if missing.
func (db *DB) ensureVersionTable(ctx context.Context) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// appliedVersions returns the set of applied migration versions.
func (db *DB) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := db.Query(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// Migrate applies all pending migrations, each in its own transaction.
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.ensureVersionTable(ctx); err != nil {
		return err
	}

	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}

		tx, err := db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin migration %04d: %w", m.version, err)
		}

		if _, err := tx.Exec(ctx, m.upSQL); err != nil {
			tx.Rollback(ctx) //nolint:errcheck
			return fmt.Errorf("apply migration %04d_%s: %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
			m.version, m.name); err != nil {
			tx.Rollback(ctx) //nolint:errcheck
			return fmt.Errorf("record migration %04d: %w", m.version, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit migration %04d: %w", m.version, err)
		}
	}

	return nil
}

// MigrationStatus prints the applied/pending state of each migration.
func (db *DB) MigrationStatus(ctx context.Context) error {
	if err := db.ensureVersionTable(ctx); err != nil {
		return err
	}

	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		state := "pending"
		if applied[m.version] {
			state = "applied"
		}
		fmt.Printf("%04d_%s\t%s\n", m.version, m.name, state)
	}
	return nil
}

// MigrateDown rolls back the last n applied migrations.
func (db *DB) MigrateDown(ctx context.Context, nStr string) error {
	n, err := strconv.Atoi(nStr)
	if err != nil || n < 1 {
		return fmt.Errorf("invalid rollback count: %q", nStr)
	}

	if err := db.ensureVersionTable(ctx); err != nil {
		return err
	}

	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return err
	}

	// Roll back newest first.
	for i := len(migrations) - 1; i >= 0 && n > 0; i-- {
		m := migrations[i]
		if !applied[m.version] {
			continue
		}
		if m.downSQL == "" {
			return fmt.Errorf("migration %04d_%s has no down file", m.version, m.name)
		}

		tx, err := db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin rollback %04d: %w", m.version, err)
		}

		if _, err := tx.Exec(ctx, m.downSQL); err != nil {
			tx.Rollback(ctx) //nolint:errcheck
			return fmt.Errorf("roll back migration %04d_%s: %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM schema_migrations WHERE version = $1`, m.version); err != nil {
			tx.Rollback(ctx) //nolint:errcheck
			return fmt.Errorf("unrecord migration %04d: %w", m.version, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit rollback %04d: %w", m.version, err)
		}
		n--
	}

	return nil
}
