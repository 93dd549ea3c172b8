// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package postgres_test

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"testing"
)

// Static analysis of the migration files. No database required: the
// tests read migrations/ and check that every up migration has a down
// that fully reverses it, and that the calendar schema the migrations
// build is the one the repositories expect.

var (
	reCreateTable = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?(\w+)`)
	reCreateIndex = regexp.MustCompile(`(?i)CREATE\s+(?:UNIQUE\s+)?INDEX\s+(?:IF\s+NOT\s+EXISTS\s+)?(\w+)`)
	reDropTable   = regexp.MustCompile(`(?i)DROP\s+TABLE\s+(?:IF\s+EXISTS\s+)?(\w+)`)
	reDropIndex   = regexp.MustCompile(`(?i)DROP\s+INDEX\s+(?:IF\s+EXISTS\s+)?(\w+)`)
	reVersion     = regexp.MustCompile(`^(\d+)_`)
)

type migrationPair struct {
	version string
	up      string
	down    string
}

// loadMigrationPairs reads migrations/ and returns the up/down pairs in
// version order, failing the test on any unpaired file.
func loadMigrationPairs(t *testing.T) []migrationPair {
	t.Helper()

	upFiles, err := filepath.Glob(filepath.Join("migrations", "*.up.sql"))
	if err != nil {
		t.Fatalf("glob up migrations: %v", err)
	}
	sort.Strings(upFiles)
	if len(upFiles) == 0 {
		t.Fatal("no up migration files found")
	}

	downFiles, err := filepath.Glob(filepath.Join("migrations", "*.down.sql"))
	if err != nil {
		t.Fatalf("glob down migrations: %v", err)
	}
	downSet := make(map[string]bool, len(downFiles))
	for _, f := range downFiles {
		downSet[strings.TrimSuffix(filepath.Base(f), ".down.sql")] = true
	}
	if len(downFiles) != len(upFiles) {
		t.Errorf("%d up migrations but %d down migrations", len(upFiles), len(downFiles))
	}

	var pairs []migrationPair
	for _, upPath := range upFiles {
		version := strings.TrimSuffix(filepath.Base(upPath), ".up.sql")
		if !downSet[version] {
			t.Errorf("migration %s has no down (rollback) file", version)
			continue
		}

		up, err := os.ReadFile(upPath)
		if err != nil {
			t.Fatalf("read %s: %v", upPath, err)
		}
		down, err := os.ReadFile(filepath.Join("migrations", version+".down.sql"))
		if err != nil {
			t.Fatalf("read %s.down.sql: %v", version, err)
		}
		pairs = append(pairs, migrationPair{version: version, up: string(up), down: string(down)})
	}
	return pairs
}

func names(sql string, re *regexp.Regexp) []string {
	var result []string
	seen := make(map[string]bool)
	for _, m := range re.FindAllStringSubmatch(sql, -1) {
		name := strings.ToLower(m[1])
		if !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	return result
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

func TestMigrationVersionsSequential(t *testing.T) {
	pairs := loadMigrationPairs(t)

	prev := 0
	for _, p := range pairs {
		m := reVersion.FindStringSubmatch(p.version)
		if m == nil {
			t.Fatalf("migration %q does not follow NNNN_name naming", p.version)
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			t.Fatalf("migration %q version: %v", p.version, err)
		}
		if num != prev+1 {
			t.Errorf("migration versions must be sequential: got %d after %d", num, prev)
		}
		prev = num
	}
}

// TestMigrationDownReversesUp checks that each down migration drops
// exactly what its up migration creates, and nothing else.
func TestMigrationDownReversesUp(t *testing.T) {
	for _, p := range loadMigrationPairs(t) {
		t.Run(p.version, func(t *testing.T) {
			createdTables := names(p.up, reCreateTable)
			droppedTables := names(p.down, reDropTable)
			for _, table := range createdTables {
				if !contains(droppedTables, table) {
					t.Errorf("up creates table %q but down does not drop it", table)
				}
			}
			for _, table := range droppedTables {
				if !contains(createdTables, table) {
					t.Errorf("down drops table %q that up does not create", table)
				}
			}

			createdIndexes := names(p.up, reCreateIndex)
			droppedIndexes := names(p.down, reDropIndex)
			for _, idx := range createdIndexes {
				if !contains(droppedIndexes, idx) {
					t.Errorf("up creates index %q but down does not drop it", idx)
				}
			}
		})
	}
}

// TestCalendarSchema pins the schema the repositories are written
// against: the three tables, their indexes, and the cross-migration
// foreign keys.
func TestCalendarSchema(t *testing.T) {
	pairs := loadMigrationPairs(t)

	allSQL := make(map[string]string, len(pairs)) // table -> creating migration version
	var allTables, allIndexes []string
	for _, p := range pairs {
		for _, table := range names(p.up, reCreateTable) {
			allTables = append(allTables, table)
			allSQL[table] = p.version
		}
		allIndexes = append(allIndexes, names(p.up, reCreateIndex)...)
	}

	wantTables := []string{"team_members", "calendar_events", "event_attendees"}
	for _, table := range wantTables {
		if !contains(allTables, table) {
			t.Errorf("migrations never create table %q", table)
		}
	}
	if len(allTables) != len(wantTables) {
		t.Errorf("migrations create tables %v, want exactly %v", allTables, wantTables)
	}

	wantIndexes := []string{
		"idx_team_members_email",
		"idx_calendar_events_start_time",
		"idx_calendar_events_end_time",
		"idx_event_attendees_member",
	}
	for _, idx := range wantIndexes {
		if !contains(allIndexes, idx) {
			t.Errorf("migrations never create index %q", idx)
		}
	}

	// calendar_events references team_members, so team_members must be
	// created by an earlier migration.
	if allSQL["team_members"] >= allSQL["calendar_events"] {
		t.Errorf("team_members (%s) must be created before calendar_events (%s)",
			allSQL["team_members"], allSQL["calendar_events"])
	}

	// Events carry the query patterns the repository relies on.
	for _, p := range pairs {
		if !strings.Contains(p.up, "calendar_events") {
			continue
		}
		if !regexp.MustCompile(`(?i)organizer_id\s+BIGINT\s+REFERENCES\s+team_members`).MatchString(p.up) {
			t.Error("calendar_events.organizer_id must reference team_members")
		}
		if !regexp.MustCompile(`(?i)REFERENCES\s+calendar_events\s*\(id\)\s+ON\s+DELETE\s+CASCADE`).MatchString(p.up) {
			t.Error("event_attendees must cascade-delete with calendar_events")
		}
	}
}

// TestMigrationRollbackOrder checks that within each down migration,
// dependent tables are dropped before the tables they reference.
func TestMigrationRollbackOrder(t *testing.T) {
	for _, p := range loadMigrationPairs(t) {
		if !strings.Contains(p.down, "event_attendees") {
			continue
		}
		attendees := strings.Index(strings.ToLower(p.down), "drop table if exists event_attendees")
		events := strings.Index(strings.ToLower(p.down), "drop table if exists calendar_events")
		if attendees == -1 || events == -1 {
			t.Fatalf("%s down must drop both event_attendees and calendar_events", p.version)
		}
		if attendees > events {
			t.Errorf("%s down must drop event_attendees before calendar_events (FK dependency)", p.version)
		}
	}
}
