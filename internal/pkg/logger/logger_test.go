// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithOutput_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithOutput("warn", "json", &buf)
	if err != nil {
		t.Fatalf("NewWithOutput() error: %v", err)
	}

	log.Info("should be filtered")
	log.Warn("should appear")
	log.Sync()

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("info message logged despite warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message missing")
	}
}

func TestLogger_RedactsSensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithOutput("info", "json", &buf)
	if err != nil {
		t.Fatalf("NewWithOutput() error: %v", err)
	}

	log.Info("connecting",
		"database_url", "postgres://user:hunter2@db/app",
		"host", "db",
	)
	log.Sync()

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Errorf("sensitive value leaked: %s", out)
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Errorf("expected redaction marker: %s", out)
	}
	if !strings.Contains(out, `"host":"db"`) {
		t.Errorf("non-sensitive field missing: %s", out)
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithOutput("info", "json", &buf)
	if err != nil {
		t.Fatalf("NewWithOutput() error: %v", err)
	}

	if log.GetLevel() != "info" {
		t.Errorf("GetLevel() = %q, want info", log.GetLevel())
	}
	if err := log.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel() error: %v", err)
	}
	if log.GetLevel() != "debug" {
		t.Errorf("GetLevel() = %q, want debug", log.GetLevel())
	}
	if err := log.SetLevel("bogus"); err == nil {
		t.Error("expected error for bogus level")
	}
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithOutput("info", "json", &buf)
	if err != nil {
		t.Fatalf("NewWithOutput() error: %v", err)
	}

	log.Named("calendar").Info("hello")
	log.Sync()

	if !strings.Contains(buf.String(), `"logger":"calendar"`) {
		t.Errorf("named logger missing name field: %s", buf.String())
	}
}

func TestSanitizeStringMap(t *testing.T) {
	in := map[string]string{
		"jwt_secret": "super-secret",
		"level":      "info",
	}
	out := SanitizeStringMap(in)

	if out["jwt_secret"] != "[REDACTED]" {
		t.Errorf("jwt_secret = %q, want redacted", out["jwt_secret"])
	}
	if out["level"] != "info" {
		t.Errorf("level = %q, want info", out["level"])
	}
	if in["jwt_secret"] != "super-secret" {
		t.Error("input map mutated")
	}
}
