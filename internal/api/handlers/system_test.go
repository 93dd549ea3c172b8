// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jiravision/jiravision/internal/api/handlers"
)

func TestHealth(t *testing.T) {
	ts := setupTestSuite(t)

	w := doRequest(t, ts.router, http.MethodGet, "/health", "", "")

	assertStatus(t, w, http.StatusOK)
	body := assertJSON(t, w)
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
	if body["version"] != "test-version" {
		t.Errorf("version = %v, want test-version", body["version"])
	}
}

func TestHealth_UnhealthyComponent(t *testing.T) {
	systemHandler := handlers.NewSystemHandler("test-version", "", "", nil)
	systemHandler.RegisterHealthChecker("database", func(ctx context.Context) *handlers.HealthStatus {
		return &handlers.HealthStatus{Status: "unhealthy", Message: "connection refused"}
	})

	router := newSystemOnlyRouter(t, systemHandler)
	w := doRequest(t, router, http.MethodGet, "/health", "", "")

	assertStatus(t, w, http.StatusServiceUnavailable)
	body := assertJSON(t, w)
	if body["status"] != "unhealthy" {
		t.Errorf("status = %v, want unhealthy", body["status"])
	}
}

func TestLiveness(t *testing.T) {
	ts := setupTestSuite(t)

	w := doRequest(t, ts.router, http.MethodGet, "/healthz", "", "")

	assertStatus(t, w, http.StatusOK)
	body := assertJSON(t, w)
	if body["status"] != "alive" {
		t.Errorf("status = %v, want alive", body["status"])
	}
}

func TestReadiness(t *testing.T) {
	ts := setupTestSuite(t)

	w := doRequest(t, ts.router, http.MethodGet, "/ready", "", "")

	assertStatus(t, w, http.StatusOK)
	body := assertJSON(t, w)
	if body["status"] != "ready" {
		t.Errorf("status = %v, want ready", body["status"])
	}
}

func TestVersion_Public(t *testing.T) {
	ts := setupTestSuite(t)

	// No token needed.
	w := doRequest(t, ts.router, http.MethodGet, "/api/system/version", "", "")

	assertStatus(t, w, http.StatusOK)
	body := assertJSON(t, w)
	if body["version"] != "test-version" {
		t.Errorf("version = %v, want test-version", body["version"])
	}
	if body["commit"] != "test-commit" {
		t.Errorf("commit = %v, want test-commit", body["commit"])
	}
	if goVersion, _ := body["go_version"].(string); goVersion == "" {
		t.Error("expected go_version to be set")
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestSuite(t)

	w := doRequest(t, ts.router, http.MethodGet, "/api/does-not-exist", "", "")

	assertStatus(t, w, http.StatusNotFound)
}
