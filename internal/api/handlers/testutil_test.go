// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package handlers_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jiravision/jiravision/internal/api"
	"github.com/jiravision/jiravision/internal/api/handlers"
	"github.com/jiravision/jiravision/internal/api/middleware"
	"github.com/jiravision/jiravision/internal/pkg/logger"
	"github.com/jiravision/jiravision/internal/repository/memory"
	calendarsvc "github.com/jiravision/jiravision/internal/services/calendar"
	teamsvc "github.com/jiravision/jiravision/internal/services/team"
)

const testJWTSecret = "test-secret-key-for-testing-purposes-only-minimum-32-chars"

// testSuite provides shared test infrastructure for handler tests.
// It wires the full router over in-memory storage so tests exercise
// routing, auth, and envelopes the way real requests do.
type testSuite struct {
	router chi.Router
	events *memory.EventStore
}

// setupTestSuite creates a test suite with all handlers configured.
func setupTestSuite(t *testing.T) *testSuite {
	t.Helper()

	log := logger.Nop()
	events := memory.NewEventStore()
	directory := memory.DemoTeamDirectory()

	calendarService := calendarsvc.NewService(events, teamsvc.NewService(directory, log), log)
	teamService := teamsvc.NewService(directory, log)

	h := &api.Handlers{
		System:   handlers.NewSystemHandler("test-version", "test-commit", "2026-01-01T00:00:00Z", nil),
		Calendar: handlers.NewCalendarHandler(calendarService, log),
		Team:     handlers.NewTeamHandler(teamService, log),
	}

	config := api.RouterConfig{
		JWTSecret:          testJWTSecret,
		CORSConfig:         middleware.DefaultCORSConfig(),
		RateLimitPerMinute: 1000,
		RequestTimeout:     5 * time.Second,
	}

	return &testSuite{
		router: api.NewRouter(config, h),
		events: events,
	}
}

// newSystemOnlyRouter builds a router with just the given system
// handler mounted, for health aggregation tests.
func newSystemOnlyRouter(t *testing.T, systemHandler *handlers.SystemHandler) chi.Router {
	t.Helper()

	config := api.RouterConfig{
		JWTSecret:          testJWTSecret,
		CORSConfig:         middleware.DefaultCORSConfig(),
		RateLimitPerMinute: 1000,
		RequestTimeout:     5 * time.Second,
	}
	return api.NewRouter(config, &api.Handlers{System: systemHandler})
}

// generateTestToken creates a valid JWT token for testing.
func generateTestToken(t *testing.T, userID, name string) string {
	t.Helper()

	claims := middleware.UserClaims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "jiravision-test",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return tokenString
}

// doRequest performs an HTTP request against the test router.
func doRequest(t *testing.T, router chi.Router, method, path string, body string, token string) *httptest.ResponseRecorder {
	t.Helper()

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// assertJSON checks that the response is valid JSON and returns the parsed body.
func assertJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	contentType := w.Header().Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var result map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Errorf("failed to parse JSON response: %v. Body: %s", err, w.Body.String())
	}
	return result
}

// assertFailure checks the failure envelope: success false plus a
// non-empty error message.
func assertFailure(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	body := assertJSON(t, w)
	if success, _ := body["success"].(bool); success {
		t.Errorf("expected success=false, body: %s", w.Body.String())
	}
	if msg, _ := body["error"].(string); msg == "" {
		t.Errorf("expected non-empty error message, body: %s", w.Body.String())
	}
}
