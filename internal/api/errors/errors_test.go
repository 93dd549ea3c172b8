// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/jiravision/jiravision/internal/pkg/errors"
)

// ============================================================================
// APIError
// ============================================================================

func TestAPIError_ImplementsErrorInterface(t *testing.T) {
	var _ error = &APIError{}
}

func TestAPIError_Error(t *testing.T) {
	e := &APIError{Status: 404, Code: ErrCodeNotFound, Message: "event not found"}
	if e.Error() != "event not found" {
		t.Errorf("Error() = %q, want %q", e.Error(), "event not found")
	}
}

func TestAPIError_EnvelopeShape(t *testing.T) {
	e := NewError(http.StatusBadRequest, ErrCodeValidation, "title is required")
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if success, ok := body["success"].(bool); !ok || success {
		t.Errorf(`body["success"] = %v, want false`, body["success"])
	}
	if body["error"] != "title is required" {
		t.Errorf(`body["error"] = %v, want the message`, body["error"])
	}
	if _, ok := body["status"]; ok {
		t.Error("HTTP status must not leak into the body")
	}
}

// ============================================================================
// NewError / NewErrorWithDetails
// ============================================================================

func TestNewError(t *testing.T) {
	e := NewError(http.StatusBadRequest, ErrCodeValidation, "bad input")
	if e.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusBadRequest)
	}
	if e.Code != ErrCodeValidation {
		t.Errorf("Code = %q, want %q", e.Code, ErrCodeValidation)
	}
	if e.Message != "bad input" {
		t.Errorf("Message = %q, want %q", e.Message, "bad input")
	}
	if e.Details != nil {
		t.Error("Details should be nil")
	}
}

func TestNewErrorWithDetails(t *testing.T) {
	details := map[string]string{"field": "title"}
	e := NewErrorWithDetails(http.StatusBadRequest, ErrCodeMissingField, "missing", details)
	if e.Details == nil {
		t.Fatal("Details should not be nil")
	}
}

// ============================================================================
// WriteError
// ============================================================================

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	e := NewError(http.StatusNotFound, ErrCodeNotFound, "not found")
	WriteError(w, e)

	if w.Code != http.StatusNotFound {
		t.Errorf("status code = %d, want %d", w.Code, http.StatusNotFound)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if xct := w.Header().Get("X-Content-Type-Options"); xct != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", xct)
	}

	var body APIError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Code != ErrCodeNotFound {
		t.Errorf("body.Code = %q, want %q", body.Code, ErrCodeNotFound)
	}
	if body.Success {
		t.Error("body.Success should be false")
	}
}

func TestWriteErrorWithRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	e := NewError(http.StatusInternalServerError, ErrCodeInternal, "error")
	WriteErrorWithRequestID(w, e, "req-123")

	var body APIError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.RequestID != "req-123" {
		t.Errorf("RequestID = %q, want %q", body.RequestID, "req-123")
	}
}

// ============================================================================
// Authentication error constructors
// ============================================================================

func TestUnauthorized(t *testing.T) {
	e := Unauthorized("")
	if e.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusUnauthorized)
	}
	if e.Code != ErrCodeUnauthorized {
		t.Errorf("Code = %q, want %q", e.Code, ErrCodeUnauthorized)
	}
	if e.Message != "Authentication required" {
		t.Errorf("Message = %q, want default message", e.Message)
	}
}

func TestUnauthorized_CustomMessage(t *testing.T) {
	e := Unauthorized("custom msg")
	if e.Message != "custom msg" {
		t.Errorf("Message = %q, want %q", e.Message, "custom msg")
	}
}

func TestInvalidToken(t *testing.T) {
	e := InvalidToken("")
	if e.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusUnauthorized)
	}
	if e.Code != ErrCodeInvalidToken {
		t.Errorf("Code = %q, want %q", e.Code, ErrCodeInvalidToken)
	}
}

func TestExpiredToken(t *testing.T) {
	e := ExpiredToken()
	if e.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusUnauthorized)
	}
	if e.Code != ErrCodeExpiredToken {
		t.Errorf("Code = %q, want %q", e.Code, ErrCodeExpiredToken)
	}
}

func TestInvalidCredentials(t *testing.T) {
	e := InvalidCredentials()
	if e.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusUnauthorized)
	}
	if e.Code != ErrCodeInvalidCredentials {
		t.Errorf("Code = %q, want %q", e.Code, ErrCodeInvalidCredentials)
	}
}

func TestForbidden(t *testing.T) {
	e := Forbidden("")
	if e.Status != http.StatusForbidden {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusForbidden)
	}
	if e.Code != ErrCodeForbidden {
		t.Errorf("Code = %q, want %q", e.Code, ErrCodeForbidden)
	}
	if e.Message != "Access denied" {
		t.Errorf("Message = %q, want default", e.Message)
	}
}

// ============================================================================
// Resource error constructors
// ============================================================================

func TestNotFound(t *testing.T) {
	e := NotFound("event")
	if e.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusNotFound)
	}
	if !strings.Contains(e.Message, "event") {
		t.Errorf("Message should mention resource, got: %s", e.Message)
	}
}

func TestNotFound_Empty(t *testing.T) {
	e := NotFound("")
	if e.Message != "Resource not found" {
		t.Errorf("Message = %q, want default message", e.Message)
	}
}

func TestEventNotFound(t *testing.T) {
	e := EventNotFound(42)
	if e.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusNotFound)
	}
	if e.Code != ErrCodeNotFound {
		t.Errorf("Code = %q, want %q", e.Code, ErrCodeNotFound)
	}
	if e.Details == nil {
		t.Error("Details should carry the event id")
	}
}

func TestAlreadyExists(t *testing.T) {
	e := AlreadyExists("member")
	if e.Status != http.StatusConflict {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusConflict)
	}
	if e.Code != ErrCodeAlreadyExists {
		t.Errorf("Code = %q, want %q", e.Code, ErrCodeAlreadyExists)
	}
}

func TestConflict(t *testing.T) {
	e := Conflict("")
	if e.Status != http.StatusConflict {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusConflict)
	}
	if e.Message != "Resource conflict" {
		t.Errorf("Message = %q, want default", e.Message)
	}
}

// ============================================================================
// Validation error constructors
// ============================================================================

func TestValidationFailed(t *testing.T) {
	errs := ValidationErrors{
		{Field: "title", Message: "required"},
		{Field: "endTime", Message: "must not be before startTime"},
	}
	e := ValidationFailed(errs)
	if e.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusBadRequest)
	}
	if e.Code != ErrCodeValidation {
		t.Errorf("Code = %q, want %q", e.Code, ErrCodeValidation)
	}
	if e.Details == nil {
		t.Error("Details should contain validation errors")
	}
}

func TestInvalidInput(t *testing.T) {
	e := InvalidInput("")
	if e.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusBadRequest)
	}
	if e.Message != "Invalid input" {
		t.Errorf("Message = %q, want default", e.Message)
	}
}

func TestMissingField(t *testing.T) {
	e := MissingField("title")
	if e.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusBadRequest)
	}
	if e.Code != ErrCodeMissingField {
		t.Errorf("Code = %q, want %q", e.Code, ErrCodeMissingField)
	}
}

// ============================================================================
// Rate limiting
// ============================================================================

func TestRateLimited(t *testing.T) {
	e := RateLimited(30)
	if e.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusTooManyRequests)
	}
	if e.Code != ErrCodeRateLimited {
		t.Errorf("Code = %q, want %q", e.Code, ErrCodeRateLimited)
	}
}

// ============================================================================
// Server error constructors
// ============================================================================

func TestInternal(t *testing.T) {
	e := Internal("")
	if e.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusInternalServerError)
	}
	if e.Message != "Internal server error" {
		t.Errorf("Message = %q, want default", e.Message)
	}
}

func TestServiceUnavailable(t *testing.T) {
	e := ServiceUnavailable("")
	if e.Status != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusServiceUnavailable)
	}
}

func TestStoreUnreachable(t *testing.T) {
	e := StoreUnreachable("")
	if e.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusBadGateway)
	}
	if e.Code != ErrCodeUnavailable {
		t.Errorf("Code = %q, want %q", e.Code, ErrCodeUnavailable)
	}
}

func TestTimeout(t *testing.T) {
	e := Timeout("")
	if e.Status != http.StatusGatewayTimeout {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusGatewayTimeout)
	}
	if e.Message != "Request timed out" {
		t.Errorf("Message = %q, want default", e.Message)
	}
}

// ============================================================================
// FromError / FromAppError
// ============================================================================

func TestFromError_Nil(t *testing.T) {
	if FromError(nil) != nil {
		t.Error("FromError(nil) should return nil")
	}
}

func TestFromError_AlreadyAPIError(t *testing.T) {
	orig := NewError(http.StatusNotFound, ErrCodeNotFound, "not found")
	got := FromError(orig)
	if got != orig {
		t.Error("FromError should return same APIError if already API error")
	}
}

func TestFromError_PlainError(t *testing.T) {
	e := FromError(http.ErrNoCookie)
	if e.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", e.Status, http.StatusInternalServerError)
	}
}

func TestFromAppError_PlainError(t *testing.T) {
	e := FromAppError(http.ErrNoCookie)
	if e.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d for plain error", e.Status, http.StatusInternalServerError)
	}
}

func TestFromAppError_TypedErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", pkgerrors.NewValidationError("title is required"), http.StatusBadRequest},
		{"not found", pkgerrors.NewNotFoundError("event"), http.StatusNotFound},
		{"fetch", pkgerrors.NewFetchError("store unreachable"), http.StatusBadGateway},
		{"persistence", pkgerrors.NewPersistenceError("insert failed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := FromAppError(tt.err)
			if e.Status != tt.status {
				t.Errorf("Status = %d, want %d", e.Status, tt.status)
			}
			if e.Message == "" {
				t.Error("Message should not be empty")
			}
		})
	}
}

func TestFromAppError_CarriesDetails(t *testing.T) {
	ae := pkgerrors.ValidationFailed(map[string]string{"title": "is required"})
	e := FromAppError(ae)
	if e.Details == nil {
		t.Error("Details should carry the field errors")
	}
}

// ============================================================================
// ErrorCode constants
// ============================================================================

func TestErrorCodeConstants_NotEmpty(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeUnauthorized, ErrCodeForbidden, ErrCodeInvalidToken,
		ErrCodeExpiredToken, ErrCodeInvalidCredentials,
		ErrCodeValidation, ErrCodeInvalidInput, ErrCodeMissingField,
		ErrCodeNotFound, ErrCodeAlreadyExists, ErrCodeConflict,
		ErrCodeRateLimited,
		ErrCodeInternal, ErrCodeServiceUnavailable, ErrCodeUnavailable,
		ErrCodeStorage, ErrCodeTimeout, ErrCodeNotImplemented,
	}

	for _, code := range codes {
		if code == "" {
			t.Error("ErrorCode constant should not be empty")
		}
	}
}
