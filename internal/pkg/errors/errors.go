// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

// Package errors provides the application error model shared by all
// services. Errors carry a machine-readable code, a human-readable
// message, an HTTP status hint, and optional structured details.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the application.
const (
	CodeInternal         = "INTERNAL"
	CodeNotFound         = "NOT_FOUND"
	CodeBadRequest       = "BAD_REQUEST"
	CodeConflict         = "CONFLICT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeTimeout          = "TIMEOUT"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeLimitExceeded    = "LIMIT_EXCEEDED"
	CodeUnavailable      = "UNAVAILABLE"
	CodeStorage          = "STORAGE_ERROR"
	CodeRateLimited      = "RATE_LIMITED"
)

// Sentinel errors for quick comparisons with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternal           = errors.New("internal error")
	ErrTimeout            = errors.New("timeout")
	ErrConflict           = errors.New("conflict")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrRateLimited        = errors.New("rate limited")
	ErrValidation         = errors.New("validation failed")
)

// AppError is the structured application error.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]interface{}
	Err        error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error, if any.
func (e *AppError) Unwrap() error {
	return e.Err
}

// ============================================================================
// Constructors
// ============================================================================

// New creates an AppError with the given code and message.
// The HTTP status defaults to 500; use NewWithStatus or WithHTTPStatus
// when a more specific status applies.
func New(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Newf creates an AppError with a formatted message.
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// NewWithStatus creates an AppError with an explicit HTTP status.
func NewWithStatus(code, message string, status int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// Wrap wraps an existing error in an AppError.
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// WrapWithStatus wraps an existing error with an explicit HTTP status.
func WrapWithStatus(err error, code, message string, status int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		Err:        err,
	}
}

// ============================================================================
// Builder methods
// ============================================================================

// WithDetails replaces the error's details map.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithDetail sets a single detail key, initializing the map if needed.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithHTTPStatus sets the HTTP status hint.
func (e *AppError) WithHTTPStatus(status int) *AppError {
	e.HTTPStatus = status
	return e
}

// ============================================================================
// Convenience constructors
// ============================================================================

// NotFound returns a 404 error for a missing resource.
func NotFound(resource string) *AppError {
	return NewWithStatus(CodeNotFound, resource+" not found", http.StatusNotFound)
}

// AlreadyExists returns a 409 error for a duplicate resource.
func AlreadyExists(resource string) *AppError {
	return NewWithStatus(CodeConflict, resource+" already exists", http.StatusConflict)
}

// InvalidInput returns a 400 error for malformed input.
func InvalidInput(message string) *AppError {
	return NewWithStatus(CodeBadRequest, message, http.StatusBadRequest)
}

// Unauthorized returns a 401 error.
func Unauthorized(message string) *AppError {
	return NewWithStatus(CodeUnauthorized, message, http.StatusUnauthorized)
}

// Forbidden returns a 403 error.
func Forbidden(message string) *AppError {
	return NewWithStatus(CodeForbidden, message, http.StatusForbidden)
}

// Internal returns a 500 error.
func Internal(message string) *AppError {
	return NewWithStatus(CodeInternal, message, http.StatusInternalServerError)
}

// LimitExceeded returns a 402 error for plan limit violations.
// The details carry the resource and counts for the upgrade prompt.
func LimitExceeded(resource string, current, limit int) *AppError {
	return NewWithStatus(
		CodeLimitExceeded,
		fmt.Sprintf("%s limit reached (%d/%d). Upgrade your plan to add more.", resource, current, limit),
		http.StatusPaymentRequired,
	).WithDetails(map[string]interface{}{
		"resource": resource,
		"current":  current,
		"limit":    limit,
	})
}

// ValidationFailed returns a 400 error carrying per-field messages.
func ValidationFailed(fields map[string]string) *AppError {
	details := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	return NewWithStatus(CodeValidationFailed, "validation failed", http.StatusBadRequest).
		WithDetails(details)
}

// ============================================================================
// Inspection helpers
// ============================================================================

// GetAppError extracts an AppError from the error chain.
func GetAppError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// HTTPStatusCode maps an error to an HTTP status code.
// AppErrors use their own status; sentinel errors map to conventional
// statuses; anything else is a 500.
func HTTPStatusCode(err error) int {
	if ae, ok := GetAppError(err); ok && ae.HTTPStatus != 0 {
		return ae.HTTPStatus
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Is delegates to errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As delegates to errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// ============================================================================
// Typed errors
//
// Typed errors let callers branch with errors.As without comparing
// codes. Each wraps an AppError and unwraps to it so the generic
// AppError machinery (HTTP conversion, logging) still applies.
// ============================================================================

// NotFoundError indicates a missing resource.
type NotFoundError struct{ *AppError }

// NewNotFoundError creates a NotFoundError for the named resource.
func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{NotFound(resource)}
}

// Unwrap exposes the underlying AppError to errors.As.
func (e *NotFoundError) Unwrap() error { return e.AppError }

// AlreadyExistsError indicates a uniqueness conflict.
type AlreadyExistsError struct{ *AppError }

// NewAlreadyExistsError creates an AlreadyExistsError for the resource.
func NewAlreadyExistsError(resource string) *AlreadyExistsError {
	return &AlreadyExistsError{AlreadyExists(resource)}
}

func (e *AlreadyExistsError) Unwrap() error { return e.AppError }

// ValidationError indicates constraint-violating input.
type ValidationError struct{ *AppError }

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{NewWithStatus(CodeValidationFailed, message, http.StatusBadRequest)}
}

func (e *ValidationError) Unwrap() error { return e.AppError }

// UnauthorizedError indicates missing or invalid credentials.
type UnauthorizedError struct{ *AppError }

// NewUnauthorizedError creates an UnauthorizedError.
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Unauthorized(message)}
}

func (e *UnauthorizedError) Unwrap() error { return e.AppError }

// ForbiddenError indicates insufficient permissions.
type ForbiddenError struct{ *AppError }

// NewForbiddenError creates a ForbiddenError.
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Forbidden(message)}
}

func (e *ForbiddenError) Unwrap() error { return e.AppError }

// ConflictError indicates a state conflict.
type ConflictError struct{ *AppError }

// NewConflictError creates a ConflictError.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{NewWithStatus(CodeConflict, message, http.StatusConflict)}
}

func (e *ConflictError) Unwrap() error { return e.AppError }

// InternalError indicates an unexpected server-side failure.
type InternalError struct{ *AppError }

// NewInternalError creates an InternalError.
func NewInternalError(message string) *InternalError {
	return &InternalError{Internal(message)}
}

func (e *InternalError) Unwrap() error { return e.AppError }

// FetchError indicates a transport failure talking to a backing store
// or upstream service. Callers treat it as "no change to current
// state" rather than clearing what they already have.
type FetchError struct{ *AppError }

// NewFetchError creates a FetchError.
func NewFetchError(message string) *FetchError {
	return &FetchError{NewWithStatus(CodeUnavailable, message, http.StatusBadGateway)}
}

func (e *FetchError) Unwrap() error { return e.AppError }

// PersistenceError indicates a storage-layer failure on a mutation.
type PersistenceError struct{ *AppError }

// NewPersistenceError creates a PersistenceError.
func NewPersistenceError(message string) *PersistenceError {
	return &PersistenceError{NewWithStatus(CodeStorage, message, http.StatusInternalServerError)}
}

func (e *PersistenceError) Unwrap() error { return e.AppError }

// ============================================================================
// Is*Error predicates
// ============================================================================

// IsNotFoundError reports whether err represents a missing resource.
func IsNotFoundError(err error) bool {
	var typed *NotFoundError
	if errors.As(err, &typed) {
		return true
	}
	if ae, ok := GetAppError(err); ok && ae.Code == CodeNotFound {
		return true
	}
	return errors.Is(err, ErrNotFound)
}

// IsConflictError reports whether err represents a conflict or
// duplicate resource.
func IsConflictError(err error) bool {
	var conflict *ConflictError
	var exists *AlreadyExistsError
	if errors.As(err, &conflict) || errors.As(err, &exists) {
		return true
	}
	if ae, ok := GetAppError(err); ok && ae.Code == CodeConflict {
		return true
	}
	return errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrConflict)
}

// IsValidationError reports whether err represents invalid input.
func IsValidationError(err error) bool {
	var typed *ValidationError
	if errors.As(err, &typed) {
		return true
	}
	if ae, ok := GetAppError(err); ok {
		if ae.Code == CodeValidationFailed || ae.Code == CodeBadRequest {
			return true
		}
	}
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidInput)
}

// IsUnauthorizedError reports whether err represents an auth failure.
func IsUnauthorizedError(err error) bool {
	var typed *UnauthorizedError
	if errors.As(err, &typed) {
		return true
	}
	if ae, ok := GetAppError(err); ok && ae.Code == CodeUnauthorized {
		return true
	}
	return errors.Is(err, ErrUnauthorized)
}

// IsForbiddenError reports whether err represents a permission failure.
func IsForbiddenError(err error) bool {
	var typed *ForbiddenError
	if errors.As(err, &typed) {
		return true
	}
	if ae, ok := GetAppError(err); ok && ae.Code == CodeForbidden {
		return true
	}
	return errors.Is(err, ErrForbidden)
}

// IsFetchError reports whether err represents a transport failure.
func IsFetchError(err error) bool {
	var typed *FetchError
	if errors.As(err, &typed) {
		return true
	}
	if ae, ok := GetAppError(err); ok && ae.Code == CodeUnavailable {
		return true
	}
	return errors.Is(err, ErrServiceUnavailable)
}

// IsPersistenceError reports whether err represents a storage failure.
func IsPersistenceError(err error) bool {
	var typed *PersistenceError
	if errors.As(err, &typed) {
		return true
	}
	if ae, ok := GetAppError(err); ok && ae.Code == CodeStorage {
		return true
	}
	return false
}
