// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

// Package validator wraps go-playground/validator with the custom
// validations used across the service (event types, calendar colors,
// recurrence rules, cron expressions, ports) and JSON-keyed error maps.
package validator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"github.com/teambition/rrule-go"

	"github.com/jiravision/jiravision/internal/models"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator wraps the go-playground validator.
type Validator struct {
	v *validator.Validate
}

// New returns the process-wide Validator. The underlying instance is
// created once and shared.
func New() *Validator {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())

		// Report field names from json tags so error maps match the
		// wire format.
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		mustRegister("cron", validateCron)
		mustRegister("port", validatePort)
		mustRegister("event_type", validateEventType)
		mustRegister("event_color", validateEventColor)
		mustRegister("rrule", validateRRule)
	})
	return &Validator{v: instance}
}

func mustRegister(tag string, fn validator.Func) {
	if err := instance.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Validate validates a struct using its validate tags.
func (val *Validator) Validate(s interface{}) error {
	return val.v.Struct(s)
}

// ValidateVar validates a single variable against a tag expression.
func (val *Validator) ValidateVar(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// ValidationErrors converts a validation error into a map of JSON field
// name to human-readable message. Non-validation errors land under the
// "_error" key. A nil error yields nil.
func (val *Validator) ValidationErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_error": err.Error()}
	}

	result := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		result[fe.Field()] = formatValidationError(fe)
	}
	return result
}

// formatValidationError turns a field error into a short message
// suitable for API responses.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "cron":
		return "must be a valid cron expression"
	case "port":
		return "must be a valid port number (1-65535)"
	case "event_type":
		return "must be a valid event type"
	case "event_color":
		return "must be a valid calendar color"
	case "rrule":
		return "must be a valid recurrence rule"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// ============================================================================
// Custom validations
// ============================================================================

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

func validateCron(fl validator.FieldLevel) bool {
	_, err := cronParser.Parse(fl.Field().String())
	return err == nil
}

func validatePort(fl validator.FieldLevel) bool {
	port := fl.Field().Int()
	return port >= 1 && port <= 65535
}

func validateEventType(fl validator.FieldLevel) bool {
	return models.ValidEventTypes[fl.Field().String()]
}

func validateEventColor(fl validator.FieldLevel) bool {
	return models.ValidCalendarColors[fl.Field().String()]
}

// validateRRule checks RRULE syntax only. Patterns are stored and
// echoed back verbatim; occurrences are never expanded server-side.
func validateRRule(fl validator.FieldLevel) bool {
	_, err := rrule.StrToRRule(fl.Field().String())
	return err == nil
}

// ============================================================================
// Package-level convenience functions
// ============================================================================

// Validate validates a struct with the shared Validator.
func Validate(s interface{}) error {
	return New().Validate(s)
}

// ValidateVar validates a single variable with the shared Validator.
func ValidateVar(field interface{}, tag string) error {
	return New().ValidateVar(field, tag)
}

// GetValidationErrors converts an error into a field error map.
func GetValidationErrors(err error) map[string]string {
	return New().ValidationErrors(err)
}
