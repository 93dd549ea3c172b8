// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package logger

import (
	"strings"
)

// sensitiveKeys lists field names that must never appear in log output
// with their real values. Keys are matched case-insensitively.
var sensitiveKeys = map[string]bool{
	"password":      true,
	"secret":        true,
	"token":         true,
	"jwt":           true,
	"jwt_secret":    true,
	"api_key":       true,
	"apikey":        true,
	"authorization": true,
	"cookie":        true,
	"dsn":           true,
	"database_url":  true,
	"credential":    true,
	"credentials":   true,
}

const redactedValue = "[REDACTED]"

// IsSensitiveKey reports whether the key refers to a field that should
// be redacted in logs.
func IsSensitiveKey(key string) bool {
	return sensitiveKeys[strings.ToLower(key)]
}

// SanitizeField returns the value as-is for non-sensitive keys, or the
// redaction placeholder for sensitive ones.
func SanitizeField(key string, value interface{}) interface{} {
	if IsSensitiveKey(key) {
		return redactedValue
	}
	return value
}

// SanitizeStringMap copies the map with sensitive values redacted.
func SanitizeStringMap(m map[string]string) map[string]string {
	result := make(map[string]string, len(m))
	for k, v := range m {
		if IsSensitiveKey(k) {
			result[k] = redactedValue
		} else {
			result[k] = v
		}
	}
	return result
}
