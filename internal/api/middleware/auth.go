// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/jiravision/jiravision/internal/api/errors"
)

// Context keys for auth middleware.
const (
	// UserContextKey is the context key for user claims.
	UserContextKey contextKey = "user"

	// TokenContextKey is the context key for the raw JWT token.
	TokenContextKey contextKey = "token"
)

// HTTP headers for auth.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

// UserClaims contains the claims extracted from a JWT token.
type UserClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthConfig contains configuration for the auth middleware.
type AuthConfig struct {
	// Secret is the JWT signing secret (required)
	Secret string

	// AdditionalSecrets contains previous signing secrets for key
	// rotation. The primary Secret is always tried first.
	AdditionalSecrets []string

	// TokenLookup defines how to extract the token from the request.
	// Format: "<source>:<name>", e.g., "header:Authorization",
	// "cookie:auth". Multiple lookups can be comma-separated.
	TokenLookup string

	// AuthScheme is the authorization scheme in the header (default: "Bearer")
	AuthScheme string

	// ContextKey is the key used to store claims in context (default: UserContextKey)
	ContextKey contextKey

	// ErrorHandler is called when authentication fails
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// DefaultAuthConfig returns a default auth configuration. Tokens are
// only accepted from the Authorization header with a Bearer prefix;
// query parameter tokens leak into server logs, browser history, and
// Referer headers, so they are not supported.
func DefaultAuthConfig(secret string) AuthConfig {
	return AuthConfig{
		Secret:       secret,
		TokenLookup:  "header:Authorization",
		AuthScheme:   "Bearer",
		ContextKey:   UserContextKey,
		ErrorHandler: defaultAuthErrorHandler,
	}
}

// Auth returns an authentication middleware that validates JWT tokens.
func Auth(config AuthConfig) func(http.Handler) http.Handler {
	if config.Secret == "" {
		panic("auth middleware: secret is required")
	}

	if config.TokenLookup == "" {
		config.TokenLookup = "header:Authorization"
	}

	if config.AuthScheme == "" {
		config.AuthScheme = "Bearer"
	}

	if config.ContextKey == "" {
		config.ContextKey = UserContextKey
	}

	if config.ErrorHandler == nil {
		config.ErrorHandler = defaultAuthErrorHandler
	}

	extractors := parseTokenLookup(config.TokenLookup, config.AuthScheme)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string
			for _, extractor := range extractors {
				if token := extractor(r); token != "" {
					tokenString = token
					break
				}
			}

			if tokenString == "" {
				config.ErrorHandler(w, r, apierrors.Unauthorized(""))
				return
			}

			// Try each secret in order for key rotation support.
			secrets := []string{config.Secret}
			secrets = append(secrets, config.AdditionalSecrets...)

			var token *jwt.Token
			var lastErr error
			for _, secret := range secrets {
				if secret == "" {
					continue
				}
				s := secret
				token, lastErr = jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (any, error) {
					if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, jwt.ErrSignatureInvalid
					}
					return []byte(s), nil
				})
				if lastErr == nil && token.Valid {
					break
				}
			}

			if lastErr != nil || token == nil || !token.Valid {
				if lastErr != nil && strings.Contains(lastErr.Error(), "expired") {
					config.ErrorHandler(w, r, apierrors.ExpiredToken())
				} else if lastErr != nil {
					config.ErrorHandler(w, r, apierrors.InvalidToken(lastErr.Error()))
				} else {
					config.ErrorHandler(w, r, apierrors.InvalidToken(""))
				}
				return
			}

			claims, ok := token.Claims.(*UserClaims)
			if !ok {
				config.ErrorHandler(w, r, apierrors.InvalidToken("invalid claims"))
				return
			}

			ctx := context.WithValue(r.Context(), config.ContextKey, claims)
			ctx = context.WithValue(ctx, TokenContextKey, tokenString)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthSimple returns a simplified auth middleware using defaults.
func AuthSimple(secret string) func(http.Handler) http.Handler {
	return Auth(DefaultAuthConfig(secret))
}

// RequireAuth rejects requests whose context carries no user claims.
// Mount after Auth or OptionalAuth.
var RequireAuth = func(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetUserFromContext(r.Context())
		if claims == nil {
			apierrors.WriteError(w, apierrors.Unauthorized(""))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ============================================================================
// Token extraction functions
// ============================================================================

type tokenExtractor func(*http.Request) string

func parseTokenLookup(lookup, authScheme string) []tokenExtractor {
	parts := strings.Split(lookup, ",")
	extractors := make([]tokenExtractor, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}

		source := strings.ToLower(kv[0])
		name := kv[1]

		switch source {
		case "header":
			extractors = append(extractors, headerExtractor(name, authScheme))
		case "query":
			extractors = append(extractors, queryExtractor(name))
		case "cookie":
			extractors = append(extractors, cookieExtractor(name))
		}
	}

	return extractors
}

func headerExtractor(name, authScheme string) tokenExtractor {
	return func(r *http.Request) string {
		header := r.Header.Get(name)
		if header == "" {
			return ""
		}

		// Require the scheme prefix (e.g. "Bearer ") per RFC 6750.
		// Accepting bare tokens invites confusion with other schemes.
		if authScheme != "" {
			prefix := authScheme + " "
			if strings.HasPrefix(header, prefix) {
				return strings.TrimPrefix(header, prefix)
			}
			return ""
		}

		return header
	}
}

func queryExtractor(name string) tokenExtractor {
	return func(r *http.Request) string {
		return r.URL.Query().Get(name)
	}
}

func cookieExtractor(name string) tokenExtractor {
	return func(r *http.Request) string {
		cookie, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return cookie.Value
	}
}

// ============================================================================
// Error handler
// ============================================================================

func defaultAuthErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	requestID := GetRequestID(r.Context())
	if apiErr, ok := err.(*apierrors.APIError); ok {
		apierrors.WriteErrorWithRequestID(w, apiErr, requestID)
	} else {
		apierrors.WriteErrorWithRequestID(w, apierrors.Unauthorized(err.Error()), requestID)
	}
}

// ============================================================================
// Context helpers
// ============================================================================

// GetUserFromContext retrieves user claims from the context.
// Returns nil if no user is found.
func GetUserFromContext(ctx context.Context) *UserClaims {
	if claims, ok := ctx.Value(UserContextKey).(*UserClaims); ok {
		return claims
	}
	return nil
}

// GetUserFromRequest is a convenience function to get user from http.Request.
func GetUserFromRequest(r *http.Request) *UserClaims {
	return GetUserFromContext(r.Context())
}

// GetTokenFromContext retrieves the raw JWT token from the context.
func GetTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(TokenContextKey).(string); ok {
		return token
	}
	return ""
}

// MustGetUser retrieves user claims from context and panics if not found.
// Use only in handlers where authentication is guaranteed.
func MustGetUser(ctx context.Context) *UserClaims {
	claims := GetUserFromContext(ctx)
	if claims == nil {
		panic("auth: user claims not found in context")
	}
	return claims
}

// ============================================================================
// Optional authentication (for endpoints that work with or without auth)
// ============================================================================

// OptionalAuth is like Auth but doesn't reject unauthenticated requests.
// The user claims will be nil in context if not authenticated.
func OptionalAuth(config AuthConfig) func(http.Handler) http.Handler {
	if config.Secret == "" {
		panic("auth middleware: secret is required")
	}

	if config.TokenLookup == "" {
		config.TokenLookup = "header:Authorization"
	}

	if config.AuthScheme == "" {
		config.AuthScheme = "Bearer"
	}

	if config.ContextKey == "" {
		config.ContextKey = UserContextKey
	}

	extractors := parseTokenLookup(config.TokenLookup, config.AuthScheme)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string
			for _, extractor := range extractors {
				if token := extractor(r); token != "" {
					tokenString = token
					break
				}
			}

			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(config.Secret), nil
			})

			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}

			claims, ok := token.Claims.(*UserClaims)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), config.ContextKey, claims)
			ctx = context.WithValue(ctx, TokenContextKey, tokenString)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
