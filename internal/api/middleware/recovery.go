// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package middleware

import (
	"net/http"
	"runtime/debug"

	apierrors "github.com/jiravision/jiravision/internal/api/errors"
	"github.com/jiravision/jiravision/internal/pkg/logger"
)

// Recovery converts panics into 500 responses so a single bad request
// cannot take the server down. The panic value and stack are logged;
// the response body never includes them.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	log = log.Named("recovery")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						// The server handles aborted responses itself.
						panic(rec)
					}
					log.Error("panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"requestId", GetRequestID(r.Context()),
						"stack", string(debug.Stack()),
					)
					apierrors.WriteErrorWithRequestID(w,
						apierrors.Internal(""), GetRequestID(r.Context()))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
