// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"time"

	"github.com/sublate/sublate/internal/log"
)

// Logging logs one structured line per request, after the handler returns,
// so the full latency is captured.
func Logging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sw, r)

			logger := log.WithComponentFromContext(r.Context(), "http")
			logger.Info().
				Str("method", r.Method).
				Str(log.FieldPath, r.URL.Path).
				Int("status", sw.statusCode).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("request handled")
		})
	}
}
