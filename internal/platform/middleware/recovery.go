package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"vendorhub/pkg/platform/httputil"

	dErrors "vendorhub/pkg/domain-errors"
)

// Recovery converts panics into 500 responses so a single bad request never
// takes down the process. Each request stays isolated.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						"panic", rec,
						"request_id", GetRequestID(r.Context()),
						"stack", string(debug.Stack()),
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "internal error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
