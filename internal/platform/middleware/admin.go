package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"vendorhub/pkg/platform/httputil"
	"vendorhub/pkg/requestcontext"

	dErrors "vendorhub/pkg/domain-errors"
)

// AdminResolver looks up the user record behind a verified token and decides
// whether it is an admin. Implementations return CodeForbidden for a missing
// record, a malformed record, or a non-admin role.
type AdminResolver interface {
	ResolveAdmin(ctx context.Context, claims *TokenClaims) (requestcontext.AdminIdentity, error)
}

// RequireAdmin runs after RequireAuth. It resolves the caller's user record
// on every request (no caching) and attaches the merged identity to the
// context for downstream handlers.
func RequireAdmin(resolver AdminResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			claims := GetTokenClaims(ctx)
			if claims == nil {
				// RequireAuth was not mounted before us; treat as unauthenticated.
				logger.ErrorContext(ctx, "token claims missing from context despite auth middleware",
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
				return
			}

			ident, err := resolver.ResolveAdmin(ctx, claims)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeForbidden) {
					logger.WarnContext(ctx, "forbidden - caller is not an admin",
						"uid", claims.UID,
						"request_id", GetRequestID(ctx),
					)
					httputil.WriteError(w, err)
					return
				}
				logger.ErrorContext(ctx, "failed to resolve admin identity",
					"error", err,
					"uid", claims.UID,
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to resolve identity"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithAdminUser(ctx, ident)))
		})
	}
}
