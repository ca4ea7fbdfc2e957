package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"vendorhub/pkg/platform/httputil"

	dErrors "vendorhub/pkg/domain-errors"
)

// TokenVerifier maps a bearer token onto its verified claims.
type TokenVerifier interface {
	Verify(tokenString string) (*TokenClaims, error)
}

// TokenClaims are the claims the gateway trusts from a verified token.
type TokenClaims struct {
	UID   string
	Email string
}

type contextKeyTokenClaims struct{}

// ContextKeyTokenClaims is exported for tests that bypass the middleware.
var ContextKeyTokenClaims = contextKeyTokenClaims{}

// GetTokenClaims retrieves the verified token claims from the context.
func GetTokenClaims(ctx context.Context) *TokenClaims {
	claims, ok := ctx.Value(ContextKeyTokenClaims).(*TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// RequireAuth gates every request behind bearer-token verification. A
// missing, malformed, or invalid token ends the request with 401 before any
// downstream code runs.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			ctx = context.WithValue(ctx, ContextKeyTokenClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
