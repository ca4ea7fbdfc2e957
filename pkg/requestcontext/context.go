// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services and the audit publisher read them.
// Keeping the package free of net/http lets services import only what they
// need.
package requestcontext

import "context"

// Context key types (unexported for encapsulation).
type (
	adminUserKey struct{}
	clientIPKey  struct{}
	userAgentKey struct{}
	requestIDKey struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyAdminUser = adminUserKey{}
	ContextKeyClientIP  = clientIPKey{}
	ContextKeyUserAgent = userAgentKey{}
	ContextKeyRequestID = requestIDKey{}
)

// AdminIdentity is the resolved caller attached by the admin middleware.
// Recomputed per request; never cached across requests.
type AdminIdentity struct {
	UID         string
	Email       string
	Role        string
	DisplayName string
}

// AdminUser retrieves the authenticated admin identity from the context.
// The second return is false when no admin middleware ran.
func AdminUser(ctx context.Context) (AdminIdentity, bool) {
	ident, ok := ctx.Value(ContextKeyAdminUser).(AdminIdentity)
	return ident, ok
}

// WithAdminUser injects a resolved admin identity into the context.
func WithAdminUser(ctx context.Context, ident AdminIdentity) context.Context {
	return context.WithValue(ctx, ContextKeyAdminUser, ident)
}

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
// Useful for service unit tests that don't run the HTTP middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClientIP, clientIP)
	return context.WithValue(ctx, ContextKeyUserAgent, userAgent)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}
