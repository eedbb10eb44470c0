package middleware

import "context"

type contextKey struct{ name string }

var memberIDKey = contextKey{"member_id"}

// WithMemberID returns a context carrying the authenticated member id.
// Handlers and the rbac helpers read it via MemberID.
func WithMemberID(ctx context.Context, memberID string) context.Context {
	return context.WithValue(ctx, memberIDKey, memberID)
}

// MemberID returns the member id from context and true if set; otherwise "", false.
func MemberID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(memberIDKey).(string)
	return v, ok
}

var clientIPKey = contextKey{"client_ip"}

// WithClientIP returns a context carrying the client IP. The audit logger
// reads it via ClientIP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the client IP from context, or "unknown" if unset.
func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
