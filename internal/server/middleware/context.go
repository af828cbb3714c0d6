package middleware

import (
	"context"

	"bookly/internal/security"
)

type contextKey struct{ name string }

var (
	claimsKey   = contextKey{"claims"}
	clientIPKey = contextKey{"client_ip"}
)

// WithClaims returns a context carrying validated session claims. Handlers
// read them via GetClaims.
func WithClaims(ctx context.Context, claims *security.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaims returns the validated session claims from ctx and true if set; otherwise nil, false.
func GetClaims(ctx context.Context) (*security.SessionClaims, bool) {
	v, ok := ctx.Value(claimsKey).(*security.SessionClaims)
	return v, ok
}

// WithClientIP returns a context carrying the request's client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// GetClientIP returns the client IP from ctx, or "" if not set.
func GetClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}
