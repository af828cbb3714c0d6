package middleware

import (
	"log/slog"
	"net/http"

	"bookly/internal/apperrors"
	"bookly/internal/platform/rbac"
)

// RequireRoles wraps next so it only runs when the authenticated identity's
// role passes the gate. Must run after Authenticator.Require(AccessToken, ...),
// which put the claims in context.
func RequireRoles(gate *rbac.Gate, log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			apperrors.WriteError(w, log, apperrors.ErrInvalidToken)
			return
		}
		role, _ := claims.Subject["role"].(string)
		if err := gate.Check(role); err != nil {
			apperrors.WriteError(w, log, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
