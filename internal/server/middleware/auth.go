package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bookly/internal/apperrors"
	"bookly/internal/revocation"
	"bookly/internal/security"
)

const bearerPrefix = "bearer "

// TokenKind is the kind of session token a route requires. The authenticator
// is one shared pipeline parameterized by this value, not two variants.
type TokenKind int

const (
	// AccessToken is the short-lived credential for business operations.
	AccessToken TokenKind = iota
	// RefreshToken is the long-lived credential accepted only by the refresh route.
	RefreshToken
)

// Authenticator validates bearer session tokens for protected routes.
type Authenticator struct {
	codec    *security.TokenCodec
	denylist revocation.Store
	log      *slog.Logger
}

// NewAuthenticator returns an Authenticator using codec for decoding and
// denylist for revocation checks.
func NewAuthenticator(codec *security.TokenCodec, denylist revocation.Store, log *slog.Logger) *Authenticator {
	if log == nil {
		log = slog.Default()
	}
	return &Authenticator{codec: codec, denylist: denylist, log: log}
}

// Require wraps next so it only runs for a valid, unrevoked token of the
// required kind. On success the claims are placed in the request context.
//
// The pipeline: extract bearer → decode (signature/structure) → expiry (for
// access tokens; the refresh route re-checks expiry itself before minting) →
// denylist lookup → kind check. Revoked tokens fail the same way invalid ones
// do, so the response can't serve as a revocation oracle. A denylist error or
// timeout also rejects: availability never overrides revocation.
func (a *Authenticator) Require(kind TokenKind, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearer(r)
		if token == "" {
			apperrors.WriteError(w, a.log, apperrors.ErrInvalidToken)
			return
		}
		claims, err := a.codec.DecodeSession(token)
		if err != nil {
			apperrors.WriteError(w, a.log, apperrors.ErrInvalidToken)
			return
		}
		if kind == AccessToken && claims.Expired(time.Now()) {
			apperrors.WriteError(w, a.log, apperrors.ErrInvalidToken)
			return
		}
		revoked, err := a.denylist.IsRevoked(r.Context(), claims.JTI())
		if err != nil {
			a.log.Warn("auth: denylist lookup failed", "err", err)
			apperrors.WriteError(w, a.log, apperrors.ErrInvalidToken)
			return
		}
		if revoked {
			apperrors.WriteError(w, a.log, apperrors.ErrInvalidToken)
			return
		}
		if kind == AccessToken && claims.Refresh {
			apperrors.WriteError(w, a.log, apperrors.ErrAccessTokenRequired)
			return
		}
		if kind == RefreshToken && !claims.Refresh {
			apperrors.WriteError(w, a.log, apperrors.ErrRefreshTokenRequired)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// extractBearer returns the Bearer token from the Authorization header, or ""
// if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
