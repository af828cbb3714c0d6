package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when a token is malformed, tampered with, or
// otherwise fails verification. Callers translate it at the HTTP boundary.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims is the decoded payload of a session token. Subject carries
// whatever identity fields the caller encoded (email, user uid, role); the
// codec does not interpret them.
type SessionClaims struct {
	jwt.RegisteredClaims
	Subject map[string]any `json:"user"`
	Refresh bool           `json:"refresh"`
}

// JTI returns the token's unique id used for denylist lookups.
func (c *SessionClaims) JTI() string { return c.ID }

// Expired reports whether the token's expiry has passed at the given instant.
// A missing exp claim counts as expired.
func (c *SessionClaims) Expired(now time.Time) bool {
	return c.ExpiresAt == nil || !now.Before(c.ExpiresAt.Time)
}

// TokenCodec encodes and decodes signed tokens with a process-wide HMAC
// secret. Session tokens are signed with the secret directly; action tokens
// (email verification, password reset) are signed with a key derived from the
// secret and a purpose string, so the two families never cross-verify.
type TokenCodec struct {
	secret    []byte
	accessTTL time.Duration
}

// NewTokenCodec returns a TokenCodec signing with secret. accessTTL is the
// default lifetime applied when EncodeSession is called with a zero ttl.
func NewTokenCodec(secret []byte, accessTTL time.Duration) *TokenCodec {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &TokenCodec{secret: secret, accessTTL: accessTTL}
}

// EncodeSession builds and signs a session token for subject. refresh marks
// the token as a refresh token; ttl <= 0 uses the default access lifetime.
// Every call generates a fresh jti.
func (c *TokenCodec) EncodeSession(subject map[string]any, refresh bool, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.accessTTL
	}
	now := time.Now().UTC()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Subject: subject,
		Refresh: refresh,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// DecodeSession verifies the signature and structure of a session token and
// returns its claims. It does not check expiry; that belongs to the caller at
// the point where expiry matters (the authenticator for access tokens, the
// refresh flow before minting a new access token).
func (c *TokenCodec) DecodeSession(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(tokenString, &SessionClaims{}, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// actionClaims is the payload of an action token: caller data plus the issue
// time and the purpose it was minted for.
type actionClaims struct {
	jwt.RegisteredClaims
	Data    map[string]any `json:"data"`
	Purpose string         `json:"purpose"`
}

// EncodeAction signs payload into a single-purpose, time-boxed token. purpose
// namespaces the signature (e.g. "email-verification", "password-reset") so a
// reset link can never be replayed as a verification link or a session token.
func (c *TokenCodec) EncodeAction(payload map[string]any, purpose string) (string, error) {
	claims := actionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
		},
		Data:    payload,
		Purpose: purpose,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.purposeKey(purpose))
}

// DecodeAction verifies an action token against purpose and returns its
// payload. Fails with ErrInvalidToken on signature mismatch, purpose
// mismatch, or when more than maxAge has elapsed since the token was issued.
func (c *TokenCodec) DecodeAction(tokenString, purpose string, maxAge time.Duration) (map[string]any, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(tokenString, &actionClaims{}, func(*jwt.Token) (any, error) {
		return c.purposeKey(purpose), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*actionClaims)
	if !ok || !token.Valid || claims.Purpose != purpose || claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}
	if time.Since(claims.IssuedAt.Time) > maxAge {
		return nil, ErrInvalidToken
	}
	return claims.Data, nil
}

// purposeKey derives the signing key for a purpose from the shared secret.
func (c *TokenCodec) purposeKey(purpose string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte("purpose:" + purpose))
	return mac.Sum(nil)
}
