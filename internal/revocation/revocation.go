// Package revocation implements the session-token denylist. A token's jti is
// added on logout (or any forced invalidation) and checked on every
// authenticated request. Entries expire with the token's natural lifetime:
// once the token itself is expired, a lookup is moot.
package revocation

import (
	"context"
	"time"
)

// Store is the denylist of revoked token ids. Implementations must be safe
// for concurrent use from many request goroutines.
type Store interface {
	// Revoke adds jti to the denylist for ttl. Idempotent; re-revoking an
	// already-revoked jti extends nothing worse than its TTL.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	// IsRevoked reports whether jti is in the denylist. Callers treat a
	// returned error as "revoked": a store failure must never let a possibly
	// revoked token through.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
