// Package rbac gates operations on the caller's role. Roles are plain strings
// compared by exact match against a per-route allow-set; there is no role
// hierarchy.
package rbac

import (
	"bookly/internal/apperrors"
)

// Gate allows or denies an operation based on a fixed set of role strings.
// Stateless after construction; safe to share across requests.
type Gate struct {
	allowed map[string]struct{}
}

// NewGate returns a Gate that admits exactly the given roles.
func NewGate(roles ...string) *Gate {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return &Gate{allowed: allowed}
}

// Check returns nil when role is in the allow-set and
// apperrors.ErrInsufficientPermission otherwise.
func (g *Gate) Check(role string) error {
	if _, ok := g.allowed[role]; !ok {
		return apperrors.ErrInsufficientPermission
	}
	return nil
}
