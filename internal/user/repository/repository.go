package repository

import (
	"context"

	"bookly/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByUID(ctx context.Context, uid string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// SetVerified marks the user's email as verified. Idempotent.
	SetVerified(ctx context.Context, uid string) error
	// SetPasswordHash replaces the stored password digest.
	SetPasswordHash(ctx context.Context, uid, hash string) error
}
