package repository

import (
	"context"

	"bookly/internal/review/domain"
)

// Repository defines persistence for reviews.
type Repository interface {
	GetByUID(ctx context.Context, uid string) (*domain.Review, error)
	ListByBook(ctx context.Context, bookUID string) ([]*domain.Review, error)
	Create(ctx context.Context, r *domain.Review) error
	Delete(ctx context.Context, uid string) error
}
