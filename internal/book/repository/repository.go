package repository

import (
	"context"

	"bookly/internal/book/domain"
)

// Repository defines persistence for books.
type Repository interface {
	List(ctx context.Context) ([]*domain.Book, error)
	ListByUser(ctx context.Context, userUID string) ([]*domain.Book, error)
	GetByUID(ctx context.Context, uid string) (*domain.Book, error)
	Create(ctx context.Context, b *domain.Book) error
	Update(ctx context.Context, b *domain.Book) error
	Delete(ctx context.Context, uid string) error
}
