package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bookly/internal/apperrors"
	"bookly/internal/book/domain"
	reviewdomain "bookly/internal/review/domain"
)

// BookRepo is the minimal book repository needed by the book service.
type BookRepo interface {
	List(ctx context.Context) ([]*domain.Book, error)
	ListByUser(ctx context.Context, userUID string) ([]*domain.Book, error)
	GetByUID(ctx context.Context, uid string) (*domain.Book, error)
	Create(ctx context.Context, b *domain.Book) error
	Update(ctx context.Context, b *domain.Book) error
	Delete(ctx context.Context, uid string) error
}

// ReviewLister loads the reviews attached to a book.
type ReviewLister interface {
	ListByBook(ctx context.Context, bookUID string) ([]*reviewdomain.Review, error)
}

// BookWithReviews is a book together with its reviews.
type BookWithReviews struct {
	domain.Book
	Reviews []*reviewdomain.Review `json:"reviews"`
}

// BookService implements book CRUD over the repository.
type BookService struct {
	books   BookRepo
	reviews ReviewLister
}

// NewBookService returns a BookService with the given dependencies.
// reviews may be nil; then GetWithReviews returns an empty review list.
func NewBookService(books BookRepo, reviews ReviewLister) *BookService {
	return &BookService{books: books, reviews: reviews}
}

// List returns all books.
func (s *BookService) List(ctx context.Context) ([]*domain.Book, error) {
	return s.books.List(ctx)
}

// ListByUser returns the books published by the given user.
func (s *BookService) ListByUser(ctx context.Context, userUID string) ([]*domain.Book, error) {
	return s.books.ListByUser(ctx, userUID)
}

// GetWithReviews returns the book and its reviews, or ErrBookNotFound.
func (s *BookService) GetWithReviews(ctx context.Context, uid string) (*BookWithReviews, error) {
	b, err := s.books.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperrors.ErrBookNotFound
	}
	out := &BookWithReviews{Book: *b, Reviews: []*reviewdomain.Review{}}
	if s.reviews != nil {
		revs, err := s.reviews.ListByBook(ctx, uid)
		if err != nil {
			return nil, err
		}
		if revs != nil {
			out.Reviews = revs
		}
	}
	return out, nil
}

// CreateInput carries the caller-supplied book fields.
type CreateInput struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Publisher     string `json:"publisher"`
	PublishedDate string `json:"published_date"`
	PageCount     int    `json:"page_count"`
	Language      string `json:"language"`
}

// Create publishes a new book owned by userUID.
func (s *BookService) Create(ctx context.Context, userUID string, in CreateInput) (*domain.Book, error) {
	now := time.Now().UTC()
	b := &domain.Book{
		UID:           uuid.NewString(),
		Title:         in.Title,
		Author:        in.Author,
		Publisher:     in.Publisher,
		PublishedDate: in.PublishedDate,
		PageCount:     in.PageCount,
		Language:      in.Language,
		UserUID:       userUID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := b.Validate(); err != nil {
		return nil, apperrors.Validationf("%s", err)
	}
	if err := s.books.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateInput carries the PATCH fields; nil pointers leave the stored value unchanged.
type UpdateInput struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Publisher     *string `json:"publisher"`
	PublishedDate *string `json:"published_date"`
	PageCount     *int    `json:"page_count"`
	Language      *string `json:"language"`
}

// Update applies the provided fields to the book, or returns ErrBookNotFound.
func (s *BookService) Update(ctx context.Context, uid string, in UpdateInput) (*domain.Book, error) {
	b, err := s.books.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperrors.ErrBookNotFound
	}
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Author != nil {
		b.Author = *in.Author
	}
	if in.Publisher != nil {
		b.Publisher = *in.Publisher
	}
	if in.PublishedDate != nil {
		b.PublishedDate = *in.PublishedDate
	}
	if in.PageCount != nil {
		b.PageCount = *in.PageCount
	}
	if in.Language != nil {
		b.Language = *in.Language
	}
	b.UpdatedAt = time.Now().UTC()
	if err := b.Validate(); err != nil {
		return nil, apperrors.Validationf("%s", err)
	}
	if err := s.books.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes the book, or returns ErrBookNotFound.
func (s *BookService) Delete(ctx context.Context, uid string) error {
	b, err := s.books.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if b == nil {
		return apperrors.ErrBookNotFound
	}
	return s.books.Delete(ctx, uid)
}
