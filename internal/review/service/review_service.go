package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bookly/internal/apperrors"
	bookdomain "bookly/internal/book/domain"
	"bookly/internal/review/domain"
)

// ReviewRepo is the minimal review repository needed by the review service.
type ReviewRepo interface {
	GetByUID(ctx context.Context, uid string) (*domain.Review, error)
	ListByBook(ctx context.Context, bookUID string) ([]*domain.Review, error)
	Create(ctx context.Context, r *domain.Review) error
	Delete(ctx context.Context, uid string) error
}

// BookGetter resolves a book by uid; nil means the book does not exist.
type BookGetter interface {
	GetByUID(ctx context.Context, uid string) (*bookdomain.Book, error)
}

// ReviewService implements adding, reading, and deleting reviews.
type ReviewService struct {
	reviews ReviewRepo
	books   BookGetter
}

// NewReviewService returns a ReviewService with the given dependencies.
func NewReviewService(reviews ReviewRepo, books BookGetter) *ReviewService {
	return &ReviewService{reviews: reviews, books: books}
}

// AddInput carries the caller-supplied review fields.
type AddInput struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

// AddToBook attaches a new review by userUID to the given book, or returns
// ErrBookNotFound.
func (s *ReviewService) AddToBook(ctx context.Context, userUID, bookUID string, in AddInput) (*domain.Review, error) {
	book, err := s.books.GetByUID(ctx, bookUID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperrors.ErrBookNotFound
	}
	now := time.Now().UTC()
	rev := &domain.Review{
		UID:        uuid.NewString(),
		Rating:     in.Rating,
		ReviewText: in.ReviewText,
		UserUID:    userUID,
		BookUID:    bookUID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := rev.Validate(); err != nil {
		return nil, apperrors.Validationf("%s", err)
	}
	if err := s.reviews.Create(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

// Get returns the review for uid, or ErrReviewNotFound.
func (s *ReviewService) Get(ctx context.Context, uid string) (*domain.Review, error) {
	rev, err := s.reviews.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, apperrors.ErrReviewNotFound
	}
	return rev, nil
}

// Delete removes the review. Only its author may delete it; anyone else gets
// ErrInsufficientPermission.
func (s *ReviewService) Delete(ctx context.Context, uid, requesterUID string) error {
	rev, err := s.reviews.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if rev == nil {
		return apperrors.ErrReviewNotFound
	}
	if rev.UserUID != requesterUID {
		return apperrors.ErrInsufficientPermission
	}
	return s.reviews.Delete(ctx, uid)
}
