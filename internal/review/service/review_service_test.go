package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bookly/internal/apperrors"
	bookdomain "bookly/internal/book/domain"
	"bookly/internal/review/domain"
)

// memReviewRepo is an in-memory ReviewRepo for tests.
type memReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]*domain.Review
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: map[string]*domain.Review{}}
}

func (r *memReviewRepo) GetByUID(_ context.Context, uid string) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.reviews[uid]
	if !ok {
		return nil, nil
	}
	cp := *rev
	return &cp, nil
}

func (r *memReviewRepo) ListByBook(_ context.Context, bookUID string) ([]*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Review{}
	for _, rev := range r.reviews {
		if rev.BookUID == bookUID {
			cp := *rev
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memReviewRepo) Create(_ context.Context, rev *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rev
	r.reviews[rev.UID] = &cp
	return nil
}

func (r *memReviewRepo) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reviews, uid)
	return nil
}

// oneBook resolves exactly one known book uid.
type oneBook struct {
	uid string
}

func (b oneBook) GetByUID(_ context.Context, uid string) (*bookdomain.Book, error) {
	if uid == b.uid {
		return &bookdomain.Book{UID: uid, Title: "T", Author: "A"}, nil
	}
	return nil, nil
}

func TestAddToBook(t *testing.T) {
	svc := NewReviewService(newMemReviewRepo(), oneBook{uid: "book-1"})
	rev, err := svc.AddToBook(context.Background(), "user-1", "book-1", AddInput{
		Rating:     4,
		ReviewText: "Solid read.",
	})
	if err != nil {
		t.Fatalf("AddToBook: %v", err)
	}
	if rev.UID == "" || rev.UserUID != "user-1" || rev.BookUID != "book-1" {
		t.Errorf("got %+v", rev)
	}
}

func TestAddToBook_UnknownBook(t *testing.T) {
	svc := NewReviewService(newMemReviewRepo(), oneBook{uid: "book-1"})
	_, err := svc.AddToBook(context.Background(), "user-1", "missing", AddInput{Rating: 4})
	if !errors.Is(err, apperrors.ErrBookNotFound) {
		t.Errorf("err = %v, want ErrBookNotFound", err)
	}
}

func TestAddToBook_RatingBounds(t *testing.T) {
	svc := NewReviewService(newMemReviewRepo(), oneBook{uid: "book-1"})
	for _, rating := range []int{0, 6, -1} {
		_, err := svc.AddToBook(context.Background(), "user-1", "book-1", AddInput{Rating: rating})
		if !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("rating %d: err = %v, want ErrValidation", rating, err)
		}
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := NewReviewService(newMemReviewRepo(), oneBook{uid: "book-1"})
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, apperrors.ErrReviewNotFound) {
		t.Errorf("err = %v, want ErrReviewNotFound", err)
	}
}

func TestDelete_AuthorOnly(t *testing.T) {
	repo := newMemReviewRepo()
	svc := NewReviewService(repo, oneBook{uid: "book-1"})

	rev, err := svc.AddToBook(context.Background(), "user-1", "book-1", AddInput{Rating: 3})
	if err != nil {
		t.Fatalf("AddToBook: %v", err)
	}

	if err := svc.Delete(context.Background(), rev.UID, "someone-else"); !errors.Is(err, apperrors.ErrInsufficientPermission) {
		t.Errorf("non-author delete: err = %v, want ErrInsufficientPermission", err)
	}
	if err := svc.Delete(context.Background(), rev.UID, "user-1"); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), rev.UID); !errors.Is(err, apperrors.ErrReviewNotFound) {
		t.Errorf("after delete: err = %v, want ErrReviewNotFound", err)
	}
}
