package domain

import (
	"errors"
	"time"
)

// Review is a user's review of a book.
type Review struct {
	UID        string    `json:"uid"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"review_text"`
	UserUID    string    `json:"user_uid"`
	BookUID    string    `json:"book_uid"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate validates the review for persistence.
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	if r.BookUID == "" {
		return errors.New("book uid is required")
	}
	if r.UserUID == "" {
		return errors.New("user uid is required")
	}
	return nil
}
