package domain

import (
	"errors"
	"time"
)

// Book is a published book record owned by the user who created it.
type Book struct {
	UID           string    `json:"uid"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Publisher     string    `json:"publisher"`
	PublishedDate string    `json:"published_date"`
	PageCount     int       `json:"page_count"`
	Language      string    `json:"language"`
	UserUID       string    `json:"user_uid"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate validates the book for persistence. Returns an error describing the first validation failure.
func (b *Book) Validate() error {
	if b.Title == "" {
		return errors.New("title is required")
	}
	if b.Author == "" {
		return errors.New("author is required")
	}
	if b.PublishedDate != "" {
		if _, err := time.Parse("2006-01-02", b.PublishedDate); err != nil {
			return errors.New("published_date must be YYYY-MM-DD")
		}
	}
	if b.PageCount < 0 {
		return errors.New("page_count must not be negative")
	}
	return nil
}
