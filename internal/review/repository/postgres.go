package repository

import (
	"context"
	"database/sql"
	"errors"

	"bookly/internal/review/domain"
)

// PostgresRepository persists reviews in the reviews table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a review repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const reviewColumns = `uid, rating, review_text, user_uid, book_uid, created_at, updated_at`

// GetByUID returns the review for uid, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUID(ctx context.Context, uid string) (*domain.Review, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE uid = $1`, uid)
	var rev domain.Review
	err := row.Scan(&rev.UID, &rev.Rating, &rev.ReviewText, &rev.UserUID,
		&rev.BookUID, &rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rev, nil
}

// ListByBook returns the reviews attached to the given book, newest first.
func (r *PostgresRepository) ListByBook(ctx context.Context, bookUID string) ([]*domain.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE book_uid = $1 ORDER BY created_at DESC`, bookUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.UID, &rev.Rating, &rev.ReviewText, &rev.UserUID,
			&rev.BookUID, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rev)
	}
	return out, rows.Err()
}

// Create persists the review. The review must have UID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, rev *domain.Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (`+reviewColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rev.UID, rev.Rating, rev.ReviewText, rev.UserUID, rev.BookUID,
		rev.CreatedAt, rev.UpdatedAt,
	)
	return err
}

// Delete removes the review row. Deleting a missing uid is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE uid = $1`, uid)
	return err
}
