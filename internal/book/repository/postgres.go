package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bookly/internal/book/domain"
)

// PostgresRepository persists books in the books table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a book repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const bookColumns = `uid, title, author, publisher, published_date, page_count, language, user_uid, created_at, updated_at`

// List returns all books, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

// ListByUser returns the books published by the given user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userUID string) ([]*domain.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE user_uid = $1 ORDER BY created_at DESC`, userUID)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

// GetByUID returns the book for uid, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUID(ctx context.Context, uid string) (*domain.Book, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE uid = $1`, uid)
	b, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

// Create persists the book. The book must have UID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, b *domain.Book) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO books (`+bookColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.UID, b.Title, b.Author, b.Publisher, nullDate(b.PublishedDate),
		b.PageCount, b.Language, b.UserUID, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

// Update replaces the mutable fields of the book record.
func (r *PostgresRepository) Update(ctx context.Context, b *domain.Book) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET title = $2, author = $3, publisher = $4, published_date = $5,
		    page_count = $6, language = $7, updated_at = $8
		WHERE uid = $1`,
		b.UID, b.Title, b.Author, b.Publisher, nullDate(b.PublishedDate),
		b.PageCount, b.Language, time.Now().UTC(),
	)
	return err
}

// Delete removes the book row. Deleting a missing uid is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE uid = $1`, uid)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*domain.Book, error) {
	var b domain.Book
	var published sql.NullTime
	var userUID sql.NullString
	err := row.Scan(&b.UID, &b.Title, &b.Author, &b.Publisher, &published,
		&b.PageCount, &b.Language, &userUID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if published.Valid {
		b.PublishedDate = published.Time.Format("2006-01-02")
	}
	b.UserUID = userUID.String
	return &b, nil
}

func collectBooks(rows *sql.Rows) ([]*domain.Book, error) {
	defer rows.Close()
	var out []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func nullDate(s string) sql.NullTime {
	if s == "" {
		return sql.NullTime{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
