package handler

import (
	"log/slog"
	"net/http"

	"bookly/internal/apperrors"
	"bookly/internal/book/service"
	"bookly/internal/httpjson"
	"bookly/internal/server/middleware"
)

// BookHandler serves the /api/v1/books routes.
type BookHandler struct {
	books *service.BookService
	log   *slog.Logger
}

// NewBookHandler returns a BookHandler backed by the book service.
func NewBookHandler(books *service.BookService, log *slog.Logger) *BookHandler {
	if log == nil {
		log = slog.Default()
	}
	return &BookHandler{books: books, log: log}
}

// List handles GET /api/v1/books.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		apperrors.WriteError(w, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, books)
}

// ListByUser handles GET /api/v1/books/user/{user_uid}.
func (h *BookHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.ListByUser(r.Context(), r.PathValue("user_uid"))
	if err != nil {
		apperrors.WriteError(w, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, books)
}

// Get handles GET /api/v1/books/{book_uid}. The response embeds the book's
// reviews.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.books.GetWithReviews(r.Context(), r.PathValue("book_uid"))
	if err != nil {
		apperrors.WriteError(w, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, book)
}

// Create handles POST /api/v1/books. The book is owned by the caller.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		apperrors.WriteError(w, h.log, apperrors.ErrInvalidToken)
		return
	}
	var in service.CreateInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	userUID, _ := claims.Subject["user_uid"].(string)
	book, err := h.books.Create(r.Context(), userUID, in)
	if err != nil {
		apperrors.WriteError(w, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, book)
}

// Update handles PATCH /api/v1/books/{book_uid}.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	book, err := h.books.Update(r.Context(), r.PathValue("book_uid"), in)
	if err != nil {
		apperrors.WriteError(w, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, book)
}

// Delete handles DELETE /api/v1/books/{book_uid}.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.books.Delete(r.Context(), r.PathValue("book_uid")); err != nil {
		apperrors.WriteError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
