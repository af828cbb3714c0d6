package handler

import (
	"log/slog"
	"net/http"

	"bookly/internal/apperrors"
	"bookly/internal/httpjson"
	"bookly/internal/review/service"
	"bookly/internal/server/middleware"
)

// ReviewHandler serves the /api/v1/reviews routes.
type ReviewHandler struct {
	reviews *service.ReviewService
	log     *slog.Logger
}

// NewReviewHandler returns a ReviewHandler backed by the review service.
func NewReviewHandler(reviews *service.ReviewService, log *slog.Logger) *ReviewHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ReviewHandler{reviews: reviews, log: log}
}

// AddToBook handles POST /api/v1/reviews/book/{book_uid}. The review author
// is the caller.
func (h *ReviewHandler) AddToBook(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		apperrors.WriteError(w, h.log, apperrors.ErrInvalidToken)
		return
	}
	var in service.AddInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	userUID, _ := claims.Subject["user_uid"].(string)
	rev, err := h.reviews.AddToBook(r.Context(), userUID, r.PathValue("book_uid"), in)
	if err != nil {
		apperrors.WriteError(w, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, rev)
}

// Get handles GET /api/v1/reviews/{review_uid}.
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	rev, err := h.reviews.Get(r.Context(), r.PathValue("review_uid"))
	if err != nil {
		apperrors.WriteError(w, h.log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, rev)
}

// Delete handles DELETE /api/v1/reviews/{review_uid}. Only the review's
// author may delete it.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		apperrors.WriteError(w, h.log, apperrors.ErrInvalidToken)
		return
	}
	userUID, _ := claims.Subject["user_uid"].(string)
	if err := h.reviews.Delete(r.Context(), r.PathValue("review_uid"), userUID); err != nil {
		apperrors.WriteError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
