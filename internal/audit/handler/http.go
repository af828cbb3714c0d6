package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookly/internal/apperrors"
	"bookly/internal/audit/domain"
	auditrepo "bookly/internal/audit/repository"
	"bookly/internal/httpjson"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// AuditHandler serves the admin-only /api/v1/audit routes.
type AuditHandler struct {
	repo auditrepo.Repository
	log  *slog.Logger
}

// NewAuditHandler returns an AuditHandler backed by the audit log repository.
func NewAuditHandler(repo auditrepo.Repository, log *slog.Logger) *AuditHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuditHandler{repo: repo, log: log}
}

// ListByUser handles GET /api/v1/audit/users/{user_uid}. Results are newest
// first, paginated with limit and offset query params.
func (h *AuditHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil || limit < 1 || limit > maxLimit {
		httpjson.BadRequest(w, "limit must be an integer between 1 and 200")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		httpjson.BadRequest(w, "offset must be a non-negative integer")
		return
	}

	logs, err := h.repo.ListByUser(r.Context(), r.PathValue("user_uid"), int32(limit), int32(offset))
	if err != nil {
		apperrors.WriteError(w, h.log, err)
		return
	}
	if logs == nil {
		logs = []*domain.AuditLog{}
	}
	httpjson.Write(w, http.StatusOK, logs)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
