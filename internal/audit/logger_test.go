package audit

import (
	"context"
	"sync"
	"testing"

	"bookly/internal/audit/domain"
)

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (r *memAuditRepo) Create(_ context.Context, a *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, a)
	return nil
}

func (r *memAuditRepo) ListByUser(_ context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error) {
	return nil, nil
}

func TestLogger_WritesEntry(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo, func(context.Context) string { return "10.1.2.3" }, nil)

	l.LogEvent(context.Background(), "u-1", "login_success", "auth", `{"email":"a@b.c"}`)

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.ID == "" {
		t.Error("entry ID should be assigned")
	}
	if e.UserID != "u-1" || e.Action != "login_success" || e.Resource != "auth" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.IP != "10.1.2.3" {
		t.Errorf("IP = %q, want 10.1.2.3", e.IP)
	}
}

func TestLogger_NilExtractorRecordsUnknownIP(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo, nil, nil)
	l.LogEvent(context.Background(), "", "logout", "auth", "")
	if repo.entries[0].IP != "unknown" {
		t.Errorf("IP = %q, want unknown", repo.entries[0].IP)
	}
}

func TestLogger_NilRepoIsNoop(t *testing.T) {
	l := NewLogger(nil, nil, nil)
	l.LogEvent(context.Background(), "u-1", "login_success", "auth", "")
}
