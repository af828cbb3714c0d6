package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	auditdomain "bookly/internal/audit/domain"
	bookdomain "bookly/internal/book/domain"
	bookservice "bookly/internal/book/service"
	"bookly/internal/mail"
	"bookly/internal/revocation"
	reviewdomain "bookly/internal/review/domain"
	reviewservice "bookly/internal/review/service"
	"bookly/internal/security"
	userdomain "bookly/internal/user/domain"
	userservice "bookly/internal/user/service"
)

// In-memory repositories so the whole route table can be exercised without
// Postgres or Redis.

type memUsers struct {
	mu    sync.Mutex
	users map[string]*userdomain.User
}

func (r *memUsers) GetByUID(_ context.Context, uid string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uid]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUsers) Create(_ context.Context, u *userdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.UID] = &cp
	return nil
}

func (r *memUsers) SetVerified(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uid]; ok {
		u.IsVerified = true
	}
	return nil
}

func (r *memUsers) SetPasswordHash(_ context.Context, uid, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uid]; ok {
		u.PasswordHash = hash
	}
	return nil
}

type memBooks struct {
	mu    sync.Mutex
	books map[string]*bookdomain.Book
}

func (r *memBooks) List(context.Context) ([]*bookdomain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*bookdomain.Book{}
	for _, b := range r.books {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memBooks) ListByUser(_ context.Context, userUID string) ([]*bookdomain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*bookdomain.Book{}
	for _, b := range r.books {
		if b.UserUID == userUID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memBooks) GetByUID(_ context.Context, uid string) (*bookdomain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.books[uid]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *memBooks) Create(_ context.Context, b *bookdomain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.books[b.UID] = &cp
	return nil
}

func (r *memBooks) Update(_ context.Context, b *bookdomain.Book) error {
	return r.Create(context.Background(), b)
}

func (r *memBooks) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.books, uid)
	return nil
}

type memAudit struct {
	mu   sync.Mutex
	logs []*auditdomain.AuditLog
}

func (r *memAudit) Create(_ context.Context, a *auditdomain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.logs = append(r.logs, &cp)
	return nil
}

func (r *memAudit) ListByUser(_ context.Context, userID string, limit, offset int32) ([]*auditdomain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*auditdomain.AuditLog
	for _, a := range r.logs {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	if int(offset) >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if int(limit) < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type memReviews struct {
	mu      sync.Mutex
	reviews map[string]*reviewdomain.Review
}

func (r *memReviews) GetByUID(_ context.Context, uid string) (*reviewdomain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rev, ok := r.reviews[uid]; ok {
		cp := *rev
		return &cp, nil
	}
	return nil, nil
}

func (r *memReviews) ListByBook(_ context.Context, bookUID string) ([]*reviewdomain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*reviewdomain.Review{}
	for _, rev := range r.reviews {
		if rev.BookUID == bookUID {
			cp := *rev
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memReviews) Create(_ context.Context, rev *reviewdomain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rev
	r.reviews[rev.UID] = &cp
	return nil
}

func (r *memReviews) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reviews, uid)
	return nil
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	users := &memUsers{users: map[string]*userdomain.User{}}
	books := &memBooks{books: map[string]*bookdomain.Book{}}
	reviews := &memReviews{reviews: map[string]*reviewdomain.Review{}}
	denylist := revocation.NewMemoryStore()
	codec := security.NewTokenCodec([]byte("test-secret-0123456789abcdef0123"), time.Hour)

	authSvc := userservice.NewAuthService(
		users,
		security.NewHasher(4),
		codec,
		denylist,
		mail.DevSender{},
		nil,
		nil,
		time.Hour, 48*time.Hour, 24*time.Hour,
		"localhost:8000",
	)
	bookSvc := bookservice.NewBookService(books, reviews)
	reviewSvc := reviewservice.NewReviewService(reviews, books)

	return NewHandler(Deps{
		Auth:      authSvc,
		Books:     bookSvc,
		Reviews:   reviewSvc,
		AuditRepo: &memAudit{},
		Codec:     codec,
		Denylist:  denylist,
	})
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return out
}

func signupAndLogin(t *testing.T, h http.Handler) (access, refresh string) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "jane",
		"email":    "jane@example.com",
		"password": "secret-password",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "secret-password",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	access, _ = body["access_token"].(string)
	refresh, _ = body["refresh_token"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("login response missing tokens: %v", body)
	}
	return access, refresh
}

func TestAuthFlow(t *testing.T) {
	h := newTestHandler(t)
	access, refresh := signupAndLogin(t, h)

	rec := do(t, h, http.MethodGet, "/api/v1/auth/me", access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if email := decodeBody(t, rec)["email"]; email != "jane@example.com" {
		t.Errorf("me email = %v", email)
	}

	// The refresh token works only on the refresh route.
	rec = do(t, h, http.MethodGet, "/api/v1/auth/me", refresh, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("me with refresh token: status = %d, want 401", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/api/v1/auth/refresh_token", access, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("refresh with access token: status = %d, want 403", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/auth/refresh_token", refresh, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	minted, _ := decodeBody(t, rec)["access_token"].(string)
	if minted == "" {
		t.Fatal("refresh response missing access_token")
	}
	rec = do(t, h, http.MethodGet, "/api/v1/auth/me", minted, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("me with minted token: status = %d", rec.Code)
	}
}

func TestLogoutRevokes(t *testing.T) {
	h := newTestHandler(t)
	access, _ := signupAndLogin(t, h)

	rec := do(t, h, http.MethodGet, "/api/v1/auth/logout", access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/v1/auth/me", access, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("me after logout: status = %d, want 401", rec.Code)
	}
	if code := decodeBody(t, rec)["error_code"]; code != "INVALID_TOKEN" {
		t.Errorf("error_code = %v, want INVALID_TOKEN", code)
	}
}

func TestBookAndReviewFlow(t *testing.T) {
	h := newTestHandler(t)
	access, _ := signupAndLogin(t, h)

	// Books require authentication.
	rec := do(t, h, http.MethodGet, "/api/v1/books", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list: status = %d, want 401", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/books", access, map[string]any{
		"title":          "The Go Programming Language",
		"author":         "Alan A. A. Donovan",
		"published_date": "2015-10-26",
		"page_count":     380,
		"language":       "en",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create book: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	bookUID, _ := decodeBody(t, rec)["uid"].(string)
	if bookUID == "" {
		t.Fatal("create book response missing uid")
	}

	rec = do(t, h, http.MethodPost, "/api/v1/reviews/book/"+bookUID, access, map[string]any{
		"rating":      5,
		"review_text": "Excellent.",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add review: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/v1/books/"+bookUID, access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get book: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	reviews, _ := decodeBody(t, rec)["reviews"].([]any)
	if len(reviews) != 1 {
		t.Errorf("book has %d reviews, want 1", len(reviews))
	}

	rec = do(t, h, http.MethodPatch, "/api/v1/books/"+bookUID, access, map[string]any{
		"title": "TGPL",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update book: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if title := decodeBody(t, rec)["title"]; title != "TGPL" {
		t.Errorf("title = %v, want TGPL", title)
	}

	rec = do(t, h, http.MethodDelete, "/api/v1/books/"+bookUID, access, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete book: status = %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/api/v1/books/"+bookUID, access, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get deleted book: status = %d, want 404", rec.Code)
	}
}

func TestHealthRoutes(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz: status = %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/readyz", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("readyz: status = %d", rec.Code)
	}
}

func TestAuditRoutesAdminOnly(t *testing.T) {
	h := newTestHandler(t)
	access, _ := signupAndLogin(t, h)

	rec := do(t, h, http.MethodGet, "/api/v1/audit/users/u-1", access, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("audit list as user: status = %d, want 403", rec.Code)
	}

	// Mint an admin token with the same signing secret as the handler's codec.
	codec := security.NewTokenCodec([]byte("test-secret-0123456789abcdef0123"), time.Hour)
	admin, err := codec.EncodeSession(map[string]any{
		"email":    "admin@example.com",
		"user_uid": "u-admin",
		"role":     userdomain.RoleAdmin,
	}, false, time.Hour)
	if err != nil {
		t.Fatalf("mint admin token: %v", err)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/audit/users/u-1", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("audit list as admin: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var logs []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &logs); err != nil {
		t.Fatalf("decode audit list: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("audit list = %v, want empty", logs)
	}
}
