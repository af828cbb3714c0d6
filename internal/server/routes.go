package server

import (
	"log/slog"
	"net/http"

	audithandler "bookly/internal/audit/handler"
	auditrepo "bookly/internal/audit/repository"
	bookhandler "bookly/internal/book/handler"
	bookservice "bookly/internal/book/service"
	healthhandler "bookly/internal/health/handler"
	"bookly/internal/platform/rbac"
	"bookly/internal/revocation"
	reviewhandler "bookly/internal/review/handler"
	reviewservice "bookly/internal/review/service"
	"bookly/internal/security"
	"bookly/internal/server/middleware"
	userdomain "bookly/internal/user/domain"
	userhandler "bookly/internal/user/handler"
	userservice "bookly/internal/user/service"
)

// Deps holds the services and stores the HTTP handlers are built from.
type Deps struct {
	// Auth is the auth service for signup/login/refresh/logout and the
	// action-token flows.
	Auth *userservice.AuthService
	// Books is the book service. If nil, the book routes are not mounted and
	// /me responds with an empty book list.
	Books *bookservice.BookService
	// Reviews is the review service. If nil, the review routes are not mounted.
	Reviews *reviewservice.ReviewService
	// AuditRepo backs the admin-only audit listing. If nil, the audit routes
	// are not mounted.
	AuditRepo auditrepo.Repository
	// Codec verifies session tokens for the authenticator.
	Codec *security.TokenCodec
	// Denylist is the revoked-jti store consulted on every protected request.
	Denylist revocation.Store
	// DBPinger is used by /readyz (e.g. *sql.DB). If nil, the DB check is skipped.
	DBPinger healthhandler.Pinger
	// DenylistPinger is used by /readyz. If nil, the denylist check is skipped.
	DenylistPinger healthhandler.DenylistPinger
	// Log is the request logger. If nil, slog.Default() is used.
	Log *slog.Logger
}

// NewHandler builds the full route table with per-route authentication and
// the global middleware chain.
//
// Route → handler mapping:
//   - /api/v1/auth/...    → internal/user/handler
//   - /api/v1/books/...   → internal/book/handler
//   - /api/v1/reviews/... → internal/review/handler
//   - /healthz, /readyz   → internal/health/handler
func NewHandler(deps Deps) http.Handler {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}

	auth := middleware.NewAuthenticator(deps.Codec, deps.Denylist, log)
	users := rbac.NewGate(userdomain.RoleAdmin, userdomain.RoleUser)

	// access wraps h behind access-token auth and the signed-in role gate.
	access := func(h http.HandlerFunc) http.Handler {
		return auth.Require(middleware.AccessToken, middleware.RequireRoles(users, log, h))
	}

	mux := http.NewServeMux()

	ah := userhandler.NewAuthHandler(deps.Auth, deps.Books, log)
	mux.HandleFunc("POST /api/v1/auth/signup", ah.Signup)
	mux.HandleFunc("GET /api/v1/auth/verify/{token}", ah.Verify)
	mux.HandleFunc("POST /api/v1/auth/login", ah.Login)
	mux.Handle("GET /api/v1/auth/refresh_token",
		auth.Require(middleware.RefreshToken, http.HandlerFunc(ah.RefreshToken)))
	mux.Handle("GET /api/v1/auth/me", access(ah.Me))
	mux.Handle("GET /api/v1/auth/logout",
		auth.Require(middleware.AccessToken, http.HandlerFunc(ah.Logout)))
	mux.HandleFunc("POST /api/v1/auth/password-reset-request", ah.PasswordResetRequest)
	mux.HandleFunc("POST /api/v1/auth/reset_password/{token}", ah.PasswordReset)

	if deps.Books != nil {
		bh := bookhandler.NewBookHandler(deps.Books, log)
		mux.Handle("GET /api/v1/books", access(bh.List))
		mux.Handle("POST /api/v1/books", access(bh.Create))
		mux.Handle("GET /api/v1/books/{book_uid}", access(bh.Get))
		mux.Handle("PATCH /api/v1/books/{book_uid}", access(bh.Update))
		mux.Handle("DELETE /api/v1/books/{book_uid}", access(bh.Delete))
		mux.Handle("GET /api/v1/books/user/{user_uid}", access(bh.ListByUser))
	}

	if deps.Reviews != nil {
		rh := reviewhandler.NewReviewHandler(deps.Reviews, log)
		mux.Handle("POST /api/v1/reviews/book/{book_uid}", access(rh.AddToBook))
		mux.HandleFunc("GET /api/v1/reviews/{review_uid}", rh.Get)
		mux.Handle("DELETE /api/v1/reviews/{review_uid}", access(rh.Delete))
	}

	if deps.AuditRepo != nil {
		admins := rbac.NewGate(userdomain.RoleAdmin)
		lh := audithandler.NewAuditHandler(deps.AuditRepo, log)
		mux.Handle("GET /api/v1/audit/users/{user_uid}",
			auth.Require(middleware.AccessToken, middleware.RequireRoles(admins, log, http.HandlerFunc(lh.ListByUser))))
	}

	hh := healthhandler.NewServer(deps.DBPinger, deps.DenylistPinger)
	mux.HandleFunc("GET /healthz", hh.Live)
	mux.HandleFunc("GET /readyz", hh.Ready)

	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Tracing(handler)
	handler = middleware.Logging(log, handler)
	return handler
}
