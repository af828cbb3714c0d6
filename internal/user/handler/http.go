package handler

import (
	"context"
	"log/slog"
	"net/http"

	"bookly/internal/apperrors"
	bookdomain "bookly/internal/book/domain"
	"bookly/internal/httpjson"
	"bookly/internal/server/middleware"
	"bookly/internal/user/domain"
	"bookly/internal/user/service"
)

// BookLister loads the books published by a user, for the /me response.
type BookLister interface {
	ListByUser(ctx context.Context, userUID string) ([]*bookdomain.Book, error)
}

// AuthHandler serves the /api/v1/auth routes.
type AuthHandler struct {
	auth  *service.AuthService
	books BookLister
	log   *slog.Logger
}

// NewAuthHandler returns an AuthHandler backed by the auth service.
// books may be nil; then /me responds with an empty book list.
func NewAuthHandler(auth *service.AuthService, books BookLister, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{auth: auth, books: books, log: log}
}

type signupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Signup handles POST /api/v1/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	user, err := h.auth.Signup(r.Context(), service.SignupInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, map[string]any{
		"message": "Account created successfully! Check your email to verify your account.",
		"user":    user,
	})
}

// Verify handles GET /api/v1/auth/verify/{token}.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.VerifyEmail(r.Context(), r.PathValue("token")); err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{
		"message": "Email verified successfully",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	pair, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"message":       "Login successful",
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user": map[string]string{
			"email": pair.User.Email,
			"uid":   pair.User.UID,
			"role":  pair.User.Role,
		},
	})
}

// RefreshToken handles GET /api/v1/auth/refresh_token. The route is mounted
// behind the refresh-kind authenticator.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		h.writeError(w, apperrors.ErrInvalidToken)
		return
	}
	access, err := h.auth.Refresh(r.Context(), claims)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{
		"access_token": access,
	})
}

// userBooksResponse is the /me payload: the user plus their published books.
type userBooksResponse struct {
	*domain.User
	Books []*bookdomain.Book `json:"books"`
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		h.writeError(w, apperrors.ErrInvalidToken)
		return
	}
	user, err := h.auth.CurrentUser(r.Context(), claims)
	if err != nil {
		h.writeError(w, err)
		return
	}
	books := []*bookdomain.Book{}
	if h.books != nil {
		got, err := h.books.ListByUser(r.Context(), user.UID)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if got != nil {
			books = got
		}
	}
	httpjson.Write(w, http.StatusOK, userBooksResponse{User: user, Books: books})
}

// Logout handles GET /api/v1/auth/logout. The route is mounted behind the
// access-kind authenticator; the presented token's jti goes on the denylist.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		h.writeError(w, apperrors.ErrInvalidToken)
		return
	}
	if err := h.auth.Logout(r.Context(), claims); err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

type passwordResetRequestBody struct {
	Email string `json:"email"`
}

// PasswordResetRequest handles POST /api/v1/auth/password-reset-request.
func (h *AuthHandler) PasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequestBody
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	if err := h.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{
		"message": "Please check your email for instructions to reset your password.",
	})
}

type passwordResetBody struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// PasswordReset handles POST /api/v1/auth/reset_password/{token}.
func (h *AuthHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetBody
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	if err := h.auth.ResetPassword(r.Context(), r.PathValue("token"), req.Password, req.ConfirmPassword); err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{
		"message": "Password reset successful.",
	})
}

func (h *AuthHandler) writeError(w http.ResponseWriter, err error) {
	apperrors.WriteError(w, h.log, err)
}
