package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookly/internal/apperrors"
	"bookly/internal/audit"
	"bookly/internal/mail"
	"bookly/internal/revocation"
	"bookly/internal/security"
	"bookly/internal/user/domain"
)

// Action-token purposes. Each purpose derives its own signing key, so a
// verification link can never be replayed as a reset link.
const (
	PurposeEmailVerification = "email-verification"
	PurposePasswordReset     = "password-reset"
)

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByUID(ctx context.Context, uid string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	SetVerified(ctx context.Context, uid string) error
	SetPasswordHash(ctx context.Context, uid, hash string) error
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// AuthService implements signup, email verification, login, refresh, logout,
// and password reset.
type AuthService struct {
	users        UserRepo
	hasher       *security.Hasher
	codec        *security.TokenCodec
	denylist     revocation.Store
	sender       mail.Sender
	audit        audit.AuditLogger
	log          *slog.Logger
	accessTTL    time.Duration
	refreshTTL   time.Duration
	actionMaxAge time.Duration
	domain       string
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(
	users UserRepo,
	hasher *security.Hasher,
	codec *security.TokenCodec,
	denylist revocation.Store,
	sender mail.Sender,
	auditLog audit.AuditLogger,
	log *slog.Logger,
	accessTTL, refreshTTL, actionMaxAge time.Duration,
	domain string,
) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	if auditLog == nil {
		auditLog = audit.Nop{}
	}
	return &AuthService{
		users:        users,
		hasher:       hasher,
		codec:        codec,
		denylist:     denylist,
		sender:       sender,
		audit:        auditLog,
		log:          log,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
		actionMaxAge: actionMaxAge,
		domain:       domain,
	}
}

// SignupInput carries the fields needed to create an account.
type SignupInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Signup creates an unverified account and emails a verification link.
// Returns apperrors.ErrUserAlreadyExists when the email is taken. Mail
// delivery is best-effort; a send failure does not undo the signup.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &domain.User{
		UID:          uuid.NewString(),
		Username:     strings.TrimSpace(in.Username),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         domain.RoleUser,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, apperrors.Validationf("%s", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.codec.EncodeAction(map[string]any{"email": email}, PurposeEmailVerification)
	if err != nil {
		return nil, err
	}
	msg := mail.VerificationMessage(email, s.domain, token)
	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Warn("signup: verification mail failed", "err", err)
	}
	s.audit.LogEvent(ctx, user.UID, "signup", "auth", fmt.Sprintf(`{"email":%q}`, email))
	return user, nil
}

// VerifyEmail marks the account from the action token as verified. Idempotent:
// verifying an already-verified account succeeds. The token is only honored
// within its configured max age.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	data, err := s.codec.DecodeAction(token, PurposeEmailVerification, s.actionMaxAge)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	email, _ := data["email"].(string)
	if email == "" {
		return apperrors.ErrInvalidToken
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}
	if err := s.users.SetVerified(ctx, user.UID); err != nil {
		return err
	}
	s.audit.LogEvent(ctx, user.UID, "email_verified", "auth", "")
	return nil
}

// Login authenticates with email/password and issues an access + refresh
// token pair. Unknown email and wrong password both return
// apperrors.ErrInvalidCredentials so responses cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		s.audit.LogEvent(ctx, "", "login_failure", "auth", fmt.Sprintf(`{"email":%q}`, email))
		return nil, apperrors.ErrInvalidCredentials
	}

	access, err := s.codec.EncodeSession(map[string]any{
		"email":    user.Email,
		"user_uid": user.UID,
		"role":     user.Role,
	}, false, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.EncodeSession(map[string]any{
		"email":    user.Email,
		"user_uid": user.UID,
	}, true, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	s.audit.LogEvent(ctx, user.UID, "login_success", "auth", "")
	return &TokenPair{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh mints a new access token from validated refresh-token claims. The
// authenticator has already checked kind and revocation; this re-checks the
// expiry before minting. Refresh tokens omit the role, so the user is
// reloaded and the minted token carries the stored role. A token for an
// account that no longer exists is treated as invalid.
func (s *AuthService) Refresh(ctx context.Context, claims *security.SessionClaims) (string, error) {
	if claims.Expired(time.Now()) {
		return "", apperrors.ErrInvalidToken
	}
	email, _ := claims.Subject["email"].(string)
	if email == "" {
		return "", apperrors.ErrInvalidToken
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperrors.ErrInvalidToken
	}
	access, err := s.codec.EncodeSession(map[string]any{
		"email":    user.Email,
		"user_uid": user.UID,
		"role":     user.Role,
	}, false, s.accessTTL)
	if err != nil {
		return "", err
	}
	return access, nil
}

// Logout revokes the presented token's jti for the remainder of its natural
// lifetime. Any later request bearing the same token fails as invalid.
func (s *AuthService) Logout(ctx context.Context, claims *security.SessionClaims) error {
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > ttl {
			ttl = remaining
		}
	}
	if err := s.denylist.Revoke(ctx, claims.JTI(), ttl); err != nil {
		return err
	}
	uid, _ := claims.Subject["user_uid"].(string)
	s.audit.LogEvent(ctx, uid, "logout", "auth", "")
	return nil
}

// CurrentUser loads the full user record for validated access-token claims.
func (s *AuthService) CurrentUser(ctx context.Context, claims *security.SessionClaims) (*domain.User, error) {
	email, _ := claims.Subject["email"].(string)
	if email == "" {
		return nil, apperrors.ErrInvalidToken
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

// RequestPasswordReset emails a reset link. It succeeds whether or not the
// email belongs to an account, so the endpoint cannot be used to probe for
// registered addresses.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	token, err := s.codec.EncodeAction(map[string]any{"email": email}, PurposePasswordReset)
	if err != nil {
		return err
	}
	msg := mail.PasswordResetMessage(email, s.domain, token)
	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Warn("password reset: mail failed", "err", err)
	}
	s.audit.LogEvent(ctx, "", "password_reset_requested", "auth", fmt.Sprintf(`{"email":%q}`, email))
	return nil
}

// ResetPassword sets a new password from a reset action token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirmPassword string) error {
	if password != confirmPassword {
		return apperrors.ErrPasswordMismatch
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	data, err := s.codec.DecodeAction(token, PurposePasswordReset, s.actionMaxAge)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	email, _ := data["email"].(string)
	if email == "" {
		return apperrors.ErrInvalidToken
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := s.users.SetPasswordHash(ctx, user.UID, hash); err != nil {
		return err
	}
	s.audit.LogEvent(ctx, user.UID, "password_reset", "auth", "")
	return nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateEmail(email string) error {
	if email == "" {
		return apperrors.Validationf("email is required")
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return apperrors.Validationf("invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return apperrors.Validationf("password must be at least 8 characters")
	}
	return nil
}
