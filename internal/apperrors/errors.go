// Package apperrors defines the request-rejection error taxonomy and its
// single mapping to HTTP responses. Services return these sentinels; no layer
// between a service and the HTTP boundary reinterprets them.
package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Sentinel errors returned by services and middleware. Handlers never map
// these themselves; WriteError does it once at the boundary.
var (
	// ErrInvalidToken covers malformed, tampered, expired, and revoked session
	// tokens. Revoked tokens deliberately produce the same error as invalid
	// ones so callers cannot probe revocation state.
	ErrInvalidToken = errors.New("token is invalid or expired")
	// ErrAccessTokenRequired is returned when a refresh token is presented to
	// a route that requires an access token.
	ErrAccessTokenRequired = errors.New("access token required")
	// ErrRefreshTokenRequired is returned when an access token is presented to
	// a route that requires a refresh token.
	ErrRefreshTokenRequired = errors.New("refresh token required")
	// ErrInsufficientPermission is returned when the caller's role is not in
	// the route's allow-set.
	ErrInsufficientPermission = errors.New("insufficient permission")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login responses cannot be used for account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrBookNotFound      = errors.New("book not found")
	ErrReviewNotFound    = errors.New("review not found")
	ErrPasswordMismatch  = errors.New("passwords do not match")

	// ErrValidation marks caller-input validation failures. Wrap it via
	// Validationf so the boundary can answer 400 with the specific reason.
	ErrValidation = errors.New("validation failed")
)

// Validationf builds a validation error whose message reaches the client.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// response is the JSON error body: a human message, a stable machine code,
// and an optional remediation hint.
type response struct {
	Message    string `json:"message"`
	ErrorCode  string `json:"error_code"`
	Resolution string `json:"resolution,omitempty"`
}

type mapping struct {
	status int
	body   response
}

var mappings = []struct {
	err error
	m   mapping
}{
	{ErrInvalidToken, mapping{http.StatusUnauthorized, response{
		Message:    "Token is invalid or expired",
		ErrorCode:  "INVALID_TOKEN",
		Resolution: "Please get a new token",
	}}},
	{ErrAccessTokenRequired, mapping{http.StatusUnauthorized, response{
		Message:    "Please provide a valid access token",
		ErrorCode:  "ACCESS_TOKEN_REQUIRED",
		Resolution: "Please get a new access token",
	}}},
	{ErrRefreshTokenRequired, mapping{http.StatusForbidden, response{
		Message:    "Please provide a valid refresh token",
		ErrorCode:  "REFRESH_TOKEN_REQUIRED",
		Resolution: "Please get a new refresh token",
	}}},
	{ErrInsufficientPermission, mapping{http.StatusForbidden, response{
		Message:   "You do not have permission to perform this action",
		ErrorCode: "INSUFFICIENT_PERMISSION",
	}}},
	{ErrInvalidCredentials, mapping{http.StatusBadRequest, response{
		Message:   "Invalid email or password",
		ErrorCode: "INVALID_CREDENTIALS",
	}}},
	{ErrUserAlreadyExists, mapping{http.StatusConflict, response{
		Message:   "User with this email already exists",
		ErrorCode: "USER_ALREADY_EXISTS",
	}}},
	{ErrUserNotFound, mapping{http.StatusNotFound, response{
		Message:   "User not found",
		ErrorCode: "USER_NOT_FOUND",
	}}},
	{ErrBookNotFound, mapping{http.StatusNotFound, response{
		Message:   "Book not found",
		ErrorCode: "BOOK_NOT_FOUND",
	}}},
	{ErrReviewNotFound, mapping{http.StatusNotFound, response{
		Message:   "Review not found",
		ErrorCode: "REVIEW_NOT_FOUND",
	}}},
	{ErrPasswordMismatch, mapping{http.StatusBadRequest, response{
		Message:   "Passwords do not match",
		ErrorCode: "PASSWORD_MISMATCH",
	}}},
}

// WriteError translates err into its HTTP status and JSON body. Unclassified
// errors become a generic 500 that leaks no internal detail; the cause is
// logged server-side only.
func WriteError(w http.ResponseWriter, log *slog.Logger, err error) {
	if errors.Is(err, ErrValidation) {
		writeJSON(w, http.StatusBadRequest, response{
			Message:   validationMessage(err),
			ErrorCode: "VALIDATION_ERROR",
		})
		return
	}
	for _, e := range mappings {
		if errors.Is(err, e.err) {
			writeJSON(w, e.m.status, e.m.body)
			return
		}
	}
	if log != nil {
		log.Error("internal error", "err", err)
	}
	writeJSON(w, http.StatusInternalServerError, response{
		Message:   "Something went wrong",
		ErrorCode: "INTERNAL_SERVER_ERROR",
	})
}

// Status returns the HTTP status WriteError would use for err. Used by
// request logging to record outcomes without re-mapping in handlers.
func Status(err error) int {
	if errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	for _, e := range mappings {
		if errors.Is(err, e.err) {
			return e.m.status
		}
	}
	return http.StatusInternalServerError
}

// validationMessage strips the sentinel prefix from a wrapped validation error.
func validationMessage(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, ErrValidation.Error()+": "); ok {
		return rest
	}
	return msg
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
