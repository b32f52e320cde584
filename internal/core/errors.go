// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource state conflict")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTransient    = errors.New("store unavailable")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenRevoked = errors.New("token revoked")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
	Details    []string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func ConflictError(message string) *AppError {
	return NewAppError(ErrConflict, message, http.StatusConflict, "CONFLICT")
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		fmt.Sprintf("%s already exists", field),
		http.StatusConflict,
		"DUPLICATE",
	)
}

func ValidationError(details ...string) *AppError {
	appErr := NewAppError(
		ErrInvalidInput,
		"validation failed",
		http.StatusBadRequest,
		"VALIDATION_ERROR",
	)
	appErr.Details = details
	return appErr
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "permission denied"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(
		ErrUnauthorized,
		message,
		http.StatusUnauthorized,
		"UNAUTHORIZED",
	)
}

func TransientError() *AppError {
	return NewAppError(
		ErrTransient,
		"storage temporarily unavailable, nothing was changed",
		http.StatusServiceUnavailable,
		"STORE_UNAVAILABLE",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"token has expired",
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"token is invalid",
		http.StatusUnauthorized,
		"TOKEN_INVALID",
	)
}

func TokenRevokedError() *AppError {
	return NewAppError(
		ErrTokenRevoked,
		"token has been revoked",
		http.StatusUnauthorized,
		"TOKEN_REVOKED",
	)
}

// ClassifyError maps a wrapped sentinel onto the API error it surfaces as.
// Unknown errors yield nil so callers fall back to a 500.
func ClassifyError(err error, resource string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFoundError(resource)
	case errors.Is(err, ErrConflict):
		return ConflictError(conflictMessage(err))
	case errors.Is(err, ErrDuplicateKey):
		return DuplicateError(resource)
	case errors.Is(err, ErrInvalidInput):
		return ValidationError(err.Error())
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("")
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("")
	case errors.Is(err, ErrTransient):
		return TransientError()
	}

	return nil
}

func conflictMessage(err error) string {
	var reason *ConflictReason
	if errors.As(err, &reason) {
		return reason.Message
	}
	return "resource is in a conflicting state"
}

// ConflictReason carries a user-facing explanation alongside ErrConflict.
type ConflictReason struct {
	Message string
}

func (c *ConflictReason) Error() string {
	return c.Message
}

func (c *ConflictReason) Unwrap() error {
	return ErrConflict
}

func Conflict(message string) error {
	return &ConflictReason{Message: message}
}
