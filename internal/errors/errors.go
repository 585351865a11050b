package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Is lets errors.Is match a wrapped domain error against its sentinel by code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Predefined domain errors
var (
	// Conflict
	ErrEmailExists = NewDomainError("EMAIL_EXISTS", "email already in use")
	ErrPlateExists = NewDomainError("PLATE_EXISTS", "license plate already registered")

	// Unauthorized
	ErrInvalidCredentials  = NewDomainError("INVALID_CREDENTIALS", "invalid credentials")
	ErrMissingEmail        = NewDomainError("MISSING_EMAIL", "identity provider supplied no email")
	ErrNoStoredToken       = NewDomainError("NO_STORED_TOKEN", "no active refresh token for user")
	ErrRefreshMismatch     = NewDomainError("REFRESH_TOKEN_MISMATCH", "refresh token does not match")
	ErrInvalidToken        = NewDomainError("INVALID_TOKEN", "invalid token")
	ErrTokenExpired        = NewDomainError("TOKEN_EXPIRED", "token has expired")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "unauthorized")
	ErrUserNotFoundForAuth = NewDomainError("USER_NOT_FOUND_AUTH", "no account for email")

	// Forbidden
	ErrNotCarOwner    = NewDomainError("NOT_CAR_OWNER", "you can only modify your own car")
	ErrNotReportOwner = NewDomainError("NOT_REPORT_OWNER", "you can only delete your own report")

	// Not found
	ErrUserNotFound   = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrCarNotFound    = NewDomainError("CAR_NOT_FOUND", "car not found")
	ErrReportNotFound = NewDomainError("REPORT_NOT_FOUND", "report not found")

	// Bad request
	ErrBadResetToken   = NewDomainError("BAD_RESET_TOKEN", "bad reset token")
	ErrResetExpired    = NewDomainError("RESET_TOKEN_EXPIRED", "reset token expired")
	ErrInvalidInput    = NewDomainError("INVALID_INPUT", "invalid input")
	ErrTooManyUploads  = NewDomainError("TOO_MANY_UPLOADS", "too many attachments")

	// System errors
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "INVALID_INPUT", "BAD_RESET_TOKEN", "RESET_TOKEN_EXPIRED", "TOO_MANY_UPLOADS":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "MISSING_EMAIL", "INVALID_TOKEN",
		"TOKEN_EXPIRED", "NO_STORED_TOKEN", "REFRESH_TOKEN_MISMATCH", "USER_NOT_FOUND_AUTH":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "NOT_CAR_OWNER", "NOT_REPORT_OWNER":
		return http.StatusForbidden

	// 404 Not Found
	case "USER_NOT_FOUND", "CAR_NOT_FOUND", "REPORT_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "EMAIL_EXISTS", "PLATE_EXISTS":
		return http.StatusConflict

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
