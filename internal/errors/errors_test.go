package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, http.StatusOK},
		{"email conflict", ErrEmailExists, http.StatusConflict},
		{"plate conflict", ErrPlateExists, http.StatusConflict},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"refresh mismatch", ErrRefreshMismatch, http.StatusUnauthorized},
		{"missing federated email", ErrMissingEmail, http.StatusUnauthorized},
		{"not car owner", ErrNotCarOwner, http.StatusForbidden},
		{"not report owner", ErrNotReportOwner, http.StatusForbidden},
		{"car missing", ErrCarNotFound, http.StatusNotFound},
		{"report missing", ErrReportNotFound, http.StatusNotFound},
		{"bad reset token", ErrBadResetToken, http.StatusBadRequest},
		{"too many uploads", ErrTooManyUploads, http.StatusBadRequest},
		{"wrapped domain error", WrapError(ErrEmailExists, errors.New("duplicate key")), http.StatusConflict},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"internal", ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHTTPStatus(tt.err); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestDomainErrorIs(t *testing.T) {
	wrapped := WrapError(ErrPlateExists, errors.New("duplicate key value"))

	if !errors.Is(wrapped, ErrPlateExists) {
		t.Error("Expected wrapped error to match its sentinel")
	}
	if errors.Is(wrapped, ErrEmailExists) {
		t.Error("Expected wrapped error not to match a different sentinel")
	}

	// Matching survives further wrapping.
	deeper := fmt.Errorf("saving car: %w", wrapped)
	if !errors.Is(deeper, ErrPlateExists) {
		t.Error("Expected match through fmt.Errorf wrapping")
	}
}

func TestGetErrorMessage(t *testing.T) {
	if msg := GetErrorMessage(ErrCarNotFound); msg != "car not found" {
		t.Errorf("Expected sentinel message, got %q", msg)
	}
	if msg := GetErrorMessage(WrapError(ErrCarNotFound, errors.New("sql: no rows"))); msg != "car not found" {
		t.Errorf("Expected domain message for wrapped error, got %q", msg)
	}
	if msg := GetErrorMessage(errors.New("boom")); msg != "boom" {
		t.Errorf("Expected raw message, got %q", msg)
	}
}
