package failure_test

import (
	"errors"
	"net/http"
	"testing"

	"lodge/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestPredefinedFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
		message string
	}{
		{
			name:    "InvalidPageParam",
			failure: failure.InvalidPageParam,
			code:    http.StatusBadRequest,
			message: "invalid page parameter",
		},
		{
			name:    "InvalidLimitParam",
			failure: failure.InvalidLimitParam,
			code:    http.StatusBadRequest,
			message: "invalid limit parameter",
		},
		{
			name:    "ForbiddenError",
			failure: failure.ForbiddenError,
			code:    http.StatusForbidden,
			message: "You don't have the required permissions",
		},
		{
			name:    "ResourceRestrictedError",
			failure: failure.ResourceRestrictedError,
			code:    http.StatusForbidden,
			message: "You don't have permission to access this resource",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.failure.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, tt.failure.Code)
			}
			if tt.failure.Message != tt.message {
				t.Errorf("expected message to be %s, got %s", tt.message, tt.failure.Message)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"BadRequest", failure.BadRequest(errors.New("bad input")), http.StatusBadRequest},
		{"BadRequestFromString", failure.BadRequestFromString("bad input"), http.StatusBadRequest},
		{"Unauthorized", failure.Unauthorized("no token"), http.StatusUnauthorized},
		{"InternalError", failure.InternalError(errors.New("boom")), http.StatusInternalServerError},
		{"NotFound", failure.NotFound("room not found"), http.StatusNotFound},
		{"Conflict", failure.Conflict("insufficient availability"), http.StatusConflict},
		{"Locked", failure.Locked("room is being booked"), http.StatusLocked},
		{"Forbidden", failure.Forbidden("admins only"), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}
		})
	}
}

func TestNilErrorConstructors(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected BadRequest(nil) to be nil")
	}
	if failure.InternalError(nil) != nil {
		t.Error("expected InternalError(nil) to be nil")
	}
}

func TestGetCode(t *testing.T) {
	if code := failure.GetCode(errors.New("plain error")); code != http.StatusInternalServerError {
		t.Errorf("expected plain errors to map to 500, got %d", code)
	}

	wrapped := failure.Conflict("busy")
	if code := failure.GetCode(wrapped); code != http.StatusConflict {
		t.Errorf("expected 409, got %d", code)
	}
}

func TestIs(t *testing.T) {
	err := failure.Locked("held")

	if !failure.Is(err, http.StatusLocked) {
		t.Error("expected Is to match the locked code")
	}
	if failure.Is(err, http.StatusConflict) {
		t.Error("expected Is to reject a different code")
	}
	if failure.Is(errors.New("plain"), http.StatusLocked) {
		t.Error("expected Is to reject non-failure errors")
	}
}
