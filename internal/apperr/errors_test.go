package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("title is required"), http.StatusBadRequest},
		{"permission", Permission("not your project"), http.StatusForbidden},
		{"not found", NotFound("project %s not found", "p1"), http.StatusNotFound},
		{"store", Store("find project", errors.New("connection reset")), http.StatusBadGateway},
		{"wrapped validation", fmt.Errorf("create project: %w", Validation("bad due date")), http.StatusBadRequest},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	if !IsValidation(Validation("x")) {
		t.Error("IsValidation should match a ValidationError")
	}
	if IsValidation(Permission("x")) {
		t.Error("IsValidation should not match a PermissionError")
	}
	if !IsPermission(Permission("x")) {
		t.Error("IsPermission should match a PermissionError")
	}
	if !IsNotFound(NotFound("x")) {
		t.Error("IsNotFound should match a NotFoundError")
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound(nil) should be false")
	}
}

func TestStoreErrorUnwrap(t *testing.T) {
	cause := errors.New("no reachable servers")
	err := Store("list conversations", cause)

	if !errors.Is(err, cause) {
		t.Error("StoreError should unwrap to its cause")
	}
	want := "list conversations: no reachable servers"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
