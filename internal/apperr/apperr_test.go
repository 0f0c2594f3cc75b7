package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("quantity must be at least 1", nil), http.StatusBadRequest},
		{NotFound("product not found"), http.StatusNotFound},
		{Conflict("email already registered"), http.StatusConflict},
		{Unauthorized("invalid credentials"), http.StatusUnauthorized},
		{SessionExpired("session expired, please log in again"), http.StatusUnauthorized},
		{Internal(errors.New("connection refused")), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestMessageNeverLeaksInternals(t *testing.T) {
	err := Internal(errors.New("pq: password authentication failed"))
	if Message(err) != "server error" {
		t.Fatalf("internal error message leaked: %q", Message(err))
	}

	wrapped := fmt.Errorf("handler: %w", NotFound("cart not found"))
	if Message(wrapped) != "cart not found" {
		t.Fatalf("expected wrapped message to survive, got %q", Message(wrapped))
	}
	if KindOf(wrapped) != KindNotFound {
		t.Fatalf("expected KindNotFound through wrapping, got %v", KindOf(wrapped))
	}
}

func TestFieldsOf(t *testing.T) {
	fields := map[string]string{"email": "email must have a valid format"}
	err := Validation("email must have a valid format", fields)
	if got := FieldsOf(err); got["email"] == "" {
		t.Fatalf("expected field detail, got %v", got)
	}
	if FieldsOf(errors.New("nope")) != nil {
		t.Fatal("expected nil fields for foreign error")
	}
}
