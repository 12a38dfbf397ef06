package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"jobmate/board-service/internal/apperr"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Validation("bad %s", "input"), http.StatusBadRequest},
		{apperr.Unauthorized("no token"), http.StatusUnauthorized},
		{apperr.Forbidden("not yours"), http.StatusForbidden},
		{apperr.NotFound("job"), http.StatusNotFound},
		{apperr.Conflict("duplicate"), http.StatusConflict},
		{apperr.Upstream("query", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := apperr.HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestHTTPStatus_Wrapped(t *testing.T) {
	err := fmt.Errorf("service: %w", apperr.NotFound("application"))
	if got := apperr.HTTPStatus(err); got != http.StatusNotFound {
		t.Errorf("wrapped NotFound mapped to %d, want 404", got)
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Error("Is(wrapped, KindNotFound) should be true")
	}
}

func TestPublicMessage_HidesCause(t *testing.T) {
	err := apperr.Upstream("listJobs query", errors.New("password authentication failed"))
	if got := apperr.PublicMessage(err); got != "internal server error" {
		t.Errorf("PublicMessage leaked cause: %q", got)
	}
	if !errors.Is(err, err.Err) {
		t.Error("Upstream should unwrap to its cause")
	}
}

func TestNotFound_Message(t *testing.T) {
	if got := apperr.PublicMessage(apperr.NotFound("saved search")); got != "saved search not found" {
		t.Errorf("got %q", got)
	}
}
