package applications_test

import (
	"testing"

	"jobmate/board-service/internal/applications"
)

var allStatuses = []applications.Status{
	applications.StatusPending,
	applications.StatusReviewing,
	applications.StatusAccepted,
	applications.StatusRejected,
}

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	for _, s := range []string{"pending", "reviewing", "accepted", "rejected"} {
		got, err := applications.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	for _, s := range []string{"", "PENDING", " pending", "hired", "archived"} {
		if _, err := applications.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

// ── IsTransitionAllowed ────────────────────────────────────────────────────

func TestIsTransitionAllowed_Edges(t *testing.T) {
	cases := []struct {
		from, to applications.Status
	}{
		{applications.StatusPending, applications.StatusReviewing},
		{applications.StatusPending, applications.StatusAccepted},
		{applications.StatusPending, applications.StatusRejected},
		{applications.StatusReviewing, applications.StatusAccepted},
		{applications.StatusReviewing, applications.StatusRejected},
	}
	for _, c := range cases {
		if !applications.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be true", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_Backward(t *testing.T) {
	cases := []struct {
		from, to applications.Status
	}{
		{applications.StatusReviewing, applications.StatusPending},
		{applications.StatusAccepted, applications.StatusReviewing},
		{applications.StatusRejected, applications.StatusPending},
		{applications.StatusAccepted, applications.StatusRejected},
		{applications.StatusRejected, applications.StatusAccepted},
	}
	for _, c := range cases {
		if applications.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false", c.from, c.to)
		}
	}
}

// Terminal statuses have no outgoing edge, but CanMove still accepts the
// same status so notes can be updated.
func TestTerminalStatuses(t *testing.T) {
	for _, terminal := range []applications.Status{applications.StatusAccepted, applications.StatusRejected} {
		if !applications.IsTerminal(terminal) {
			t.Errorf("IsTerminal(%s) should be true", terminal)
		}
		for _, to := range allStatuses {
			if applications.IsTransitionAllowed(terminal, to) {
				t.Errorf("terminal %s → %s should not be allowed", terminal, to)
			}
			if got, want := applications.CanMove(terminal, to), to == terminal; got != want {
				t.Errorf("CanMove(%s → %s) = %v, want %v", terminal, to, got, want)
			}
		}
	}
	for _, s := range []applications.Status{applications.StatusPending, applications.StatusReviewing} {
		if applications.IsTerminal(s) {
			t.Errorf("IsTerminal(%s) should be false", s)
		}
	}
}

func TestUnknownStatusHasNoTransitions(t *testing.T) {
	for _, to := range allStatuses {
		if applications.IsTransitionAllowed("bogus", to) {
			t.Errorf("bogus → %s should not be allowed", to)
		}
	}
}

// ── Actions ────────────────────────────────────────────────────────────────

func TestParseAction(t *testing.T) {
	cases := []struct {
		in     string
		target applications.Status
		moves  bool
	}{
		{"accept", applications.StatusAccepted, true},
		{"reject", applications.StatusRejected, true},
		{"mark-reviewed", applications.StatusReviewing, true},
		{"archive", "", false},
	}
	for _, c := range cases {
		a, err := applications.ParseAction(c.in)
		if err != nil {
			t.Fatalf("ParseAction(%q): %v", c.in, err)
		}
		target, moves := a.Target()
		if target != c.target || moves != c.moves {
			t.Errorf("%s.Target() = %q, %v; want %q, %v", c.in, target, moves, c.target, c.moves)
		}
	}
	if _, err := applications.ParseAction("delete"); err == nil {
		t.Error("ParseAction(\"delete\") expected error, got nil")
	}
}
