package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"jobmate/board-service/internal/logging"
)

func TestNew_Level(t *testing.T) {
	cases := []struct {
		level string
		debug bool
		warn  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{"warn", false, true},
		{"error", false, false},
		{"chatty", false, true},
	}
	for _, c := range cases {
		l := logging.New(&bytes.Buffer{}, c.level, "test")
		if got := l.Enabled(context.Background(), slog.LevelDebug); got != c.debug {
			t.Errorf("level %q: debug enabled = %v, want %v", c.level, got, c.debug)
		}
		if got := l.Enabled(context.Background(), slog.LevelWarn); got != c.warn {
			t.Errorf("level %q: warn enabled = %v, want %v", c.level, got, c.warn)
		}
	}
}

func TestNew_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	logging.New(&buf, "info", "board-service").Info("hello", "k", 1)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if rec["service"] != "board-service" || rec["msg"] != "hello" || rec["k"] != float64(1) {
		t.Errorf("record = %v", rec)
	}
}
