package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"jobmate/board-service/internal/events"
)

func TestEncode(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	payload := map[string]string{"applicationId": "a1", "type": "spoofed"}

	body, err := events.Encode(events.ApplicationCreated, payload, at)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got["type"] != events.ApplicationCreated {
		t.Errorf("type = %q, channel must win over payload", got["type"])
	}
	if got["at"] != "2026-03-01T11:00:00Z" {
		t.Errorf("at = %q, want UTC RFC3339", got["at"])
	}
	if got["applicationId"] != "a1" {
		t.Errorf("applicationId = %q", got["applicationId"])
	}
	if payload["type"] != "spoofed" {
		t.Error("Encode must not mutate the caller's payload")
	}
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, string, map[string]string) error {
	f.calls++
	return errors.New("redis down")
}

func TestPublishBestEffort_SwallowsErrors(t *testing.T) {
	p := &failingPublisher{}
	events.PublishBestEffort(context.Background(), p, events.JobPosted, map[string]string{"jobId": "j1"})
	if p.calls != 1 {
		t.Errorf("calls = %d, want 1", p.calls)
	}
	events.PublishBestEffort(context.Background(), nil, events.JobPosted, nil)
}
