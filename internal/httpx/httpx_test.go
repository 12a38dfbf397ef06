package httpx_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"jobmate/board-service/internal/apperr"
	"jobmate/board-service/internal/auth"
	"jobmate/board-service/internal/httpx"
)

// ── Paging ────────────────────────────────────────────────────────────────

func TestParsePage_Defaults(t *testing.T) {
	p, err := httpx.ParsePage(url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	if p.Number != 1 || p.Limit != httpx.DefaultLimit {
		t.Errorf("got %+v", p)
	}
}

func TestParsePage_CapsLimit(t *testing.T) {
	p, err := httpx.ParsePage(url.Values{"page": {"3"}, "limit": {"1000"}})
	if err != nil {
		t.Fatal(err)
	}
	if p.Number != 3 || p.Limit != httpx.MaxLimit {
		t.Errorf("got %+v", p)
	}
	if p.Offset() != 200 {
		t.Errorf("Offset = %d, want 200", p.Offset())
	}
}

func TestParsePage_Invalid(t *testing.T) {
	for _, q := range []url.Values{
		{"page": {"0"}},
		{"page": {"two"}},
		{"limit": {"-5"}},
	} {
		if _, err := httpx.ParsePage(q); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("ParsePage(%v) err = %v, want validation", q, err)
		}
	}
}

func TestPage_TotalPagesAndHasMore(t *testing.T) {
	cases := []struct {
		page, limit, total, pages int
		more                      bool
	}{
		{1, 10, 0, 0, false},
		{1, 10, 10, 1, false},
		{1, 10, 11, 2, true},
		{2, 10, 11, 2, false},
		{5, 10, 11, 2, false},
	}
	for _, c := range cases {
		p := httpx.Page{Number: c.page, Limit: c.limit}
		if got := p.TotalPages(c.total); got != c.pages {
			t.Errorf("TotalPages(%d) on %+v = %d, want %d", c.total, p, got, c.pages)
		}
		if got := p.HasMore(c.total); got != c.more {
			t.Errorf("HasMore(%d) on %+v = %v, want %v", c.total, p, got, c.more)
		}
	}
}

func TestPage_OffsetSaturates(t *testing.T) {
	p, err := httpx.ParsePage(url.Values{"page": {"9223372036854775807"}, "limit": {"20"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Offset(); got != math.MaxInt {
		t.Errorf("Offset = %d, want math.MaxInt", got)
	}
	if p.HasMore(1000) {
		t.Error("a page past the end has no more rows")
	}
	if got := (httpx.Page{Number: 1, Limit: 10}).Offset(); got != 0 {
		t.Errorf("first page Offset = %d", got)
	}
}

func TestQueryList(t *testing.T) {
	q := url.Values{"benefits": {"health, dental", "", "401k"}}
	got := httpx.QueryList(q, "benefits")
	want := []string{"health", "dental", "401k"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("QueryList = %v, want %v", got, want)
	}
}

// ── Decode ────────────────────────────────────────────────────────────────

type applyBody struct {
	JobID string `json:"jobId" validate:"required,uuid"`
}

func TestDecode(t *testing.T) {
	cases := []struct {
		body string
		ok   bool
	}{
		{`{"jobId":"6f1c1a52-3b0e-4a36-9d59-0c3a1c2b7e10"}`, true},
		{`{"jobId":"nope"}`, false},
		{`{}`, false},
		{``, false},
		{`{`, false},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodPost, "/job-applications", strings.NewReader(c.body))
		var dst applyBody
		err := httpx.Decode(r, &dst)
		if c.ok && err != nil {
			t.Errorf("Decode(%q) unexpected error: %v", c.body, err)
		}
		if !c.ok && !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Decode(%q) err = %v, want validation", c.body, err)
		}
	}
}

// ── WriteError ───────────────────────────────────────────────────────────

func TestWriteError_HidesUpstreamCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	httpx.WriteError(rec, req, apperr.Upstream("searchJobs", errors.New("connection refused")))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "internal server error" {
		t.Errorf("error = %q", body["error"])
	}
}

// ── Middleware ───────────────────────────────────────────────────────────

func TestWithRequestID(t *testing.T) {
	var seen string
	h := httpx.WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httpx.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(httpx.HeaderRequestID) != seen {
		t.Errorf("generated id %q not echoed (%q)", seen, rec.Header().Get(httpx.HeaderRequestID))
	}

	const incoming = "0f8fad5b-d9cb-469f-a165-70867728950e"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(httpx.HeaderRequestID, incoming)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != incoming {
		t.Errorf("incoming id not reused: got %q", seen)
	}
}

func TestRateLimiter_OnlyWrites(t *testing.T) {
	rl := httpx.NewRateLimiter(0.0001, 1)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	ctx := auth.WithIdentity(httptest.NewRequest(http.MethodGet, "/", nil).Context(),
		auth.Identity{UserID: "e1", Role: auth.RoleEmployee})

	codes := make([]int, 0, 4)
	for _, m := range []string{http.MethodPut, http.MethodPut, http.MethodGet, http.MethodGet} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(m, "/employee/applications", nil).WithContext(ctx))
		codes = append(codes, rec.Code)
	}
	want := []int{http.StatusNoContent, http.StatusTooManyRequests, http.StatusNoContent, http.StatusNoContent}
	if !reflect.DeepEqual(codes, want) {
		t.Errorf("codes = %v, want %v", codes, want)
	}
}

func TestRateLimiter_AnonymousKeyedByHost(t *testing.T) {
	rl := httpx.NewRateLimiter(0.0001, 1)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for _, addr := range []string{"203.0.113.7:40001", "203.0.113.7:40002", "198.51.100.1:40001"} {
		req := httptest.NewRequest(http.MethodPost, "/job-seeker/applications", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	want := []int{http.StatusNoContent, http.StatusTooManyRequests, http.StatusNoContent}
	if !reflect.DeepEqual(codes, want) {
		t.Errorf("codes = %v, want %v", codes, want)
	}
}

func TestRateLimiter_ForgetsIdleCallers(t *testing.T) {
	rl := httpx.NewRateLimiter(1, 1)
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rl.SetClock(func() time.Time { return clock })
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	send := func(addr string) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	for i := 0; i < 50; i++ {
		send(fmt.Sprintf("10.0.0.%d:5000", i))
	}
	if got := rl.Len(); got != 50 {
		t.Fatalf("tracked = %d, want 50", got)
	}

	clock = clock.Add(2 * time.Minute)
	send("10.0.1.1:5000")
	if got := rl.Len(); got != 1 {
		t.Errorf("tracked after idle window = %d, want 1", got)
	}
}

func TestRecover(t *testing.T) {
	h := httpx.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
