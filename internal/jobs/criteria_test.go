package jobs_test

import (
	"net/url"
	"reflect"
	"testing"

	"jobmate/board-service/internal/apperr"
	"jobmate/board-service/internal/httpx"
	"jobmate/board-service/internal/jobs"
)

// ── ParseSortKey ──────────────────────────────────────────────────────────

func TestParseSortKey(t *testing.T) {
	cases := map[string]jobs.SortKey{
		"":            jobs.SortNewest,
		"newest":      jobs.SortNewest,
		"oldest":      jobs.SortOldest,
		"SALARY_LOW":  jobs.SortSalaryLow,
		"salary_high": jobs.SortSalaryHigh,
		"best_match":  jobs.SortBestMatch,
		"relevance":   jobs.SortNewest,
	}
	for in, want := range cases {
		if got := jobs.ParseSortKey(in); got != want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", in, got, want)
		}
	}
}

// ── ParseCriteria ─────────────────────────────────────────────────────────

func TestParseCriteria_Defaults(t *testing.T) {
	c, err := jobs.ParseCriteria(url.Values{"unknown": {"x"}}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Page != (httpx.Page{Number: 1, Limit: httpx.DefaultLimit}) {
		t.Errorf("Page = %+v, want page 1 limit %d", c.Page, httpx.DefaultLimit)
	}
	if c.SortBy != jobs.SortNewest {
		t.Errorf("SortBy = %q, want newest", c.SortBy)
	}
	if len(c.Applied()) != 0 {
		t.Errorf("Applied() = %v, want empty", c.Applied())
	}
}

func TestParseCriteria_Values(t *testing.T) {
	q := url.Values{
		"search":    {"  go developer "},
		"location":  {"Paris"},
		"salaryMin": {"40000"},
		"salaryMax": {"80000"},
		"sortBy":    {"salary_high"},
		"page":      {"2"},
		"limit":     {"500"},
	}
	c, err := jobs.ParseCriteria(q, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Search != "go developer" || c.Location != "Paris" {
		t.Errorf("text filters = %q / %q", c.Search, c.Location)
	}
	if c.SalaryMin == nil || *c.SalaryMin != 40000 || c.SalaryMax == nil || *c.SalaryMax != 80000 {
		t.Errorf("salary bounds = %v / %v", c.SalaryMin, c.SalaryMax)
	}
	if c.Page.Number != 2 || c.Page.Limit != httpx.MaxLimit {
		t.Errorf("Page = %+v, want page 2 capped at %d", c.Page, httpx.MaxLimit)
	}
	if !reflect.DeepEqual(c.Terms(), []string{"go", "developer"}) {
		t.Errorf("Terms() = %v", c.Terms())
	}
}

func TestParseCriteria_Invalid(t *testing.T) {
	cases := []url.Values{
		{"salaryMin": {"abc"}},
		{"salaryMax": {"1.5"}},
		{"salaryMin": {"-1"}},
		{"salaryMin": {"90000"}, "salaryMax": {"10000"}},
		{"page": {"0"}},
		{"limit": {"x"}},
		{"postedWithin": {"0"}},
		{"postedWithin": {"soon"}},
	}
	for _, q := range cases {
		_, err := jobs.ParseCriteria(q, true)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("ParseCriteria(%v) err = %v, want validation error", q, err)
		}
	}
}

func TestParseCriteria_AdvancedOnly(t *testing.T) {
	q := url.Values{
		"experienceLevel": {"senior"},
		"workMode":        {"remote"},
		"benefits":        {"gym,Remote", "health"},
		"postedWithin":    {"7"},
	}

	basic, err := jobs.ParseCriteria(q, false)
	if err != nil {
		t.Fatalf("basic: %v", err)
	}
	if basic.ExperienceLevel != "" || basic.WorkMode != "" || basic.Benefits != nil || basic.PostedWithinDays != nil {
		t.Errorf("basic search read advanced filters: %+v", basic)
	}

	adv, err := jobs.ParseCriteria(q, true)
	if err != nil {
		t.Fatalf("advanced: %v", err)
	}
	if adv.ExperienceLevel != "senior" || adv.WorkMode != "remote" {
		t.Errorf("advanced tags = %q / %q", adv.ExperienceLevel, adv.WorkMode)
	}
	if !reflect.DeepEqual(adv.Benefits, []string{"gym", "Remote", "health"}) {
		t.Errorf("Benefits = %v", adv.Benefits)
	}
	if adv.PostedWithinDays == nil || *adv.PostedWithinDays != 7 {
		t.Errorf("PostedWithinDays = %v", adv.PostedWithinDays)
	}
	if got := len(adv.Applied()); got != 4 {
		t.Errorf("len(Applied()) = %d, want 4", got)
	}
}

// ── FromFilters ───────────────────────────────────────────────────────────

func TestFromFilters(t *testing.T) {
	// Shape produced by decoding a jsonb column.
	filters := map[string]any{
		"search":    "golang",
		"salaryMin": float64(40000),
		"benefits":  []any{"Gym", "Remote"},
		"workMode":  "remote",
		"advanced":  true,
		"ignored":   nil,
	}
	c, err := jobs.FromFilters(filters)
	if err != nil {
		t.Fatalf("FromFilters: %v", err)
	}
	if c.Search != "golang" || c.WorkMode != "remote" {
		t.Errorf("text filters = %q / %q", c.Search, c.WorkMode)
	}
	if c.SalaryMin == nil || *c.SalaryMin != 40000 {
		t.Errorf("SalaryMin = %v", c.SalaryMin)
	}
	if !reflect.DeepEqual(c.Benefits, []string{"Gym", "Remote"}) {
		t.Errorf("Benefits = %v", c.Benefits)
	}
}

func TestFromFilters_Invalid(t *testing.T) {
	cases := []map[string]any{
		{"salaryMin": "lots"},
		{"salaryMin": float64(40000.5)},
		{"postedWithin": float64(0.4)},
	}
	for _, filters := range cases {
		_, err := jobs.FromFilters(filters)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("FromFilters(%v) err = %v, want validation error", filters, err)
		}
	}
}

func TestFromFilters_WholeFloats(t *testing.T) {
	c, err := jobs.FromFilters(map[string]any{"salaryMax": float64(1e6), "postedWithin": float64(7)})
	if err != nil {
		t.Fatalf("FromFilters: %v", err)
	}
	if c.SalaryMax == nil || *c.SalaryMax != 1000000 {
		t.Errorf("SalaryMax = %v", c.SalaryMax)
	}
	if c.PostedWithinDays == nil || *c.PostedWithinDays != 7 {
		t.Errorf("PostedWithinDays = %v", c.PostedWithinDays)
	}
}

func TestParseCriteria_PostedWithinClamped(t *testing.T) {
	c, err := jobs.ParseCriteria(url.Values{"postedWithin": {"200000"}}, true)
	if err != nil {
		t.Fatalf("ParseCriteria: %v", err)
	}
	if c.PostedWithinDays == nil || *c.PostedWithinDays != jobs.MaxPostedWithinDays {
		t.Errorf("PostedWithinDays = %v, want %d", c.PostedWithinDays, jobs.MaxPostedWithinDays)
	}
}
