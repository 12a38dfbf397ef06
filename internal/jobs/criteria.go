// Package jobs implements job listings: the search query builder, the
// in-process mirror of its predicate, and the job lifecycle owned by
// company employees.
package jobs

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"jobmate/board-service/internal/apperr"
	"jobmate/board-service/internal/httpx"
)

// SortKey selects the listing order. Every order ends with id ascending.
type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortSalaryLow  SortKey = "salary_low"
	SortSalaryHigh SortKey = "salary_high"
	SortBestMatch  SortKey = "best_match"
)

// ParseSortKey maps a query value onto a SortKey. Unknown and empty values
// fall back to SortNewest.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNewest, SortOldest, SortSalaryLow, SortSalaryHigh, SortBestMatch:
		return k
	}
	return SortNewest
}

// Criteria is the flat filter set of the search form. Zero values mean
// "no constraint".
type Criteria struct {
	Search           string
	Location         string
	JobType          string
	Category         string
	Field            string
	SalaryMin        *int
	SalaryMax        *int
	ExperienceLevel  string
	WorkMode         string
	Benefits         []string
	Exclude          []string
	PostedWithinDays *int
	SortBy           SortKey
	Advanced         bool
	Page             httpx.Page
}

// MaxPostedWithinDays caps the postedWithin window. Larger values are
// clamped to it.
const MaxPostedWithinDays = 36500

// postedSince is the earliest posting time admitted by a window of days.
func postedSince(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

// Terms splits the keyword search into lowercase terms.
func (c Criteria) Terms() []string {
	return strings.Fields(strings.ToLower(c.Search))
}

// ParseCriteria reads the search form from query parameters. Unknown
// parameters are ignored; malformed numbers are a validation error.
// The advanced-only filters (experienceLevel, workMode, benefits, exclude,
// postedWithin) are read only when advanced is true.
func ParseCriteria(q url.Values, advanced bool) (Criteria, error) {
	c := Criteria{
		Search:   strings.TrimSpace(q.Get("search")),
		Location: strings.TrimSpace(q.Get("location")),
		JobType:  strings.TrimSpace(q.Get("jobType")),
		Category: strings.TrimSpace(q.Get("category")),
		Field:    strings.TrimSpace(q.Get("field")),
		SortBy:   ParseSortKey(q.Get("sortBy")),
		Advanced: advanced,
	}

	var err error
	if c.SalaryMin, err = httpx.QueryInt(q, "salaryMin"); err != nil {
		return c, err
	}
	if c.SalaryMax, err = httpx.QueryInt(q, "salaryMax"); err != nil {
		return c, err
	}
	if c.SalaryMin != nil && *c.SalaryMin < 0 {
		return c, apperr.Validation("salaryMin must be >= 0")
	}
	if c.SalaryMax != nil && *c.SalaryMax < 0 {
		return c, apperr.Validation("salaryMax must be >= 0")
	}
	if c.SalaryMin != nil && c.SalaryMax != nil && *c.SalaryMin > *c.SalaryMax {
		return c, apperr.Validation("salaryMin must not exceed salaryMax")
	}

	if advanced {
		c.ExperienceLevel = strings.TrimSpace(q.Get("experienceLevel"))
		c.WorkMode = strings.TrimSpace(q.Get("workMode"))
		c.Benefits = httpx.QueryList(q, "benefits")
		c.Exclude = httpx.QueryList(q, "exclude")
		if c.PostedWithinDays, err = httpx.QueryInt(q, "postedWithin"); err != nil {
			return c, err
		}
		if c.PostedWithinDays != nil && *c.PostedWithinDays < 1 {
			return c, apperr.Validation("postedWithin must be >= 1 day")
		}
		if c.PostedWithinDays != nil && *c.PostedWithinDays > MaxPostedWithinDays {
			n := MaxPostedWithinDays
			c.PostedWithinDays = &n
		}
	}

	if c.Page, err = httpx.ParsePage(q); err != nil {
		return c, err
	}
	return c, nil
}

// FromFilters rebuilds Criteria from a saved filter set. The map mirrors
// the search form, so values are rendered back into query parameters and
// parsed the same way. Lists become comma separated values.
func FromFilters(filters map[string]any) (Criteria, error) {
	q := url.Values{}
	for k, v := range filters {
		switch val := v.(type) {
		case nil:
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			q.Set(k, strings.Join(parts, ","))
		case []string:
			q.Set(k, strings.Join(val, ","))
		case float64:
			q.Set(k, strconv.FormatFloat(val, 'f', -1, 64))
		case bool:
			if val {
				q.Set(k, "true")
			}
		default:
			q.Set(k, fmt.Sprint(val))
		}
	}
	return ParseCriteria(q, true)
}

// Applied lists the constraints in effect, keyed by query parameter name.
func (c Criteria) Applied() map[string]any {
	out := map[string]any{}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set("search", c.Search)
	set("location", c.Location)
	set("jobType", c.JobType)
	set("category", c.Category)
	set("field", c.Field)
	set("experienceLevel", c.ExperienceLevel)
	set("workMode", c.WorkMode)
	if c.SalaryMin != nil {
		out["salaryMin"] = *c.SalaryMin
	}
	if c.SalaryMax != nil {
		out["salaryMax"] = *c.SalaryMax
	}
	if c.PostedWithinDays != nil {
		out["postedWithin"] = *c.PostedWithinDays
	}
	if len(c.Benefits) > 0 {
		b := append([]string(nil), c.Benefits...)
		sort.Strings(b)
		out["benefits"] = b
	}
	if len(c.Exclude) > 0 {
		out["exclude"] = append([]string(nil), c.Exclude...)
	}
	return out
}
