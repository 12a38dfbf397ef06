package httpx

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"jobmate/board-service/internal/apperr"
)

// Paging bounds shared by every list endpoint.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a normalized, 1-indexed page request.
type Page struct {
	Number int
	Limit  int
}

// Offset is the number of rows skipped before this page. It saturates at
// math.MaxInt, so a huge page number lands past the last row.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Limit
}

// TotalPages is ceil(total / limit).
func (p Page) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

// HasMore reports whether a page after this one holds rows.
func (p Page) HasMore(total int) bool { return p.Number < p.TotalPages(total) }

// ParsePage reads page and limit. Empty values take the defaults; limit is
// capped at MaxLimit.
func ParsePage(q url.Values) (Page, error) {
	p := Page{Number: 1, Limit: DefaultLimit}

	n, err := QueryInt(q, "page")
	if err != nil {
		return p, err
	}
	if n != nil {
		if *n < 1 {
			return p, apperr.Validation("page must be >= 1")
		}
		p.Number = *n
	}

	l, err := QueryInt(q, "limit")
	if err != nil {
		return p, err
	}
	if l != nil {
		if *l < 1 {
			return p, apperr.Validation("limit must be >= 1")
		}
		p.Limit = min(*l, MaxLimit)
	}
	return p, nil
}

// QueryInt parses an optional integer parameter. Empty means absent.
func QueryInt(q url.Values, name string) (*int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Validation("%s must be an integer", name)
	}
	return &v, nil
}

// QueryList collects a list parameter given either repeated
// (?b=x&b=y) or comma separated (?b=x,y). Blank entries are dropped.
func QueryList(q url.Values, name string) []string {
	var out []string
	for _, raw := range q[name] {
		for _, part := range strings.Split(raw, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// QueryBool is true for "true" or "1".
func QueryBool(q url.Values, name string) bool {
	v := strings.ToLower(strings.TrimSpace(q.Get(name)))
	return v == "true" || v == "1"
}
