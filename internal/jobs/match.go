package jobs

import (
	"slices"
	"strings"
	"time"
)

// Matches evaluates the search predicate in process. It agrees with the
// WHERE clause produced by Build and is used for jobs that were just
// posted, before any query would see them.
func (c Criteria) Matches(j Job, now time.Time) bool {
	if !j.IsActive {
		return false
	}
	if j.ClosingDate != nil && j.ClosingDate.Before(now) {
		return false
	}

	if terms := c.Terms(); len(terms) > 0 {
		hay := []string{strings.ToLower(j.Title), strings.ToLower(j.Description), strings.ToLower(j.CompanyName)}
		hit := false
		for _, t := range terms {
			for _, h := range hay {
				if strings.Contains(h, t) {
					hit = true
					break
				}
			}
			if hit {
				break
			}
		}
		if !hit {
			return false
		}
	}
	if ContainsExcluded(j.Title, j.CompanyName, j.Description, c.Exclude) {
		return false
	}
	if c.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(c.Location)) {
		return false
	}
	if c.JobType != "" && !strings.EqualFold(j.JobType, c.JobType) {
		return false
	}
	if c.Category != "" && !slices.ContainsFunc(j.Categories, func(cr CategoryRef) bool {
		return strings.EqualFold(cr.Name, c.Category)
	}) {
		return false
	}
	if c.Field != "" && !slices.ContainsFunc(j.Categories, func(cr CategoryRef) bool {
		return cr.FieldName != "" && strings.EqualFold(cr.FieldName, c.Field)
	}) {
		return false
	}
	if c.SalaryMin != nil && (j.Salary == nil || *j.Salary < float64(*c.SalaryMin)) {
		return false
	}
	if c.SalaryMax != nil && (j.Salary == nil || *j.Salary > float64(*c.SalaryMax)) {
		return false
	}
	if c.ExperienceLevel != "" && !strings.EqualFold(j.ExperienceLevel, c.ExperienceLevel) {
		return false
	}
	if c.WorkMode != "" && !strings.EqualFold(j.WorkMode, c.WorkMode) {
		return false
	}
	for _, want := range c.Benefits {
		if !slices.ContainsFunc(j.Benefits, func(have string) bool { return strings.EqualFold(have, want) }) {
			return false
		}
	}
	if c.PostedWithinDays != nil {
		since := postedSince(now, *c.PostedWithinDays)
		if j.PostedAt.Before(since) {
			return false
		}
	}
	return true
}

// ContainsExcluded reports whether any term appears, case-insensitively,
// in the title, company or description.
func ContainsExcluded(title, company, description string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	fields := []string{strings.ToLower(title), strings.ToLower(company), strings.ToLower(description)}
	for _, t := range terms {
		if t == "" {
			continue
		}
		t = strings.ToLower(t)
		for _, f := range fields {
			if strings.Contains(f, t) {
				return true
			}
		}
	}
	return false
}

// SortJobs orders list the way Build's ORDER BY does. SortBestMatch reads
// MatchScore, so call Annotate first; unscored jobs count as 0.
func SortJobs(list []Job, key SortKey) {
	slices.SortStableFunc(list, func(a, b Job) int { return compare(a, b, key) })
}

func compare(a, b Job, key SortKey) int {
	switch key {
	case SortOldest:
		if c := a.PostedAt.Compare(b.PostedAt); c != 0 {
			return c
		}
	case SortSalaryLow:
		if c := compareSalary(a.Salary, b.Salary, false); c != 0 {
			return c
		}
	case SortSalaryHigh:
		if c := compareSalary(a.Salary, b.Salary, true); c != 0 {
			return c
		}
	case SortBestMatch:
		if c := scoreOf(b) - scoreOf(a); c != 0 {
			return c
		}
		if c := b.PostedAt.Compare(a.PostedAt); c != 0 {
			return c
		}
	default:
		if c := b.PostedAt.Compare(a.PostedAt); c != 0 {
			return c
		}
	}
	return strings.Compare(a.ID, b.ID)
}

// compareSalary puts nil salaries last in either direction.
func compareSalary(a, b *float64, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	x, y := *a, *b
	if desc {
		x, y = y, x
	}
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func scoreOf(j Job) int {
	if j.MatchScore == nil {
		return 0
	}
	return *j.MatchScore
}
