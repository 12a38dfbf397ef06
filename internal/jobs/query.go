package jobs

import (
	"fmt"
	"strings"
	"time"

	"jobmate/board-service/internal/matching"
)

// Query is a built search: the page select and the total count share the
// same WHERE clause; CountArgs is a prefix of SelectArgs.
type Query struct {
	Select     string
	SelectArgs []any
	Count      string
	CountArgs  []any
}

const listingFrom = `
		FROM jobs j
		JOIN companies co ON co.id = j.company_id
		LEFT JOIN job_types jt ON jt.id = j.job_type_id`

const listingColumns = `
		SELECT j.id::text, j.company_id::text, co.name, j.title, j.description, j.location,
		       j.salary::float8, COALESCE(jt.name, ''), COALESCE(j.experience_level, ''),
		       COALESCE(j.work_mode, ''), COALESCE(j.benefits, '{}'::text[]),
		       j.posted_at, j.closing_date, j.is_active, j.quantity`

// builder accumulates positional arguments.
type builder struct {
	args  []any
	where []string
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *builder) and(cond string) { b.where = append(b.where, cond) }

// Build translates c into SQL. prefs are used only by SortBestMatch.
// now anchors the closing-date and posted-within predicates.
func Build(c Criteria, prefs matching.Preferences, now time.Time) Query {
	b := &builder{}

	b.and("j.is_active")
	b.and(fmt.Sprintf("(j.closing_date IS NULL OR j.closing_date >= %s)", b.arg(now)))

	if terms := c.Terms(); len(terms) > 0 {
		ors := make([]string, 0, len(terms))
		for _, t := range terms {
			p := b.arg(likePattern(t))
			ors = append(ors, fmt.Sprintf("j.title ILIKE %[1]s OR j.description ILIKE %[1]s OR co.name ILIKE %[1]s", p))
		}
		b.and("(" + strings.Join(ors, " OR ") + ")")
	}
	for _, t := range c.Exclude {
		p := b.arg(likePattern(t))
		b.and(fmt.Sprintf("NOT (j.title ILIKE %[1]s OR j.description ILIKE %[1]s OR co.name ILIKE %[1]s)", p))
	}
	if c.Location != "" {
		b.and("j.location ILIKE " + b.arg(likePattern(c.Location)))
	}
	if c.JobType != "" {
		b.and("LOWER(jt.name) = LOWER(" + b.arg(c.JobType) + ")")
	}
	if c.Category != "" {
		b.and(`EXISTS (
			SELECT 1 FROM job_categories jc
			JOIN categories c ON c.id = jc.category_id
			WHERE jc.job_id = j.id AND LOWER(c.name) = LOWER(` + b.arg(c.Category) + `))`)
	}
	if c.Field != "" {
		b.and(`EXISTS (
			SELECT 1 FROM job_categories jc
			JOIN categories c ON c.id = jc.category_id
			JOIN category_fields f ON f.id = c.field_id
			WHERE jc.job_id = j.id AND LOWER(f.name) = LOWER(` + b.arg(c.Field) + `))`)
	}
	if c.SalaryMin != nil {
		b.and("j.salary IS NOT NULL AND j.salary >= " + b.arg(*c.SalaryMin))
	}
	if c.SalaryMax != nil {
		b.and("j.salary IS NOT NULL AND j.salary <= " + b.arg(*c.SalaryMax))
	}
	if c.ExperienceLevel != "" {
		b.and("LOWER(j.experience_level) = LOWER(" + b.arg(c.ExperienceLevel) + ")")
	}
	if c.WorkMode != "" {
		b.and("LOWER(j.work_mode) = LOWER(" + b.arg(c.WorkMode) + ")")
	}
	if len(c.Benefits) > 0 {
		lowered := make([]string, len(c.Benefits))
		for i, s := range c.Benefits {
			lowered[i] = strings.ToLower(s)
		}
		b.and("ARRAY(SELECT LOWER(x) FROM unnest(j.benefits) AS x) @> " + b.arg(lowered) + "::text[]")
	}
	if c.PostedWithinDays != nil {
		since := postedSince(now, *c.PostedWithinDays)
		b.and("j.posted_at >= " + b.arg(since))
	}

	where := "\n\t\tWHERE " + strings.Join(b.where, "\n\t\t  AND ")
	countArgs := append([]any(nil), b.args...)

	order := orderBy(b, c.SortBy, prefs)
	limit := b.arg(c.Page.Limit)
	offset := b.arg(c.Page.Offset())

	return Query{
		Select:     listingColumns + listingFrom + where + "\n\t\tORDER BY " + order + "\n\t\tLIMIT " + limit + " OFFSET " + offset,
		SelectArgs: b.args,
		Count:      "SELECT COUNT(*)" + listingFrom + where,
		CountArgs:  countArgs,
	}
}

func orderBy(b *builder, key SortKey, prefs matching.Preferences) string {
	switch key {
	case SortOldest:
		return "j.posted_at ASC, j.id ASC"
	case SortSalaryLow:
		return "j.salary ASC NULLS LAST, j.id ASC"
	case SortSalaryHigh:
		return "j.salary DESC NULLS LAST, j.id ASC"
	case SortBestMatch:
		if prefs.Empty() {
			break
		}
		return scoreExpr(b, prefs) + " DESC, j.posted_at DESC, j.id ASC"
	}
	return "j.posted_at DESC, j.id ASC"
}

// scoreExpr mirrors matching.Score in SQL. The field branch covers both
// chosen and implied fields.
func scoreExpr(b *builder, prefs matching.Preferences) string {
	cats := b.arg(nonNil(prefs.CategoryIDs))
	fields := b.arg(prefs.Fields())
	return `CASE
			WHEN EXISTS (SELECT 1 FROM job_categories jc
			             WHERE jc.job_id = j.id AND jc.category_id::text = ANY(` + cats + `::text[])) THEN 100
			WHEN EXISTS (SELECT 1 FROM job_categories jc
			             JOIN categories c ON c.id = jc.category_id
			             WHERE jc.job_id = j.id AND c.field_id::text = ANY(` + fields + `::text[])) THEN 50
			ELSE 0 END`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a substring pattern with LIKE metacharacters escaped.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
