// Package reference reads the lookup tables that populate the search and
// profile forms. It holds no business logic beyond ImpliedFields.
package reference

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Item is one lookup row.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category is a job category and the field it belongs to.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	FieldID string `json:"fieldId"`
}

// Kind names a lookup table exposed over HTTP.
type Kind string

const (
	KindJobTypes         Kind = "job-types"
	KindCategories       Kind = "categories"
	KindCategoryFields   Kind = "category-fields"
	KindNationalities    Kind = "nationalities"
	KindGenders          Kind = "genders"
	KindExperienceLevels Kind = "experience-levels"
	KindEducationLevels  Kind = "education-levels"
)

// tables maps each plain Kind to its table. Categories are read separately.
var tables = map[Kind]string{
	KindJobTypes:         "job_types",
	KindCategoryFields:   "category_fields",
	KindNationalities:    "nationalities",
	KindGenders:          "genders",
	KindExperienceLevels: "experience_levels",
	KindEducationLevels:  "education_levels",
}

// ParseKind validates a path segment.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	if k == KindCategories {
		return k, true
	}
	_, ok := tables[k]
	return k, ok
}

// Accessor reads reference data from PostgreSQL.
type Accessor struct {
	pool *pgxpool.Pool
}

// NewAccessor returns an Accessor backed by pool.
func NewAccessor(pool *pgxpool.Pool) *Accessor {
	return &Accessor{pool: pool}
}

// Items returns every row of a plain lookup table ordered by name.
func (a *Accessor) Items(ctx context.Context, kind Kind) ([]Item, error) {
	table, ok := tables[kind]
	if !ok {
		return nil, fmt.Errorf("reference kind %q has no plain table", kind)
	}
	rows, err := a.pool.Query(ctx, `SELECT id::text, name FROM `+table+` ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("%s query: %w", table, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Item])
	if err != nil {
		return nil, fmt.Errorf("%s scan: %w", table, err)
	}
	return items, nil
}

// Categories returns every category with its field, ordered by name.
func (a *Accessor) Categories(ctx context.Context) ([]Category, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT id::text, name, COALESCE(field_id::text, '') FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("categories query: %w", err)
	}
	cats, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Category])
	if err != nil {
		return nil, fmt.Errorf("categories scan: %w", err)
	}
	return cats, nil
}

// ImpliedFields returns the distinct fields of the selected categories in
// first-seen order. Unknown category ids and categories without a field
// contribute nothing.
func ImpliedFields(selected []string, all []Category) []string {
	fieldOf := make(map[string]string, len(all))
	for _, c := range all {
		fieldOf[c.ID] = c.FieldID
	}
	seen := make(map[string]bool)
	out := make([]string, 0, len(selected))
	for _, id := range selected {
		f := fieldOf[id]
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
