// Package matching scores jobs against a job seeker's category and field
// preferences.
//
// Scores are advisory: they drive the "match" badge and the best_match sort
// and are never written to the job or application records.
package matching

// Score values.
const (
	ScoreNone  = 0
	ScoreField = 50
	ScoreExact = 100
)

// Preferences is the set of categories and fields a job seeker is
// interested in. ImpliedFieldIDs are the fields of the preferred
// categories; they are derived on read and never stored.
type Preferences struct {
	CategoryIDs     []string `json:"categoryIds"`
	FieldIDs        []string `json:"fieldIds"`
	ImpliedFieldIDs []string `json:"impliedFieldIds,omitempty"`
}

// Fields returns the chosen and implied fields without duplicates.
func (p Preferences) Fields() []string {
	out := make([]string, 0, len(p.FieldIDs)+len(p.ImpliedFieldIDs))
	seen := make(map[string]bool, cap(out))
	for _, list := range [][]string{p.FieldIDs, p.ImpliedFieldIDs} {
		for _, f := range list {
			if f != "" && !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// Empty reports whether no preference is set.
func (p Preferences) Empty() bool {
	return len(p.CategoryIDs) == 0 && len(p.FieldIDs) == 0
}

// Membership is what a job belongs to: its categories and their fields.
type Membership struct {
	CategoryIDs []string
	FieldIDs    []string
}

// Score returns ScoreExact when any job category is a preferred category,
// ScoreField when a job field is a chosen or implied field, and ScoreNone
// otherwise.
func Score(p Preferences, m Membership) int {
	if intersects(p.CategoryIDs, m.CategoryIDs) {
		return ScoreExact
	}
	if intersects(p.Fields(), m.FieldIDs) {
		return ScoreField
	}
	return ScoreNone
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}
