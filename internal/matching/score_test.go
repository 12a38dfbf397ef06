package matching_test

import (
	"reflect"
	"testing"

	"jobmate/board-service/internal/matching"
)

// ── Score ─────────────────────────────────────────────────────────────────

func TestScore(t *testing.T) {
	prefs := matching.Preferences{
		CategoryIDs: []string{"c-backend"},
		FieldIDs:    []string{"f-eng", "f-data"},
	}
	cases := []struct {
		name string
		job  matching.Membership
		want int
	}{
		{"exact category", matching.Membership{CategoryIDs: []string{"c-backend"}, FieldIDs: []string{"f-eng"}}, matching.ScoreExact},
		{"exact among many", matching.Membership{CategoryIDs: []string{"c-nurse", "c-backend"}, FieldIDs: []string{"f-health", "f-eng"}}, matching.ScoreExact},
		{"same field other category", matching.Membership{CategoryIDs: []string{"c-frontend"}, FieldIDs: []string{"f-eng"}}, matching.ScoreField},
		{"no overlap", matching.Membership{CategoryIDs: []string{"c-nurse"}, FieldIDs: []string{"f-health"}}, matching.ScoreNone},
		{"job without categories", matching.Membership{}, matching.ScoreNone},
	}
	for _, c := range cases {
		if got := matching.Score(prefs, c.job); got != c.want {
			t.Errorf("%s: Score = %d, want %d", c.name, got, c.want)
		}
	}
}

// A seeker who only picked categories still gets the field score for a
// sibling category of the same field.
func TestScore_ImpliedField(t *testing.T) {
	prefs := matching.Preferences{CategoryIDs: []string{"c-backend"}, ImpliedFieldIDs: []string{"f-eng"}}
	sibling := matching.Membership{CategoryIDs: []string{"c-frontend"}, FieldIDs: []string{"f-eng"}}
	if got := matching.Score(prefs, sibling); got != matching.ScoreField {
		t.Errorf("Score = %d, want %d", got, matching.ScoreField)
	}
}

func TestPreferences_Fields(t *testing.T) {
	p := matching.Preferences{FieldIDs: []string{"f1", "f2"}, ImpliedFieldIDs: []string{"f2", "f3", ""}}
	if got, want := p.Fields(), []string{"f1", "f2", "f3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Fields = %v, want %v", got, want)
	}
	if got := (matching.Preferences{}).Fields(); got == nil || len(got) != 0 {
		t.Errorf("Fields of empty preferences = %#v, want empty slice", got)
	}
}

func TestScore_EmptyPreferences(t *testing.T) {
	job := matching.Membership{CategoryIDs: []string{"c1"}, FieldIDs: []string{"f1"}}
	if got := matching.Score(matching.Preferences{}, job); got != matching.ScoreNone {
		t.Errorf("Score with no preferences = %d, want 0", got)
	}
	if !(matching.Preferences{}).Empty() {
		t.Error("zero Preferences should be Empty")
	}
}

// The score depends only on its inputs and always lands in {0, 50, 100}.
func TestScore_DeterministicAndBounded(t *testing.T) {
	ids := []string{"a", "b", "c"}
	var subsets [][]string
	for mask := 0; mask < 1<<len(ids); mask++ {
		var s []string
		for i, id := range ids {
			if mask&(1<<i) != 0 {
				s = append(s, id)
			}
		}
		subsets = append(subsets, s)
	}

	for _, pc := range subsets {
		for _, pf := range subsets {
			for _, jc := range subsets {
				for _, jf := range subsets {
					p := matching.Preferences{CategoryIDs: pc, FieldIDs: pf}
					m := matching.Membership{CategoryIDs: jc, FieldIDs: jf}
					first := matching.Score(p, m)
					if again := matching.Score(p, m); again != first {
						t.Fatalf("Score not deterministic for %+v %+v: %d then %d", p, m, first, again)
					}
					switch first {
					case matching.ScoreNone, matching.ScoreField, matching.ScoreExact:
					default:
						t.Fatalf("Score(%+v, %+v) = %d, out of range", p, m, first)
					}
				}
			}
		}
	}
}
