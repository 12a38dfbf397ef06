package reference_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"jobmate/board-service/internal/reference"
)

var catalog = []reference.Category{
	{ID: "c-backend", Name: "Backend", FieldID: "f-eng"},
	{ID: "c-frontend", Name: "Frontend", FieldID: "f-eng"},
	{ID: "c-nurse", Name: "Nursing", FieldID: "f-health"},
	{ID: "c-misc", Name: "Misc"},
}

// ── ImpliedFields ─────────────────────────────────────────────────────────

func TestImpliedFields(t *testing.T) {
	cases := []struct {
		selected []string
		want     []string
	}{
		{nil, []string{}},
		{[]string{"c-backend"}, []string{"f-eng"}},
		{[]string{"c-backend", "c-frontend"}, []string{"f-eng"}},
		{[]string{"c-nurse", "c-backend"}, []string{"f-health", "f-eng"}},
		{[]string{"c-misc", "unknown"}, []string{}},
	}
	for _, c := range cases {
		got := reference.ImpliedFields(c.selected, catalog)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("ImpliedFields(%v) = %v, want %v", c.selected, got, c.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"job-types", "categories", "category-fields", "nationalities", "genders", "experience-levels", "education-levels"} {
		if _, ok := reference.ParseKind(s); !ok {
			t.Errorf("ParseKind(%q) should be valid", s)
		}
	}
	if _, ok := reference.ParseKind("salaries"); ok {
		t.Error("ParseKind(\"salaries\") should be invalid")
	}
}

// ── Handler ───────────────────────────────────────────────────────────────

type fakeSource struct {
	items map[reference.Kind][]reference.Item
	fail  bool
}

func (f *fakeSource) Items(_ context.Context, kind reference.Kind) ([]reference.Item, error) {
	if f.fail {
		return nil, errors.New("db down")
	}
	return f.items[kind], nil
}

func (f *fakeSource) Categories(context.Context) ([]reference.Category, error) {
	if f.fail {
		return nil, errors.New("db down")
	}
	return catalog, nil
}

func get(t *testing.T, src reference.Source, path string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	mux := http.NewServeMux()
	reference.NewHandler(src).RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec, rec.Body.String()
}

func TestHandler_List(t *testing.T) {
	src := &fakeSource{items: map[reference.Kind][]reference.Item{
		reference.KindJobTypes: {{ID: "1", Name: "Full-time"}},
	}}
	rec, _ := get(t, src, "/reference/job-types")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var items []reference.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Name != "Full-time" {
		t.Errorf("items = %+v", items)
	}
}

func TestHandler_DegradesToEmptyList(t *testing.T) {
	for _, path := range []string{"/reference/genders", "/reference/categories"} {
		rec, body := get(t, &fakeSource{fail: true}, path)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200 on failed read", path, rec.Code)
		}
		if body != "[]\n" {
			t.Errorf("%s body = %q, want empty list", path, body)
		}
	}
}

func TestHandler_UnknownKind(t *testing.T) {
	rec, _ := get(t, &fakeSource{}, "/reference/planets")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandler_ImpliedFields(t *testing.T) {
	rec, _ := get(t, &fakeSource{}, "/reference/implied-fields?categoryIds=c-nurse,c-frontend")
	var body map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	want := []string{"f-health", "f-eng"}
	if !reflect.DeepEqual(body["fieldIds"], want) {
		t.Errorf("fieldIds = %v, want %v", body["fieldIds"], want)
	}
}
