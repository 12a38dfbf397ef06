// Package savedsearch stores named job search filter sets for job seekers
// and alerts them when a newly posted job matches one.
package savedsearch

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"jobmate/board-service/internal/apperr"
	"jobmate/board-service/internal/auth"
)

// MaxNameLength bounds a saved search name, in characters.
const MaxNameLength = 100

// ErrNotFound is returned by a Repository for a missing saved search.
var ErrNotFound = errors.New("saved search not found")

// SavedSearch is a named filter set. ResultCount is the number of results
// when it was saved and is never refreshed.
type SavedSearch struct {
	ID          string         `json:"id"`
	JobSeekerID string         `json:"jobSeekerId"`
	Name        string         `json:"name"`
	Filters     map[string]any `json:"filters"`
	ResultCount int            `json:"resultCount"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Repository is the persistence the Service needs; *Store implements it.
type Repository interface {
	Insert(ctx context.Context, s SavedSearch) (SavedSearch, error)
	ListByOwner(ctx context.Context, ownerID string) ([]SavedSearch, error)
	Get(ctx context.Context, id string) (SavedSearch, error)
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]SavedSearch, error)
}

// Service implements saved search operations for the owning job seeker.
type Service struct {
	repo Repository
}

// NewService returns a configured Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create saves a filter set. The name is trimmed and must be non-empty;
// filters must be non-empty; resultCount must not be negative.
func (s *Service) Create(ctx context.Context, owner auth.Identity, name string, filters map[string]any, resultCount int) (SavedSearch, error) {
	if !owner.IsJobSeeker() {
		return SavedSearch{}, apperr.Forbidden("only job seekers can save searches")
	}
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return SavedSearch{}, apperr.Validation("name is required")
	case utf8.RuneCountInString(name) > MaxNameLength:
		return SavedSearch{}, apperr.Validation("name must be at most %d characters", MaxNameLength)
	case len(filters) == 0:
		return SavedSearch{}, apperr.Validation("filters must not be empty")
	case resultCount < 0:
		return SavedSearch{}, apperr.Validation("resultCount must be >= 0")
	}
	stored, err := canonical(filters)
	if err != nil {
		return SavedSearch{}, apperr.Validation("filters must be JSON values: %v", err)
	}

	saved, err := s.repo.Insert(ctx, SavedSearch{
		JobSeekerID: owner.UserID,
		Name:        name,
		Filters:     stored,
		ResultCount: resultCount,
	})
	if err != nil {
		return SavedSearch{}, apperr.Upstream("insert saved search", err)
	}
	return saved, nil
}

// List returns the owner's saved searches, newest first.
func (s *Service) List(ctx context.Context, owner auth.Identity) ([]SavedSearch, error) {
	if !owner.IsJobSeeker() {
		return nil, apperr.Forbidden("only job seekers have saved searches")
	}
	list, err := s.repo.ListByOwner(ctx, owner.UserID)
	if err != nil {
		return nil, apperr.Upstream("list saved searches", err)
	}
	if list == nil {
		list = []SavedSearch{}
	}
	return list, nil
}

// Load returns a saved search with its filters exactly as stored. It does
// not re-run the search.
func (s *Service) Load(ctx context.Context, owner auth.Identity, id string) (SavedSearch, error) {
	saved, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return SavedSearch{}, apperr.NotFound("saved search")
	}
	if err != nil {
		return SavedSearch{}, apperr.Upstream("get saved search", err)
	}
	if saved.JobSeekerID != owner.UserID {
		return SavedSearch{}, apperr.Forbidden("saved search belongs to another user")
	}
	return saved, nil
}

// Delete removes a saved search owned by owner.
func (s *Service) Delete(ctx context.Context, owner auth.Identity, id string) error {
	if _, err := s.Load(ctx, owner, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("saved search")
		}
		return apperr.Upstream("delete saved search", err)
	}
	return nil
}

// canonical returns filters as they read back from a jsonb column, so a
// Load is deep-equal to what Create returned.
func canonical(filters map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(filters)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
