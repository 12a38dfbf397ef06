package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"jobmate/board-service/internal/apperr"
	"jobmate/board-service/internal/auth"
	"jobmate/board-service/internal/events"
	"jobmate/board-service/internal/matching"
)

// Repository is the persistence the Service needs; *Store implements it.
type Repository interface {
	Search(ctx context.Context, q Query) ([]Job, error)
	Count(ctx context.Context, q Query) (int, error)
	Get(ctx context.Context, id string) (Job, error)
	CompanyOfEmployee(ctx context.Context, userID string) (string, error)
	Create(ctx context.Context, companyID, createdBy string, in Input) (Job, error)
	Update(ctx context.Context, id string, in Input) (Job, error)
	SetActive(ctx context.Context, id string, active bool) (Job, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// PreferenceSource loads a job seeker's preferences; *matching.Store
// implements it.
type PreferenceSource interface {
	Preferences(ctx context.Context, seekerID string) (matching.Preferences, error)
}

// PostedHook runs after a job is created. Hooks are best effort and must
// not block the request for long.
type PostedHook func(ctx context.Context, j Job)

// SearchResult is one page of listings.
type SearchResult struct {
	Jobs       []Job `json:"jobs"`
	TotalJobs  int   `json:"totalJobs"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}

// ─── Service ─────────────────────────────────────────────────────────────────

// Service holds the job listing and lifecycle logic. It has no dependency
// on net/http.
type Service struct {
	repo     Repository
	prefs    PreferenceSource
	pub      events.Publisher
	onPosted []PostedHook
	now      func() time.Time
}

// NewService returns a configured Service. prefs and pub may be nil.
func NewService(repo Repository, prefs PreferenceSource, pub events.Publisher) *Service {
	return &Service{repo: repo, prefs: prefs, pub: pub, now: time.Now}
}

// OnPosted registers a hook called for every newly created job.
func (s *Service) OnPosted(h PostedHook) { s.onPosted = append(s.onPosted, h) }

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// ─── Listing ─────────────────────────────────────────────────────────────────

// Search returns one page of active jobs matching c. Job seekers get a
// match score on every listing; a failed preference read drops the scores
// and keeps the listing.
func (s *Service) Search(ctx context.Context, caller auth.Identity, c Criteria) (SearchResult, error) {
	prefs, scored := s.preferencesFor(ctx, caller)
	q := Build(c, prefs, s.now())

	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return SearchResult{}, apperr.Upstream("count jobs", err)
	}

	list := []Job{}
	if c.Page.Offset() < total {
		if list, err = s.repo.Search(ctx, q); err != nil {
			return SearchResult{}, apperr.Upstream("search jobs", err)
		}
		if list == nil {
			list = []Job{}
		}
	}
	if scored {
		Annotate(list, prefs)
	}

	return SearchResult{
		Jobs:       list,
		TotalJobs:  total,
		TotalPages: c.Page.TotalPages(total),
		HasMore:    c.Page.HasMore(total),
		Page:       c.Page.Number,
		Limit:      c.Page.Limit,
	}, nil
}

// Get returns one job. Inactive jobs are visible only to employees of the
// owning company.
func (s *Service) Get(ctx context.Context, caller auth.Identity, id string) (Job, error) {
	j, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Job{}, apperr.NotFound("job")
	}
	if err != nil {
		return Job{}, apperr.Upstream("get job", err)
	}
	if !j.IsActive && !s.owns(ctx, caller, j) {
		return Job{}, apperr.NotFound("job")
	}
	if prefs, ok := s.preferencesFor(ctx, caller); ok {
		score := matching.Score(prefs, j.Membership())
		j.MatchScore = &score
	}
	return j, nil
}

func (s *Service) preferencesFor(ctx context.Context, caller auth.Identity) (matching.Preferences, bool) {
	if !caller.IsJobSeeker() || s.prefs == nil {
		return matching.Preferences{}, false
	}
	p, err := s.prefs.Preferences(ctx, caller.UserID)
	if err != nil {
		slog.Warn("load preferences failed, listing without scores",
			"userId", caller.UserID, "err", err)
		return matching.Preferences{}, false
	}
	return p, true
}

func (s *Service) owns(ctx context.Context, caller auth.Identity, j Job) bool {
	if !caller.IsEmployee() {
		return false
	}
	company, err := s.repo.CompanyOfEmployee(ctx, caller.UserID)
	return err == nil && company == j.CompanyID
}

// ─── Lifecycle ───────────────────────────────────────────────────────────────

// Create posts a job for the caller's company, publishes EVENT_JOB_POSTED
// and runs the posted hooks.
func (s *Service) Create(ctx context.Context, caller auth.Identity, in Input) (Job, error) {
	in.normalize()
	if err := checkInput(in); err != nil {
		return Job{}, err
	}
	company, err := s.companyOf(ctx, caller)
	if err != nil {
		return Job{}, err
	}

	j, err := s.repo.Create(ctx, company, caller.UserID, in)
	if err != nil {
		return Job{}, mapWriteErr("create job", err)
	}

	events.PublishBestEffort(ctx, s.pub, events.JobPosted, map[string]string{
		"jobId":     j.ID,
		"companyId": j.CompanyID,
		"title":     j.Title,
	})
	for _, h := range s.onPosted {
		h(ctx, j)
	}
	return j, nil
}

// Update edits a job owned by the caller's company.
func (s *Service) Update(ctx context.Context, caller auth.Identity, id string, in Input) (Job, error) {
	in.normalize()
	if err := checkInput(in); err != nil {
		return Job{}, err
	}
	if err := s.authorize(ctx, caller, id); err != nil {
		return Job{}, err
	}
	j, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return Job{}, mapWriteErr("update job", err)
	}
	return j, nil
}

// SetActive activates or deactivates a job owned by the caller's company.
func (s *Service) SetActive(ctx context.Context, caller auth.Identity, id string, active bool) (Job, error) {
	if err := s.authorize(ctx, caller, id); err != nil {
		return Job{}, err
	}
	j, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return Job{}, mapWriteErr("set job active", err)
	}
	return j, nil
}

// DeactivateExpired deactivates every job whose closing date has passed.
func (s *Service) DeactivateExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeactivateExpired(ctx, s.now())
	if err != nil {
		return 0, apperr.Upstream("deactivate expired jobs", err)
	}
	return n, nil
}

func (s *Service) companyOf(ctx context.Context, caller auth.Identity) (string, error) {
	if !caller.IsEmployee() {
		return "", apperr.Forbidden("only company employees can manage jobs")
	}
	company, err := s.repo.CompanyOfEmployee(ctx, caller.UserID)
	if errors.Is(err, ErrNotEmployee) {
		return "", apperr.Forbidden("caller is not an employee of any company")
	}
	if err != nil {
		return "", apperr.Upstream("employee company", err)
	}
	return company, nil
}

// authorize checks that job id exists and belongs to the caller's company.
func (s *Service) authorize(ctx context.Context, caller auth.Identity, id string) error {
	company, err := s.companyOf(ctx, caller)
	if err != nil {
		return err
	}
	j, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("job")
	}
	if err != nil {
		return apperr.Upstream("get job", err)
	}
	if j.CompanyID != company {
		return apperr.Forbidden("job belongs to another company")
	}
	return nil
}

func checkInput(in Input) error {
	switch {
	case in.Title == "":
		return apperr.Validation("title is required")
	case in.Description == "":
		return apperr.Validation("description is required")
	case in.Location == "":
		return apperr.Validation("location is required")
	case in.Salary != nil && *in.Salary < 0:
		return apperr.Validation("salary must be >= 0")
	case len(in.CategoryIDs) == 0:
		return apperr.Validation("at least one category is required")
	case in.Quantity < 1:
		return apperr.Validation("quantity must be >= 1")
	}
	return nil
}

func mapWriteErr(op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("job")
	case errors.Is(err, ErrUnknownReference):
		return apperr.Validation("%s", ErrUnknownReference.Error())
	}
	return apperr.Upstream(op, err)
}
