package applications

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobmate/board-service/internal/apperr"
	"jobmate/board-service/internal/auth"
	"jobmate/board-service/internal/events"
	"jobmate/board-service/internal/httpx"
)

// MaxBulkIDs bounds a bulk update request.
const MaxBulkIDs = 500

// Repository errors.
var (
	ErrNotFound    = errors.New("application not found")
	ErrJobNotFound = errors.New("job not found")
	ErrDuplicate   = errors.New("already applied to this job")
	ErrNotEmployee = errors.New("user is not a company employee")
	// ErrStatusChanged means the row left the expected source statuses
	// between the read and the write.
	ErrStatusChanged = errors.New("application status changed concurrently")
)

// ─── Types ───────────────────────────────────────────────────────────────────

// Application is the JSON shape of a job request.
type Application struct {
	ID               string          `json:"id"`
	JobID            string          `json:"jobId"`
	JobTitle         string          `json:"jobTitle"`
	CompanyID        string          `json:"companyId"`
	JobSeekerID      string          `json:"jobSeekerId"`
	Status           Status          `json:"status"`
	Notes            *string         `json:"notes"`
	EmployerResponse *string         `json:"employerResponse"`
	History          json.RawMessage `json:"history,omitempty"`
	AppliedAt        time.Time       `json:"appliedAt"`
	RespondedAt      *time.Time      `json:"respondedAt"`
	ArchivedAt       *time.Time      `json:"archivedAt"`
}

// JobState is what Apply needs to know about the target job.
type JobState struct {
	CompanyID   string
	IsActive    bool
	ClosingDate *time.Time
}

// EmployerFilter narrows an employer listing. Empty fields mean no
// constraint.
type EmployerFilter struct {
	CompanyID       string
	JobID           string
	Status          Status
	IncludeArchived bool
	Page            httpx.Page
}

// Change describes one row touched by a bulk status update.
type Change struct {
	ID          string
	JobID       string
	JobSeekerID string
}

// Repository is the persistence the Service needs; *Store implements it.
type Repository interface {
	JobState(ctx context.Context, jobID string) (JobState, error)
	Insert(ctx context.Context, jobID, seekerID string, notes *string) (Application, error)
	Get(ctx context.Context, id string) (Application, error)
	Lookup(ctx context.Context, ids []string) ([]Application, error)
	CompanyOfEmployee(ctx context.Context, userID string) (string, error)
	SetStatus(ctx context.Context, id string, to Status, from []string, response *string, at time.Time) (Application, error)
	BulkSetStatus(ctx context.Context, ids []string, to Status, from []string, response *string, at time.Time) ([]Change, error)
	BulkArchive(ctx context.Context, ids []string, at time.Time) ([]Change, error)
	ListForEmployer(ctx context.Context, f EmployerFilter) ([]Application, int, error)
	ListForSeeker(ctx context.Context, seekerID string) ([]Application, error)
}

// Page is one page of an employer listing.
type Page struct {
	Applications []Application `json:"applications"`
	Total        int           `json:"total"`
	TotalPages   int           `json:"totalPages"`
	HasMore      bool          `json:"hasMore"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
}

// BulkResult counts a bulk update. UpdatedCount + SkippedCount is the
// number of distinct ids requested.
type BulkResult struct {
	UpdatedCount int `json:"updatedCount"`
	SkippedCount int `json:"skippedCount"`
}

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates the application workflow. It has no dependency on
// net/http.
type Service struct {
	repo Repository
	pub  events.Publisher
	now  func() time.Time
}

// NewService returns a configured Service. pub may be nil.
func NewService(repo Repository, pub events.Publisher) *Service {
	return &Service{repo: repo, pub: pub, now: time.Now}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Apply creates a pending application of seeker to jobID. A second
// application to the same job is a conflict.
func (s *Service) Apply(ctx context.Context, seeker auth.Identity, jobID string, notes *string) (Application, error) {
	if !seeker.IsJobSeeker() {
		return Application{}, apperr.Forbidden("only job seekers can apply")
	}
	notes = trimmed(notes)

	job, err := s.repo.JobState(ctx, jobID)
	if errors.Is(err, ErrJobNotFound) {
		return Application{}, apperr.NotFound("job")
	}
	if err != nil {
		return Application{}, apperr.Upstream("job state", err)
	}
	if !job.IsActive || (job.ClosingDate != nil && job.ClosingDate.Before(s.now())) {
		return Application{}, apperr.Validation("job is no longer accepting applications")
	}

	app, err := s.repo.Insert(ctx, jobID, seeker.UserID, notes)
	if errors.Is(err, ErrDuplicate) {
		return Application{}, apperr.Conflict("you have already applied to this job")
	}
	if err != nil {
		return Application{}, apperr.Upstream("insert application", err)
	}

	events.PublishBestEffort(ctx, s.pub, events.ApplicationCreated, map[string]string{
		"applicationId": app.ID,
		"jobId":         app.JobID,
		"jobSeekerId":   app.JobSeekerID,
		"companyId":     job.CompanyID,
	})
	return app, nil
}

// Get returns one application to its job seeker or to an employee of the
// company that owns the job.
func (s *Service) Get(ctx context.Context, caller auth.Identity, appID string) (Application, error) {
	app, err := s.repo.Get(ctx, appID)
	if errors.Is(err, ErrNotFound) {
		return Application{}, apperr.NotFound("application")
	}
	if err != nil {
		return Application{}, apperr.Upstream("get application", err)
	}
	switch {
	case caller.IsJobSeeker() && app.JobSeekerID == caller.UserID:
		return app, nil
	case caller.IsEmployee():
		company, err := s.companyOf(ctx, caller)
		if err != nil {
			return Application{}, err
		}
		if company == app.CompanyID {
			return app, nil
		}
	}
	return Application{}, apperr.Forbidden("application belongs to someone else")
}

// UpdateStatus moves one application. The caller must be an employee of
// the company that owns the job.
func (s *Service) UpdateStatus(ctx context.Context, caller auth.Identity, appID, status string, response *string) (Application, error) {
	to, err := ParseStatus(status)
	if err != nil {
		return Application{}, apperr.Validation("%s", err.Error())
	}
	company, err := s.companyOf(ctx, caller)
	if err != nil {
		return Application{}, err
	}

	current, err := s.repo.Get(ctx, appID)
	if errors.Is(err, ErrNotFound) {
		return Application{}, apperr.NotFound("application")
	}
	if err != nil {
		return Application{}, apperr.Upstream("get application", err)
	}
	if current.CompanyID != company {
		return Application{}, apperr.Forbidden("application belongs to another company's job")
	}
	if !CanMove(current.Status, to) {
		return Application{}, apperr.Validation("transition %s → %s is not allowed", current.Status, to)
	}

	app, err := s.repo.SetStatus(ctx, appID, to, sourcesOf(to), trimmed(response), s.now())
	switch {
	case errors.Is(err, ErrNotFound):
		return Application{}, apperr.NotFound("application")
	case errors.Is(err, ErrStatusChanged):
		return Application{}, apperr.Validation("application status changed; transition to %s is no longer allowed", to)
	}
	if err != nil {
		return Application{}, apperr.Upstream("set application status", err)
	}

	if current.Status != to {
		s.publishStatus(ctx, Change{ID: app.ID, JobID: app.JobID, JobSeekerID: app.JobSeekerID}, current.Status, to)
	}
	return app, nil
}

// BulkUpdate applies action to every eligible id. Ids that are malformed,
// missing, owned by another company or unable to make the move are skipped.
func (s *Service) BulkUpdate(ctx context.Context, caller auth.Identity, ids []string, action string, response *string) (BulkResult, error) {
	act, err := ParseAction(action)
	if err != nil {
		return BulkResult{}, apperr.Validation("%s", err.Error())
	}
	ids = distinct(ids)
	if len(ids) == 0 || len(ids) > MaxBulkIDs {
		return BulkResult{}, apperr.Validation("applicationIds must hold 1 to %d ids", MaxBulkIDs)
	}
	company, err := s.companyOf(ctx, caller)
	if err != nil {
		return BulkResult{}, err
	}

	wellFormed := make([]string, 0, len(ids))
	for _, id := range ids {
		if u, err := uuid.Parse(id); err == nil {
			wellFormed = append(wellFormed, u.String())
		}
	}
	var found []Application
	if len(wellFormed) > 0 {
		found, err = s.repo.Lookup(ctx, wellFormed)
	}
	if err != nil {
		return BulkResult{}, apperr.Upstream("lookup applications", err)
	}
	target, moves := act.Target()
	before := make(map[string]Status, len(found))
	eligible := make([]string, 0, len(found))
	for _, a := range found {
		if a.CompanyID != company {
			continue
		}
		if moves && !CanMove(a.Status, target) {
			continue
		}
		if !moves && a.ArchivedAt != nil {
			continue
		}
		before[a.ID] = a.Status
		eligible = append(eligible, a.ID)
	}

	var changed []Change
	if len(eligible) > 0 {
		now := s.now()
		if moves {
			changed, err = s.repo.BulkSetStatus(ctx, eligible, target, sourcesOf(target), trimmed(response), now)
		} else {
			changed, err = s.repo.BulkArchive(ctx, eligible, now)
		}
		if err != nil {
			return BulkResult{}, apperr.Upstream("bulk update applications", err)
		}
	}

	if moves {
		for _, c := range changed {
			if from := before[c.ID]; from != target {
				s.publishStatus(ctx, c, from, target)
			}
		}
	}
	return BulkResult{UpdatedCount: len(changed), SkippedCount: len(ids) - len(changed)}, nil
}

// ListForEmployer pages through applications to the caller's company jobs,
// newest first.
func (s *Service) ListForEmployer(ctx context.Context, caller auth.Identity, f EmployerFilter) (Page, error) {
	company, err := s.companyOf(ctx, caller)
	if err != nil {
		return Page{}, err
	}
	f.CompanyID = company

	list, total, err := s.repo.ListForEmployer(ctx, f)
	if err != nil {
		return Page{}, apperr.Upstream("list employer applications", err)
	}
	if list == nil {
		list = []Application{}
	}
	return Page{
		Applications: list,
		Total:        total,
		TotalPages:   f.Page.TotalPages(total),
		HasMore:      f.Page.HasMore(total),
		Page:         f.Page.Number,
		Limit:        f.Page.Limit,
	}, nil
}

// ListForSeeker returns the seeker's own applications, newest first.
func (s *Service) ListForSeeker(ctx context.Context, seeker auth.Identity) ([]Application, error) {
	if !seeker.IsJobSeeker() {
		return nil, apperr.Forbidden("only job seekers have applications")
	}
	list, err := s.repo.ListForSeeker(ctx, seeker.UserID)
	if err != nil {
		return nil, apperr.Upstream("list applications", err)
	}
	if list == nil {
		list = []Application{}
	}
	return list, nil
}

func (s *Service) companyOf(ctx context.Context, caller auth.Identity) (string, error) {
	if !caller.IsEmployee() {
		return "", apperr.Forbidden("only company employees can manage applications")
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

func (s *Service) publishStatus(ctx context.Context, c Change, from, to Status) {
	events.PublishBestEffort(ctx, s.pub, events.ApplicationStatusChanged, map[string]string{
		"applicationId": c.ID,
		"jobId":         c.JobID,
		"jobSeekerId":   c.JobSeekerID,
		"from":          string(from),
		"to":            string(to),
	})
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// trimmed returns nil for a missing or blank text.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
