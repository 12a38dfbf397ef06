package savedsearch

import (
	"context"
	"log/slog"
	"time"

	"jobmate/board-service/internal/events"
	"jobmate/board-service/internal/jobs"
)

// AlertQueueSize bounds the number of posted jobs waiting to be matched.
const AlertQueueSize = 256

// Alerter checks newly posted jobs against every saved search and
// publishes EVENT_SAVED_SEARCH_MATCH for each hit. Matching runs on a
// background worker started with Run; failures are logged.
type Alerter struct {
	repo  Repository
	pub   events.Publisher
	now   func() time.Time
	queue chan jobs.Job
}

// NewAlerter returns an Alerter. Register JobPosted with jobs.Service.OnPosted
// and start Run.
func NewAlerter(repo Repository, pub events.Publisher) *Alerter {
	return &Alerter{repo: repo, pub: pub, now: time.Now, queue: make(chan jobs.Job, AlertQueueSize)}
}

// JobPosted queues j for matching and returns immediately. When the queue
// is full the job is dropped with a warning.
func (a *Alerter) JobPosted(_ context.Context, j jobs.Job) {
	select {
	case a.queue <- j:
	default:
		slog.Warn("saved search alert queue full, job skipped", "jobId", j.ID)
	}
}

// Run matches queued jobs until ctx is done.
func (a *Alerter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-a.queue:
			a.Match(ctx, j)
		}
	}
}

// Match checks j against every saved search and publishes the hits.
func (a *Alerter) Match(ctx context.Context, j jobs.Job) {
	all, err := a.repo.All(ctx)
	if err != nil {
		slog.Warn("saved search alerts skipped", "jobId", j.ID, "err", err)
		return
	}

	now := a.now()
	matched := 0
	for _, s := range all {
		c, err := jobs.FromFilters(s.Filters)
		if err != nil {
			slog.Debug("saved search filters unusable", "savedSearchId", s.ID, "err", err)
			continue
		}
		if !c.Matches(j, now) {
			continue
		}
		matched++
		events.PublishBestEffort(ctx, a.pub, events.SavedSearchMatch, map[string]string{
			"savedSearchId": s.ID,
			"jobSeekerId":   s.JobSeekerID,
			"jobId":         j.ID,
			"name":          s.Name,
		})
	}
	if matched > 0 {
		slog.Info("saved search alerts published", "jobId", j.ID, "matches", matched)
	}
}
