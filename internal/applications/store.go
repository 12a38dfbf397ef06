package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/board-service/internal/db"
)

// Store reads and writes job_requests in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store backed by pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const appColumns = `
		SELECT r.id::text, r.job_id::text, j.title, j.company_id::text, r.job_seeker_id::text,
		       r.status, r.notes, r.employer_response, r.history,
		       r.applied_at, r.responded_at, r.archived_at
		FROM job_requests r
		JOIN jobs j ON j.id = r.job_id`

func scanApp(row pgx.CollectableRow) (Application, error) {
	var a Application
	err := row.Scan(
		&a.ID, &a.JobID, &a.JobTitle, &a.CompanyID, &a.JobSeekerID,
		&a.Status, &a.Notes, &a.EmployerResponse, &a.History,
		&a.AppliedAt, &a.RespondedAt, &a.ArchivedAt,
	)
	return a, err
}

func (s *Store) one(ctx context.Context, where string, args ...any) (Application, error) {
	rows, err := s.pool.Query(ctx, appColumns+"\n\t\tWHERE "+where, args...)
	if err != nil {
		return Application{}, fmt.Errorf("application query: %w", err)
	}
	a, err := pgx.CollectExactlyOneRow(rows, scanApp)
	if errors.Is(err, pgx.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	if err != nil {
		return Application{}, fmt.Errorf("application scan: %w", err)
	}
	return a, nil
}

// ─── Reads ────────────────────────────────────────────────────────────────────

// JobState returns the owner and availability of a job.
func (s *Store) JobState(ctx context.Context, jobID string) (JobState, error) {
	var js JobState
	err := s.pool.QueryRow(ctx,
		`SELECT company_id::text, is_active, closing_date FROM jobs WHERE id = $1`, jobID,
	).Scan(&js.CompanyID, &js.IsActive, &js.ClosingDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return JobState{}, ErrJobNotFound
	}
	if err != nil {
		return JobState{}, fmt.Errorf("job state: %w", err)
	}
	return js, nil
}

// Get returns one application with its job's company.
func (s *Store) Get(ctx context.Context, id string) (Application, error) {
	return s.one(ctx, "r.id = $1", id)
}

// Lookup returns the applications among ids that exist.
func (s *Store) Lookup(ctx context.Context, ids []string) ([]Application, error) {
	rows, err := s.pool.Query(ctx, appColumns+"\n\t\tWHERE r.id = ANY($1::uuid[])", ids)
	if err != nil {
		return nil, fmt.Errorf("lookup applications: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanApp)
	if err != nil {
		return nil, fmt.Errorf("lookup applications scan: %w", err)
	}
	return list, nil
}

// CompanyOfEmployee returns the company the user works for.
func (s *Store) CompanyOfEmployee(ctx context.Context, userID string) (string, error) {
	var companyID string
	err := s.pool.QueryRow(ctx,
		`SELECT company_id::text FROM employees WHERE user_id = $1`, userID,
	).Scan(&companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotEmployee
	}
	if err != nil {
		return "", fmt.Errorf("employee company: %w", err)
	}
	return companyID, nil
}

// ListForEmployer returns one page of the company's applications and the
// total matching f.
func (s *Store) ListForEmployer(ctx context.Context, f EmployerFilter) ([]Application, int, error) {
	where := []string{"j.company_id = $1"}
	args := []any{f.CompanyID}
	if f.JobID != "" {
		args = append(args, f.JobID)
		where = append(where, fmt.Sprintf("r.job_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if !f.IncludeArchived {
		where = append(where, "r.archived_at IS NULL")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM job_requests r JOIN jobs j ON j.id = r.job_id WHERE `+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count employer applications: %w", err)
	}
	if f.Page.Offset() >= total {
		return []Application{}, total, nil
	}

	n := len(args)
	args = append(args, f.Page.Limit, f.Page.Offset())
	rows, err := s.pool.Query(ctx,
		appColumns+"\n\t\tWHERE "+cond+
			fmt.Sprintf("\n\t\tORDER BY r.applied_at DESC, r.id ASC LIMIT $%d OFFSET $%d", n+1, n+2),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list employer applications: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanApp)
	if err != nil {
		return nil, 0, fmt.Errorf("list employer applications scan: %w", err)
	}
	return list, total, nil
}

// ListForSeeker returns the seeker's applications, newest first.
func (s *Store) ListForSeeker(ctx context.Context, seekerID string) ([]Application, error) {
	rows, err := s.pool.Query(ctx,
		appColumns+"\n\t\tWHERE r.job_seeker_id = $1\n\t\tORDER BY r.applied_at DESC, r.id ASC", seekerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list seeker applications: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanApp)
	if err != nil {
		return nil, fmt.Errorf("list seeker applications scan: %w", err)
	}
	return list, nil
}

// ─── Writes ───────────────────────────────────────────────────────────────────

// Insert creates a pending application. The (job_id, job_seeker_id)
// unique constraint turns a second apply into ErrDuplicate.
func (s *Store) Insert(ctx context.Context, jobID, seekerID string, notes *string) (Application, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO job_requests (job_id, job_seeker_id, status, notes)
		 VALUES ($1, $2, 'pending', $3)
		 ON CONFLICT (job_id, job_seeker_id) DO NOTHING
		 RETURNING id::text`,
		jobID, seekerID, notes,
	).Scan(&id)
	switch {
	case errors.Is(err, pgx.ErrNoRows), db.IsUniqueViolation(err):
		return Application{}, ErrDuplicate
	case db.IsForeignKeyViolation(err):
		return Application{}, ErrJobNotFound
	case err != nil:
		return Application{}, fmt.Errorf("insert application: %w", err)
	}
	return s.Get(ctx, id)
}

// historyEntry appends {from, to, at} to history using the row's status
// before the update.
const historyEntry = `history = COALESCE(history, '[]'::jsonb) ||
		       jsonb_build_array(jsonb_build_object('from', status, 'to', $2::text, 'at', $4::timestamptz))`

// SetStatus sets status, employer response and responded_at when the
// current status is still one of from. A row that moved in the meantime
// is left alone and reported as ErrStatusChanged.
func (s *Store) SetStatus(ctx context.Context, id string, to Status, from []string, response *string, at time.Time) (Application, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE job_requests
		 SET `+historyEntry+`,
		     status = $2,
		     employer_response = COALESCE($3, employer_response),
		     responded_at = $4
		 WHERE id = $1 AND status = ANY($5::text[])`,
		id, string(to), response, at, from,
	)
	if err != nil {
		return Application{}, fmt.Errorf("set application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return Application{}, err
		}
		return Application{}, ErrStatusChanged
	}
	return s.Get(ctx, id)
}

// BulkSetStatus moves every id whose current status is in from. Rows that
// changed status since they were read are left alone.
func (s *Store) BulkSetStatus(ctx context.Context, ids []string, to Status, from []string, response *string, at time.Time) ([]Change, error) {
	rows, err := s.pool.Query(ctx,
		`UPDATE job_requests
		 SET `+historyEntry+`,
		     status = $2,
		     employer_response = COALESCE($3, employer_response),
		     responded_at = $4
		 WHERE id = ANY($1::uuid[]) AND status = ANY($5::text[])
		 RETURNING id::text, job_id::text, job_seeker_id::text`,
		ids, string(to), response, at, from,
	)
	if err != nil {
		return nil, fmt.Errorf("bulk set status: %w", err)
	}
	return collectChanges(rows)
}

// BulkArchive sets archived_at on every id not already archived.
func (s *Store) BulkArchive(ctx context.Context, ids []string, at time.Time) ([]Change, error) {
	rows, err := s.pool.Query(ctx,
		`UPDATE job_requests SET archived_at = $2
		 WHERE id = ANY($1::uuid[]) AND archived_at IS NULL
		 RETURNING id::text, job_id::text, job_seeker_id::text`,
		ids, at,
	)
	if err != nil {
		return nil, fmt.Errorf("bulk archive: %w", err)
	}
	return collectChanges(rows)
}

func collectChanges(rows pgx.Rows) ([]Change, error) {
	list, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Change])
	if err != nil {
		return nil, fmt.Errorf("collect changes: %w", err)
	}
	return list, nil
}
