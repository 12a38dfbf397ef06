package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/board-service/internal/db"
)

// Store sentinel errors.
var (
	ErrNotFound         = errors.New("job not found")
	ErrNotEmployee      = errors.New("user is not a company employee")
	ErrUnknownReference = errors.New("unknown job type or category id")
)

// Store reads and writes jobs in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store backed by pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ─── Reads ────────────────────────────────────────────────────────────────────

// Search runs the page select of q.
func (s *Store) Search(ctx context.Context, q Query) ([]Job, error) {
	rows, err := s.pool.Query(ctx, q.Select, q.SelectArgs...)
	if err != nil {
		return nil, fmt.Errorf("search jobs query: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanJob)
	if err != nil {
		return nil, fmt.Errorf("search jobs scan: %w", err)
	}
	if err := s.loadCategories(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Count runs the count query of q.
func (s *Store) Count(ctx context.Context, q Query) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, q.Count, q.CountArgs...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

// Get returns one job whether or not it is active.
func (s *Store) Get(ctx context.Context, id string) (Job, error) {
	rows, err := s.pool.Query(ctx, listingColumns+listingFrom+"\n\t\tWHERE j.id = $1", id)
	if err != nil {
		return Job{}, fmt.Errorf("get job query: %w", err)
	}
	j, err := pgx.CollectExactlyOneRow(rows, scanJob)
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("get job scan: %w", err)
	}
	list := []Job{j}
	if err := s.loadCategories(ctx, list); err != nil {
		return Job{}, err
	}
	return list[0], nil
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

func scanJob(row pgx.CollectableRow) (Job, error) {
	var j Job
	err := row.Scan(
		&j.ID, &j.CompanyID, &j.CompanyName, &j.Title, &j.Description, &j.Location,
		&j.Salary, &j.JobType, &j.ExperienceLevel,
		&j.WorkMode, &j.Benefits,
		&j.PostedAt, &j.ClosingDate, &j.IsActive, &j.Quantity,
	)
	j.Categories = []CategoryRef{}
	return j, err
}

// loadCategories fills Categories for every job with one query.
func (s *Store) loadCategories(ctx context.Context, list []Job) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	index := make(map[string]int, len(list))
	for i, j := range list {
		ids[i] = j.ID
		index[j.ID] = i
	}

	rows, err := s.pool.Query(ctx,
		`SELECT jc.job_id::text, c.id::text, c.name,
		        COALESCE(c.field_id::text, ''), COALESCE(f.name, '')
		 FROM job_categories jc
		 JOIN categories c ON c.id = jc.category_id
		 LEFT JOIN category_fields f ON f.id = c.field_id
		 WHERE jc.job_id = ANY($1::uuid[])
		 ORDER BY c.name`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("job categories query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var jobID string
		var c CategoryRef
		if err := rows.Scan(&jobID, &c.ID, &c.Name, &c.FieldID, &c.FieldName); err != nil {
			return fmt.Errorf("job categories scan: %w", err)
		}
		if i, ok := index[jobID]; ok {
			list[i].Categories = append(list[i].Categories, c)
		}
	}
	return rows.Err()
}

// ─── Writes ───────────────────────────────────────────────────────────────────

// Create inserts a job and its categories in one transaction.
func (s *Store) Create(ctx context.Context, companyID, createdBy string, in Input) (Job, error) {
	var id string
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO jobs (company_id, job_type_id, title, description, location, salary,
			                   experience_level, work_mode, benefits, closing_date, quantity,
			                   is_active, posted_at, created_by)
			 VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6,
			         NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11,
			         TRUE, NOW(), $12)
			 RETURNING id::text`,
			companyID, in.JobTypeID, in.Title, in.Description, in.Location, in.Salary,
			in.ExperienceLevel, in.WorkMode, in.Benefits, in.ClosingDate, in.Quantity,
			createdBy,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert job: %w", err)
		}
		return replaceCategories(ctx, tx, id, in.CategoryIDs)
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Job{}, ErrUnknownReference
		}
		return Job{}, err
	}
	return s.Get(ctx, id)
}

// Update overwrites the editable fields of a job and its categories.
func (s *Store) Update(ctx context.Context, id string, in Input) (Job, error) {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE jobs
			 SET job_type_id = NULLIF($2, '')::uuid, title = $3, description = $4,
			     location = $5, salary = $6, experience_level = NULLIF($7, ''),
			     work_mode = NULLIF($8, ''), benefits = $9, closing_date = $10,
			     quantity = $11, updated_at = NOW()
			 WHERE id = $1`,
			id, in.JobTypeID, in.Title, in.Description, in.Location, in.Salary,
			in.ExperienceLevel, in.WorkMode, in.Benefits, in.ClosingDate, in.Quantity,
		)
		if err != nil {
			return fmt.Errorf("update job: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return replaceCategories(ctx, tx, id, in.CategoryIDs)
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Job{}, ErrUnknownReference
		}
		return Job{}, err
	}
	return s.Get(ctx, id)
}

func replaceCategories(ctx context.Context, tx pgx.Tx, jobID string, categoryIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM job_categories WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("clear job categories: %w", err)
	}
	batch := &pgx.Batch{}
	for _, c := range categoryIDs {
		batch.Queue(`INSERT INTO job_categories (job_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, jobID, c)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert job categories: %w", err)
	}
	return nil
}

// SetActive flips is_active. Jobs are never deleted.
func (s *Store) SetActive(ctx context.Context, id string, active bool) (Job, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active,
	)
	if err != nil {
		return Job{}, fmt.Errorf("set job active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Job{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// DeactivateExpired deactivates active jobs whose closing date is before now.
func (s *Store) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET is_active = FALSE, updated_at = NOW()
		 WHERE is_active AND closing_date IS NOT NULL AND closing_date < $1`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}
