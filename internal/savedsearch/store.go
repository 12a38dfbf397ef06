package savedsearch

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists saved searches in saved_searches; filters is a jsonb column.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store backed by pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const savedColumns = `id::text, job_seeker_id::text, name, filters, result_count, created_at`

func scanSaved(row pgx.CollectableRow) (SavedSearch, error) {
	var s SavedSearch
	err := row.Scan(&s.ID, &s.JobSeekerID, &s.Name, &s.Filters, &s.ResultCount, &s.CreatedAt)
	return s, err
}

// Insert stores s and returns it with id and created_at set.
func (st *Store) Insert(ctx context.Context, s SavedSearch) (SavedSearch, error) {
	rows, err := st.pool.Query(ctx,
		`INSERT INTO saved_searches (job_seeker_id, name, filters, result_count)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+savedColumns,
		s.JobSeekerID, s.Name, s.Filters, s.ResultCount,
	)
	if err != nil {
		return SavedSearch{}, fmt.Errorf("insert saved search: %w", err)
	}
	saved, err := pgx.CollectExactlyOneRow(rows, scanSaved)
	if err != nil {
		return SavedSearch{}, fmt.Errorf("insert saved search scan: %w", err)
	}
	return saved, nil
}

// ListByOwner returns ownerID's saved searches, newest first.
func (st *Store) ListByOwner(ctx context.Context, ownerID string) ([]SavedSearch, error) {
	rows, err := st.pool.Query(ctx,
		`SELECT `+savedColumns+`
		 FROM saved_searches
		 WHERE job_seeker_id = $1
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list saved searches: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanSaved)
	if err != nil {
		return nil, fmt.Errorf("list saved searches scan: %w", err)
	}
	return list, nil
}

// Get returns one saved search regardless of owner.
func (st *Store) Get(ctx context.Context, id string) (SavedSearch, error) {
	rows, err := st.pool.Query(ctx,
		`SELECT `+savedColumns+` FROM saved_searches WHERE id = $1`, id,
	)
	if err != nil {
		return SavedSearch{}, fmt.Errorf("get saved search: %w", err)
	}
	s, err := pgx.CollectExactlyOneRow(rows, scanSaved)
	if errors.Is(err, pgx.ErrNoRows) {
		return SavedSearch{}, ErrNotFound
	}
	if err != nil {
		return SavedSearch{}, fmt.Errorf("get saved search scan: %w", err)
	}
	return s, nil
}

// Delete removes one saved search.
func (st *Store) Delete(ctx context.Context, id string) error {
	tag, err := st.pool.Exec(ctx, `DELETE FROM saved_searches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete saved search: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// All returns every saved search, oldest first.
func (st *Store) All(ctx context.Context) ([]SavedSearch, error) {
	rows, err := st.pool.Query(ctx,
		`SELECT `+savedColumns+` FROM saved_searches ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("all saved searches: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanSaved)
	if err != nil {
		return nil, fmt.Errorf("all saved searches scan: %w", err)
	}
	return list, nil
}
