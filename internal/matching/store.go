package matching

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/board-service/internal/db"
)

// ErrUnknownReference is returned by Replace when an id does not exist.
var ErrUnknownReference = fmt.Errorf("unknown category or field id")

// Store persists job seeker preferences in job_seeker_preferences.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store backed by pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Preferences returns the seeker's preferred categories and fields, plus
// the fields implied by the preferred categories. A seeker without
// preferences gets an empty set.
func (s *Store) Preferences(ctx context.Context, seekerID string) (Preferences, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT COALESCE(p.category_id::text, ''), COALESCE(p.field_id::text, ''),
		        COALESCE(c.field_id::text, '')
		 FROM job_seeker_preferences p
		 LEFT JOIN categories c ON c.id = p.category_id
		 WHERE p.job_seeker_id = $1
		 ORDER BY p.category_id NULLS LAST, p.field_id NULLS LAST`,
		seekerID,
	)
	if err != nil {
		return Preferences{}, fmt.Errorf("preferences query: %w", err)
	}
	defer rows.Close()

	p := Preferences{CategoryIDs: []string{}, FieldIDs: []string{}}
	var implied []string
	for rows.Next() {
		var cat, field, catField string
		if err := rows.Scan(&cat, &field, &catField); err != nil {
			return Preferences{}, fmt.Errorf("preferences scan: %w", err)
		}
		if cat != "" {
			p.CategoryIDs = append(p.CategoryIDs, cat)
		}
		if field != "" {
			p.FieldIDs = append(p.FieldIDs, field)
		}
		if catField != "" && !slices.Contains(implied, catField) {
			implied = append(implied, catField)
		}
	}
	if err := rows.Err(); err != nil {
		return Preferences{}, fmt.Errorf("preferences rows: %w", err)
	}
	p.ImpliedFieldIDs = implied
	return p, nil
}

// Replace swaps the seeker's whole preference set in one transaction.
func (s *Store) Replace(ctx context.Context, seekerID string, p Preferences) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM job_seeker_preferences WHERE job_seeker_id = $1`, seekerID,
		); err != nil {
			return fmt.Errorf("clear preferences: %w", err)
		}

		batch := &pgx.Batch{}
		for _, id := range p.CategoryIDs {
			batch.Queue(`INSERT INTO job_seeker_preferences (job_seeker_id, category_id) VALUES ($1, $2)`, seekerID, id)
		}
		for _, id := range p.FieldIDs {
			batch.Queue(`INSERT INTO job_seeker_preferences (job_seeker_id, field_id) VALUES ($1, $2)`, seekerID, id)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if db.IsForeignKeyViolation(err) {
				return ErrUnknownReference
			}
			return fmt.Errorf("insert preferences: %w", err)
		}
		return nil
	})
}
