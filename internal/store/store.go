// Package store provides PostgreSQL access to the job board data: user
// profiles, open job postings, application history, and a log of generated
// recommendation runs.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Candra0x6/stara-match/internal/jobboard"
	"github.com/Candra0x6/stara-match/internal/recommend"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Run is a persisted recommendation run.
type Run struct {
	ID          uuid.UUID
	ProfileID   string
	Source      recommend.Source
	Output      *recommend.Output
	GeneratedAt time.Time
}

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// GetProfile loads a user profile by id. The profile document is stored as
// jsonb in the shape jobboard.UserProfile marshals to.
func (s *Store) GetProfile(ctx context.Context, id string) (*jobboard.UserProfile, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM user_profiles WHERE id = $1`,
		id,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}

	var profile jobboard.UserProfile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", id, err)
	}
	if profile.ID == "" {
		profile.ID = id
	}
	return &profile, nil
}

// ListOpenJobs returns up to limit open job postings, newest first. A limit
// of zero or less means no limit.
func (s *Store) ListOpenJobs(ctx context.Context, limit int) (*jobboard.Jobs, error) {
	query := `SELECT document FROM job_postings WHERE status = 'open' ORDER BY posted_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}
	defer rows.Close()

	jobs := &jobboard.Jobs{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}

		var job jobboard.JobPosting
		if err := json.Unmarshal(doc, &job); err != nil {
			return nil, fmt.Errorf("failed to decode job posting: %w", err)
		}
		jobs.Items = append(jobs.Items, &job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job rows: %w", err)
	}

	return jobs, nil
}

// ListAppliedJobIDs returns the ids of jobs the user has already applied to.
func (s *Store) ListAppliedJobIDs(ctx context.Context, profileID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT job_id FROM applications WHERE profile_id = $1`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications for %s: %w", profileID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read application rows: %w", err)
	}

	return ids, nil
}

// SaveRun records a generated recommendation set and returns its id.
func (s *Store) SaveRun(ctx context.Context, profileID string, output *recommend.Output) (uuid.UUID, error) {
	doc, err := json.Marshal(output)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal run output: %w", err)
	}

	id := uuid.New()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO recommendation_runs (id, profile_id, source, output, generated_at)
		 VALUES ($1, $2, $3, $4, NOW())`,
		id, profileID, string(output.Source), doc,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save run: %w", err)
	}
	return id, nil
}

// GetRun loads a persisted recommendation run by id.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var (
		run Run
		doc []byte
		src string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, profile_id, source, output, generated_at
		 FROM recommendation_runs WHERE id = $1`,
		id,
	).Scan(&run.ID, &run.ProfileID, &src, &doc, &run.GeneratedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}

	run.Source = recommend.Source(src)
	if err := json.Unmarshal(doc, &run.Output); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", id, err)
	}
	return &run, nil
}
