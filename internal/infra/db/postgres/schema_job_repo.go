package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"schema-ai-service/internal/domain"
	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/domain/ports/repository"
)

var _ repository.SchemaJobRepository = (*schemaJobRepo)(nil)

type schemaJobRepo struct {
	pool *pgxpool.Pool
}

func NewSchemaJobRepo(pool *pgxpool.Pool) *schemaJobRepo {
	return &schemaJobRepo{pool: pool}
}

const jobColumns = `id, content_id, task, status, attempts, max_attempts, content_hash, last_error, created_at, updated_at, started_at, completed_at`

func (r *schemaJobRepo) Insert(ctx context.Context, tx repository.Tx, job *model.SchemaJob) error {
	const q = `
INSERT INTO schema_jobs (content_id, task, status, attempts, max_attempts, content_hash, last_error, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id;`

	row, err := pickRow(ctx, r.pool, tx, q,
		job.ContentID, job.Task, string(job.Status), job.Attempts, job.MaxAttempts,
		job.ContentHash, job.LastError, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return err
	}
	return row.Scan(&job.ID)
}

func (r *schemaJobRepo) HasActive(ctx context.Context, tx repository.Tx, contentID int64, contentHash string) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM schema_jobs
  WHERE content_id = $1 AND content_hash = $2 AND status IN ('pending', 'running')
);`

	row, err := pickRow(ctx, r.pool, tx, q, contentID, contentHash)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}

func (r *schemaJobRepo) FetchPending(ctx context.Context, tx repository.Tx, limit int) ([]*model.SchemaJob, error) {
	const q = `
SELECT ` + jobColumns + `
FROM schema_jobs
WHERE status = 'pending'
ORDER BY id ASC
LIMIT $1;`

	rows, err := pickRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SchemaJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// Claim is the conditional flip that makes concurrent drains safe: only one
// caller observes the pending row.
func (r *schemaJobRepo) Claim(ctx context.Context, tx repository.Tx, jobID int64, at time.Time) (bool, error) {
	const q = `
UPDATE schema_jobs
SET status = 'running', started_at = $2, updated_at = $2
WHERE id = $1 AND status = 'pending';`

	tag, err := execSQL(ctx, r.pool, tx, q, jobID, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *schemaJobRepo) Complete(ctx context.Context, tx repository.Tx, jobID int64, at time.Time) error {
	const q = `
UPDATE schema_jobs
SET status = 'complete', last_error = '', completed_at = $2, updated_at = $2
WHERE id = $1;`

	_, err := execSQL(ctx, r.pool, tx, q, jobID, at)
	return err
}

func (r *schemaJobRepo) RecordFailure(ctx context.Context, tx repository.Tx, jobID int64, attempts int, status model.JobStatus, lastError string) error {
	const q = `
UPDATE schema_jobs
SET attempts = $2, status = $3, last_error = $4, updated_at = now()
WHERE id = $1;`

	_, err := execSQL(ctx, r.pool, tx, q, jobID, attempts, string(status), lastError)
	return err
}

func (r *schemaJobRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.JobStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM schema_jobs GROUP BY status;`

	rows, err := pickRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.JobStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[model.JobStatus(status)] = count
	}
	return out, rows.Err()
}

func (r *schemaJobRepo) LastFailed(ctx context.Context, tx repository.Tx) (*model.SchemaJob, error) {
	const q = `
SELECT ` + jobColumns + `
FROM schema_jobs
WHERE status = 'failed'
ORDER BY updated_at DESC
LIMIT 1;`

	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

func (r *schemaJobRepo) RequeueStale(ctx context.Context, tx repository.Tx, cutoff time.Time) (int64, error) {
	const q = `
UPDATE schema_jobs
SET status = 'pending', started_at = NULL, updated_at = now()
WHERE status = 'running' AND started_at < $1;`

	tag, err := execSQL(ctx, r.pool, tx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanJob(row pgx.Row) (*model.SchemaJob, error) {
	var job model.SchemaJob
	var status string
	err := row.Scan(
		&job.ID, &job.ContentID, &job.Task, &status, &job.Attempts, &job.MaxAttempts,
		&job.ContentHash, &job.LastError, &job.CreatedAt, &job.UpdatedAt,
		&job.StartedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	job.Status = model.JobStatus(status)
	return &job, nil
}
