package repository

import (
	"context"
	"time"

	"schema-ai-service/internal/domain/model"
)

// SchemaJobRepository persists the durable job queue.
type SchemaJobRepository interface {
	// Insert stores a new pending job and fills in its assigned id.
	Insert(ctx context.Context, tx Tx, job *model.SchemaJob) error

	// HasActive reports whether a pending or running job already exists for
	// the (content, hash) pair.
	HasActive(ctx context.Context, tx Tx, contentID int64, contentHash string) (bool, error)

	// FetchPending returns up to limit pending jobs, oldest first.
	FetchPending(ctx context.Context, tx Tx, limit int) ([]*model.SchemaJob, error)

	// Claim atomically flips a pending job to running. Returns false when the
	// job was already taken (or no longer pending).
	Claim(ctx context.Context, tx Tx, jobID int64, at time.Time) (bool, error)

	// Complete marks a running job complete and stamps completed_at.
	Complete(ctx context.Context, tx Tx, jobID int64, at time.Time) error

	// RecordFailure writes the attempt count, resulting status and last error
	// after a failed attempt.
	RecordFailure(ctx context.Context, tx Tx, jobID int64, attempts int, status model.JobStatus, lastError string) error

	// CountByStatus returns job counts keyed by status.
	CountByStatus(ctx context.Context, tx Tx) (map[model.JobStatus]int, error)

	// LastFailed returns the most recently failed job, or ErrNotFound.
	LastFailed(ctx context.Context, tx Tx) (*model.SchemaJob, error)

	// RequeueStale returns jobs stuck in running since before cutoff to
	// pending and reports how many were moved.
	RequeueStale(ctx context.Context, tx Tx, cutoff time.Time) (int64, error)
}
