package model

import "time"

type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusRunning  JobStatus = "running"
	JobStatusComplete JobStatus = "complete"
	JobStatusFailed   JobStatus = "failed"
)

// TaskGenerate is the only task the queue currently carries; the column exists
// so future tasks (refresh, revalidate) can share the table.
const TaskGenerate = "generate"

const DefaultMaxAttempts = 3

// SchemaJob is one durable unit of work: classify a content record, build its
// JSON-LD graph, validate, and persist. Jobs are drained FIFO by id.
type SchemaJob struct {
	ID          int64
	ContentID   int64
	Task        string
	Status      JobStatus
	Attempts    int
	MaxAttempts int
	ContentHash string
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// Active reports whether the job still occupies the (content, hash) slot that
// makes Enqueue idempotent.
func (j *SchemaJob) Active() bool {
	return j.Status == JobStatusPending || j.Status == JobStatusRunning
}

// QueueStats is the admin-surface snapshot of queue health.
type QueueStats struct {
	Pending    int        `json:"pending"`
	Running    int        `json:"running"`
	Complete   int        `json:"complete"`
	Failed     int        `json:"failed"`
	LastFailed *SchemaJob `json:"last_failed,omitempty"`
}
