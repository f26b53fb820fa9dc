package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"schema-ai-service/internal/domain"
	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/domain/ports/adapter"
	"schema-ai-service/internal/domain/ports/repository"
	"schema-ai-service/internal/infra/logging"
	"schema-ai-service/internal/infra/metrics"
	"schema-ai-service/internal/schema/builder"
	"schema-ai-service/internal/textutil"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ QueueUseCase = (*queueUC)(nil)

// runLockKey is the Redis key leased for the duration of one drain. One
// drain runs at a time across all replicas.
const runLockKey = "schema:queue:run-lock"

// RunLocker is the TTL lease the drain runs under. TryLock returns
// domain.ErrLockHeld when another holder has the key; Refresh re-asserts the
// lease mid-drain so long batches never outlive it.
type RunLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Refresh(ctx context.Context, key, token string, ttl time.Duration) error
	Unlock(ctx context.Context, key, token string) error
}

// QueueUseCase owns the durable generation queue: idempotent enqueue, the
// locked FIFO drain, retry bookkeeping, and operator-facing stats.
type QueueUseCase interface {
	// Enqueue schedules generation for one content record. Returns false
	// (nil error) when the content is missing or of an unsupported kind;
	// true without inserting when an equivalent job is already in flight.
	Enqueue(ctx context.Context, contentID int64, forcedType, forcedReviewedType string) (bool, error)

	// EnqueueAll schedules every supported content record, or only those
	// without a live schema. Returns how many jobs were enqueued.
	EnqueueAll(ctx context.Context, missingOnly bool) (int, error)

	// RunQueue drains up to maxJobs pending jobs under the run lock. A held
	// lock is a silent no-op. Returns the number of jobs processed.
	RunQueue(ctx context.Context, maxJobs int) (int, error)

	// Stats reports queue depth by status plus the most recent failure.
	Stats(ctx context.Context) (*model.QueueStats, error)

	// RequeueStale returns jobs stuck in running beyond the configured
	// threshold to pending.
	RequeueStale(ctx context.Context) (int64, error)
}

// QueueParams bundles the tunables RunQueue and its helpers need.
type QueueParams struct {
	BatchSize       int
	MaxAttempts     int
	LockTTL         time.Duration
	ClassifyTimeout time.Duration
	StaleAfter      time.Duration
}

type queueUC struct {
	jobs       repository.SchemaJobRepository
	contents   repository.ContentRepository
	classifier adapter.Classifier
	builder    *builder.Builder
	saver      SaveUseCase
	locker     RunLocker
	params     QueueParams

	log *zerolog.Logger
}

func NewQueueUseCase(
	jobs repository.SchemaJobRepository,
	contents repository.ContentRepository,
	classifier adapter.Classifier,
	b *builder.Builder,
	saver SaveUseCase,
	locker RunLocker,
	params QueueParams,
	logger *zerolog.Logger,
) *queueUC {
	if params.BatchSize <= 0 {
		params.BatchSize = 2
	}
	if params.MaxAttempts <= 0 {
		params.MaxAttempts = model.DefaultMaxAttempts
	}
	if params.LockTTL <= 0 {
		params.LockTTL = 90 * time.Second
	}
	if params.ClassifyTimeout <= 0 {
		params.ClassifyTimeout = 60 * time.Second
	}
	if params.StaleAfter <= 0 {
		params.StaleAfter = 10 * time.Minute
	}
	return &queueUC{
		jobs:       jobs,
		contents:   contents,
		classifier: classifier,
		builder:    b,
		saver:      saver,
		locker:     locker,
		params:     params,
		log:        logger,
	}
}

func (q *queueUC) Enqueue(ctx context.Context, contentID int64, forcedType, forcedReviewedType string) (bool, error) {
	content, err := q.contents.FindByID(ctx, repository.NoTX, contentID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("enqueue: load content %d: %w", contentID, err)
	}
	if !content.SupportedKind() {
		return false, nil
	}

	hash := content.Hash()
	active, err := q.jobs.HasActive(ctx, repository.NoTX, contentID, hash)
	if err != nil {
		return false, fmt.Errorf("enqueue: check active jobs: %w", err)
	}
	if active {
		// Same revision already queued or being worked on.
		return true, nil
	}

	now := time.Now()
	job := &model.SchemaJob{
		ContentID:   contentID,
		Task:        model.TaskGenerate,
		Status:      model.JobStatusPending,
		MaxAttempts: q.params.MaxAttempts,
		ContentHash: hash,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := q.jobs.Insert(ctx, repository.NoTX, job); err != nil {
		return false, fmt.Errorf("enqueue: insert job: %w", err)
	}

	if forcedType == "Auto" {
		forcedType = ""
	}
	if err := q.contents.SetOverrides(ctx, repository.NoTX, contentID, forcedType, forcedReviewedType); err != nil {
		q.log.Warn().Err(err).Int64("content_id", contentID).Msg("enqueue: overrides not stored")
	}

	q.log.Info().
		Int64("job_id", job.ID).
		Int64("content_id", contentID).
		Str("forced_type", forcedType).
		Msg("job enqueued")
	return true, nil
}

func (q *queueUC) EnqueueAll(ctx context.Context, missingOnly bool) (int, error) {
	var (
		ids []int64
		err error
	)
	if missingOnly {
		ids, err = q.contents.ListIDsMissingSchema(ctx, repository.NoTX)
	} else {
		ids, err = q.contents.ListIDs(ctx, repository.NoTX, []string{model.ContentKindPost, model.ContentKindPage})
	}
	if err != nil {
		return 0, fmt.Errorf("enqueue all: list content: %w", err)
	}

	queued := 0
	for _, id := range ids {
		ok, err := q.Enqueue(ctx, id, "", "")
		if err != nil {
			q.log.Error().Err(err).Int64("content_id", id).Msg("enqueue all: item skipped")
			continue
		}
		if ok {
			queued++
		}
	}
	q.log.Info().Int("candidates", len(ids)).Int("queued", queued).Bool("missing_only", missingOnly).Msg("bulk enqueue done")
	return queued, nil
}

func (q *queueUC) RunQueue(ctx context.Context, maxJobs int) (int, error) {
	if maxJobs <= 0 {
		maxJobs = q.params.BatchSize
	}

	token, err := q.locker.TryLock(ctx, runLockKey, q.params.LockTTL)
	if errors.Is(err, domain.ErrLockHeld) {
		metrics.IncDrain("lock_held")
		q.log.Debug().Msg("drain skipped: run lock held")
		return 0, nil
	}
	if err != nil {
		metrics.IncDrain("error")
		return 0, fmt.Errorf("run queue: acquire lock: %w", err)
	}
	defer func() {
		// Release even when the caller's context is already gone.
		if err := q.locker.Unlock(context.Background(), runLockKey, token); err != nil {
			q.log.Warn().Err(err).Msg("run lock release failed")
		}
	}()

	ctx = logging.WithDrainID(ctx, ulid.Make().String())
	log := logging.With(ctx, q.log)
	start := time.Now()

	batch, err := q.jobs.FetchPending(ctx, repository.NoTX, maxJobs)
	if err != nil {
		metrics.IncDrain("error")
		return 0, fmt.Errorf("run queue: fetch pending: %w", err)
	}

	processed := 0
	for _, job := range batch {
		claimed, err := q.jobs.Claim(ctx, repository.NoTX, job.ID, time.Now())
		if err != nil {
			log.Error().Err(err).Int64("job_id", job.ID).Msg("claim failed")
			continue
		}
		if !claimed {
			continue
		}
		q.processJob(logging.WithJobID(logging.WithContentID(ctx, job.ContentID), job.ID), job)
		processed++

		if err := q.locker.Refresh(ctx, runLockKey, token, q.params.LockTTL); err != nil {
			log.Warn().Err(err).Msg("run lock refresh failed")
		}
	}

	metrics.IncDrain("ran")
	metrics.ObserveDrain(time.Since(start).Seconds())
	log.Info().Int("fetched", len(batch)).Int("processed", processed).Dur("took", time.Since(start)).Msg("queue drained")
	return processed, nil
}

// processJob runs one claimed job end to end. Failures — including panics —
// are absorbed into the job's retry bookkeeping so one bad job never aborts
// the batch.
func (q *queueUC) processJob(ctx context.Context, job *model.SchemaJob) {
	log := logging.With(ctx, q.log)
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("job panicked")
			q.failJob(ctx, job, fmt.Sprintf("internal error: %v", rec))
		}
	}()
	defer logging.TraceDuration(log, "QueueUC.processJob")()

	content, err := q.contents.FindByID(ctx, repository.NoTX, job.ContentID)
	if errors.Is(err, domain.ErrNotFound) {
		q.failJob(ctx, job, "content not found")
		return
	}
	if err != nil {
		q.failJob(ctx, job, "load content: "+err.Error())
		return
	}

	meta, err := q.contents.GetMeta(ctx, repository.NoTX, job.ContentID)
	if err != nil {
		q.failJob(ctx, job, "load content meta: "+err.Error())
		return
	}

	cctx, cancel := context.WithTimeout(ctx, q.params.ClassifyTimeout)
	cls, err := q.classifier.Analyze(cctx, content, meta.ForcedType, meta.ForcedReviewedType)
	cancel()
	if err != nil {
		q.failJob(ctx, job, err.Error())
		return
	}

	// Operator overrides beat whatever the classifier decided.
	if meta.ForcedReviewedType != "" {
		cls.Details.ReviewedType = meta.ForcedReviewedType
	}
	if meta.ForcedType != "" && meta.ForcedType != "Auto" {
		cls.Type = meta.ForcedType
	}
	if !model.IsSupportedType(cls.Type) {
		cls.Type = model.TypeBlogPosting
	}

	doc := q.builder.Build(content, cls)
	raw, err := json.Marshal(doc)
	if err != nil {
		q.failJob(ctx, job, "serialize graph: "+err.Error())
		return
	}

	ok, err := q.saver.Save(ctx, SaveInput{
		ContentID:     content.ID,
		JSON:          string(raw),
		SchemaType:    cls.Type,
		Justification: cls.Justification,
		Summary:       cls.Summary,
		MissingInfo:   []string(cls.MissingInfo),
	})
	if err != nil {
		q.failJob(ctx, job, "persist schema: "+err.Error())
		return
	}
	if !ok {
		q.failJob(ctx, job, "Generated JSON failed to validate locally.")
		return
	}

	now := time.Now()
	if err := q.jobs.Complete(ctx, repository.NoTX, job.ID, now); err != nil {
		log.Error().Err(err).Msg("job completion not recorded")
		return
	}
	if err := q.contents.SetContentHash(ctx, repository.NoTX, content.ID, job.ContentHash); err != nil {
		log.Warn().Err(err).Msg("processed-hash marker not stored")
	}
	if err := q.contents.ClearLastError(ctx, repository.NoTX, content.ID); err != nil {
		log.Warn().Err(err).Msg("last error not cleared")
	}
	metrics.IncJob("complete")
	log.Info().Str("schema_type", cls.Type).Msg("job complete")
}

// failJob advances the attempt counter and either requeues the job or marks
// it terminally failed. The error lands on both the job row and the content
// record so operators see it next to the content.
func (q *queueUC) failJob(ctx context.Context, job *model.SchemaJob, msg string) {
	msg = textutil.CollapseWhitespace(textutil.StripTags(msg))
	log := logging.With(ctx, q.log)

	job.Attempts++
	job.LastError = msg
	maxAttempts := job.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = q.params.MaxAttempts
	}
	if job.Attempts >= maxAttempts {
		job.Status = model.JobStatusFailed
	} else {
		job.Status = model.JobStatusPending
	}

	if err := q.jobs.RecordFailure(ctx, repository.NoTX, job.ID, job.Attempts, job.Status, msg); err != nil {
		log.Error().Err(err).Msg("failure not recorded on job")
	}
	if err := q.contents.SetLastError(ctx, repository.NoTX, job.ContentID, msg); err != nil {
		log.Warn().Err(err).Msg("failure not recorded on content")
	}

	if job.Status == model.JobStatusFailed {
		metrics.IncJob("failed")
		log.Error().Int("attempts", job.Attempts).Str("last_error", msg).Msg("job failed terminally")
	} else {
		metrics.IncJob("retried")
		log.Warn().Int("attempts", job.Attempts).Str("last_error", msg).Msg("job attempt failed; requeued")
	}
}

func (q *queueUC) Stats(ctx context.Context) (*model.QueueStats, error) {
	counts, err := q.jobs.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	stats := &model.QueueStats{
		Pending:  counts[model.JobStatusPending],
		Running:  counts[model.JobStatusRunning],
		Complete: counts[model.JobStatusComplete],
		Failed:   counts[model.JobStatusFailed],
	}
	last, err := q.jobs.LastFailed(ctx, repository.NoTX)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("stats: last failed: %w", err)
	}
	stats.LastFailed = last
	return stats, nil
}

func (q *queueUC) RequeueStale(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-q.params.StaleAfter)
	n, err := q.jobs.RequeueStale(ctx, repository.NoTX, cutoff)
	if err != nil {
		return 0, fmt.Errorf("requeue stale: %w", err)
	}
	if n > 0 {
		metrics.AddStaleRequeued(n)
		q.log.Warn().Int64("requeued", n).Msg("stale running jobs returned to pending")
	}
	return n, nil
}
