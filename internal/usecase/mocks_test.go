package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"schema-ai-service/internal/domain"
	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/domain/ports/repository"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- job repo ----

type memJobRepo struct {
	mu     sync.Mutex
	nextID int64
	jobs   map[int64]*model.SchemaJob
}

var _ repository.SchemaJobRepository = (*memJobRepo)(nil)

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[int64]*model.SchemaJob)}
}

func (r *memJobRepo) Insert(_ context.Context, _ repository.Tx, job *model.SchemaJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	job.ID = r.nextID
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *memJobRepo) HasActive(_ context.Context, _ repository.Tx, contentID int64, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.ContentID == contentID && j.ContentHash == hash && j.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memJobRepo) FetchPending(_ context.Context, _ repository.Tx, limit int) ([]*model.SchemaJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.SchemaJob
	for _, j := range r.jobs {
		if j.Status == model.JobStatusPending {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memJobRepo) Claim(_ context.Context, _ repository.Tx, jobID int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[jobID]
	if !ok || j.Status != model.JobStatusPending {
		return false, nil
	}
	j.Status = model.JobStatusRunning
	j.StartedAt = &at
	j.UpdatedAt = at
	return true, nil
}

func (r *memJobRepo) Complete(_ context.Context, _ repository.Tx, jobID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[jobID]; ok {
		j.Status = model.JobStatusComplete
		j.LastError = ""
		j.CompletedAt = &at
		j.UpdatedAt = at
	}
	return nil
}

func (r *memJobRepo) RecordFailure(_ context.Context, _ repository.Tx, jobID int64, attempts int, status model.JobStatus, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[jobID]; ok {
		j.Attempts = attempts
		j.Status = status
		j.LastError = lastError
		j.UpdatedAt = time.Now()
	}
	return nil
}

func (r *memJobRepo) CountByStatus(_ context.Context, _ repository.Tx) (map[model.JobStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[model.JobStatus]int)
	for _, j := range r.jobs {
		out[j.Status]++
	}
	return out, nil
}

func (r *memJobRepo) LastFailed(_ context.Context, _ repository.Tx) (*model.SchemaJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *model.SchemaJob
	for _, j := range r.jobs {
		if j.Status != model.JobStatusFailed {
			continue
		}
		if last == nil || j.UpdatedAt.After(last.UpdatedAt) {
			last = j
		}
	}
	if last == nil {
		return nil, domain.ErrNotFound
	}
	cp := *last
	return &cp, nil
}

func (r *memJobRepo) RequeueStale(_ context.Context, _ repository.Tx, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, j := range r.jobs {
		if j.Status == model.JobStatusRunning && j.StartedAt != nil && j.StartedAt.Before(cutoff) {
			j.Status = model.JobStatusPending
			j.StartedAt = nil
			n++
		}
	}
	return n, nil
}

func (r *memJobRepo) get(id int64) *model.SchemaJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		cp := *j
		return &cp
	}
	return nil
}

func (r *memJobRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

// ---- content repo ----

type memContentRepo struct {
	mu       sync.Mutex
	contents map[int64]*model.Content
	meta     map[int64]*model.ContentMeta
	missing  []int64
}

var _ repository.ContentRepository = (*memContentRepo)(nil)

func newMemContentRepo() *memContentRepo {
	return &memContentRepo{
		contents: make(map[int64]*model.Content),
		meta:     make(map[int64]*model.ContentMeta),
	}
}

func (r *memContentRepo) FindByID(_ context.Context, _ repository.Tx, id int64) (*model.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memContentRepo) ListIDs(_ context.Context, _ repository.Tx, kinds []string) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	allowed := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		allowed[k] = struct{}{}
	}
	var out []int64
	for id, c := range r.contents {
		if _, ok := allowed[c.Kind]; ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i] < out[k] })
	return out, nil
}

func (r *memContentRepo) ListIDsMissingSchema(_ context.Context, _ repository.Tx) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.missing...), nil
}

func (r *memContentRepo) GetMeta(_ context.Context, _ repository.Tx, contentID int64) (*model.ContentMeta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.meta[contentID]; ok {
		cp := *m
		return &cp, nil
	}
	return &model.ContentMeta{ContentID: contentID}, nil
}

func (r *memContentRepo) ensureMeta(contentID int64) *model.ContentMeta {
	m, ok := r.meta[contentID]
	if !ok {
		m = &model.ContentMeta{ContentID: contentID}
		r.meta[contentID] = m
	}
	return m
}

func (r *memContentRepo) SetContentHash(_ context.Context, _ repository.Tx, contentID int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureMeta(contentID).ContentHash = hash
	return nil
}

func (r *memContentRepo) SetOverrides(_ context.Context, _ repository.Tx, contentID int64, forcedType, forcedReviewedType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.ensureMeta(contentID)
	m.ForcedType = forcedType
	m.ForcedReviewedType = forcedReviewedType
	return nil
}

func (r *memContentRepo) SetLastError(_ context.Context, _ repository.Tx, contentID int64, msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureMeta(contentID).LastError = msg
	return nil
}

func (r *memContentRepo) ClearLastError(_ context.Context, _ repository.Tx, contentID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureMeta(contentID).LastError = ""
	return nil
}

// ---- classifier ----

type fakeClassifier struct {
	fn    func(ctx context.Context, c *model.Content, forcedType, forcedReviewedType string) (*model.Classification, error)
	calls int
}

func (f *fakeClassifier) Analyze(ctx context.Context, c *model.Content, forcedType, forcedReviewedType string) (*model.Classification, error) {
	f.calls++
	if f.fn != nil {
		return f.fn(ctx, c, forcedType, forcedReviewedType)
	}
	return &model.Classification{Type: model.TypeBlogPosting, Summary: "summary"}, nil
}

// ---- run locker ----

type fakeLocker struct {
	mu       sync.Mutex
	held     bool
	locks    int
	unlocks  int
	refreshs int
}

func (l *fakeLocker) TryLock(_ context.Context, _ string, _ time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return "", domain.ErrLockHeld
	}
	l.held = true
	l.locks++
	return "tok", nil
}

func (l *fakeLocker) Refresh(_ context.Context, _, _ string, _ time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refreshs++
	return nil
}

func (l *fakeLocker) Unlock(_ context.Context, _, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	l.unlocks++
	return nil
}

// ---- save gateway ----

type fakeSaver struct {
	ok    bool
	err   error
	calls []SaveInput
}

func (s *fakeSaver) Save(_ context.Context, in SaveInput) (bool, error) {
	s.calls = append(s.calls, in)
	return s.ok, s.err
}

// ---- transaction manager ----

// fakeTM runs the closure with a nil tx; the in-memory repos ignore it.
type fakeTM struct{ calls int }

func (tm *fakeTM) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	tm.calls++
	return fn(ctx, repository.NoTX)
}

// ---- schema repo ----

type schemaState struct {
	live       string
	draft      string
	lastError  string
	report     string
	warnings   int
	meta       repository.SchemaMeta
	generated  *time.Time
}

type memSchemaRepo struct {
	mu      sync.Mutex
	records map[int64]*schemaState
}

var _ repository.SchemaRepository = (*memSchemaRepo)(nil)

func newMemSchemaRepo() *memSchemaRepo {
	return &memSchemaRepo{records: make(map[int64]*schemaState)}
}

func (r *memSchemaRepo) ensure(id int64) *schemaState {
	s, ok := r.records[id]
	if !ok {
		s = &schemaState{}
		r.records[id] = s
	}
	return s
}

func (r *memSchemaRepo) Get(_ context.Context, _ repository.Tx, contentID int64) (*model.SchemaRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.records[contentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &model.SchemaRecord{
		ContentID:        contentID,
		LiveJSON:         s.live,
		DraftJSON:        s.draft,
		SchemaType:       s.meta.SchemaType,
		Justification:    s.meta.Justification,
		Summary:          s.meta.Summary,
		MissingInfo:      s.meta.MissingInfo,
		ValidationReport: s.report,
		WarningCount:     s.warnings,
		LastError:        s.lastError,
		GeneratedAt:      s.generated,
	}, nil
}

func (r *memSchemaRepo) SaveDraft(_ context.Context, _ repository.Tx, contentID int64, draftJSON, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.ensure(contentID)
	s.draft = draftJSON
	s.lastError = lastError
	return nil
}

func (r *memSchemaRepo) PromoteLive(_ context.Context, _ repository.Tx, contentID int64, liveJSON string, meta repository.SchemaMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.ensure(contentID)
	s.live = liveJSON
	s.draft = ""
	s.lastError = ""
	s.meta = meta
	s.warnings = meta.WarningCount
	now := time.Now()
	s.generated = &now
	return nil
}

func (r *memSchemaRepo) SaveValidation(_ context.Context, _ repository.Tx, contentID int64, reportJSON string, warnings int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.ensure(contentID)
	s.report = reportJSON
	s.warnings = warnings
	return nil
}

func (r *memSchemaRepo) Clear(_ context.Context, _ repository.Tx, contentID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, contentID)
	return nil
}

func (r *memSchemaRepo) state(id int64) *schemaState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.records[id]; ok {
		cp := *s
		return &cp
	}
	return nil
}
