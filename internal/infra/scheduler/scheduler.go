package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Drainer is the minimal interface the scheduler needs from the queue
// use-case: a locked drain plus a stale-job sweep.
type Drainer interface {
	RunQueue(ctx context.Context, maxJobs int) (int, error)
	RequeueStale(ctx context.Context) (int64, error)
}

// Scheduler drives the queue on a fixed cadence. Every tick drains one
// batch; every reapEvery-th tick also sweeps jobs stuck in running back to
// pending before draining.
type Scheduler struct {
	interval  time.Duration
	batchSize int
	reapEvery int
	drainer   Drainer
	log       *zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler constructs a scheduler that drains every `interval`.
// If interval <= 0 it defaults to 2 minutes.
func NewScheduler(interval time.Duration, batchSize, reapEvery int, drainer Drainer, logger *zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 2 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 2
	}
	if reapEvery <= 0 {
		reapEvery = 5
	}
	return &Scheduler{
		interval:  interval,
		batchSize: batchSize,
		reapEvery: reapEvery,
		drainer:   drainer,
		log:       logger,
		done:      make(chan struct{}),
	}
}

// Start begins the scheduler loop in a background goroutine. Calling Start
// more than once has no effect.
func (s *Scheduler) Start(parentCtx context.Context) {
	if s.ctx != nil {
		// already started
		return
	}
	ctx, cancel := context.WithCancel(parentCtx)
	s.ctx = ctx
	s.cancel = cancel

	go s.loop()
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(s.interval)
	defer func() {
		ticker.Stop()
		close(s.done)
	}()

	s.log.Info().Dur("interval", s.interval).Int("batch_size", s.batchSize).Msg("scheduler started")
	tick := 0
	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("scheduler context cancelled; stopping")
			return
		case <-ticker.C:
			tick++
			runCtx, cancel := context.WithTimeout(s.ctx, s.interval)
			func() {
				defer cancel()
				if tick%s.reapEvery == 0 {
					if n, err := s.drainer.RequeueStale(runCtx); err != nil {
						s.log.Error().Err(err).Msg("stale requeue failed")
					} else if n > 0 {
						s.log.Warn().Int64("requeued", n).Msg("requeued stale jobs")
					}
				}

				processed, err := s.drainer.RunQueue(runCtx, s.batchSize)
				if err != nil {
					s.log.Error().Err(err).Msg("queue drain failed")
					return
				}
				if processed > 0 {
					s.log.Info().Int("processed", processed).Msg("queue drained")
				}
			}()
		}
	}
}

// Stop cancels the scheduler and waits for the loop to finish. It is idempotent.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		// not started
		return
	}
	s.cancel()
	<-s.done
	s.ctx = nil
	s.cancel = nil
	s.done = make(chan struct{})
	s.log.Info().Msg("scheduler stopped")
}
