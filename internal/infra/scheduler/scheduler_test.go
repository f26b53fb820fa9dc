package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeDrainer struct {
	mu     sync.Mutex
	drains int
	reaps  int
	batch  int
}

func (f *fakeDrainer) RunQueue(_ context.Context, maxJobs int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drains++
	f.batch = maxJobs
	return 0, nil
}

func (f *fakeDrainer) RequeueStale(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reaps++
	return 0, nil
}

func (f *fakeDrainer) counts() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drains, f.reaps, f.batch
}

func TestSchedulerDrainsOnCadence(t *testing.T) {
	logger := zerolog.Nop()
	d := &fakeDrainer{}
	s := NewScheduler(10*time.Millisecond, 3, 2, d, &logger)

	s.Start(context.Background())
	deadline := time.After(2 * time.Second)
	for {
		drains, reaps, _ := d.counts()
		if drains >= 4 && reaps >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("not enough ticks: drains=%d reaps=%d", drains, reaps)
		case <-time.After(5 * time.Millisecond):
		}
	}
	s.Stop()

	drains, reaps, batch := d.counts()
	if batch != 3 {
		t.Errorf("batch size: %d", batch)
	}
	// The sweep runs on every second tick, so it must trail the drain count.
	if reaps > drains {
		t.Errorf("reaps=%d drains=%d", reaps, drains)
	}

	// Stop is idempotent and halts the loop.
	s.Stop()
	time.Sleep(30 * time.Millisecond)
	if after, _, _ := d.counts(); after != drains {
		t.Errorf("ticks after stop: %d -> %d", drains, after)
	}
}

func TestSchedulerDefaults(t *testing.T) {
	logger := zerolog.Nop()
	s := NewScheduler(0, 0, 0, &fakeDrainer{}, &logger)
	if s.interval != 2*time.Minute || s.batchSize != 2 || s.reapEvery != 5 {
		t.Fatalf("defaults: %+v", s)
	}
}
