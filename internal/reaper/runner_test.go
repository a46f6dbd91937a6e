package reaper

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/kozyhq/kozy-review-backend/pkg/logger"
)

type fakeJob struct {
	runs int
	err  error
}

func (f *fakeJob) Name() string { return "fake-sweep" }

func (f *fakeJob) Run(ctx context.Context) error {
	f.runs++
	return f.err
}

type fakeLock struct {
	acquired   bool
	acquireErr error
	releases   int
}

func (f *fakeLock) Acquire(ctx context.Context) (bool, error) {
	return f.acquired, f.acquireErr
}

func (f *fakeLock) Release(ctx context.Context) error {
	f.releases++
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newRunner(t *testing.T, job Job, lock Lock) *Runner {
	t.Helper()

	r, err := NewRunner(RunnerParams{
		Logger:   testLogger(),
		Job:      job,
		Lock:     lock,
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return r
}

func TestRunnerSkipsCycleWhenLockHeldElsewhere(t *testing.T) {
	t.Parallel()

	job := &fakeJob{}
	lock := &fakeLock{acquired: false}
	r := newRunner(t, job, lock)

	if err := r.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle returned error: %v", err)
	}
	if job.runs != 0 {
		t.Fatal("job must not run without the lock")
	}
	if lock.releases != 0 {
		t.Fatal("an unacquired lock must not be released")
	}
}

func TestRunnerRunsJobAndReleasesLock(t *testing.T) {
	t.Parallel()

	job := &fakeJob{}
	lock := &fakeLock{acquired: true}
	r := newRunner(t, job, lock)

	if err := r.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle returned error: %v", err)
	}
	if job.runs != 1 {
		t.Fatalf("expected one run, got %d", job.runs)
	}
	if lock.releases != 1 {
		t.Fatalf("expected one release, got %d", lock.releases)
	}
}

func TestRunnerJobFailureStillReleasesLock(t *testing.T) {
	t.Parallel()

	job := &fakeJob{err: errors.New("sweep blew up")}
	lock := &fakeLock{acquired: true}
	r := newRunner(t, job, lock)

	if err := r.runCycle(context.Background()); err != nil {
		t.Fatalf("a failed job is logged, not returned: %v", err)
	}
	if lock.releases != 1 {
		t.Fatalf("expected one release, got %d", lock.releases)
	}
}

func TestRunnerLockErrorSurfaces(t *testing.T) {
	t.Parallel()

	job := &fakeJob{}
	lock := &fakeLock{acquireErr: errors.New("redis down")}
	r := newRunner(t, job, lock)

	if err := r.runCycle(context.Background()); err == nil {
		t.Fatal("expected lock failure to surface")
	}
	if job.runs != 0 {
		t.Fatal("job must not run when the lock errors")
	}
}

func TestRunnerStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRunner(t, &fakeJob{}, &fakeLock{acquired: true})
	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
