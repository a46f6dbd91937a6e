package reaper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kozyhq/kozy-review-backend/pkg/metrics"
)

type fakeSweepSource struct {
	reaped int
	err    error
	lastAt time.Time
}

func (f *fakeSweepSource) Sweep(ctx context.Context, now time.Time) (int, error) {
	f.lastAt = now
	return f.reaped, f.err
}

func TestSweepJobReportsReapedCount(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	source := &fakeSweepSource{reaped: 3}
	job, err := NewSweepJob(SweepJobParams{
		Sweeper: source,
		Metrics: metrics.NewJobMetrics(prometheus.NewRegistry()),
		Now:     func() time.Time { return at },
	})
	if err != nil {
		t.Fatalf("NewSweepJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !source.lastAt.Equal(at) {
		t.Fatalf("sweep must use the injected clock, got %v", source.lastAt)
	}
}

func TestSweepJobWrapsSweepFailure(t *testing.T) {
	t.Parallel()

	source := &fakeSweepSource{reaped: 1, err: errors.New("one stuck artifact")}
	job, err := NewSweepJob(SweepJobParams{Sweeper: source})
	if err != nil {
		t.Fatalf("NewSweepJob: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected the sweep failure to surface")
	}
}

func TestSweepJobName(t *testing.T) {
	t.Parallel()

	job, err := NewSweepJob(SweepJobParams{Sweeper: &fakeSweepSource{}})
	if err != nil {
		t.Fatalf("NewSweepJob: %v", err)
	}
	if job.Name() != "expiry-sweep" {
		t.Fatalf("unexpected job name %s", job.Name())
	}
}
