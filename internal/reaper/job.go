package reaper

import (
	"context"
	"fmt"
	"time"

	"github.com/kozyhq/kozy-review-backend/pkg/metrics"
)

// Job represents a scheduled task that runs inside the reaper worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type sweepSource interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// SweepJobParams configure the scheduled sweep.
type SweepJobParams struct {
	Sweeper sweepSource
	Metrics *metrics.JobMetrics
	Now     func() time.Time
}

// NewSweepJob wraps the sweeper as a schedulable job.
func NewSweepJob(params SweepJobParams) (Job, error) {
	if params.Sweeper == nil {
		return nil, fmt.Errorf("sweeper is required")
	}
	nowFn := params.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &sweepJob{
		sweeper: params.Sweeper,
		metrics: params.Metrics,
		now:     nowFn,
	}, nil
}

type sweepJob struct {
	sweeper sweepSource
	metrics *metrics.JobMetrics
	now     func() time.Time
}

func (j *sweepJob) Name() string { return "expiry-sweep" }

func (j *sweepJob) Run(ctx context.Context) error {
	reaped, err := j.sweeper.Sweep(ctx, j.now())
	if j.metrics != nil && reaped > 0 {
		j.metrics.AddReaped(j.Name(), reaped)
	}
	if err != nil {
		return fmt.Errorf("expiry sweep: %w", err)
	}
	return nil
}
