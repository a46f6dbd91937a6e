package reaper

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/kozyhq/kozy-review-backend/pkg/db/models"
	"github.com/kozyhq/kozy-review-backend/pkg/logger"
)

type projectRepository interface {
	FindExpiredActive(ctx context.Context, now time.Time) ([]models.Project, error)
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}

type artifactStore interface {
	Delete(ctx context.Context, key string) error
}

// Sweeper garbage-collects sessions whose retention window has passed. One
// sweep costs a single indexed query plus work proportional to the expired
// set, so running it inline on the read path stays cheap.
type Sweeper struct {
	repo  projectRepository
	store artifactStore
	logg  *logger.Logger
}

// SweeperParams bundles the dependencies required to build a sweeper.
type SweeperParams struct {
	Repo   projectRepository
	Store  artifactStore
	Logger *logger.Logger
}

// NewSweeper constructs a sweeper with the provided dependencies.
func NewSweeper(params SweeperParams) (*Sweeper, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("project repository is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("artifact store is required")
	}
	return &Sweeper{
		repo:  params.Repo,
		store: params.Store,
		logg:  params.Logger,
	}, nil
}

// Sweep reaps every active project past its deadline: artifact bytes first,
// then the is_active flip, per row. A failing row is recorded and skipped so
// one stuck artifact cannot shield the rest of the expired set. Returns the
// number of projects fully reaped.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	rows, err := s.repo.FindExpiredActive(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list expired projects: %w", err)
	}

	var (
		reaped int
		swept  error
	)
	for i := range rows {
		row := &rows[i]
		if err := s.reapOne(ctx, row); err != nil {
			swept = multierr.Append(swept, fmt.Errorf("project %s: %w", row.ID, err))
			continue
		}
		reaped++
	}

	if s.logg != nil && (reaped > 0 || swept != nil) {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"expired": len(rows),
			"reaped":  reaped,
		})
		s.logg.Info(logCtx, "expiry sweep complete")
	}
	return reaped, swept
}

func (s *Sweeper) reapOne(ctx context.Context, project *models.Project) error {
	// Same order as explicit deactivation. Both halves tolerate re-runs, so
	// a crash between them only means the next sweep repeats the row.
	if err := s.store.Delete(ctx, project.ArtifactKey); err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	if _, err := s.repo.Deactivate(ctx, project.ID); err != nil {
		return fmt.Errorf("deactivate: %w", err)
	}
	return nil
}
