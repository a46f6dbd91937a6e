package reaper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kozyhq/kozy-review-backend/pkg/db/models"
)

type fakeProjectRepo struct {
	expired     []models.Project
	listErr     error
	deactivated []uuid.UUID
	deactErr    map[uuid.UUID]error
}

func (f *fakeProjectRepo) FindExpiredActive(ctx context.Context, now time.Time) ([]models.Project, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.expired, nil
}

func (f *fakeProjectRepo) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := f.deactErr[id]; err != nil {
		return false, err
	}
	f.deactivated = append(f.deactivated, id)
	return true, nil
}

type fakeArtifactStore struct {
	deleted []string
	failFor map[string]error
}

func (f *fakeArtifactStore) Delete(ctx context.Context, key string) error {
	if err := f.failFor[key]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func expiredProject(key string) models.Project {
	return models.Project{
		ID:          uuid.New(),
		ArtifactKey: key,
		ExpiresAt:   time.Now().Add(-time.Hour),
		IsActive:    true,
	}
}

func newSweeper(t *testing.T, repo *fakeProjectRepo, store *fakeArtifactStore) *Sweeper {
	t.Helper()

	s, err := NewSweeper(SweeperParams{Repo: repo, Store: store})
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}
	return s
}

func TestSweepReapsEveryExpiredProject(t *testing.T) {
	t.Parallel()

	repo := &fakeProjectRepo{expired: []models.Project{
		expiredProject("key-a"),
		expiredProject("key-b"),
	}}
	store := &fakeArtifactStore{}
	sweeper := newSweeper(t, repo, store)

	reaped, err := sweeper.Sweep(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if reaped != 2 {
		t.Fatalf("expected 2 reaped, got %d", reaped)
	}
	if len(store.deleted) != 2 || len(repo.deactivated) != 2 {
		t.Fatalf("unexpected side effects: deleted=%v deactivated=%v", store.deleted, repo.deactivated)
	}
}

func TestSweepEmptySetIsNoOp(t *testing.T) {
	t.Parallel()

	repo := &fakeProjectRepo{}
	store := &fakeArtifactStore{}
	sweeper := newSweeper(t, repo, store)

	reaped, err := sweeper.Sweep(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if reaped != 0 {
		t.Fatalf("expected no reaps, got %d", reaped)
	}
}

func TestSweepIsolatesPerItemFailures(t *testing.T) {
	t.Parallel()

	stuck := expiredProject("key-stuck")
	fine := expiredProject("key-fine")
	repo := &fakeProjectRepo{expired: []models.Project{stuck, fine}}
	store := &fakeArtifactStore{failFor: map[string]error{
		"key-stuck": errors.New("disk flaked"),
	}}
	sweeper := newSweeper(t, repo, store)

	reaped, err := sweeper.Sweep(context.Background(), time.Now())
	if err == nil {
		t.Fatal("expected the stuck artifact to surface as an error")
	}
	if reaped != 1 {
		t.Fatalf("the healthy project must still be reaped, got %d", reaped)
	}
	if len(repo.deactivated) != 1 || repo.deactivated[0] != fine.ID {
		t.Fatalf("unexpected deactivations %v", repo.deactivated)
	}
	// The stuck row stays active so the next sweep retries it.
}

func TestSweepSecondRunIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := &fakeProjectRepo{expired: []models.Project{expiredProject("key-a")}}
	store := &fakeArtifactStore{}
	sweeper := newSweeper(t, repo, store)

	if _, err := sweeper.Sweep(context.Background(), time.Now()); err != nil {
		t.Fatalf("first sweep: %v", err)
	}

	// Once reaped, the row no longer matches the expired-active query.
	repo.expired = nil
	reaped, err := sweeper.Sweep(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if reaped != 0 {
		t.Fatalf("second sweep must be a no-op, got %d", reaped)
	}
}

func TestSweepListFailureAbortsEarly(t *testing.T) {
	t.Parallel()

	repo := &fakeProjectRepo{listErr: errors.New("db down")}
	sweeper := newSweeper(t, repo, &fakeArtifactStore{})

	if _, err := sweeper.Sweep(context.Background(), time.Now()); err == nil {
		t.Fatal("expected list failure to surface")
	}
}
