package projects

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kozyhq/kozy-review-backend/internal/reaper"
	"github.com/kozyhq/kozy-review-backend/pkg/config"
	pkgerrors "github.com/kozyhq/kozy-review-backend/pkg/errors"
)

// Walks a share through its whole retention window: created at T0, watched
// shortly before the deadline, gone after it.
func TestShareLifecycleAcrossRetentionWindow(t *testing.T) {
	conn := setupProjectsTestDB(t)
	repo := NewRepository(conn)
	store := &stubArtifactStore{}

	sweeper, err := reaper.NewSweeper(reaper.SweeperParams{Repo: repo, Store: store})
	require.NoError(t, err)

	t0 := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	current := t0
	svc, err := NewService(ServiceParams{
		Repo:    repo,
		Store:   store,
		Sweeper: sweeper,
		Review: config.ReviewConfig{
			BaseURL:          "http://localhost:8080",
			ProjectTTL:       72 * time.Hour,
			TokenRetryBudget: 5,
		},
		Now: func() time.Time { return current },
	})
	require.NoError(t, err)

	ctx := context.Background()
	out, err := svc.Create(ctx, CreateInput{
		Title:    "rough cut",
		FileName: "rough_cut.mp4",
	}, strings.NewReader("bytes"))
	require.NoError(t, err)
	require.Equal(t, t0.Add(72*time.Hour), out.Project.ExpiresAt)

	clientURL, err := url.Parse(out.ClientURL)
	require.NoError(t, err)
	clientToken := clientURL.Query().Get("view")
	require.NotEmpty(t, clientToken)

	// one hour before the deadline the link still works and counts the view
	current = t0.Add(71 * time.Hour)
	resolved, err := svc.ResolveAsClient(ctx, clientToken)
	require.NoError(t, err)
	require.Equal(t, int64(1), resolved.ViewCount)
	require.Empty(t, store.deletedKeys)

	// one hour past the deadline the inline sweep reaps it first
	current = t0.Add(73 * time.Hour)
	_, err = svc.ResolveAsClient(ctx, clientToken)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	require.Equal(t, []string{store.storedKey}, store.deletedKeys)

	found, err := repo.FindByID(ctx, out.Project.ID)
	require.NoError(t, err)
	require.False(t, found.IsActive)

	// a second sweep finds nothing left to do
	reaped, err := sweeper.Sweep(ctx, current)
	require.NoError(t, err)
	require.Zero(t, reaped)
}
