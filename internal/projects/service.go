package projects

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kozyhq/kozy-review-backend/pkg/config"
	"github.com/kozyhq/kozy-review-backend/pkg/db"
	"github.com/kozyhq/kozy-review-backend/pkg/db/models"
	"github.com/kozyhq/kozy-review-backend/pkg/enums"
	pkgerrors "github.com/kozyhq/kozy-review-backend/pkg/errors"
	"github.com/kozyhq/kozy-review-backend/pkg/logger"
	"github.com/kozyhq/kozy-review-backend/pkg/security"
)

// Service exposes the share/review session lifecycle.
type Service interface {
	Create(ctx context.Context, input CreateInput, artifact io.Reader) (*CreateOutput, error)
	ResolveAsEditor(ctx context.Context, token string) (*ProjectDTO, error)
	ResolveAsClient(ctx context.Context, token string) (*ProjectDTO, error)
	Authorize(ctx context.Context, token string, role enums.AuthorRole) (*ProjectDTO, error)
	OpenArtifact(ctx context.Context, projectID uuid.UUID) (io.ReadCloser, string, error)
	Deactivate(ctx context.Context, projectID uuid.UUID) error
}

type projectRepository interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	FindActiveByEditorToken(ctx context.Context, token string, now time.Time) (*models.Project, error)
	FindActiveByClientToken(ctx context.Context, token string, now time.Time) (*models.Project, error)
	IncrementViewCount(ctx context.Context, clientToken string, now time.Time) (bool, error)
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}

type artifactStore interface {
	Store(ctx context.Context, r io.Reader, suggestedName string) (string, error)
	Delete(ctx context.Context, key string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// sweeper is the inline garbage-collection hook run before resolves. Optional.
type sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

type service struct {
	repo    projectRepository
	store   artifactStore
	sweeper sweeper
	logg    *logger.Logger
	review  config.ReviewConfig
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build a project service.
type ServiceParams struct {
	Repo    projectRepository
	Store   artifactStore
	Sweeper sweeper
	Logger  *logger.Logger
	Review  config.ReviewConfig
	Now     func() time.Time
}

// NewService constructs a project service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("project repository is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("artifact store is required")
	}
	if params.Review.ProjectTTL <= 0 {
		return nil, fmt.Errorf("project ttl must be positive")
	}
	if params.Review.TokenRetryBudget <= 0 {
		return nil, fmt.Errorf("token retry budget must be positive")
	}
	nowFn := params.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &service{
		repo:    params.Repo,
		store:   params.Store,
		sweeper: params.Sweeper,
		logg:    params.Logger,
		review:  params.Review,
		now:     nowFn,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput, artifact io.Reader) (*CreateOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if artifact == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artifact file is required")
	}
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artifact file name is required")
	}

	key, err := s.store.Store(ctx, artifact, fileName)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store artifact")
	}

	now := s.now()
	project, err := s.insertWithFreshTokens(ctx, func() *models.Project {
		return &models.Project{
			ID:               uuid.New(),
			Title:            title,
			Description:      strings.TrimSpace(input.Description),
			ArtifactKey:      key,
			ArtifactFileName: fileName,
			CreatedAt:        now,
			ExpiresAt:        now.Add(s.review.ProjectTTL),
			IsActive:         true,
			AllowDownload:    input.AllowDownload,
		}
	})
	if err != nil {
		// No orphan bytes: the row never landed, so the artifact goes too.
		if delErr := s.store.Delete(ctx, key); delErr != nil && s.logg != nil {
			s.logg.Error(ctx, "delete orphaned artifact after failed insert", delErr)
		}
		return nil, err
	}

	return &CreateOutput{
		Project:   toProjectDTO(project, now),
		EditorURL: s.capabilityURL("edit", project.EditorToken),
		ClientURL: s.capabilityURL("view", project.ClientToken),
	}, nil
}

// insertWithFreshTokens mints a token pair per attempt and retries the insert
// on uniqueness violations up to the configured budget. Both tokens are
// re-minted together; figuring out which column collided is not worth the
// driver-specific parsing.
func (s *service) insertWithFreshTokens(ctx context.Context, build func() *models.Project) (*models.Project, error) {
	var lastErr error
	for attempt := 0; attempt < s.review.TokenRetryBudget; attempt++ {
		editorToken, err := security.IssueToken(security.EditorTokenLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint editor token")
		}
		clientToken, err := security.IssueToken(security.ClientTokenLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint client token")
		}

		project := build()
		project.EditorToken = editorToken
		project.ClientToken = clientToken

		created, err := s.repo.Create(ctx, project)
		if err == nil {
			return created, nil
		}
		if !db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist project")
		}
		lastErr = err
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, lastErr,
		fmt.Sprintf("token collision persisted across %d attempts", s.review.TokenRetryBudget))
}

func (s *service) ResolveAsEditor(ctx context.Context, token string) (*ProjectDTO, error) {
	now := s.now()
	s.sweepBestEffort(ctx, now)

	project, err := s.repo.FindActiveByEditorToken(ctx, token, now)
	if err != nil {
		return nil, resolveError(err)
	}
	dto := toProjectDTO(project, now)
	return &dto, nil
}

func (s *service) ResolveAsClient(ctx context.Context, token string) (*ProjectDTO, error) {
	now := s.now()
	s.sweepBestEffort(ctx, now)

	// The increment and the guard live in one UPDATE so concurrent clients
	// cannot lose counts; zero rows affected means the capability is gone.
	bumped, err := s.repo.IncrementViewCount(ctx, token, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment view count")
	}
	if !bumped {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review link not found")
	}

	project, err := s.repo.FindActiveByClientToken(ctx, token, now)
	if err != nil {
		return nil, resolveError(err)
	}
	dto := toProjectDTO(project, now)
	return &dto, nil
}

// Authorize checks a capability without counting a view. The comment and
// artifact surfaces ride on this so only the review resolve itself bumps
// view_count.
func (s *service) Authorize(ctx context.Context, token string, role enums.AuthorRole) (*ProjectDTO, error) {
	now := s.now()

	var (
		project *models.Project
		err     error
	)
	switch role {
	case enums.AuthorRoleEditor:
		project, err = s.repo.FindActiveByEditorToken(ctx, token, now)
	case enums.AuthorRoleClient:
		project, err = s.repo.FindActiveByClientToken(ctx, token, now)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid author role")
	}
	if err != nil {
		return nil, resolveError(err)
	}
	dto := toProjectDTO(project, now)
	return &dto, nil
}

func (s *service) OpenArtifact(ctx context.Context, projectID uuid.UUID) (io.ReadCloser, string, error) {
	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, "", resolveError(err)
	}
	rc, err := s.store.Open(ctx, project.ArtifactKey)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open artifact")
	}
	return rc, project.ArtifactFileName, nil
}

// Deactivate tears down a session: artifact bytes first, then the row flip.
// Re-running against an already-dead project is a clean no-op, so explicit
// deletion and the reaper can race without either failing.
func (s *service) Deactivate(ctx context.Context, projectID uuid.UUID) error {
	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}

	if err := s.store.Delete(ctx, project.ArtifactKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete artifact")
	}
	if _, err := s.repo.Deactivate(ctx, projectID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate project")
	}
	return nil
}

func (s *service) sweepBestEffort(ctx context.Context, now time.Time) {
	if s.sweeper == nil {
		return
	}
	if _, err := s.sweeper.Sweep(ctx, now); err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("inline expiry sweep failed: %v", err))
	}
}

func (s *service) capabilityURL(param, token string) string {
	base := strings.TrimRight(s.review.BaseURL, "/")
	return fmt.Sprintf("%s/?%s=%s", base, param, token)
}

// resolveError keeps expired, deactivated and never-existing tokens
// indistinguishable from the caller's point of view.
func resolveError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "review link not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup project")
}
