package controllers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kozyhq/kozy-review-backend/internal/comments"
	"github.com/kozyhq/kozy-review-backend/internal/projects"
	"github.com/kozyhq/kozy-review-backend/pkg/enums"
	"github.com/kozyhq/kozy-review-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

type testProjectsService struct {
	createFn       func(ctx context.Context, input projects.CreateInput, artifact io.Reader) (*projects.CreateOutput, error)
	resolveEditor  func(ctx context.Context, token string) (*projects.ProjectDTO, error)
	resolveClient  func(ctx context.Context, token string) (*projects.ProjectDTO, error)
	authorizeFn    func(ctx context.Context, token string, role enums.AuthorRole) (*projects.ProjectDTO, error)
	openArtifactFn func(ctx context.Context, projectID uuid.UUID) (io.ReadCloser, string, error)
	deactivateFn   func(ctx context.Context, projectID uuid.UUID) error
}

func (s *testProjectsService) Create(ctx context.Context, input projects.CreateInput, artifact io.Reader) (*projects.CreateOutput, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input, artifact)
	}
	return nil, nil
}

func (s *testProjectsService) ResolveAsEditor(ctx context.Context, token string) (*projects.ProjectDTO, error) {
	if s.resolveEditor != nil {
		return s.resolveEditor(ctx, token)
	}
	return nil, nil
}

func (s *testProjectsService) ResolveAsClient(ctx context.Context, token string) (*projects.ProjectDTO, error) {
	if s.resolveClient != nil {
		return s.resolveClient(ctx, token)
	}
	return nil, nil
}

func (s *testProjectsService) Authorize(ctx context.Context, token string, role enums.AuthorRole) (*projects.ProjectDTO, error) {
	if s.authorizeFn != nil {
		return s.authorizeFn(ctx, token, role)
	}
	return nil, nil
}

func (s *testProjectsService) OpenArtifact(ctx context.Context, projectID uuid.UUID) (io.ReadCloser, string, error) {
	if s.openArtifactFn != nil {
		return s.openArtifactFn(ctx, projectID)
	}
	return io.NopCloser(strings.NewReader("bytes")), "artifact.mp4", nil
}

func (s *testProjectsService) Deactivate(ctx context.Context, projectID uuid.UUID) error {
	if s.deactivateFn != nil {
		return s.deactivateFn(ctx, projectID)
	}
	return nil
}

type testCommentsService struct {
	addFn      func(ctx context.Context, projectID uuid.UUID, input comments.AddInput) (*comments.CommentDTO, error)
	listFn     func(ctx context.Context, projectID uuid.UUID) ([]comments.CommentDTO, error)
	toggleFn   func(ctx context.Context, commentID uuid.UUID, role enums.AuthorRole) error
	deleteFn   func(ctx context.Context, commentID uuid.UUID, role enums.AuthorRole) error
	completeFn func(ctx context.Context, projectID uuid.UUID, actorName string) (*comments.CommentDTO, error)
	statsFn    func(ctx context.Context, projectID uuid.UUID) (*comments.StatsDTO, error)
}

func (s *testCommentsService) Add(ctx context.Context, projectID uuid.UUID, input comments.AddInput) (*comments.CommentDTO, error) {
	if s.addFn != nil {
		return s.addFn(ctx, projectID, input)
	}
	return &comments.CommentDTO{ID: uuid.New(), ProjectID: projectID}, nil
}

func (s *testCommentsService) List(ctx context.Context, projectID uuid.UUID) ([]comments.CommentDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx, projectID)
	}
	return nil, nil
}

func (s *testCommentsService) ToggleResolved(ctx context.Context, commentID uuid.UUID, role enums.AuthorRole) error {
	if s.toggleFn != nil {
		return s.toggleFn(ctx, commentID, role)
	}
	return nil
}

func (s *testCommentsService) Delete(ctx context.Context, commentID uuid.UUID, role enums.AuthorRole) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, commentID, role)
	}
	return nil
}

func (s *testCommentsService) MarkSessionComplete(ctx context.Context, projectID uuid.UUID, actorName string) (*comments.CommentDTO, error) {
	if s.completeFn != nil {
		return s.completeFn(ctx, projectID, actorName)
	}
	return &comments.CommentDTO{ID: uuid.New(), ProjectID: projectID}, nil
}

func (s *testCommentsService) Stats(ctx context.Context, projectID uuid.UUID) (*comments.StatsDTO, error) {
	if s.statsFn != nil {
		return s.statsFn(ctx, projectID)
	}
	return &comments.StatsDTO{}, nil
}
