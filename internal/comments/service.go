package comments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kozyhq/kozy-review-backend/pkg/db/models"
	"github.com/kozyhq/kozy-review-backend/pkg/enums"
	pkgerrors "github.com/kozyhq/kozy-review-backend/pkg/errors"
)

// sessionCompleteText is the fixed marker the editor feed keys on. It is an
// ordinary comment, not a separate entity.
const sessionCompleteText = "Review pass completed"

// Service exposes the feedback feed attached to a project.
type Service interface {
	Add(ctx context.Context, projectID uuid.UUID, input AddInput) (*CommentDTO, error)
	List(ctx context.Context, projectID uuid.UUID) ([]CommentDTO, error)
	ToggleResolved(ctx context.Context, commentID uuid.UUID, role enums.AuthorRole) error
	Delete(ctx context.Context, commentID uuid.UUID, role enums.AuthorRole) error
	MarkSessionComplete(ctx context.Context, projectID uuid.UUID, actorName string) (*CommentDTO, error)
	Stats(ctx context.Context, projectID uuid.UUID) (*StatsDTO, error)
}

type commentRepository interface {
	Add(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	ListOrdered(ctx context.Context, projectID uuid.UUID) ([]models.Comment, error)
	ToggleResolved(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	CountByPriority(ctx context.Context, projectID uuid.UUID) ([]priorityCount, error)
}

type service struct {
	repo commentRepository
	now  func() time.Time
}

// ServiceParams bundles the dependencies required to build a comment service.
type ServiceParams struct {
	Repo commentRepository
	Now  func() time.Time
}

// NewService constructs a comment service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("comment repository is required")
	}
	nowFn := params.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &service{repo: params.Repo, now: nowFn}, nil
}

func (s *service) Add(ctx context.Context, projectID uuid.UUID, input AddInput) (*CommentDTO, error) {
	if projectID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}
	if input.Position < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "position must be >= 0")
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "text is required")
	}
	authorName := strings.TrimSpace(input.AuthorName)
	if authorName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author_name is required")
	}
	if !input.AuthorRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid author role")
	}

	category := enums.CommentCategoryVideo
	if raw := strings.TrimSpace(input.Category); raw != "" {
		parsed, err := enums.ParseCommentCategory(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		category = parsed
	}

	priority := enums.CommentPriorityMedium
	if raw := strings.TrimSpace(input.Priority); raw != "" {
		parsed, err := enums.ParseCommentPriority(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
		}
		priority = parsed
	}

	stored, err := s.repo.Add(ctx, &models.Comment{
		ID:         uuid.New(),
		ProjectID:  projectID,
		Position:   input.Position,
		Text:       text,
		AuthorName: authorName,
		AuthorRole: input.AuthorRole,
		Category:   category,
		Priority:   priority,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist comment")
	}

	dto := toCommentDTO(stored)
	return &dto, nil
}

func (s *service) List(ctx context.Context, projectID uuid.UUID) ([]CommentDTO, error) {
	rows, err := s.repo.ListOrdered(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}
	dtos := make([]CommentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toCommentDTO(&rows[i]))
	}
	return dtos, nil
}

// ToggleResolved flips resolved state. Only the editor capability may
// moderate the feed; an unknown id is a silent no-op so retried requests do
// not error.
func (s *service) ToggleResolved(ctx context.Context, commentID uuid.UUID, role enums.AuthorRole) error {
	if role != enums.AuthorRoleEditor {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the editor can resolve comments")
	}
	if _, err := s.repo.ToggleResolved(ctx, commentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle comment")
	}
	return nil
}

// Delete hard-removes a comment. Editor only, same silent no-op contract as
// ToggleResolved.
func (s *service) Delete(ctx context.Context, commentID uuid.UUID, role enums.AuthorRole) error {
	if role != enums.AuthorRoleEditor {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the editor can delete comments")
	}
	if _, err := s.repo.Delete(ctx, commentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete comment")
	}
	return nil
}

// MarkSessionComplete appends the synthetic completion marker: position 0,
// high priority, client role, fixed text.
func (s *service) MarkSessionComplete(ctx context.Context, projectID uuid.UUID, actorName string) (*CommentDTO, error) {
	return s.Add(ctx, projectID, AddInput{
		Position:   0,
		Text:       sessionCompleteText,
		AuthorName: actorName,
		AuthorRole: enums.AuthorRoleClient,
		Category:   enums.CommentCategoryVideo.String(),
		Priority:   enums.CommentPriorityHigh.String(),
	})
}

func (s *service) Stats(ctx context.Context, projectID uuid.UUID) (*StatsDTO, error) {
	counts, err := s.repo.CountByPriority(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate comments")
	}

	stats := &StatsDTO{
		ByPriority: map[enums.CommentPriority]int64{
			enums.CommentPriorityLow:    0,
			enums.CommentPriorityMedium: 0,
			enums.CommentPriorityHigh:   0,
		},
	}
	for _, row := range counts {
		stats.Total += row.Count
		if row.Resolved {
			stats.Resolved += row.Count
		} else {
			stats.Open += row.Count
		}
		stats.ByPriority[enums.CommentPriority(row.Priority)] += row.Count
	}
	return stats, nil
}
