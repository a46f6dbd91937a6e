package comments

import (
	"time"

	"github.com/google/uuid"

	"github.com/kozyhq/kozy-review-backend/pkg/db/models"
	"github.com/kozyhq/kozy-review-backend/pkg/enums"
)

// CommentDTO is the wire shape of one feedback entry.
type CommentDTO struct {
	ID         uuid.UUID             `json:"id"`
	ProjectID  uuid.UUID             `json:"project_id"`
	Position   float64               `json:"position"`
	Text       string                `json:"text"`
	AuthorName string                `json:"author_name"`
	AuthorRole enums.AuthorRole      `json:"author_role"`
	Category   enums.CommentCategory `json:"category"`
	Priority   enums.CommentPriority `json:"priority"`
	Resolved   bool                  `json:"resolved"`
	CreatedAt  time.Time             `json:"created_at"`
}

// AddInput holds the payload to attach feedback to a project. Category and
// priority fall back to their defaults when left empty.
type AddInput struct {
	Position   float64
	Text       string
	AuthorName string
	AuthorRole enums.AuthorRole
	Category   string
	Priority   string
}

// StatsDTO summarizes the feedback feed for the editor surface.
type StatsDTO struct {
	Total      int64                           `json:"total"`
	Resolved   int64                           `json:"resolved"`
	Open       int64                           `json:"open"`
	ByPriority map[enums.CommentPriority]int64 `json:"by_priority"`
}

func toCommentDTO(c *models.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID,
		ProjectID:  c.ProjectID,
		Position:   c.Position,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		AuthorRole: c.AuthorRole,
		Category:   c.Category,
		Priority:   c.Priority,
		Resolved:   c.Resolved,
		CreatedAt:  c.CreatedAt,
	}
}
