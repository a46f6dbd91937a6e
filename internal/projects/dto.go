package projects

import (
	"time"

	"github.com/google/uuid"

	"github.com/kozyhq/kozy-review-backend/pkg/db/models"
	"github.com/kozyhq/kozy-review-backend/pkg/enums"
)

// ProjectDTO is the resolve-facing shape of a project. Capability tokens are
// deliberately absent: a bearer already holds the one token it needs and must
// never learn the other role's token from a resolve response.
type ProjectDTO struct {
	ID               uuid.UUID           `json:"id"`
	Title            string              `json:"title"`
	Description      string              `json:"description,omitempty"`
	ArtifactFileName string              `json:"artifact_file_name"`
	Status           enums.ProjectStatus `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
	ExpiresAt        time.Time           `json:"expires_at"`
	ViewCount        int64               `json:"view_count"`
	AllowDownload    bool                `json:"allow_download"`
}

// CreateInput holds the validated payload to share a new artifact.
type CreateInput struct {
	Title         string
	Description   string
	AllowDownload bool
	FileName      string
}

// CreateOutput is the one response that carries both capability links. It is
// returned exactly once, at creation time.
type CreateOutput struct {
	Project   ProjectDTO `json:"project"`
	EditorURL string     `json:"editor_url"`
	ClientURL string     `json:"client_url"`
}

func toProjectDTO(p *models.Project, now time.Time) ProjectDTO {
	return ProjectDTO{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		ArtifactFileName: p.ArtifactFileName,
		Status:           p.Status(now),
		CreatedAt:        p.CreatedAt,
		ExpiresAt:        p.ExpiresAt,
		ViewCount:        p.ViewCount,
		AllowDownload:    p.AllowDownload,
	}
}
