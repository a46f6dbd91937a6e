package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kozyhq/kozy-review-backend/pkg/enums"
)

// Project is one shared artifact plus its two capability tokens. Tokens are
// minted once at creation and never rotated; is_active flips to false exactly
// once and never back.
type Project struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Title            string    `gorm:"column:title;not null"`
	Description      string    `gorm:"column:description"`
	ArtifactKey      string    `gorm:"column:artifact_key;not null"`
	ArtifactFileName string    `gorm:"column:artifact_file_name;not null"`
	EditorToken      string    `gorm:"column:editor_token;not null;unique"`
	ClientToken      string    `gorm:"column:client_token;not null;unique"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	ExpiresAt        time.Time `gorm:"column:expires_at;not null"`
	IsActive         bool      `gorm:"column:is_active;not null;default:true"`
	ViewCount        int64     `gorm:"column:view_count;not null;default:0"`
	AllowDownload    bool      `gorm:"column:allow_download;not null;default:false"`
}

// Status derives the lifecycle state from the row instead of keeping two
// booleans that can drift apart.
func (p Project) Status(now time.Time) enums.ProjectStatus {
	if !p.IsActive {
		return enums.ProjectStatusDeleted
	}
	if !now.Before(p.ExpiresAt) {
		return enums.ProjectStatusExpired
	}
	return enums.ProjectStatusActive
}
