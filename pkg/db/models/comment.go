package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kozyhq/kozy-review-backend/pkg/enums"
)

// Comment is a timestamp-anchored feedback entry tied to one project. Rows
// survive project deactivation (no cascade); text is never edited in place,
// only the resolved flag toggles.
type Comment struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	ProjectID  uuid.UUID             `gorm:"column:project_id;type:uuid;not null"`
	Position   float64               `gorm:"column:position;not null"`
	Text       string                `gorm:"column:text;not null"`
	AuthorName string                `gorm:"column:author_name;not null"`
	AuthorRole enums.AuthorRole      `gorm:"column:author_role;not null"`
	Category   enums.CommentCategory `gorm:"column:category;not null;default:video"`
	Priority   enums.CommentPriority `gorm:"column:priority;not null;default:medium"`
	Resolved   bool                  `gorm:"column:resolved;not null;default:false"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`

	// Seq is assigned by the database and breaks position ties in insertion
	// order. Read-only from Go.
	Seq int64 `gorm:"column:seq;->"`
}
