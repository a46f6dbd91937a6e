package comments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kozyhq/kozy-review-backend/pkg/db/models"
)

// Repository exposes comment persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a comment repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add persists a comment and re-reads it so the DB-assigned seq comes back.
func (r *Repository) Add(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	var stored models.Comment
	if err := r.db.WithContext(ctx).First(&stored, "id = ?", comment.ID).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListOrdered returns every comment for the project ordered by position, with
// seq breaking ties in insertion order. The ordering is recomputed per call,
// never cached.
func (r *Repository) ListOrdered(ctx context.Context, projectID uuid.UUID) ([]models.Comment, error) {
	var rows []models.Comment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC, seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ToggleResolved flips the resolved flag in place. Returns false when the id
// does not exist; the flip itself happens in the database so two racing
// toggles land as two flips, not one.
func (r *Repository) ToggleResolved(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		UpdateColumn("resolved", gorm.Expr("NOT resolved"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a comment. Returns false when the id does not exist.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type priorityCount struct {
	Priority string
	Resolved bool
	Count    int64
}

// CountByPriority aggregates the feed per (priority, resolved) pair.
func (r *Repository) CountByPriority(ctx context.Context, projectID uuid.UUID) ([]priorityCount, error) {
	var rows []priorityCount
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("priority, resolved, COUNT(*) AS count").
		Where("project_id = ?", projectID).
		Group("priority, resolved").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
