package projects

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kozyhq/kozy-review-backend/pkg/db/models"
)

// Repository exposes project persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a project repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a project row. A uniqueness violation on either token
// column surfaces as the driver error; callers decide whether to re-mint.
func (r *Repository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// FindByID retrieves a project row regardless of lifecycle state.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindActiveByEditorToken resolves the editor capability. Rows that are
// deactivated or past their deadline do not match, so a stale token behaves
// exactly like one that never existed.
func (r *Repository) FindActiveByEditorToken(ctx context.Context, token string, now time.Time) (*models.Project, error) {
	return r.findActiveBy(ctx, "editor_token = ?", token, now)
}

// FindActiveByClientToken resolves the client capability under the same
// active-and-unexpired guard as the editor lookup.
func (r *Repository) FindActiveByClientToken(ctx context.Context, token string, now time.Time) (*models.Project, error) {
	return r.findActiveBy(ctx, "client_token = ?", token, now)
}

func (r *Repository) findActiveBy(ctx context.Context, cond string, token string, now time.Time) (*models.Project, error) {
	var p models.Project
	err := r.db.WithContext(ctx).
		Where(cond, token).
		Where("is_active = ? AND expires_at > ?", true, now).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// IncrementViewCount bumps view_count by one in a single guarded UPDATE.
// Returns false when no active, unexpired row matched the client token;
// concurrent callers each land their own increment because the arithmetic
// happens inside the database, not in Go.
func (r *Repository) IncrementViewCount(ctx context.Context, clientToken string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("client_token = ? AND is_active = ? AND expires_at > ?", clientToken, true, now).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Deactivate flips is_active to false exactly once. Returns false when the
// row was already inactive or does not exist, which callers treat as a
// completed no-op.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ? AND is_active = ?", id, true).
		UpdateColumn("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindExpiredActive lists rows the reaper still owes a sweep: active but past
// their deadline. Ordered by deadline so the longest-overdue go first.
func (r *Repository) FindExpiredActive(ctx context.Context, now time.Time) ([]models.Project, error) {
	var rows []models.Project
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND expires_at <= ?", true, now).
		Order("expires_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
