package postgres

import (
	"context"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/activity"
	activityDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/activity"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) activity.Repository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, e *activity.Entry) error {
	row := activity.ToDataModel(e)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	e.ID = row.ID
	e.CreatedAt = row.CreatedAt
	return nil
}

func (r *ActivityRepository) ListByRecruiter(ctx context.Context, recruiterID int64, w internal.Window) ([]*activity.Entry, error) {
	var rows []*activityDatamodel.Entry
	err := r.db.WithContext(ctx).
		Where("recruiter_id = ? AND submission_date >= ? AND submission_date < ?", recruiterID, w.Start, w.EndExclusive()).
		Order("submission_date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return activity.FromDataModelSlice(rows), nil
}

// ListByRoles returns entries on the given roles, optionally restricted to a window.
func (r *ActivityRepository) ListByRoles(ctx context.Context, roleIDs []int64, w *internal.Window) ([]*activity.Entry, error) {
	if len(roleIDs) == 0 {
		return []*activity.Entry{}, nil
	}
	q := r.db.WithContext(ctx).Where("role_id IN ?", roleIDs)
	if w != nil {
		q = q.Where("submission_date >= ? AND submission_date < ?", w.Start, w.EndExclusive())
	}

	var rows []*activityDatamodel.Entry
	if err := q.Order("submission_date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return activity.FromDataModelSlice(rows), nil
}
