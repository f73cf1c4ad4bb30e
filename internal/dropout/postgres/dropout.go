package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/recruitment-performance/internal/activity"
	activityDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/activity"
	dropoutDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/dropout"
	roleDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/role"
	"github.com/frahmantamala/recruitment-performance/internal/dropout"
	"github.com/frahmantamala/recruitment-performance/internal/role"
	"github.com/frahmantamala/recruitment-performance/internal/scoring"
)

type DropoutRepository struct {
	db *gorm.DB
}

func NewDropoutRepository(db *gorm.DB) dropout.Repository {
	return &DropoutRepository{db: db}
}

func (r *DropoutRepository) Create(ctx context.Context, entry *activity.Entry, req *dropout.Request) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var roleRow roleDatamodel.Role
		if err := tx.Where("id = ?", req.RoleID).First(&roleRow).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return role.ErrNotFound
			}
			return err
		}
		if !role.IsActiveStatus(roleRow.Status) {
			return dropout.ErrRoleNotOpen
		}

		var open int64
		if err := tx.Model(&dropoutDatamodel.Request{}).
			Where("role_id = ? AND state IN ?", req.RoleID, dropout.OpenStates).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return dropout.ErrAlreadyOpen
		}

		entryRow := activity.ToDataModel(entry)
		if err := tx.Create(entryRow).Error; err != nil {
			return err
		}
		entry.ID = entryRow.ID
		entry.CreatedAt = entryRow.CreatedAt

		req.EntryID = entryRow.ID
		row := dropout.ToDataModel(req)
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		req.ID = row.ID
		req.CreatedAt = row.CreatedAt
		req.UpdatedAt = row.UpdatedAt
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return dropout.ErrAlreadyOpen.WithCause(err)
	}
	return err
}

func (r *DropoutRepository) GetByID(ctx context.Context, id int64) (*dropout.Request, error) {
	var row dropoutDatamodel.Request
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dropout.ErrNotFound
		}
		return nil, err
	}

	reasons, err := r.reasons(ctx, []int64{row.EntryID})
	if err != nil {
		return nil, err
	}
	return dropout.FromDataModel(&row, reasons[row.EntryID]), nil
}

func (r *DropoutRepository) List(ctx context.Context, filter dropout.ListFilter) ([]*dropout.Request, error) {
	q := r.db.WithContext(ctx).Model(&dropoutDatamodel.Request{})
	if filter.State != nil {
		q = q.Where("state = ?", string(*filter.State))
	}
	if filter.RoleID != nil {
		q = q.Where("role_id = ?", *filter.RoleID)
	}
	if filter.RecruiterID != nil {
		q = q.Where("recruiter_id = ?", *filter.RecruiterID)
	}

	var rows []*dropoutDatamodel.Request
	if err := q.Order("created_at DESC, id DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&rows).Error; err != nil {
		return nil, err
	}

	entryIDs := make([]int64, len(rows))
	for i, row := range rows {
		entryIDs[i] = row.EntryID
	}
	reasons, err := r.reasons(ctx, entryIDs)
	if err != nil {
		return nil, err
	}

	result := make([]*dropout.Request, len(rows))
	for i, row := range rows {
		result[i] = dropout.FromDataModel(row, reasons[row.EntryID])
	}
	return result, nil
}

func (r *DropoutRepository) reasons(ctx context.Context, entryIDs []int64) (map[int64]string, error) {
	reasons := make(map[int64]string, len(entryIDs))
	if len(entryIDs) == 0 {
		return reasons, nil
	}
	var entries []*activityDatamodel.Entry
	if err := r.db.WithContext(ctx).Select("id", "dropout_reason").Where("id IN ?", entryIDs).Find(&entries).Error; err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.DropoutReason != nil {
			reasons[e.ID] = *e.DropoutReason
		}
	}
	return reasons, nil
}

// Acknowledge is a compare-and-swap on the state column.
func (r *DropoutRepository) Acknowledge(ctx context.Context, req *dropout.Request, from dropout.State) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&dropoutDatamodel.Request{}).
		Where("id = ? AND state = ?", req.ID, string(from)).
		Updates(map[string]interface{}{
			"state":              string(req.State),
			"rm_notes":           req.RMNotes,
			"rm_acknowledged_by": req.RMAcknowledgedBy,
			"rm_acknowledged_at": req.RMAcknowledgedAt,
			"updated_at":         now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return dropout.ErrConcurrentTransition
	}
	req.UpdatedAt = now
	return nil
}

// Decide commits the state swap, the role status write and the penalty in one transaction.
// Losing the swap rolls everything back.
func (r *DropoutRepository) Decide(ctx context.Context, req *dropout.Request, from dropout.State, penalty *scoring.Penalty) (bool, error) {
	now := time.Now().UTC()
	applied := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&dropoutDatamodel.Request{}).
			Where("id = ? AND state = ?", req.ID, string(from)).
			Updates(map[string]interface{}{
				"state":           string(req.State),
				"decision":        req.Decision,
				"new_role_status": req.NewRoleStatus,
				"decided_by":      req.DecidedBy,
				"decided_at":      req.DecidedAt,
				"updated_at":      now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return dropout.ErrConcurrentTransition
		}

		if req.NewRoleStatus != nil {
			if err := tx.Model(&roleDatamodel.Role{}).
				Where("id = ?", req.RoleID).
				Updates(map[string]interface{}{
					"status":            *req.NewRoleStatus,
					"status_changed_at": req.DecidedAt,
					"updated_at":        now,
				}).Error; err != nil {
				return err
			}
		}

		if penalty != nil {
			inserted := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "dropout_request_id"}},
				DoNothing: true,
			}).Create(scoring.ToDataModel(penalty))
			if inserted.Error != nil {
				return inserted.Error
			}
			applied = inserted.RowsAffected > 0
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	req.UpdatedAt = now
	return applied, nil
}
