package postgres

import (
	"context"

	"github.com/frahmantamala/recruitment-performance/internal"
	scoringDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/scoring"
	"github.com/frahmantamala/recruitment-performance/internal/scoring"
	"gorm.io/gorm"
)

type PenaltyRepository struct {
	db *gorm.DB
}

func NewPenaltyRepository(db *gorm.DB) scoring.PenaltyRepository {
	return &PenaltyRepository{db: db}
}

func (r *PenaltyRepository) ListByRecruiter(ctx context.Context, recruiterID int64, w internal.Window) ([]*scoring.Penalty, error) {
	var rows []*scoringDatamodel.Penalty
	err := r.db.WithContext(ctx).
		Where("recruiter_id = ? AND effective_at >= ? AND effective_at < ?", recruiterID, w.Start, w.EndExclusive()).
		Order("effective_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return scoring.FromDataModelSlice(rows), nil
}

func (r *PenaltyRepository) ListByRoles(ctx context.Context, roleIDs []int64, w internal.Window) ([]*scoring.Penalty, error) {
	if len(roleIDs) == 0 {
		return []*scoring.Penalty{}, nil
	}
	var rows []*scoringDatamodel.Penalty
	err := r.db.WithContext(ctx).
		Where("role_id IN ? AND effective_at >= ? AND effective_at < ?", roleIDs, w.Start, w.EndExclusive()).
		Order("effective_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return scoring.FromDataModelSlice(rows), nil
}
