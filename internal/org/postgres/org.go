package postgres

import (
	"context"

	orgDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/org"
	"github.com/frahmantamala/recruitment-performance/internal/org"
	"gorm.io/gorm"
)

type OrgRepository struct {
	db *gorm.DB
}

func NewOrgRepository(db *gorm.DB) org.Repository {
	return &OrgRepository{db: db}
}

func (r *OrgRepository) IsTeamManager(ctx context.Context, userID, teamID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&orgDatamodel.Team{}).
		Where("id = ? AND manager_id = ?", teamID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *OrgRepository) IsTeamMember(ctx context.Context, userID, teamID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&orgDatamodel.TeamMember{}).
		Where("team_id = ? AND recruiter_id = ?", teamID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *OrgRepository) IsClientOwner(ctx context.Context, userID, clientID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&orgDatamodel.Client{}).
		Where("id = ? AND account_manager_id = ?", clientID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *OrgRepository) ListTeamMembers(ctx context.Context, teamID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&orgDatamodel.TeamMember{}).
		Where("team_id = ?", teamID).
		Order("recruiter_id ASC").
		Pluck("recruiter_id", &ids).Error
	return ids, err
}

func (r *OrgRepository) ListClientsByAccountManager(ctx context.Context, accountManagerID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&orgDatamodel.Client{}).
		Where("account_manager_id = ?", accountManagerID).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}
