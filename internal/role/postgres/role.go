package postgres

import (
	"context"
	"errors"

	roleDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/role"
	"github.com/frahmantamala/recruitment-performance/internal/role"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.Repository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*role.Role, error) {
	var row roleDatamodel.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, role.ErrNotFound
		}
		return nil, err
	}
	return role.FromDataModel(&row), nil
}

func (r *RoleRepository) List(ctx context.Context, scope role.Scope) ([]*role.Role, error) {
	q := r.db.WithContext(ctx).Model(&roleDatamodel.Role{})
	if scope.ClientID != nil {
		q = q.Where("client_id = ?", *scope.ClientID)
	}
	if scope.TeamID != nil {
		q = q.Where("team_id = ?", *scope.TeamID)
	}
	if scope.AccountManagerID != nil {
		q = q.Where("account_manager_id = ?", *scope.AccountManagerID)
	}

	var rows []*roleDatamodel.Role
	if err := q.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return role.FromDataModelSlice(rows), nil
}
