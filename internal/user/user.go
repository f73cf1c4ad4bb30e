package user

import (
	"time"

	"github.com/frahmantamala/recruitment-performance/internal"
	userDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/user"
)

const (
	RoleRecruiter          = "recruiter"
	RoleAccountManager     = "account_manager"
	RoleRecruitmentManager = "recruitment_manager"
	RoleAdmin              = "admin"
	RoleSuperAdmin         = "super_admin"
)

var Roles = []string{RoleRecruiter, RoleAccountManager, RoleRecruitmentManager, RoleAdmin, RoleSuperAdmin}

type User struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CompanyID int64     `json:"company_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsRecruiter() bool {
	return u.Role == RoleRecruiter
}

func (u *User) IsActiveUser() bool {
	return u.IsActive
}

var ErrNotFound = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)

func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:        u.ID,
		Code:      u.Code,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
