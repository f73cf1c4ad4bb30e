package role

import (
	"context"
	"time"

	"github.com/frahmantamala/recruitment-performance/internal"
	roleDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/role"
)

const (
	StatusOpen      = "open"
	StatusOnHold    = "on_hold"
	StatusClosed    = "closed"
	StatusDropout   = "dropout"
	StatusLost      = "lost"
	StatusCancelled = "cancelled"
	StatusNoAnswer  = "no_answer"
)

var Statuses = []string{StatusOpen, StatusOnHold, StatusClosed, StatusDropout, StatusLost, StatusCancelled, StatusNoAnswer}

// Role is a job opening raised by a client.
type Role struct {
	ID               int64      `json:"id"`
	Code             string     `json:"code"`
	Title            string     `json:"title"`
	Status           string     `json:"status"`
	ClientID         int64      `json:"client_id"`
	TeamID           int64      `json:"team_id"`
	AccountManagerID int64      `json:"account_manager_id"`
	StatusChangedAt  *time.Time `json:"status_changed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsActive reports whether the role still counts as open for aging and dropout submission.
func (r *Role) IsActive() bool {
	return IsActiveStatus(r.Status)
}

func IsActiveStatus(status string) bool {
	return status == StatusOpen || status == StatusOnHold
}

func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Scope narrows a role listing. Unset fields do not filter; all unset means every role.
type Scope struct {
	ClientID         *int64
	TeamID           *int64
	AccountManagerID *int64
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Role, error)
	List(ctx context.Context, scope Scope) ([]*Role, error)
}

var ErrNotFound = internal.NewNotFoundError("role not found", internal.ErrCodeRoleNotFound)

func FromDataModel(r *roleDatamodel.Role) *Role {
	return &Role{
		ID:               r.ID,
		Code:             r.Code,
		Title:            r.Title,
		Status:           r.Status,
		ClientID:         r.ClientID,
		TeamID:           r.TeamID,
		AccountManagerID: r.AccountManagerID,
		StatusChangedAt:  r.StatusChangedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func ToDataModel(r *Role) *roleDatamodel.Role {
	return &roleDatamodel.Role{
		ID:               r.ID,
		Code:             r.Code,
		Title:            r.Title,
		Status:           r.Status,
		ClientID:         r.ClientID,
		TeamID:           r.TeamID,
		AccountManagerID: r.AccountManagerID,
		StatusChangedAt:  r.StatusChangedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*roleDatamodel.Role) []*Role {
	result := make([]*Role, len(rows))
	for i, r := range rows {
		result[i] = FromDataModel(r)
	}
	return result
}
