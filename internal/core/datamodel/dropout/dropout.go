package dropout

import "time"

type Request struct {
	ID               int64      `gorm:"primaryKey"`
	EntryID          int64      `gorm:"column:entry_id;not null;uniqueIndex"`
	RoleID           int64      `gorm:"column:role_id;not null;index"`
	RecruiterID      int64      `gorm:"column:recruiter_id;not null;index"`
	State            string     `gorm:"column:state;not null;index"`
	RMNotes          *string    `gorm:"column:rm_notes"`
	RMAcknowledgedBy *int64     `gorm:"column:rm_acknowledged_by"`
	RMAcknowledgedAt *time.Time `gorm:"column:rm_acknowledged_at"`
	Decision         *string    `gorm:"column:decision"`
	NewRoleStatus    *string    `gorm:"column:new_role_status"`
	DecidedBy        *int64     `gorm:"column:decided_by"`
	DecidedAt        *time.Time `gorm:"column:decided_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Request) TableName() string {
	return "dropout_requests"
}
