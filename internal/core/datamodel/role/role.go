package role

import "time"

type Role struct {
	ID               int64      `gorm:"primaryKey"`
	Code             string     `gorm:"column:code;not null;uniqueIndex"`
	Title            string     `gorm:"column:title;not null"`
	Status           string     `gorm:"column:status;not null;default:open"`
	ClientID         int64      `gorm:"column:client_id;not null;index"`
	TeamID           int64      `gorm:"column:team_id;not null;index"`
	AccountManagerID int64      `gorm:"column:account_manager_id;index"`
	StatusChangedAt  *time.Time `gorm:"column:status_changed_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string {
	return "roles"
}
