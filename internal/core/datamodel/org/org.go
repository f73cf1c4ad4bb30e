package org

import "time"

type Company struct {
	ID        int64     `gorm:"primaryKey"`
	Code      string    `gorm:"column:code;not null;uniqueIndex"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Company) TableName() string {
	return "companies"
}

type Team struct {
	ID        int64     `gorm:"primaryKey"`
	Code      string    `gorm:"column:code;not null;uniqueIndex"`
	Name      string    `gorm:"column:name;not null"`
	CompanyID int64     `gorm:"column:company_id;not null;index"`
	ManagerID int64     `gorm:"column:manager_id;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Team) TableName() string {
	return "teams"
}

type TeamMember struct {
	TeamID      int64     `gorm:"column:team_id;primaryKey"`
	RecruiterID int64     `gorm:"column:recruiter_id;primaryKey"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (TeamMember) TableName() string {
	return "team_members"
}

type Client struct {
	ID               int64     `gorm:"primaryKey"`
	Code             string    `gorm:"column:code;not null;uniqueIndex"`
	Name             string    `gorm:"column:name;not null"`
	CompanyID        int64     `gorm:"column:company_id;not null;index"`
	AccountManagerID int64     `gorm:"column:account_manager_id;not null;index"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Client) TableName() string {
	return "clients"
}
