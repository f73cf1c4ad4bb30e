package scoring

import "time"

// Penalty is the materialized score deduction raised by an accepted dropout decision.
type Penalty struct {
	ID               int64     `gorm:"primaryKey"`
	DropoutRequestID int64     `gorm:"column:dropout_request_id;not null;uniqueIndex"`
	RecruiterID      int64     `gorm:"column:recruiter_id;not null;index"`
	RoleID           int64     `gorm:"column:role_id;not null;index"`
	Points           float64   `gorm:"column:points;not null"`
	EffectiveAt      time.Time `gorm:"column:effective_at;not null;index"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Penalty) TableName() string {
	return "score_penalties"
}
