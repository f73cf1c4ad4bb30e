package activity

import "time"

// Entry is one append-only ledger row.
type Entry struct {
	ID             int64     `gorm:"primaryKey"`
	EntryType      string    `gorm:"column:entry_type;not null;index"`
	RoleID         int64     `gorm:"column:role_id;not null;index"`
	RecruiterID    int64     `gorm:"column:recruiter_id;not null;index"`
	CandidateID    *int64    `gorm:"column:candidate_id"`
	SubmissionDate time.Time `gorm:"column:submission_date;type:date;not null;index"`
	InterviewLevel *int      `gorm:"column:interview_level"`
	DropoutReason  *string   `gorm:"column:dropout_reason"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Entry) TableName() string {
	return "activity_entries"
}
