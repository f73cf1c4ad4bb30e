package activity

import (
	"time"

	activityDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/activity"
)

type EntryType string

const (
	EntryTypeSubmission EntryType = "submission"
	EntryTypeInterview  EntryType = "interview"
	EntryTypeDeal       EntryType = "deal"
	EntryTypeDropout    EntryType = "dropout"
)

// RecordableTypes are the entry types recruiters write directly; dropouts go through the workflow.
var RecordableTypes = []string{string(EntryTypeSubmission), string(EntryTypeInterview), string(EntryTypeDeal)}

// Entry is an immutable ledger row describing one recruiter action.
type Entry struct {
	ID             int64     `json:"id"`
	EntryType      EntryType `json:"entry_type"`
	RoleID         int64     `json:"role_id"`
	RecruiterID    int64     `json:"recruiter_id"`
	CandidateID    *int64    `json:"candidate_id,omitempty"`
	SubmissionDate time.Time `json:"submission_date"`
	InterviewLevel *int      `json:"interview_level,omitempty"`
	DropoutReason  *string   `json:"dropout_reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Level returns the interview level, or 0 for entries that carry none.
func (e *Entry) Level() int {
	if e.InterviewLevel == nil {
		return 0
	}
	return *e.InterviewLevel
}

func ToDataModel(e *Entry) *activityDatamodel.Entry {
	return &activityDatamodel.Entry{
		ID:             e.ID,
		EntryType:      string(e.EntryType),
		RoleID:         e.RoleID,
		RecruiterID:    e.RecruiterID,
		CandidateID:    e.CandidateID,
		SubmissionDate: e.SubmissionDate,
		InterviewLevel: e.InterviewLevel,
		DropoutReason:  e.DropoutReason,
		CreatedAt:      e.CreatedAt,
	}
}

func FromDataModel(e *activityDatamodel.Entry) *Entry {
	return &Entry{
		ID:             e.ID,
		EntryType:      EntryType(e.EntryType),
		RoleID:         e.RoleID,
		RecruiterID:    e.RecruiterID,
		CandidateID:    e.CandidateID,
		SubmissionDate: e.SubmissionDate,
		InterviewLevel: e.InterviewLevel,
		DropoutReason:  e.DropoutReason,
		CreatedAt:      e.CreatedAt,
	}
}

func FromDataModelSlice(rows []*activityDatamodel.Entry) []*Entry {
	result := make([]*Entry, len(rows))
	for i, e := range rows {
		result[i] = FromDataModel(e)
	}
	return result
}
