package activity

import (
	"time"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/core/common/validation"
)

// RecordEntryDTO is the payload for POST /activities.
type RecordEntryDTO struct {
	EntryType      string `json:"entry_type"`
	RoleID         int64  `json:"role_id"`
	CandidateID    *int64 `json:"candidate_id,omitempty"`
	SubmissionDate string `json:"submission_date"`
	InterviewLevel *int   `json:"interview_level,omitempty"`
}

// Validate checks the payload against today's date and returns the parsed submission date.
func (dto RecordEntryDTO) Validate(today time.Time) (time.Time, error) {
	v := validation.NewValidator()
	v.Field("entry_type", dto.EntryType).Required().OneOf(RecordableTypes, internal.ErrCodeInvalidEntryType)
	v.Field("role_id", dto.RoleID).Required()
	v.Field("submission_date", dto.SubmissionDate).Date()

	if EntryType(dto.EntryType) == EntryTypeInterview {
		v.Field("interview_level", dto.InterviewLevel).Required().IntBetween(1, 3, internal.ErrCodeInvalidInterviewLevel)
	} else {
		v.Field("interview_level", dto.InterviewLevel).Absent("only applies to interview entries", internal.ErrCodeInvalidInterviewLevel)
	}

	if err := v.Validate(); err != nil {
		return time.Time{}, err
	}

	date := internal.DayOf(today)
	if dto.SubmissionDate != "" {
		parsed, _ := internal.ParseDate(dto.SubmissionDate)
		date = parsed
	}

	nv := validation.NewValidator()
	nv.Field("submission_date", date).NotFuture(internal.DayOf(today))
	if err := nv.Validate(); err != nil {
		return time.Time{}, err
	}
	return date, nil
}

type EntriesResponse struct {
	Entries []*Entry `json:"entries"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
}
