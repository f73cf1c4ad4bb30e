package dropout

import (
	"strings"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/core/common/validation"
	"github.com/frahmantamala/recruitment-performance/internal/role"
)

const (
	maxReasonLength = 1000
	maxNotesLength  = 2000
)

type CreateDropoutDTO struct {
	RoleID      int64  `json:"role_id"`
	CandidateID *int64 `json:"candidate_id,omitempty"`
	Reason      string `json:"reason"`
}

func (dto CreateDropoutDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("role_id", dto.RoleID).Required()
	v.Field("reason", dto.Reason).Custom(func(value interface{}) *internal.AppError {
		if strings.TrimSpace(value.(string)) == "" {
			return internal.NewValidationFieldError("reason", "reason is required", internal.ErrCodeReasonRequired)
		}
		return nil
	}).MaxLength(maxReasonLength)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type AcknowledgeDTO struct {
	RMNotes *string `json:"rm_notes"`
}

func (dto AcknowledgeDTO) Validate() error {
	if dto.RMNotes == nil {
		return nil
	}
	v := validation.NewValidator()
	v.Field("rm_notes", *dto.RMNotes).MaxLength(maxNotesLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type DecideDTO struct {
	Decision      string  `json:"decision"`
	NewRoleStatus *string `json:"new_role_status"`
}

// Validate rejects a decision body before the request is written.
func (dto DecideDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("decision", dto.Decision).Required().OneOf(Decisions, internal.ErrCodeInvalidDecision)
	v.Field("new_role_status", dto.NewRoleStatus).OneOf(role.Statuses, internal.ErrCodeInvalidRoleStatus)

	if dto.Decision == DecisionAccept {
		v.Field("new_role_status", dto.NewRoleStatus).Custom(func(value interface{}) *internal.AppError {
			if s, ok := value.(*string); !ok || s == nil || strings.TrimSpace(*s) == "" {
				return internal.NewValidationFieldError("new_role_status", "new_role_status is required when accepting a dropout", internal.ErrCodeNewRoleStatusRequired)
			}
			return nil
		})
	}

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListResponse struct {
	Requests []*Request `json:"requests"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}
