package scoring

import (
	"context"
	"time"

	"github.com/frahmantamala/recruitment-performance/internal"
	scoringDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/scoring"
)

// Penalty is a materialized deduction attributed to a recruiter at decision time.
type Penalty struct {
	ID               int64     `json:"id"`
	DropoutRequestID int64     `json:"dropout_request_id"`
	RecruiterID      int64     `json:"recruiter_id"`
	RoleID           int64     `json:"role_id"`
	Points           float64   `json:"points"`
	EffectiveAt      time.Time `json:"effective_at"`
}

type PenaltyRepository interface {
	ListByRecruiter(ctx context.Context, recruiterID int64, w internal.Window) ([]*Penalty, error)
	ListByRoles(ctx context.Context, roleIDs []int64, w internal.Window) ([]*Penalty, error)
}

// NewPenalty builds the deduction for an accepted dropout request.
func NewPenalty(dropoutRequestID, recruiterID, roleID int64, decidedAt time.Time) *Penalty {
	return &Penalty{
		DropoutRequestID: dropoutRequestID,
		RecruiterID:      recruiterID,
		RoleID:           roleID,
		Points:           PenaltyPoints,
		EffectiveAt:      decidedAt.UTC(),
	}
}

func ToDataModel(p *Penalty) *scoringDatamodel.Penalty {
	return &scoringDatamodel.Penalty{
		ID:               p.ID,
		DropoutRequestID: p.DropoutRequestID,
		RecruiterID:      p.RecruiterID,
		RoleID:           p.RoleID,
		Points:           p.Points,
		EffectiveAt:      p.EffectiveAt,
	}
}

func FromDataModel(p *scoringDatamodel.Penalty) *Penalty {
	return &Penalty{
		ID:               p.ID,
		DropoutRequestID: p.DropoutRequestID,
		RecruiterID:      p.RecruiterID,
		RoleID:           p.RoleID,
		Points:           p.Points,
		EffectiveAt:      p.EffectiveAt,
	}
}

func FromDataModelSlice(rows []*scoringDatamodel.Penalty) []*Penalty {
	result := make([]*Penalty, len(rows))
	for i, p := range rows {
		result[i] = FromDataModel(p)
	}
	return result
}
