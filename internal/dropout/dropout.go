package dropout

import (
	"context"
	"time"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/activity"
	dropoutDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/dropout"
	"github.com/frahmantamala/recruitment-performance/internal/scoring"
)

// State is the workflow position of a dropout request. It only moves forward.
type State string

const (
	StatePendingRM State = "pending_rm"
	StatePendingAM State = "pending_am"
	StateAccepted  State = "accepted"
	StateIgnored   State = "ignored"
)

// OpenStates block a second dropout submission on the same role.
var OpenStates = []string{string(StatePendingRM), string(StatePendingAM)}

var transitions = map[State][]State{
	StatePendingRM: {StatePendingAM},
	StatePendingAM: {StateAccepted, StateIgnored},
}

func (s State) IsValid() bool {
	switch s {
	case StatePendingRM, StatePendingAM, StateAccepted, StateIgnored:
		return true
	}
	return false
}

func (s State) IsOpen() bool {
	return s == StatePendingRM || s == StatePendingAM
}

func (s State) IsTerminal() bool {
	return s == StateAccepted || s == StateIgnored
}

func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const (
	DecisionAccept = "accept"
	DecisionIgnore = "ignore"
)

var Decisions = []string{DecisionAccept, DecisionIgnore}

// Request is one dropout escalation. Timestamps are set by the transition that owns them.
type Request struct {
	ID               int64      `json:"id"`
	EntryID          int64      `json:"entry_id"`
	RoleID           int64      `json:"role_id"`
	RecruiterID      int64      `json:"recruiter_id"`
	Reason           string     `json:"reason"`
	State            State      `json:"state"`
	RMNotes          *string    `json:"rm_notes"`
	RMAcknowledgedBy *int64     `json:"rm_acknowledged_by"`
	RMAcknowledgedAt *time.Time `json:"rm_acknowledged_at"`
	Decision         *string    `json:"decision"`
	NewRoleStatus    *string    `json:"new_role_status"`
	DecidedBy        *int64     `json:"decided_by"`
	DecidedAt        *time.Time `json:"decided_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func invalidTransition(from, to State) error {
	return internal.NewInvalidStateError("dropout request cannot move from "+string(from)+" to "+string(to), internal.ErrCodeInvalidDropoutState).
		WithDetails(map[string]string{"from_state": string(from), "to_state": string(to)})
}

func alreadyDecided(state State) error {
	return internal.NewInvalidStateError("dropout request is already "+string(state), internal.ErrCodeInvalidDropoutState).
		WithDetails(map[string]string{"from_state": string(state)})
}

// Acknowledge moves pending_rm to pending_am.
func (r *Request) Acknowledge(actorID int64, notes *string, now time.Time) error {
	if !r.State.CanTransitionTo(StatePendingAM) {
		return invalidTransition(r.State, StatePendingAM)
	}
	r.State = StatePendingAM
	r.RMNotes = notes
	r.RMAcknowledgedBy = &actorID
	r.RMAcknowledgedAt = &now
	return nil
}

// Decide moves pending_am to accepted or ignored. decision must already be validated.
func (r *Request) Decide(actorID int64, decision string, newRoleStatus *string, now time.Time) error {
	next := StateIgnored
	if decision == DecisionAccept {
		next = StateAccepted
	}
	if !r.State.CanTransitionTo(next) {
		return invalidTransition(r.State, next)
	}
	recorded := string(next)
	r.State = next
	r.Decision = &recorded
	r.NewRoleStatus = newRoleStatus
	r.DecidedBy = &actorID
	r.DecidedAt = &now
	return nil
}

// Penalty returns the deduction owed by an accepted request, nil for every other state.
// Penalization depends only on the decision, never on the resulting role status.
func (r *Request) Penalty() *scoring.Penalty {
	if r.State != StateAccepted || r.DecidedAt == nil {
		return nil
	}
	return scoring.NewPenalty(r.ID, r.RecruiterID, r.RoleID, *r.DecidedAt)
}

type ListFilter struct {
	State       *State
	RoleID      *int64
	RecruiterID *int64
	Limit       int
	Offset      int
}

type Repository interface {
	// Create stores the dropout ledger entry and the request in one transaction.
	Create(ctx context.Context, entry *activity.Entry, req *Request) error
	GetByID(ctx context.Context, id int64) (*Request, error)
	List(ctx context.Context, filter ListFilter) ([]*Request, error)
	// Acknowledge persists req only if the stored state still equals from.
	Acknowledge(ctx context.Context, req *Request, from State) error
	// Decide persists the decision, the role status write and the penalty atomically.
	// It reports whether a penalty row was inserted.
	Decide(ctx context.Context, req *Request, from State, penalty *scoring.Penalty) (bool, error)
}

var (
	ErrNotFound             = internal.NewNotFoundError("dropout request not found", internal.ErrCodeDropoutNotFound)
	ErrAlreadyOpen          = internal.NewConflictError("role already has an open dropout request", internal.ErrCodeDropoutAlreadyOpen)
	ErrRoleNotOpen          = internal.NewInvalidStateError("dropouts can only be submitted on open or on-hold roles", internal.ErrCodeRoleNotOpen)
	ErrConcurrentTransition = internal.NewInvalidStateError("dropout request was modified by another transition", internal.ErrCodeConcurrentTransition)
)

func ToDataModel(r *Request) *dropoutDatamodel.Request {
	return &dropoutDatamodel.Request{
		ID:               r.ID,
		EntryID:          r.EntryID,
		RoleID:           r.RoleID,
		RecruiterID:      r.RecruiterID,
		State:            string(r.State),
		RMNotes:          r.RMNotes,
		RMAcknowledgedBy: r.RMAcknowledgedBy,
		RMAcknowledgedAt: r.RMAcknowledgedAt,
		Decision:         r.Decision,
		NewRoleStatus:    r.NewRoleStatus,
		DecidedBy:        r.DecidedBy,
		DecidedAt:        r.DecidedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func FromDataModel(r *dropoutDatamodel.Request, reason string) *Request {
	return &Request{
		ID:               r.ID,
		EntryID:          r.EntryID,
		RoleID:           r.RoleID,
		RecruiterID:      r.RecruiterID,
		Reason:           reason,
		State:            State(r.State),
		RMNotes:          r.RMNotes,
		RMAcknowledgedBy: r.RMAcknowledgedBy,
		RMAcknowledgedAt: r.RMAcknowledgedAt,
		Decision:         r.Decision,
		NewRoleStatus:    r.NewRoleStatus,
		DecidedBy:        r.DecidedBy,
		DecidedAt:        r.DecidedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
