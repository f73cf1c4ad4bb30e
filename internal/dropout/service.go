package dropout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/activity"
	"github.com/frahmantamala/recruitment-performance/internal/core/events"
	"github.com/frahmantamala/recruitment-performance/internal/observability"
	"github.com/frahmantamala/recruitment-performance/internal/role"
)

const defaultListLimit = 50

type Authorizer interface {
	CanRecord(ctx context.Context, actor *internal.Actor, teamID int64) error
	CanAcknowledge(ctx context.Context, actor *internal.Actor, teamID int64) error
	CanDecide(ctx context.Context, actor *internal.Actor, clientID int64) error
}

type Service struct {
	repo      Repository
	roles     role.Repository
	policy    Authorizer
	publisher events.Publisher
	metrics   *observability.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, roles role.Repository, policy Authorizer, publisher events.Publisher, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		roles:     roles,
		policy:    policy,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) reject(operation string, err error, args ...any) error {
	reason := "internal"
	if appErr, ok := internal.IsAppError(err); ok {
		reason = string(appErr.Type)
	}
	s.metrics.IncrDropoutRejection(operation, reason)
	s.logger.Warn("dropout "+operation+" rejected", append(args, "reason", reason, "error", err)...)
	return err
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Error("failed to publish event", "event_type", e.EventType(), "error", err)
	}
}

// Create records a dropout ledger entry and opens a pending_rm request for it.
func (s *Service) Create(ctx context.Context, actor *internal.Actor, dto CreateDropoutDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, s.reject("create", err, "role_id", dto.RoleID)
	}

	r, err := s.roles.GetByID(ctx, dto.RoleID)
	if err != nil {
		return nil, s.reject("create", err, "role_id", dto.RoleID)
	}
	if err := s.policy.CanRecord(ctx, actor, r.TeamID); err != nil {
		return nil, s.reject("create", err, "role_id", r.ID, "actor_id", actorID(actor))
	}
	if !r.IsActive() {
		return nil, s.reject("create", ErrRoleNotOpen, "role_id", r.ID, "role_status", r.Status)
	}

	now := s.now().UTC()
	reason := dto.Reason
	entry := &activity.Entry{
		EntryType:      activity.EntryTypeDropout,
		RoleID:         r.ID,
		RecruiterID:    actor.ID,
		CandidateID:    dto.CandidateID,
		SubmissionDate: internal.DayOf(now),
		DropoutReason:  &reason,
	}
	req := &Request{
		RoleID:      r.ID,
		RecruiterID: actor.ID,
		Reason:      reason,
		State:       StatePendingRM,
	}

	if err := s.repo.Create(ctx, entry, req); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, s.reject("create", err, "role_id", r.ID, "actor_id", actor.ID)
		}
		s.logger.Error("failed to create dropout request", "error", err, "role_id", r.ID)
		return nil, fmt.Errorf("create dropout request: %w", err)
	}

	s.metrics.IncrDropoutTransition("", string(StatePendingRM))
	s.logger.Info("dropout request created",
		"dropout_request_id", req.ID,
		"entry_id", req.EntryID,
		"role_id", req.RoleID,
		"actor_id", actor.ID,
		"to_state", req.State)
	s.publish(ctx, events.NewDropoutCreatedEvent(req.ID, req.RoleID, req.RecruiterID, req.Reason, now))

	return req, nil
}

// Acknowledge is the recruitment manager's pending_rm -> pending_am step.
func (s *Service) Acknowledge(ctx context.Context, actor *internal.Actor, id int64, dto AcknowledgeDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, s.reject("acknowledge", err, "dropout_request_id", id)
	}

	req, r, err := s.load(ctx, id)
	if err != nil {
		return nil, s.reject("acknowledge", err, "dropout_request_id", id)
	}
	if err := s.policy.CanAcknowledge(ctx, actor, r.TeamID); err != nil {
		return nil, s.reject("acknowledge", err, "dropout_request_id", id, "actor_id", actorID(actor))
	}

	from := req.State
	if err := req.Acknowledge(actor.ID, dto.RMNotes, s.now().UTC()); err != nil {
		return nil, s.reject("acknowledge", err, "dropout_request_id", id, "from_state", from)
	}

	if err := s.repo.Acknowledge(ctx, req, from); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, s.reject("acknowledge", err, "dropout_request_id", id, "from_state", from)
		}
		s.logger.Error("failed to acknowledge dropout request", "error", err, "dropout_request_id", id)
		return nil, fmt.Errorf("acknowledge dropout request %d: %w", id, err)
	}

	s.metrics.IncrDropoutTransition(string(from), string(req.State))
	s.logger.Info("dropout request acknowledged",
		"dropout_request_id", req.ID,
		"role_id", req.RoleID,
		"actor_id", actor.ID,
		"from_state", from,
		"to_state", req.State)
	s.publish(ctx, events.NewDropoutAcknowledgedEvent(req.ID, req.RoleID, actor.ID, *req.RMAcknowledgedAt))

	return req, nil
}

// Decide is the account manager's terminal step. Only accept raises a penalty.
// A request that is already decided reports InvalidState whatever the body says.
func (s *Service) Decide(ctx context.Context, actor *internal.Actor, id int64, dto DecideDTO) (*Request, error) {
	req, r, err := s.load(ctx, id)
	if err != nil {
		return nil, s.reject("decide", err, "dropout_request_id", id)
	}
	if err := s.policy.CanDecide(ctx, actor, r.ClientID); err != nil {
		return nil, s.reject("decide", err, "dropout_request_id", id, "actor_id", actorID(actor))
	}
	if req.State.IsTerminal() {
		return nil, s.reject("decide", alreadyDecided(req.State), "dropout_request_id", id, "from_state", req.State)
	}
	if err := dto.Validate(); err != nil {
		return nil, s.reject("decide", err, "dropout_request_id", id)
	}

	from := req.State
	if err := req.Decide(actor.ID, dto.Decision, dto.NewRoleStatus, s.now().UTC()); err != nil {
		return nil, s.reject("decide", err, "dropout_request_id", id, "from_state", from)
	}

	penalty := req.Penalty()
	applied, err := s.repo.Decide(ctx, req, from, penalty)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, s.reject("decide", err, "dropout_request_id", id, "from_state", from)
		}
		s.logger.Error("failed to decide dropout request", "error", err, "dropout_request_id", id)
		return nil, fmt.Errorf("decide dropout request %d: %w", id, err)
	}

	newStatus := ""
	if req.NewRoleStatus != nil {
		newStatus = *req.NewRoleStatus
	}
	s.metrics.IncrDropoutTransition(string(from), string(req.State))
	if applied {
		s.metrics.IncrPenaltyApplied()
	}
	s.logger.Info("dropout request decided",
		"dropout_request_id", req.ID,
		"role_id", req.RoleID,
		"actor_id", actor.ID,
		"from_state", from,
		"to_state", req.State,
		"new_role_status", newStatus,
		"penalized", applied)
	s.publish(ctx, events.NewDropoutDecidedEvent(req.ID, req.RoleID, req.RecruiterID, *req.Decision, req.NewRoleStatus, applied, *req.DecidedAt))

	return req, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Request, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Request, error) {
	if filter.State != nil && !filter.State.IsValid() {
		return nil, internal.NewValidationFieldError("state", "state must be one of: pending_rm, pending_am, accepted, ignored", internal.ErrCodeInvalidDropoutState)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) load(ctx context.Context, id int64) (*Request, *role.Role, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	r, err := s.roles.GetByID(ctx, req.RoleID)
	if err != nil {
		return nil, nil, err
	}
	return req, r, nil
}

func actorID(actor *internal.Actor) int64 {
	if actor == nil {
		return 0
	}
	return actor.ID
}
