package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/role"
)

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	ListByRecruiter(ctx context.Context, recruiterID int64, w internal.Window) ([]*Entry, error)
	ListByRoles(ctx context.Context, roleIDs []int64, w *internal.Window) ([]*Entry, error)
}

type Authorizer interface {
	CanRecord(ctx context.Context, actor *internal.Actor, teamID int64) error
}

type Service struct {
	repo   Repository
	roles  role.Repository
	policy Authorizer
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, roles role.Repository, policy Authorizer, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		roles:  roles,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Record appends a submission, interview or deal entry for the acting recruiter.
func (s *Service) Record(ctx context.Context, actor *internal.Actor, dto RecordEntryDTO) (*Entry, error) {
	date, err := dto.Validate(s.now())
	if err != nil {
		s.logger.Warn("activity validation failed", "error", err)
		return nil, err
	}

	r, err := s.roles.GetByID(ctx, dto.RoleID)
	if err != nil {
		s.logger.Warn("activity role lookup failed", "role_id", dto.RoleID, "error", err)
		return nil, err
	}

	if err := s.policy.CanRecord(ctx, actor, r.TeamID); err != nil {
		s.logger.Warn("activity recording denied", "role_id", r.ID, "error", err)
		return nil, err
	}

	entry := &Entry{
		EntryType:      EntryType(dto.EntryType),
		RoleID:         r.ID,
		RecruiterID:    actor.ID,
		CandidateID:    dto.CandidateID,
		SubmissionDate: date,
		InterviewLevel: dto.InterviewLevel,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to record activity", "error", err, "role_id", r.ID, "recruiter_id", actor.ID)
		return nil, fmt.Errorf("record activity: %w", err)
	}

	s.logger.Info("activity recorded",
		"entry_id", entry.ID,
		"entry_type", entry.EntryType,
		"role_id", entry.RoleID,
		"recruiter_id", entry.RecruiterID)

	return entry, nil
}

func (s *Service) ListForRecruiter(ctx context.Context, recruiterID int64, w internal.Window) ([]*Entry, error) {
	entries, err := s.repo.ListByRecruiter(ctx, recruiterID, w)
	if err != nil {
		s.logger.Error("failed to list activity", "error", err, "recruiter_id", recruiterID)
		return nil, err
	}
	return entries, nil
}
