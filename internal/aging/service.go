package aging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/activity"
	"github.com/frahmantamala/recruitment-performance/internal/role"
)

type EntryReader interface {
	ListByRoles(ctx context.Context, roleIDs []int64, w *internal.Window) ([]*activity.Entry, error)
}

type Service struct {
	roles      role.Repository
	entries    EntryReader
	thresholds Thresholds
	topN       int
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(roles role.Repository, entries EntryReader, cfg internal.AgingConfig, logger *slog.Logger) *Service {
	return &Service{
		roles:      roles,
		entries:    entries,
		thresholds: ThresholdsFromConfig(cfg),
		topN:       cfg.TopN,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Report computes aging for every role in scope. limit <= 0 uses the configured top N.
func (s *Service) Report(ctx context.Context, scope role.Scope, limit int) (*Report, error) {
	if limit < 0 {
		return nil, internal.NewValidationFieldError("limit", "limit must not be negative", internal.ErrCodeValidationFailed)
	}
	if limit == 0 {
		limit = s.topN
	}

	roles, err := s.roles.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	ids := make([]int64, len(roles))
	for i, r := range roles {
		ids[i] = r.ID
	}

	entries, err := s.entries.ListByRoles(ctx, ids, nil)
	if err != nil {
		return nil, fmt.Errorf("load role activity: %w", err)
	}

	report := Compute(roles, entries, s.now().UTC(), s.thresholds)
	report.Top = Top(report.Roles, limit)

	s.logger.Debug("aging report computed",
		"roles", report.Metrics.TotalRoles,
		"critical", report.Metrics.CriticalCount,
		"warning", report.Metrics.WarningCount)

	return report, nil
}
