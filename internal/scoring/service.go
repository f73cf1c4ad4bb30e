package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/activity"
	"github.com/frahmantamala/recruitment-performance/internal/observability"
	"github.com/frahmantamala/recruitment-performance/internal/role"
)

const leaderboardConcurrency = 8

type EntryReader interface {
	ListByRecruiter(ctx context.Context, recruiterID int64, w internal.Window) ([]*activity.Entry, error)
	ListByRoles(ctx context.Context, roleIDs []int64, w *internal.Window) ([]*activity.Entry, error)
}

type TeamDirectory interface {
	TeamMembers(ctx context.Context, teamID int64) ([]int64, error)
}

// Scope selects the roles a scope score is computed over. Exactly one field must be set.
type Scope struct {
	TeamID           *int64 `json:"team_id,omitempty"`
	AccountManagerID *int64 `json:"account_manager_id,omitempty"`
}

func (s Scope) label() string {
	if s.TeamID != nil {
		return "team"
	}
	return "account_manager"
}

type ScopeScore struct {
	Scope Scope `json:"scope"`
	Roles int   `json:"roles"`
	Score
}

type LeaderboardEntry struct {
	Rank        int   `json:"rank"`
	RecruiterID int64 `json:"recruiter_id"`
	Score
}

type Service struct {
	entries   EntryReader
	penalties PenaltyRepository
	roles     role.Repository
	teams     TeamDirectory
	weights   Weights
	metrics   *observability.Metrics
	logger    *slog.Logger
}

func NewService(entries EntryReader, penalties PenaltyRepository, roles role.Repository, teams TeamDirectory, weights Weights, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		entries:   entries,
		penalties: penalties,
		roles:     roles,
		teams:     teams,
		weights:   weights,
		metrics:   metrics,
		logger:    logger,
	}
}

// ComputeScore returns the recruiter's EBES score over [start, end].
func (s *Service) ComputeScore(ctx context.Context, recruiterID int64, start, end time.Time) (*Score, error) {
	w, err := internal.NewWindow(start, end)
	if err != nil {
		return nil, err
	}
	return s.computeForRecruiter(ctx, recruiterID, w)
}

func (s *Service) computeForRecruiter(ctx context.Context, recruiterID int64, w internal.Window) (*Score, error) {
	began := time.Now()

	entries, err := s.entries.ListByRecruiter(ctx, recruiterID, w)
	if err != nil {
		return nil, fmt.Errorf("load entries for recruiter %d: %w", recruiterID, err)
	}
	penalties, err := s.penalties.ListByRecruiter(ctx, recruiterID, w)
	if err != nil {
		return nil, fmt.Errorf("load penalties for recruiter %d: %w", recruiterID, err)
	}

	score := Compute(entries, penalties, w, s.weights)
	s.metrics.RecordScoreComputation("recruiter", time.Since(began))
	s.logger.Debug("score computed",
		"recruiter_id", recruiterID,
		"start", score.Start,
		"end", score.End,
		"score", score.Score,
		"label", score.PerformanceLabel)

	return &score, nil
}

// ComputeScopeScore reduces every entry and penalty on the scope's roles.
func (s *Service) ComputeScopeScore(ctx context.Context, scope Scope, start, end time.Time) (*ScopeScore, error) {
	if (scope.TeamID == nil) == (scope.AccountManagerID == nil) {
		return nil, internal.NewValidationFieldError("scope", "exactly one of team_id or account_manager_id is required", internal.ErrCodeValidationFailed)
	}
	w, err := internal.NewWindow(start, end)
	if err != nil {
		return nil, err
	}
	began := time.Now()

	roles, err := s.roles.List(ctx, role.Scope{TeamID: scope.TeamID, AccountManagerID: scope.AccountManagerID})
	if err != nil {
		return nil, fmt.Errorf("list scope roles: %w", err)
	}
	roleIDs := make([]int64, len(roles))
	for i, r := range roles {
		roleIDs[i] = r.ID
	}

	entries, err := s.entries.ListByRoles(ctx, roleIDs, &w)
	if err != nil {
		return nil, fmt.Errorf("load scope entries: %w", err)
	}
	var penalties []*Penalty
	if len(roleIDs) > 0 {
		penalties, err = s.penalties.ListByRoles(ctx, roleIDs, w)
		if err != nil {
			return nil, fmt.Errorf("load scope penalties: %w", err)
		}
	}

	score := Compute(entries, penalties, w, s.weights)
	s.metrics.RecordScoreComputation(scope.label(), time.Since(began))

	return &ScopeScore{Scope: scope, Roles: len(roles), Score: score}, nil
}

// Leaderboard scores every member of the team in parallel, best first.
func (s *Service) Leaderboard(ctx context.Context, teamID int64, start, end time.Time) ([]*LeaderboardEntry, error) {
	w, err := internal.NewWindow(start, end)
	if err != nil {
		return nil, err
	}

	members, err := s.teams.TeamMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}

	board := make([]*LeaderboardEntry, len(members))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(leaderboardConcurrency)
	for i, recruiterID := range members {
		g.Go(func() error {
			score, err := s.computeForRecruiter(gCtx, recruiterID, w)
			if err != nil {
				return err
			}
			board[i] = &LeaderboardEntry{RecruiterID: recruiterID, Score: *score}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("leaderboard computation failed", "team_id", teamID, "error", err)
		return nil, err
	}

	sort.SliceStable(board, func(i, j int) bool {
		if board[i].Score.Score != board[j].Score.Score {
			return board[i].Score.Score > board[j].Score.Score
		}
		return board[i].RecruiterID < board[j].RecruiterID
	})
	for i := range board {
		board[i].Rank = i + 1
	}

	return board, nil
}
