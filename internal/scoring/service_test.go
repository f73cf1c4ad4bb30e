package scoring_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/activity"
	"github.com/frahmantamala/recruitment-performance/internal/observability"
	"github.com/frahmantamala/recruitment-performance/internal/role"
	"github.com/frahmantamala/recruitment-performance/internal/scoring"
)

type mockEntryReader struct {
	entries []*activity.Entry
	err     error
}

func (m *mockEntryReader) ListByRecruiter(ctx context.Context, recruiterID int64, w internal.Window) ([]*activity.Entry, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := []*activity.Entry{}
	for _, e := range m.entries {
		if e.RecruiterID == recruiterID && w.Contains(e.SubmissionDate) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockEntryReader) ListByRoles(ctx context.Context, roleIDs []int64, w *internal.Window) ([]*activity.Entry, error) {
	result := []*activity.Entry{}
	for _, e := range m.entries {
		for _, id := range roleIDs {
			if e.RoleID == id {
				result = append(result, e)
			}
		}
	}
	return result, nil
}

type mockPenaltyRepository struct {
	penalties []*scoring.Penalty
}

func (m *mockPenaltyRepository) ListByRecruiter(ctx context.Context, recruiterID int64, w internal.Window) ([]*scoring.Penalty, error) {
	result := []*scoring.Penalty{}
	for _, p := range m.penalties {
		if p.RecruiterID == recruiterID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPenaltyRepository) ListByRoles(ctx context.Context, roleIDs []int64, w internal.Window) ([]*scoring.Penalty, error) {
	result := []*scoring.Penalty{}
	for _, p := range m.penalties {
		for _, id := range roleIDs {
			if p.RoleID == id {
				result = append(result, p)
			}
		}
	}
	return result, nil
}

type mockRoleRepository struct {
	roles []*role.Role
}

func (m *mockRoleRepository) GetByID(ctx context.Context, id int64) (*role.Role, error) {
	for _, r := range m.roles {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, role.ErrNotFound
}

func (m *mockRoleRepository) List(ctx context.Context, scope role.Scope) ([]*role.Role, error) {
	result := []*role.Role{}
	for _, r := range m.roles {
		if scope.TeamID != nil && r.TeamID != *scope.TeamID {
			continue
		}
		if scope.AccountManagerID != nil && r.AccountManagerID != *scope.AccountManagerID {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

type mockTeamDirectory map[int64][]int64

func (m mockTeamDirectory) TeamMembers(ctx context.Context, teamID int64) ([]int64, error) {
	return m[teamID], nil
}

func withRecruiter(e *activity.Entry, recruiterID, roleID int64) *activity.Entry {
	e.RecruiterID = recruiterID
	e.RoleID = roleID
	return e
}

func int64Ptr(v int64) *int64 { return &v }

var _ = Describe("Scoring Service", func() {
	var (
		entries   *mockEntryReader
		penalties *mockPenaltyRepository
		service   *scoring.Service
		ctx       context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		entries = &mockEntryReader{entries: []*activity.Entry{
			withRecruiter(entry(activity.EntryTypeDeal, "2024-03-01"), 1, 10),
			withRecruiter(entry(activity.EntryTypeDeal, "2024-03-02"), 1, 10),
			withRecruiter(entry(activity.EntryTypeSubmission, "2024-03-03"), 2, 11),
			withRecruiter(entry(activity.EntryTypeDeal, "2024-03-04"), 3, 12),
			withRecruiter(entry(activity.EntryTypeSubmission, "2024-03-04"), 3, 12),
		}}
		penalties = &mockPenaltyRepository{penalties: []*scoring.Penalty{
			scoring.NewPenalty(1, 3, 12, on("2024-03-05")),
		}}
		roles := &mockRoleRepository{roles: []*role.Role{
			{ID: 10, TeamID: 1, AccountManagerID: 100},
			{ID: 11, TeamID: 1, AccountManagerID: 101},
			{ID: 12, TeamID: 2, AccountManagerID: 100},
		}}
		teams := mockTeamDirectory{1: {2, 1, 3}}
		service = scoring.NewService(entries, penalties, roles, teams, scoring.DefaultWeights(), observability.NewMetrics(), logger)
		ctx = context.Background()
	})

	Describe("ComputeScore", func() {
		It("computes a recruiter's score", func() {
			s, err := service.ComputeScore(ctx, 1, on("2024-03-01"), on("2024-03-31"))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Score).To(Equal(30.0))
			Expect(s.PerformanceLabel).To(Equal(scoring.LabelAtRisk))
		})

		It("fails with InvalidRange when start is after end", func() {
			_, err := service.ComputeScore(ctx, 1, on("2024-03-31"), on("2024-03-01"))
			Expect(internal.IsErrorType(err, internal.ErrorTypeInvalidRange)).To(BeTrue())
		})

		It("accepts a single-day window", func() {
			s, err := service.ComputeScore(ctx, 1, on("2024-03-02"), on("2024-03-02"))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Score).To(Equal(15.0))
		})

		It("returns zero for a recruiter without activity", func() {
			s, err := service.ComputeScore(ctx, 42, on("2024-03-01"), on("2024-03-31"))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Score).To(Equal(0.0))
		})

		It("propagates repository errors", func() {
			entries.err = errors.New("boom")
			_, err := service.ComputeScore(ctx, 1, on("2024-03-01"), on("2024-03-31"))
			Expect(err).To(MatchError(ContainSubstring("boom")))
		})
	})

	Describe("ComputeScopeScore", func() {
		It("aggregates a team's roles", func() {
			s, err := service.ComputeScopeScore(ctx, scoring.Scope{TeamID: int64Ptr(1)}, on("2024-03-01"), on("2024-03-31"))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Roles).To(Equal(2))
			Expect(s.Score.Score).To(Equal(32.0))
		})

		It("applies penalties raised on the scope's roles", func() {
			s, err := service.ComputeScopeScore(ctx, scoring.Scope{AccountManagerID: int64Ptr(100)}, on("2024-03-01"), on("2024-03-31"))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Score.Score).To(Equal(15 + 15 + 15 + 2 - 5.0))
			Expect(s.Score.Totals.Penalties).To(Equal(1))
		})

		It("requires exactly one scope", func() {
			_, err := service.ComputeScopeScore(ctx, scoring.Scope{}, on("2024-03-01"), on("2024-03-31"))
			Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())

			_, err = service.ComputeScopeScore(ctx, scoring.Scope{TeamID: int64Ptr(1), AccountManagerID: int64Ptr(100)}, on("2024-03-01"), on("2024-03-31"))
			Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})
	})

	Describe("Leaderboard", func() {
		It("ranks members by score then recruiter id", func() {
			board, err := service.Leaderboard(ctx, 1, on("2024-03-01"), on("2024-03-31"))
			Expect(err).NotTo(HaveOccurred())
			Expect(board).To(HaveLen(3))

			Expect(board[0].RecruiterID).To(Equal(int64(1)))
			Expect(board[0].Rank).To(Equal(1))
			Expect(board[1].RecruiterID).To(Equal(int64(3)))
			Expect(board[1].Score.Score).To(Equal(12.0))
			Expect(board[2].RecruiterID).To(Equal(int64(2)))
			Expect(board[2].Rank).To(Equal(3))
		})

		It("returns an empty board for a team without members", func() {
			board, err := service.Leaderboard(ctx, 9, on("2024-03-01"), on("2024-03-31"))
			Expect(err).NotTo(HaveOccurred())
			Expect(board).To(BeEmpty())
		})

		It("fails when any member's score fails", func() {
			entries.err = errors.New("timeout")
			_, err := service.Leaderboard(ctx, 1, on("2024-03-01"), on("2024-03-31"))
			Expect(err).To(HaveOccurred())
		})
	})
})
