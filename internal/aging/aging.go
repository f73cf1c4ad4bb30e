package aging

import (
	"sort"
	"time"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/activity"
	"github.com/frahmantamala/recruitment-performance/internal/role"
)

const (
	SLAOk       = "ok"
	SLAWarning  = "warning"
	SLACritical = "critical"
)

type Thresholds struct {
	WarningDays  int `json:"warning_days"`
	CriticalDays int `json:"critical_days"`
}

func ThresholdsFromConfig(cfg internal.AgingConfig) Thresholds {
	return Thresholds{WarningDays: cfg.WarningDays, CriticalDays: cfg.CriticalDays}
}

func (t Thresholds) classify(days int) string {
	switch {
	case days >= t.CriticalDays:
		return SLACritical
	case days >= t.WarningDays:
		return SLAWarning
	default:
		return SLAOk
	}
}

// RoleAging holds the timing metrics of one role.
type RoleAging struct {
	RoleID              int64     `json:"role_id"`
	Code                string    `json:"code"`
	Title               string    `json:"title"`
	Status              string    `json:"status"`
	ClientID            int64     `json:"client_id"`
	TeamID              int64     `json:"team_id"`
	CreatedAt           time.Time `json:"created_at"`
	DaysOpen            int       `json:"days_open"`
	Frozen              bool      `json:"frozen"`
	FirstSubmissionDays *int      `json:"first_submission_days"`
	FirstInterviewDays  *int      `json:"first_interview_days"`
	SLA                 string    `json:"sla"`
}

type Metrics struct {
	TotalRoles               int     `json:"total_roles"`
	AvgDaysOpen              float64 `json:"avg_days_open"`
	WarningCount             int     `json:"over_warning_days"`
	CriticalCount            int     `json:"over_critical_days"`
	AvgTimeToFirstSubmission float64 `json:"avg_time_to_first_submission"`
	AvgTimeToFirstInterview  float64 `json:"avg_time_to_first_interview"`
}

type Report struct {
	Thresholds Thresholds   `json:"thresholds"`
	Metrics    Metrics      `json:"metrics"`
	Roles      []*RoleAging `json:"roles"`
	Top        []*RoleAging `json:"top"`
}

func wholeDays(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from) / (24 * time.Hour))
}

func calendarDays(from, to time.Time) int {
	return wholeDays(internal.DayOf(from), internal.DayOf(to))
}

// closedAt is when a terminal role stopped aging: the recorded status change, else the last
// row update (every status write bumps it). ok is false when neither is known.
func closedAt(r *role.Role) (time.Time, bool) {
	if r.StatusChangedAt != nil {
		return *r.StatusChangedAt, true
	}
	if !r.UpdatedAt.IsZero() && !r.UpdatedAt.Before(r.CreatedAt) {
		return r.UpdatedAt, true
	}
	return time.Time{}, false
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// Compute derives per-role and aggregate aging. It is pure: now is passed in.
func Compute(roles []*role.Role, entries []*activity.Entry, now time.Time, th Thresholds) *Report {
	firstSubmission := make(map[int64]time.Time)
	firstInterview := make(map[int64]time.Time)
	for _, e := range entries {
		var first map[int64]time.Time
		switch e.EntryType {
		case activity.EntryTypeSubmission:
			first = firstSubmission
		case activity.EntryTypeInterview:
			first = firstInterview
		default:
			continue
		}
		if cur, ok := first[e.RoleID]; !ok || e.SubmissionDate.Before(cur) {
			first[e.RoleID] = e.SubmissionDate
		}
	}

	report := &Report{Thresholds: th, Roles: make([]*RoleAging, 0, len(roles))}
	var open, toSubmission, toInterview []int

	for _, r := range roles {
		row := &RoleAging{
			RoleID:    r.ID,
			Code:      r.Code,
			Title:     r.Title,
			Status:    r.Status,
			ClientID:  r.ClientID,
			TeamID:    r.TeamID,
			CreatedAt: r.CreatedAt,
		}

		end := now
		if !r.IsActive() {
			if at, ok := closedAt(r); ok {
				end = at
				row.Frozen = true
			}
		}
		row.DaysOpen = wholeDays(r.CreatedAt, end)
		row.SLA = th.classify(row.DaysOpen)

		if d, ok := firstSubmission[r.ID]; ok {
			days := calendarDays(r.CreatedAt, d)
			row.FirstSubmissionDays = &days
			toSubmission = append(toSubmission, days)
		}
		if d, ok := firstInterview[r.ID]; ok {
			days := calendarDays(r.CreatedAt, d)
			row.FirstInterviewDays = &days
			toInterview = append(toInterview, days)
		}

		open = append(open, row.DaysOpen)
		if row.DaysOpen >= th.WarningDays {
			report.Metrics.WarningCount++
		}
		if row.DaysOpen >= th.CriticalDays {
			report.Metrics.CriticalCount++
		}
		report.Roles = append(report.Roles, row)
	}

	report.Metrics.TotalRoles = len(report.Roles)
	report.Metrics.AvgDaysOpen = mean(open)
	report.Metrics.AvgTimeToFirstSubmission = mean(toSubmission)
	report.Metrics.AvgTimeToFirstInterview = mean(toInterview)
	report.Top = []*RoleAging{}

	return report
}

// Top returns the n oldest rows: days_open descending, then created_at ascending, then id.
func Top(rows []*RoleAging, n int) []*RoleAging {
	sorted := make([]*RoleAging, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.DaysOpen != b.DaysOpen {
			return a.DaysOpen > b.DaysOpen
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.RoleID < b.RoleID
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
