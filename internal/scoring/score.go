package scoring

import (
	"math"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/activity"
)

// PenaltyPoints is deducted once per accepted dropout decision.
const PenaltyPoints = 5.0

const (
	MinScore = 0.0
	MaxScore = 100.0
)

const (
	LabelExcellent = "Excellent"
	LabelStrong    = "Strong"
	LabelAverage   = "Average"
	LabelAtRisk    = "At Risk"
)

// Weights are the per-entry contributions to the weighted sum.
type Weights struct {
	Submission float64    `json:"submission"`
	Interview  [3]float64 `json:"interview"`
	Deal       float64    `json:"deal"`
}

func DefaultWeights() Weights {
	return Weights{Submission: 2, Interview: [3]float64{4, 6, 8}, Deal: 15}
}

func WeightsFromConfig(cfg internal.ScoringConfig) Weights {
	return Weights{
		Submission: cfg.SubmissionWeight,
		Interview:  cfg.InterviewWeights,
		Deal:       cfg.DealWeight,
	}
}

func (w Weights) interview(level int) float64 {
	if level < 1 || level > len(w.Interview) {
		return 0
	}
	return w.Interview[level-1]
}

type Totals struct {
	Submissions       int     `json:"submissions"`
	Interviews        int     `json:"interviews"`
	InterviewsByLevel [3]int  `json:"interviews_by_level"`
	Deals             int     `json:"deals"`
	Dropouts          int     `json:"dropouts"`
	Penalties         int     `json:"penalties"`
	WeightedSum       float64 `json:"weighted_sum"`
	PenaltyPoints     float64 `json:"penalty_points"`
}

// Score is the EBES result for one window.
type Score struct {
	Score            float64 `json:"score"`
	PerformanceLabel string  `json:"performance_label"`
	Start            string  `json:"start"`
	End              string  `json:"end"`
	Totals           Totals  `json:"totals"`
}

// Label maps a score onto the display buckets. There is no special case for zero activity.
func Label(score float64) string {
	switch {
	case score >= 80:
		return LabelExcellent
	case score >= 60:
		return LabelStrong
	case score >= 40:
		return LabelAverage
	default:
		return LabelAtRisk
	}
}

func clamp(v float64) float64 {
	return math.Max(MinScore, math.Min(MaxScore, v))
}

// Compute reduces ledger entries and penalties into a score. Only entries whose submission date
// and penalties whose effective time fall inside the window contribute.
func Compute(entries []*activity.Entry, penalties []*Penalty, w internal.Window, weights Weights) Score {
	var t Totals
	for _, e := range entries {
		if !w.Contains(e.SubmissionDate) {
			continue
		}
		switch e.EntryType {
		case activity.EntryTypeSubmission:
			t.Submissions++
			t.WeightedSum += weights.Submission
		case activity.EntryTypeInterview:
			t.Interviews++
			if lvl := e.Level(); lvl >= 1 && lvl <= 3 {
				t.InterviewsByLevel[lvl-1]++
			}
			t.WeightedSum += weights.interview(e.Level())
		case activity.EntryTypeDeal:
			t.Deals++
			t.WeightedSum += weights.Deal
		case activity.EntryTypeDropout:
			t.Dropouts++
		}
	}

	for _, p := range penalties {
		if !w.Contains(p.EffectiveAt) {
			continue
		}
		t.Penalties++
		t.PenaltyPoints += p.Points
	}

	value := clamp(t.WeightedSum - t.PenaltyPoints)
	return Score{
		Score:            value,
		PerformanceLabel: Label(value),
		Start:            w.Start.Format(internal.DateLayout),
		End:              w.End.Format(internal.DateLayout),
		Totals:           t,
	}
}
