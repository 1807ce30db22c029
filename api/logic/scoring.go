/* scoring.go
 * Contains the weekly scoring engine: delta computation against a baseline snapshot, the weighted
 * impact score, the eligibility gate and the deterministic weekly ranking
 */

package logic

import (
	"math"
	"sort"
	"time"

	"cptracker/api/shared"
	"cptracker/api/store"
)

// Weekly eligibility gate: a student is only ranked when both thresholds are met.
const (
	MinWeightedProblems = 5.0
	MinActiveDays       = 3
)

// WeeklyMetrics is the scored weekly activity for one student.
type WeeklyMetrics struct {
	Username   string `json:"username"`
	Name       string `json:"name"`
	Department string `json:"department"`

	ProblemDelta     map[shared.Platform]int `json:"problemDelta"`
	WeightedProblems float64                 `json:"weightedProblems"`
	RatingDelta      map[shared.Platform]int `json:"ratingDelta"`
	TotalRatingDelta int                     `json:"totalRatingDelta"`
	ContestsThisWeek map[shared.Platform]int `json:"contestsThisWeek"`
	ContestPoints    int                     `json:"contestPoints"`
	ActiveDays       int                     `json:"activeDays"`
	ConsistencyBonus int                     `json:"consistencyBonus"`
	ImpactScore      float64                 `json:"impactScore"`
	MeetsThreshold   bool                    `json:"meetsThreshold"`

	BaselineAt time.Time `json:"baselineAt"`
}

// ComputeWeeklyMetrics diffs a student's current stats against a baseline snapshot and converts
// the deltas into the weekly impact score.
// Preconditions: receives the stored student record and a baseline snapshot for that student
// Postconditions: returns the scored metrics; MeetsThreshold reports the eligibility gate.
// All deltas are floored at zero: decreases are treated as noise or corrections, never as a
// negative contribution
func ComputeWeeklyMetrics(student store.Student, baseline store.WeeklySnapshot) WeeklyMetrics {
	metrics := WeeklyMetrics{
		Username:         student.Username,
		Name:             student.Name,
		Department:       student.Department,
		ProblemDelta:     map[shared.Platform]int{},
		RatingDelta:      map[shared.Platform]int{},
		ContestsThisWeek: map[shared.Platform]int{},
		BaselineAt:       baseline.Timestamp,
	}

	totalProblems := 0
	for _, platform := range shared.AllPlatforms {
		delta := student.Problems.PlatformStats[platform] - baseline.Problems[platform]
		if delta < 0 {
			delta = 0
		}
		if delta > 0 {
			metrics.ProblemDelta[platform] = delta
		}
		totalProblems += delta
		metrics.WeightedProblems += float64(delta) * shared.ProblemWeights[platform]
	}

	for _, platform := range shared.RatedPlatforms {
		record := student.Contests[platform]

		ratingDelta := record.CurrentRating - baseline.Ratings[platform]
		if ratingDelta < 0 {
			ratingDelta = 0
		}
		if ratingDelta > 0 {
			metrics.RatingDelta[platform] = ratingDelta
		}
		metrics.TotalRatingDelta += ratingDelta

		contests := record.TotalContests - baseline.Contests[platform]
		if contests < 0 {
			contests = 0
		}
		if contests > 0 {
			metrics.ContestsThisWeek[platform] = contests
		}
		metrics.ContestPoints += contests * shared.ContestPoints[platform]
	}

	// Active days are estimated from volume: no per-day activity log is kept,
	// so ceil(problems/2) capped at a full week stands in for real activity
	metrics.ActiveDays = int(math.Ceil(float64(totalProblems) / 2))
	if metrics.ActiveDays > 7 {
		metrics.ActiveDays = 7
	}

	metrics.ConsistencyBonus = metrics.ActiveDays * 5
	if metrics.ActiveDays == 7 {
		metrics.ConsistencyBonus += 20
	}

	metrics.ImpactScore = metrics.WeightedProblems*10 +
		float64(metrics.TotalRatingDelta) +
		float64(metrics.ContestPoints) +
		float64(metrics.ConsistencyBonus)

	metrics.MeetsThreshold = metrics.WeightedProblems >= MinWeightedProblems &&
		metrics.ActiveDays >= MinActiveDays

	return metrics
}

// RankWeeklyMetrics filters out ineligible students and sorts the rest into the weekly ranking.
// Ineligible students are omitted entirely, never shown with a zero score.
// Preconditions: receives the scored metrics for every student with a valid baseline
// Postconditions: returns only eligible entries in a deterministic total order: impact score
// descending, then total rating delta descending, then weighted problems descending, then
// username ascending
func RankWeeklyMetrics(all []WeeklyMetrics) []WeeklyMetrics {
	ranked := make([]WeeklyMetrics, 0, len(all))
	for _, m := range all {
		if m.MeetsThreshold {
			ranked = append(ranked, m)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.ImpactScore != b.ImpactScore {
			return a.ImpactScore > b.ImpactScore
		}
		if a.TotalRatingDelta != b.TotalRatingDelta {
			return a.TotalRatingDelta > b.TotalRatingDelta
		}
		if a.WeightedProblems != b.WeightedProblems {
			return a.WeightedProblems > b.WeightedProblems
		}
		return a.Username < b.Username
	})

	return ranked
}
