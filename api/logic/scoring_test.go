/* scoring_test.go
 * Contains unit tests for scoring.go functions
 */

package logic

import (
	"testing"
	"time"

	"cptracker/api/shared"
	"cptracker/api/store"

	"github.com/stretchr/testify/assert"
)

func baselineWith(problems map[shared.Platform]int, ratings map[shared.Platform]int, contests map[shared.Platform]int) store.WeeklySnapshot {
	return store.WeeklySnapshot{
		Username:  "alice",
		Timestamp: time.Now().AddDate(0, 0, -7),
		Problems:  problems,
		Ratings:   ratings,
		Contests:  contests,
	}
}

func studentWith(problems map[shared.Platform]int, contests shared.ContestStats) store.Student {
	total := 0
	for _, count := range problems {
		total += count
	}
	return store.Student{
		Username: "alice",
		Name:     "Alice",
		Problems: shared.ProblemStats{Total: total, PlatformStats: problems},
		Contests: contests,
	}
}

// TestComputeWeeklyMetrics_FullScenario tests the complete scoring formula on a realistic week:
// 6 codeforces problems, +40 rating, one contest
func TestComputeWeeklyMetrics_FullScenario(t *testing.T) {
	student := studentWith(
		map[shared.Platform]int{shared.PlatformCodeForces: 56},
		shared.ContestStats{shared.PlatformCodeForces: {CurrentRating: 1540, TotalContests: 11}},
	)
	baseline := baselineWith(
		map[shared.Platform]int{shared.PlatformCodeForces: 50},
		map[shared.Platform]int{shared.PlatformCodeForces: 1500},
		map[shared.Platform]int{shared.PlatformCodeForces: 10},
	)

	metrics := ComputeWeeklyMetrics(student, baseline)

	// 6 problems * 1.5 = 9 weighted; ceil(6/2) = 3 active days; bonus 15;
	// contest points 20; impact = 9*10 + 40 + 20 + 15 = 165
	assert.Equal(t, 6, metrics.ProblemDelta[shared.PlatformCodeForces])
	assert.Equal(t, 9.0, metrics.WeightedProblems)
	assert.Equal(t, 40, metrics.TotalRatingDelta)
	assert.Equal(t, 1, metrics.ContestsThisWeek[shared.PlatformCodeForces])
	assert.Equal(t, 20, metrics.ContestPoints)
	assert.Equal(t, 3, metrics.ActiveDays)
	assert.Equal(t, 15, metrics.ConsistencyBonus)
	assert.Equal(t, 165.0, metrics.ImpactScore)
	assert.True(t, metrics.MeetsThreshold)
}

// TestComputeWeeklyMetrics_NegativeDeltasFloorAtZero tests that rating drops and count corrections
// never subtract from the score
func TestComputeWeeklyMetrics_NegativeDeltasFloorAtZero(t *testing.T) {
	student := studentWith(
		map[shared.Platform]int{shared.PlatformLeetCode: 90},
		shared.ContestStats{shared.PlatformCodeForces: {CurrentRating: 1450, TotalContests: 10}},
	)
	baseline := baselineWith(
		map[shared.Platform]int{shared.PlatformLeetCode: 100},
		map[shared.Platform]int{shared.PlatformCodeForces: 1500},
		map[shared.Platform]int{shared.PlatformCodeForces: 10},
	)

	metrics := ComputeWeeklyMetrics(student, baseline)

	assert.Zero(t, metrics.WeightedProblems)
	assert.Zero(t, metrics.TotalRatingDelta)
	assert.Zero(t, metrics.ContestPoints)
	assert.Zero(t, metrics.ImpactScore)
	assert.False(t, metrics.MeetsThreshold)
}

// TestComputeWeeklyMetrics_ActiveDaysCappedAtSeven tests the volume heuristic cap and full-week
// bonus
func TestComputeWeeklyMetrics_ActiveDaysCappedAtSeven(t *testing.T) {
	student := studentWith(map[shared.Platform]int{shared.PlatformCodeChef: 40}, nil)
	baseline := baselineWith(map[shared.Platform]int{shared.PlatformCodeChef: 0}, nil, nil)

	metrics := ComputeWeeklyMetrics(student, baseline)

	assert.Equal(t, 7, metrics.ActiveDays)
	// 7*5 + 20 full-week bonus
	assert.Equal(t, 55, metrics.ConsistencyBonus)
}

// TestComputeWeeklyMetrics_GateBoundaries tests the eligibility thresholds at their exact edges
func TestComputeWeeklyMetrics_GateBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		problems map[shared.Platform]int // delta via zero baseline
		eligible bool
	}{
		// 5 CC problems = 5.0 weighted, 3 active days: both thresholds met exactly
		{"exactly at both thresholds", map[shared.Platform]int{shared.PlatformCodeChef: 5}, true},
		// 4 CC problems = 4.0 weighted: below the weighted threshold despite 2 active days
		{"below weighted threshold", map[shared.Platform]int{shared.PlatformCodeChef: 4}, false},
		// 4 GFG problems carry weight 0: active days alone do not qualify
		{"unweighted platform only", map[shared.Platform]int{shared.PlatformGeeksforGeeks: 40}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			student := studentWith(tt.problems, nil)
			baseline := baselineWith(nil, nil, nil)

			metrics := ComputeWeeklyMetrics(student, baseline)
			assert.Equal(t, tt.eligible, metrics.MeetsThreshold)
		})
	}
}

// TestComputeWeeklyMetrics_UnratedPlatformsCarryNoWeight tests that geeksforgeeks and hackerrank
// problems count toward active days but not toward the weighted score
func TestComputeWeeklyMetrics_UnratedPlatformsCarryNoWeight(t *testing.T) {
	student := studentWith(map[shared.Platform]int{
		shared.PlatformGeeksforGeeks: 10,
		shared.PlatformHackerRank:    10,
	}, nil)
	baseline := baselineWith(nil, nil, nil)

	metrics := ComputeWeeklyMetrics(student, baseline)

	assert.Zero(t, metrics.WeightedProblems)
	assert.Equal(t, 7, metrics.ActiveDays) // ceil(20/2) capped
	assert.False(t, metrics.MeetsThreshold)
}

// TestRankWeeklyMetrics_FiltersIneligible tests that gated students never appear, even with a
// positive score
func TestRankWeeklyMetrics_FiltersIneligible(t *testing.T) {
	all := []WeeklyMetrics{
		{Username: "alice", ImpactScore: 100, MeetsThreshold: true},
		{Username: "bob", ImpactScore: 50, MeetsThreshold: false},
	}

	ranked := RankWeeklyMetrics(all)

	assert.Len(t, ranked, 1)
	assert.Equal(t, "alice", ranked[0].Username)
}

// TestRankWeeklyMetrics_TieBreakOrder tests all four tie break levels
func TestRankWeeklyMetrics_TieBreakOrder(t *testing.T) {
	all := []WeeklyMetrics{
		{Username: "dave", ImpactScore: 100, TotalRatingDelta: 10, WeightedProblems: 6, MeetsThreshold: true},
		{Username: "carol", ImpactScore: 100, TotalRatingDelta: 10, WeightedProblems: 6, MeetsThreshold: true},
		{Username: "bob", ImpactScore: 100, TotalRatingDelta: 10, WeightedProblems: 8, MeetsThreshold: true},
		{Username: "alice", ImpactScore: 100, TotalRatingDelta: 20, WeightedProblems: 5, MeetsThreshold: true},
		{Username: "erin", ImpactScore: 120, TotalRatingDelta: 0, WeightedProblems: 5, MeetsThreshold: true},
	}

	ranked := RankWeeklyMetrics(all)

	usernames := make([]string, 0, len(ranked))
	for _, m := range ranked {
		usernames = append(usernames, m.Username)
	}
	assert.Equal(t, []string{"erin", "alice", "bob", "carol", "dave"}, usernames)
}

// TestRankWeeklyMetrics_Deterministic tests that repeated ranking of the same input yields the same
// order
func TestRankWeeklyMetrics_Deterministic(t *testing.T) {
	all := []WeeklyMetrics{
		{Username: "carol", ImpactScore: 80, MeetsThreshold: true},
		{Username: "alice", ImpactScore: 80, MeetsThreshold: true},
		{Username: "bob", ImpactScore: 80, MeetsThreshold: true},
	}

	first := RankWeeklyMetrics(all)
	second := RankWeeklyMetrics(all)

	assert.Equal(t, first, second)
	assert.Equal(t, "alice", first[0].Username)
}
