/* weekly.go
 * Contains the weekly analytics reads: the ranked weekly leaderboard and the topper of the week,
 * both computed on demand from current stats diffed against week-old baseline snapshots
 */

package api

import (
	"fmt"
	"log"

	"cptracker/api/logic"
)

const (
	cacheKeyWeekly = "weekly:leaderboard"
	cacheKeyTopper = "weekly:topper"
)

// GetWeeklyLeaderboard scores every student against their week-old baseline snapshot and returns
// the eligible ones ranked by impact score, truncated to limit entries.
// Preconditions: receives the maximum number of entries wanted (0 means all)
// Postconditions: returns the ranked weekly metrics. Students without a usable baseline or below
// the eligibility gate are omitted, never listed with a zero score
func (a *API) GetWeeklyLeaderboard(limit int) ([]logic.WeeklyMetrics, error) {
	ranked, err := a.weeklyRanking()
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// GetTopperOfTheWeek returns the single highest-impact student of the week.
// Preconditions: none
// Postconditions: returns a pointer to the top entry, or nil when no student is eligible this week
func (a *API) GetTopperOfTheWeek() (*logic.WeeklyMetrics, error) {
	if cached, ok := a.Cache.Get(cacheKeyTopper); ok {
		topper := cached.(logic.WeeklyMetrics)
		return &topper, nil
	}

	ranked, err := a.weeklyRanking()
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, nil
	}

	a.Cache.Set(cacheKeyTopper, ranked[0])
	return &ranked[0], nil
}

// weeklyRanking computes and caches the full eligible weekly ranking. A student whose baseline
// lookup errors is skipped with a log line rather than failing the whole ranking.
func (a *API) weeklyRanking() ([]logic.WeeklyMetrics, error) {
	if cached, ok := a.Cache.Get(cacheKeyWeekly); ok {
		return cached.([]logic.WeeklyMetrics), nil
	}

	students, err := a.Store.GetAllStudents()
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	active, err := a.Store.GetActiveUsernames()
	if err != nil {
		return nil, fmt.Errorf("failed to load active usernames: %w", err)
	}
	students = logic.FilterActive(students, active)

	scored := make([]logic.WeeklyMetrics, 0, len(students))
	for _, student := range students {
		baseline, err := a.Store.GetBaselineSnapshot(student.Username, baselineDaysAgo)
		if err != nil {
			log.Printf("baseline lookup failed for %s: %v", student.Username, err)
			continue
		}
		if baseline == nil {
			// no week-old snapshot yet; the student cannot be scored this week
			continue
		}
		scored = append(scored, logic.ComputeWeeklyMetrics(student, *baseline))
	}

	ranked := logic.RankWeeklyMetrics(scored)
	a.Cache.Set(cacheKeyWeekly, ranked)
	return ranked, nil
}
