/* ranking.go
 * Contains the lifetime leaderboard ranking functions. These rank cumulative stored stats, not
 * weekly deltas, and assign contiguous 1-based ranks with deterministic tie breaks
 */

package logic

import (
	"sort"
	"time"

	"cptracker/api/shared"
	"cptracker/api/store"
)

// FilterActive drops student records whose username has no matching active user account.
// Guards against stale analytics surviving a user deletion.
// Preconditions: receives the student records and the set of active usernames
// Postconditions: returns only students present in the active set
func FilterActive(students []store.Student, activeUsernames map[string]bool) []store.Student {
	filtered := make([]store.Student, 0, len(students))
	for _, student := range students {
		if activeUsernames[student.Username] {
			filtered = append(filtered, student)
		}
	}
	return filtered
}

// RankOverall builds the overall lifetime leaderboard: total solved descending, then highest
// rating across platforms descending, then the fixed platform priority of where that rating was
// earned, then username ascending as the final deterministic tie break.
// Preconditions: receives the (already orphan-filtered) student records
// Postconditions: returns ranked entries with contiguous 1-based ranks
func RankOverall(students []store.Student) []store.LeaderboardEntry {
	entries := make([]store.LeaderboardEntry, 0, len(students))
	priorities := make(map[string]int, len(students))

	for _, student := range students {
		rating, platform := bestRating(student.Contests)
		entries = append(entries, store.LeaderboardEntry{
			Username:      student.Username,
			Name:          student.Name,
			Department:    student.Department,
			TotalSolved:   student.Problems.Total,
			HighestRating: rating,
		})
		priorities[student.Username] = priorityOf(platform)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalSolved != b.TotalSolved {
			return a.TotalSolved > b.TotalSolved
		}
		if a.HighestRating != b.HighestRating {
			return a.HighestRating > b.HighestRating
		}
		if priorities[a.Username] != priorities[b.Username] {
			return priorities[a.Username] < priorities[b.Username]
		}
		return a.Username < b.Username
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// RankPlatform builds the lifetime leaderboard for one rated platform: highest rating descending,
// then problems solved on the platform descending, then latest contest timestamp descending, then
// username ascending as the final deterministic tie break. Students with no presence on the
// platform are omitted.
// Preconditions: receives the (already orphan-filtered) student records and the platform
// Postconditions: returns ranked entries with contiguous 1-based ranks
func RankPlatform(students []store.Student, platform shared.Platform) []store.LeaderboardEntry {
	entries := make([]store.LeaderboardEntry, 0, len(students))

	for _, student := range students {
		record := student.Contests[platform]
		problems := student.Problems.PlatformStats[platform]
		if record.HighestRating == 0 && problems == 0 {
			continue
		}
		entries = append(entries, store.LeaderboardEntry{
			Username:      student.Username,
			Name:          student.Name,
			Department:    student.Department,
			TotalSolved:   student.Problems.Total,
			HighestRating: record.HighestRating,
			Problems:      problems,
			LastContestAt: latestContest(record),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.HighestRating != b.HighestRating {
			return a.HighestRating > b.HighestRating
		}
		if a.Problems != b.Problems {
			return a.Problems > b.Problems
		}
		if !a.LastContestAt.Equal(b.LastContestAt) {
			return a.LastContestAt.After(b.LastContestAt)
		}
		return a.Username < b.Username
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// bestRating returns the highest rating across all platforms and the platform
// it was earned on.
func bestRating(contests shared.ContestStats) (int, shared.Platform) {
	best := 0
	var bestPlatform shared.Platform
	for _, platform := range shared.RatedPlatforms {
		record, ok := contests[platform]
		if !ok {
			continue
		}
		if record.HighestRating > best ||
			(record.HighestRating == best && best > 0 && priorityOf(platform) < priorityOf(bestPlatform)) {
			best = record.HighestRating
			bestPlatform = platform
		}
	}
	return best, bestPlatform
}

func priorityOf(platform shared.Platform) int {
	if p, ok := shared.PlatformPriority[platform]; ok {
		return p
	}
	return len(shared.PlatformPriority)
}

func latestContest(record shared.ContestRecord) (latest time.Time) {
	for _, point := range record.RatingHistory {
		if point.Date.After(latest) {
			latest = point.Date
		}
	}
	return latest
}
