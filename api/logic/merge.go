/* merge.go
 * Contains the pure merge functions for the ingestion pipeline: multi-account aggregation on one
 * platform, the cross-platform combine into a single ScrapeResult, and the non-regressing
 * persistence merge applied when writing a scrape onto a stored student record
 */

package logic

import (
	"sort"
	"time"

	"cptracker/api/shared"
)

// AggregateAccounts merges the scrape results of multiple account handles on the same platform.
// Distinct accounts represent distinct solved-problem pools, so problem counts are summed.
// Ratings are maxed: a student's best rating on any account is their skill on the platform.
// Contest entries are deduplicated by calendar date.
// Preconditions: receives the platform and one PlatformResult per handle, in processing order
// Postconditions: returns the merged PlatformResult for the platform
func AggregateAccounts(platform shared.Platform, results []shared.PlatformResult) shared.PlatformResult {
	merged := shared.PlatformResult{
		Problems: shared.ProblemStats{PlatformStats: map[shared.Platform]int{}},
		Contests: shared.ContestStats{},
	}

	var record shared.ContestRecord
	var history []shared.RatingPoint
	haveContests := false

	for _, res := range results {
		merged.Problems.Total += res.Problems.Total
		merged.Problems.Easy += res.Problems.Easy
		merged.Problems.Medium += res.Problems.Medium
		merged.Problems.Hard += res.Problems.Hard
		for p, count := range res.Problems.PlatformStats {
			merged.Problems.PlatformStats[p] += count
		}

		if rec, ok := res.Contests[platform]; ok {
			haveContests = true
			if rec.CurrentRating > record.CurrentRating {
				record.CurrentRating = rec.CurrentRating
			}
			if rec.HighestRating > record.HighestRating {
				record.HighestRating = rec.HighestRating
			}
			history = append(history, rec.RatingHistory...)
		}

		merged.Badges = MergeBadges(merged.Badges, res.Badges)
	}

	if haveContests {
		record.RatingHistory = DedupContestHistory(history)
		record.TotalContests = len(record.RatingHistory)
		merged.Contests[platform] = record
	}

	return merged
}

// DedupContestHistory collapses contest entries that fall on the same calendar date: the same
// date means the same contest regardless of which account reported it. When two entries share a
// date, the one carrying a real end-time tag wins; among entries with the same tag the later
// intra-day timestamp wins, falling back to the later processing order.
// Preconditions: receives rating points in processing order
// Postconditions: returns one point per calendar date, sorted by date ascending
func DedupContestHistory(points []shared.RatingPoint) []shared.RatingPoint {
	byDate := make(map[string]shared.RatingPoint)
	for _, point := range points {
		key := point.Date.UTC().Format("2006-01-02")
		existing, ok := byDate[key]
		if !ok {
			byDate[key] = point
			continue
		}
		if pointBeats(point, existing) {
			byDate[key] = point
		}
	}

	deduped := make([]shared.RatingPoint, 0, len(byDate))
	for _, point := range byDate {
		deduped = append(deduped, point)
	}
	sort.Slice(deduped, func(i, j int) bool {
		return deduped[i].Date.Before(deduped[j].Date)
	})
	return deduped
}

// pointBeats reports whether candidate should replace incumbent for the same
// contest date.
func pointBeats(candidate, incumbent shared.RatingPoint) bool {
	if candidate.HasEndTime != incumbent.HasEndTime {
		return candidate.HasEndTime
	}
	// later intra-day timestamp wins; equal timestamps fall through to the
	// later-processed entry
	return !candidate.Date.Before(incumbent.Date)
}

// CombineResults merges the per-platform aggregates of one scrape invocation into a single
// ScrapeResult: totals summed across platforms, contest stats keyed by platform, badges unioned.
// Preconditions: receives one aggregated PlatformResult per platform scraped
// Postconditions: returns the ScrapeResult with Total equal to the sum of all per-platform counts
func CombineResults(results map[shared.Platform]shared.PlatformResult, scrapedAt time.Time) shared.ScrapeResult {
	combined := shared.ScrapeResult{
		Problems:  shared.ProblemStats{PlatformStats: map[shared.Platform]int{}},
		Contests:  shared.ContestStats{},
		ScrapedAt: scrapedAt,
	}

	// Iterate in fixed platform order so badge ordering is deterministic
	for _, platform := range shared.AllPlatforms {
		res, ok := results[platform]
		if !ok {
			continue
		}
		combined.Problems.Easy += res.Problems.Easy
		combined.Problems.Medium += res.Problems.Medium
		combined.Problems.Hard += res.Problems.Hard
		for p, count := range res.Problems.PlatformStats {
			combined.Problems.PlatformStats[p] += count
		}
		for p, rec := range res.Contests {
			combined.Contests[p] = rec
		}
		combined.Badges = MergeBadges(combined.Badges, res.Badges)
	}

	combined.Problems.Total = sumPlatformStats(combined.Problems.PlatformStats)
	return combined
}

// MergeProblemStats applies a freshly scraped problem count map onto the stored one without
// regressing data. For each platform in the incoming result the merged value is the maximum of
// old and new, and an incoming zero never overwrites a positive existing value: a zero reading
// means "no data obtained this run", not ground truth. The total is always recomputed from the
// merged per-platform map, never taken from the incoming payload.
// Preconditions: receives the stored stats and the incoming scrape stats
// Postconditions: returns the merged stats; per-platform counts are monotonically non-decreasing
func MergeProblemStats(existing, incoming shared.ProblemStats) shared.ProblemStats {
	merged := shared.ProblemStats{
		Easy:          maxInt(existing.Easy, incoming.Easy),
		Medium:        maxInt(existing.Medium, incoming.Medium),
		Hard:          maxInt(existing.Hard, incoming.Hard),
		PlatformStats: map[shared.Platform]int{},
	}

	for platform, count := range existing.PlatformStats {
		merged.PlatformStats[platform] = count
	}
	for platform, count := range incoming.PlatformStats {
		if count > merged.PlatformStats[platform] {
			merged.PlatformStats[platform] = count
		}
	}

	merged.Total = sumPlatformStats(merged.PlatformStats)
	return merged
}

// MergeContestStats applies freshly scraped contest stats onto the stored ones. A platform's
// entry is replaced only when the incoming entry reports a non-zero contest count. An incoming
// entry with ratings but no contest count (a partial page read) folds its ratings in via a max
// and keeps the stored count and history; an all-zero incoming entry keeps the existing record
// untouched, same non-regression philosophy as problem counts.
// Preconditions: receives the stored stats and the incoming scrape stats (either may be nil)
// Postconditions: returns the merged stats as a fresh map
func MergeContestStats(existing, incoming shared.ContestStats) shared.ContestStats {
	merged := shared.ContestStats{}
	for platform, rec := range existing {
		merged[platform] = rec
	}
	for platform, rec := range incoming {
		prev, ok := merged[platform]
		if !ok {
			if rec.TotalContests == 0 && rec.CurrentRating == 0 {
				continue
			}
			merged[platform] = rec
			continue
		}
		if rec.TotalContests == 0 {
			if rec.CurrentRating > prev.CurrentRating {
				prev.CurrentRating = rec.CurrentRating
			}
			if rec.HighestRating > prev.HighestRating {
				prev.HighestRating = rec.HighestRating
			}
			merged[platform] = prev
			continue
		}
		merged[platform] = rec
	}
	return merged
}

// MergeBadgesByPlatform applies a scrape's badge yield onto the stored set. A platform that
// produced at least one badge this run has its stored badges replaced, so a rating tier
// promotion retires the superseded tier badge instead of accumulating next to it. A platform
// that produced nothing keeps its stored badges: an empty yield means "no data obtained this
// run", not that the badges were lost.
// Preconditions: receives the stored badges and the badges of one scrape invocation
// Postconditions: returns the merged list; platforms absent from incoming are untouched
func MergeBadgesByPlatform(existing, incoming []shared.Badge) []shared.Badge {
	replaced := make(map[shared.Platform]bool)
	for _, badge := range incoming {
		if badge.ID != "" {
			replaced[badge.Platform] = true
		}
	}

	kept := make([]shared.Badge, 0, len(existing))
	for _, badge := range existing {
		if replaced[badge.Platform] {
			continue
		}
		kept = append(kept, badge)
	}
	return MergeBadges(kept, incoming)
}

// MergeBadges unions two badge lists by id, preserving the order badges were
// first seen. Used when collecting badges within one scrape invocation; the
// persistence path goes through MergeBadgesByPlatform.
func MergeBadges(existing, incoming []shared.Badge) []shared.Badge {
	merged := make([]shared.Badge, 0, len(existing)+len(incoming))
	seen := make(map[string]bool)
	for _, badge := range existing {
		if badge.ID == "" || seen[badge.ID] {
			continue
		}
		seen[badge.ID] = true
		merged = append(merged, badge)
	}
	for _, badge := range incoming {
		if badge.ID == "" || seen[badge.ID] {
			continue
		}
		seen[badge.ID] = true
		merged = append(merged, badge)
	}
	return merged
}

func sumPlatformStats(stats map[shared.Platform]int) int {
	total := 0
	for _, count := range stats {
		total += count
	}
	return total
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
