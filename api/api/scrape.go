/* scrape.go
 * Contains the single-student scrape pipeline: adapters per handle, multi-account aggregation,
 * cross-platform combine and the non-regressing persistence merge onto the stored record
 */

package api

import (
	"context"
	"fmt"
	"log"
	"time"

	"cptracker/api/logic"
	"cptracker/api/shared"
)

// ScrapeStudent scrapes every configured platform for one student and merges the result onto
// their stored record.
// Preconditions: receives the calling context and the student's username
// Postconditions: returns the combined ScrapeResult of this run and updates the stored record.
// A platform that yields no data this run contributes zeros to the returned result but never
// regresses the stored record. Returns ErrNoAccounts when the student has no accounts configured
func (a *API) ScrapeStudent(ctx context.Context, username string) (shared.ScrapeResult, error) {
	student, err := a.Store.GetStudentByUsername(username)
	if err != nil {
		return shared.ScrapeResult{}, fmt.Errorf("failed to load student '%s': %w", username, err)
	}

	platforms := student.Platforms()
	if len(platforms) == 0 {
		return shared.ScrapeResult{}, ErrNoAccounts
	}

	results := make(map[shared.Platform]shared.PlatformResult, len(platforms))
	for _, platform := range platforms {
		handles := student.HandlesFor(platform)
		perHandle := make([]shared.PlatformResult, 0, len(handles))
		for _, handle := range handles {
			if err := a.ScrapeLimiter.Wait(ctx); err != nil {
				return shared.ScrapeResult{}, err
			}
			perHandle = append(perHandle, a.Scraper(platform, handle))
		}
		results[platform] = logic.AggregateAccounts(platform, perHandle)
	}

	combined := logic.CombineResults(results, time.Now())

	// Persistence merge: read-merge-write with monotonic field merges. The
	// merges commute, so concurrent writers converge without locking
	mergedProblems := logic.MergeProblemStats(student.Problems, combined.Problems)
	mergedContests := logic.MergeContestStats(student.Contests, combined.Contests)
	mergedBadges := logic.MergeBadgesByPlatform(student.Badges, combined.Badges)

	err = a.Store.UpdateStudentAnalytics(username, mergedProblems, mergedContests, mergedBadges, combined.ScrapedAt)
	if err != nil {
		return shared.ScrapeResult{}, fmt.Errorf("failed to persist merged analytics: %w", err)
	}

	a.invalidateAnalyticsCaches()

	// Keep the cached rankings in step with the fresh data; a failure here
	// only delays the next scheduled recompute
	if err := a.ComputeAndStoreLeaderboards(); err != nil {
		log.Printf("leaderboard recompute after scrape failed: %v", err)
	}

	return combined, nil
}

// invalidateAnalyticsCaches drops every cached read derived from student
// analytics.
func (a *API) invalidateAnalyticsCaches() {
	a.Cache.Invalidate(cacheKeyTopper)
	a.Cache.Invalidate(cacheKeyWeekly)
	a.Cache.Invalidate(cacheKeyOverall)
	for _, platform := range shared.RatedPlatforms {
		a.Cache.Invalidate(cacheKeyPlatform(platform))
	}
}
