/* leaderboard.go
 * Contains the leaderboard materializer: lifetime overall and per-platform rankings computed from
 * cumulative stored stats, persisted whole so reads are a single document fetch
 */

package api

import (
	"errors"
	"fmt"
	"time"

	"cptracker/api/logic"
	"cptracker/api/shared"
	"cptracker/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

const cacheKeyOverall = "leaderboard:overall"

func cacheKeyPlatform(platform shared.Platform) string {
	return "leaderboard:platform:" + string(platform)
}

// ComputeAndStoreLeaderboards recomputes the overall and per-platform rankings from lifetime
// stats and fully replaces the cached documents. Orphaned student records (username with no
// active user account) are filtered out before ranking.
// Preconditions: none
// Postconditions: every (scope, platform) leaderboard document is replaced, or an error is
// returned and the previous documents stay untouched
func (a *API) ComputeAndStoreLeaderboards() error {
	students, err := a.Store.GetAllStudents()
	if err != nil {
		return fmt.Errorf("failed to load students: %w", err)
	}

	active, err := a.Store.GetActiveUsernames()
	if err != nil {
		return fmt.Errorf("failed to load active usernames: %w", err)
	}
	students = logic.FilterActive(students, active)

	generatedAt := time.Now()

	overall := store.Leaderboard{
		Scope:       store.ScopeOverall,
		GeneratedAt: generatedAt,
		Entries:     logic.RankOverall(students),
	}
	if err := a.Store.StoreLeaderboard(overall); err != nil {
		return err
	}

	for _, platform := range shared.RatedPlatforms {
		board := store.Leaderboard{
			Scope:       store.ScopePlatform,
			Platform:    platform,
			GeneratedAt: generatedAt,
			Entries:     logic.RankPlatform(students, platform),
		}
		if err := a.Store.StoreLeaderboard(board); err != nil {
			return err
		}
	}

	a.Cache.Invalidate(cacheKeyOverall)
	for _, platform := range shared.RatedPlatforms {
		a.Cache.Invalidate(cacheKeyPlatform(platform))
	}
	return nil
}

// GetOverallLeaderboard returns the cached overall ranking, truncated to limit entries.
// Preconditions: receives the maximum number of entries wanted (0 means all)
// Postconditions: returns the leaderboard, or nil when it has never been computed
func (a *API) GetOverallLeaderboard(limit int) (*store.Leaderboard, error) {
	return a.getLeaderboard(cacheKeyOverall, store.ScopeOverall, "", limit)
}

// GetPlatformLeaderboard returns the cached ranking for one rated platform, truncated to limit
// entries.
// Preconditions: receives the platform and the maximum number of entries wanted (0 means all)
// Postconditions: returns the leaderboard, or nil when it has never been computed
func (a *API) GetPlatformLeaderboard(platform shared.Platform, limit int) (*store.Leaderboard, error) {
	return a.getLeaderboard(cacheKeyPlatform(platform), store.ScopePlatform, platform, limit)
}

func (a *API) getLeaderboard(cacheKey, scope string, platform shared.Platform, limit int) (*store.Leaderboard, error) {
	var board store.Leaderboard

	if cached, ok := a.Cache.Get(cacheKey); ok {
		board = cached.(store.Leaderboard)
	} else {
		var err error
		board, err = a.Store.FetchLeaderboard(scope, platform)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, nil
			}
			return nil, err
		}
		a.Cache.Set(cacheKey, board)
	}

	if limit > 0 && len(board.Entries) > limit {
		truncated := board
		truncated.Entries = board.Entries[:limit]
		return &truncated, nil
	}
	return &board, nil
}
