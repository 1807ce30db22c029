/* models.go
 * This file contains the structs and helper functions that relate to DB objects: students,
 * weekly snapshots, admin snapshots, leaderboard cache documents and user accounts
 */

package store

import (
	"time"

	"cptracker/api/shared"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is the stored record for one tracked student: identity, platform
// accounts and the accumulated analytics built up by successive merges.
type Student struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Username   string             `bson:"username"`
	Name       string             `bson:"name"`
	Department string             `bson:"department"`

	// MainAccounts carry the canonical handle per platform; SubAccounts are
	// secondary handles (max shared.MaxSubAccounts) that also feed aggregation
	MainAccounts []shared.Account `bson:"main_accounts"`
	SubAccounts  []shared.Account `bson:"sub_accounts,omitempty"`

	Problems shared.ProblemStats `bson:"problem_stats"`
	Contests shared.ContestStats `bson:"contest_stats"`
	Badges   []shared.Badge      `bson:"badges,omitempty"`

	LastScrapedAt time.Time `bson:"last_scraped_at,omitempty"`
	CreatedAt     time.Time `bson:"created_at,omitempty"`
}

// HandlesFor returns every handle the student has registered for the given
// platform, main account first.
func (s Student) HandlesFor(platform shared.Platform) []string {
	var handles []string
	for _, acc := range s.MainAccounts {
		if acc.Platform == platform && acc.Handle != "" {
			handles = append(handles, acc.Handle)
		}
	}
	for _, acc := range s.SubAccounts {
		if acc.Platform == platform && acc.Handle != "" {
			handles = append(handles, acc.Handle)
		}
	}
	return handles
}

// Platforms returns the distinct platforms the student has at least one handle
// on, in the fixed scrape order.
func (s Student) Platforms() []shared.Platform {
	var platforms []shared.Platform
	for _, platform := range shared.AllPlatforms {
		if len(s.HandlesFor(platform)) > 0 {
			platforms = append(platforms, platform)
		}
	}
	return platforms
}

// WeeklySnapshot is an immutable point-in-time capture of one student's
// per-platform counters, used as the baseline for weekly delta computation.
// Never mutated after insertion.
type WeeklySnapshot struct {
	ID        primitive.ObjectID          `bson:"_id,omitempty"`
	StudentID primitive.ObjectID          `bson:"student_id"`
	Username  string                      `bson:"username"`
	Timestamp time.Time                   `bson:"timestamp"`
	Problems  map[shared.Platform]int     `bson:"problems"`
	Ratings   map[shared.Platform]int     `bson:"ratings"`
	Contests  map[shared.Platform]int     `bson:"contests"`
}

// SnapshotRetention is how long scoring snapshots are kept before the engine
// prunes them. No delta window exceeds 7 days; the slack covers baseline
// fallback lookups.
const SnapshotRetention = 30 * 24 * time.Hour

// AdminWeeklySnapshot is the coarse cohort-wide report document keyed by the
// week it covers. Independent lifecycle from the per-student WeeklySnapshot.
type AdminWeeklySnapshot struct {
	ID          primitive.ObjectID        `bson:"_id,omitempty"`
	WeekStart   time.Time                 `bson:"week_start"`
	WeekEnd     time.Time                 `bson:"week_end"`
	GeneratedAt time.Time                 `bson:"generated_at"`
	Totals      map[shared.Platform]int   `bson:"totals"`
	TotalSolved int                       `bson:"total_solved"`
	Students    []AdminStudentBreakdown   `bson:"students"`
}

// AdminStudentBreakdown is one student's row inside an AdminWeeklySnapshot.
type AdminStudentBreakdown struct {
	Username    string                  `bson:"username"`
	Name        string                  `bson:"name"`
	Department  string                  `bson:"department"`
	TotalSolved int                     `bson:"total_solved"`
	Platforms   map[shared.Platform]int `bson:"platforms"`
}

// Leaderboard scope values.
const (
	ScopeOverall  = "overall"
	ScopePlatform = "platform"
)

// Leaderboard is the cached ranking document for one (scope, platform) pair.
// Fully replaced on every computation cycle, never patched.
type Leaderboard struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Scope       string             `bson:"scope"`
	Platform    shared.Platform    `bson:"platform,omitempty"` // empty for the overall scope
	GeneratedAt time.Time          `bson:"generated_at"`
	Entries     []LeaderboardEntry `bson:"entries"`
}

// LeaderboardEntry is one pre-ranked row. Rank is 1-based and contiguous;
// ties are broken deterministically upstream so no two entries share a rank.
type LeaderboardEntry struct {
	Rank          int       `bson:"rank" json:"rank"`
	Username      string    `bson:"username" json:"username"`
	Name          string    `bson:"name" json:"name"`
	Department    string    `bson:"department" json:"department"`
	TotalSolved   int       `bson:"total_solved" json:"totalSolved"`
	HighestRating int       `bson:"highest_rating" json:"highestRating"`
	Problems      int       `bson:"problems,omitempty" json:"problems,omitempty"`
	LastContestAt time.Time `bson:"last_contest_at,omitempty" json:"lastContestAt,omitempty"`
}

// User is the minimal view of the auth collaborator's account record this
// service needs: leaderboards only include students whose username still has
// an active account.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
	Active   bool               `bson:"active"`
}
