/* models.go
 * This file contains the types, constants and lookup tables that are shared between sub packages:
 * the platform enum, the normalized statistics shapes and the static scoring configuration
 */

package shared

import "time"

// Platform identifies one of the external coding platforms we track. It is a
// closed enum: every map keyed by platform uses these values and nothing else.
type Platform string

const (
	PlatformLeetCode      Platform = "leetcode"
	PlatformCodeForces    Platform = "codeforces"
	PlatformCodeChef      Platform = "codechef"
	PlatformGeeksforGeeks Platform = "geeksforgeeks"
	PlatformHackerRank    Platform = "hackerrank"
)

// AllPlatforms lists every supported platform in scrape order.
var AllPlatforms = []Platform{
	PlatformLeetCode,
	PlatformCodeForces,
	PlatformCodeChef,
	PlatformGeeksforGeeks,
	PlatformHackerRank,
}

// RatedPlatforms lists the platforms that run rated contests. Only these carry
// contest stats, weekly weights and contest points.
var RatedPlatforms = []Platform{
	PlatformCodeForces,
	PlatformCodeChef,
	PlatformLeetCode,
}

// ParsePlatform converts a raw string into a Platform.
// Preconditions: receives a string containing a platform name (case insensitive, short forms allowed)
// Postconditions: returns the Platform and true, or "" and false if the name is unknown
func ParsePlatform(s string) (Platform, bool) {
	switch Platform(normalize(s)) {
	case PlatformLeetCode:
		return PlatformLeetCode, true
	case PlatformCodeForces:
		return PlatformCodeForces, true
	case PlatformCodeChef:
		return PlatformCodeChef, true
	case PlatformGeeksforGeeks:
		return PlatformGeeksforGeeks, true
	case PlatformHackerRank:
		return PlatformHackerRank, true
	}
	// common short forms typed into bot commands
	switch normalize(s) {
	case "lc":
		return PlatformLeetCode, true
	case "cf":
		return PlatformCodeForces, true
	case "cc":
		return PlatformCodeChef, true
	case "gfg", "geeks":
		return PlatformGeeksforGeeks, true
	case "hr":
		return PlatformHackerRank, true
	}
	return "", false
}

func normalize(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c == ' ' || c == '-' || c == '_' {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// ProblemWeights are the per-platform multipliers applied to weekly problem
// deltas. Platforms without an entry contribute with weight 0.
var ProblemWeights = map[Platform]float64{
	PlatformCodeForces: 1.5,
	PlatformLeetCode:   1.2,
	PlatformCodeChef:   1.0,
}

// ContestPoints are the per-contest points awarded in the weekly score.
var ContestPoints = map[Platform]int{
	PlatformCodeForces: 20,
	PlatformCodeChef:   15,
	PlatformLeetCode:   10,
}

// PlatformPriority is the fixed tie-break order used by the overall
// leaderboard. Lower value ranks first.
var PlatformPriority = map[Platform]int{
	PlatformCodeForces: 0,
	PlatformCodeChef:   1,
	PlatformLeetCode:   2,
}

// ProblemStats holds normalized solved-problem counts. PlatformStats is keyed
// by the platform enum; Total is always the sum of its values. The difficulty
// breakdown is only populated for platforms that expose one, so Easy+Medium+Hard
// does not need to equal Total.
type ProblemStats struct {
	Total         int              `bson:"total" json:"total"`
	Easy          int              `bson:"easy" json:"easy"`
	Medium        int              `bson:"medium" json:"medium"`
	Hard          int              `bson:"hard" json:"hard"`
	PlatformStats map[Platform]int `bson:"platform_stats" json:"platformStats"`
}

// RatingPoint is one contest participation: the date it ran and the rating
// after it. HasEndTime records whether the upstream source reported a real
// end-of-contest timestamp, which matters for deduplication precedence.
type RatingPoint struct {
	Date       time.Time `bson:"date" json:"date"`
	Rating     int       `bson:"rating" json:"rating"`
	HasEndTime bool      `bson:"has_end_time,omitempty" json:"hasEndTime,omitempty"`
}

// ContestRecord is the per-platform contest standing.
type ContestRecord struct {
	CurrentRating int           `bson:"current_rating" json:"currentRating"`
	HighestRating int           `bson:"highest_rating" json:"highestRating"`
	TotalContests int           `bson:"total_contests" json:"totalContests"`
	RatingHistory []RatingPoint `bson:"rating_history" json:"ratingHistory"`
}

// ContestStats maps a rated platform to its contest record.
type ContestStats map[Platform]ContestRecord

// Badge is a tier achievement derived from a platform rating or rank.
type Badge struct {
	ID       string   `bson:"id" json:"id"`
	Name     string   `bson:"name" json:"name"`
	Platform Platform `bson:"platform" json:"platform"`
	Icon     string   `bson:"icon" json:"icon"`
	Level    int      `bson:"level" json:"level"`
}

// PlatformResult is the normalized output of scraping one account handle on one
// platform. Adapters return the zero value on any upstream failure.
type PlatformResult struct {
	Problems ProblemStats
	Contests ContestStats
	Badges   []Badge
}

// ScrapeResult is the cross-platform merge of everything scraped for one
// student in a single invocation.
type ScrapeResult struct {
	Problems  ProblemStats `json:"problemStats"`
	Contests  ContestStats `json:"contestStats"`
	Badges    []Badge      `json:"badges"`
	ScrapedAt time.Time    `json:"scrapedAt"`
}

// Account is one (platform, handle) pair belonging to a student.
type Account struct {
	Platform Platform `bson:"platform" json:"platform"`
	Handle   string   `bson:"handle" json:"handle"`
}

// MaxSubAccounts caps the number of secondary accounts a student may register.
const MaxSubAccounts = 5
