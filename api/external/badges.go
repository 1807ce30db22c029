/* badges.go
 * Contains the static rating threshold tables used to derive tier badges from contest ratings.
 * Thresholds are fixed configuration for each platform, they are never computed
 */

package external

import (
	"fmt"
	"strings"

	"cptracker/api/shared"
)

// badgeTier is one row of a platform's threshold table: the minimum rating
// needed for the tier, its display name and its level (higher = better).
type badgeTier struct {
	MinRating int
	Name      string
	Icon      string
	Level     int
}

// Threshold tables are ordered best tier first; derivation takes the first row
// the rating clears.
var badgeTiers = map[shared.Platform][]badgeTier{
	shared.PlatformCodeForces: {
		{2500, "Grandmaster", "🔴", 6},
		{2100, "Master", "🟠", 5},
		{1900, "Candidate Master", "🟣", 4},
		{1600, "Expert", "🔵", 3},
		{1400, "Specialist", "🩵", 2},
		{1200, "Pupil", "🟢", 1},
	},
	shared.PlatformCodeChef: {
		{2500, "7 Star", "⭐", 7},
		{2200, "6 Star", "⭐", 6},
		{2000, "5 Star", "⭐", 5},
		{1800, "4 Star", "⭐", 4},
		{1600, "3 Star", "⭐", 3},
		{1400, "2 Star", "⭐", 2},
		{1, "1 Star", "⭐", 1},
	},
	shared.PlatformLeetCode: {
		{2200, "Guardian", "🛡️", 3},
		{1850, "Knight", "⚔️", 2},
		{1500, "Crusader", "🗡️", 1},
	},
}

// DeriveBadges builds the tier badge earned for the given rating on the given platform.
// Preconditions: receives a platform and a contest rating
// Postconditions: returns a slice with the single earned tier badge, or an empty slice when the
// rating clears no threshold or the platform has no tier table
func DeriveBadges(platform shared.Platform, rating int) []shared.Badge {
	tiers, ok := badgeTiers[platform]
	if !ok || rating <= 0 {
		return nil
	}
	for _, tier := range tiers {
		if rating >= tier.MinRating {
			return []shared.Badge{{
				ID:       badgeID(platform, tier.Name),
				Name:     tier.Name,
				Platform: platform,
				Icon:     tier.Icon,
				Level:    tier.Level,
			}}
		}
	}
	return nil
}

// badgeID builds the stable identifier used for badge deduplication.
func badgeID(platform shared.Platform, name string) string {
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return fmt.Sprintf("%s-%s", platform, slug)
}
