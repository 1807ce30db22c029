/* codechef.go
 * Contains the CodeChef adapter. CodeChef has no public api, so the profile page HTML is fetched
 * and the rating figures and solved count are extracted with best-effort patterns
 */

package external

import (
	"fmt"
	"regexp"

	"cptracker/api/shared"
)

var (
	ccRatingPattern   = regexp.MustCompile(`(?s)class="rating-number"[^>]*>\s*([0-9]+)`)
	ccHighestPattern  = regexp.MustCompile(`Highest Rating\s*([0-9]+)`)
	ccSolvedPattern   = regexp.MustCompile(`Total Problems Solved:\s*([0-9,]+)`)
	ccContestsPattern = regexp.MustCompile(`No\. of Contests Participated:\s*([0-9,]+)`)
	ccNotFoundPattern = regexp.MustCompile(`(?i)(page not found|invalid username)`)
)

// fetchCodeChef scrapes one CodeChef handle.
// Preconditions: receives a non-empty handle
// Postconditions: returns the normalized result, or an error for the dispatcher to absorb
func fetchCodeChef(handle string) (shared.PlatformResult, error) {
	body, err := getBody(fmt.Sprintf("https://www.codechef.com/users/%s", handle))
	if err != nil {
		return shared.PlatformResult{}, fmt.Errorf("error fetching codechef profile: %w", err)
	}
	return ParseCodeChef(string(body))
}

// ParseCodeChef builds the normalized result from a CodeChef profile page.
// Preconditions: receives the profile page HTML
// Postconditions: returns the normalized result, or an error when the page is a not-found page.
// Sections missing from the page degrade to zero values
func ParseCodeChef(page string) (shared.PlatformResult, error) {
	if ccNotFoundPattern.MatchString(page) {
		return shared.PlatformResult{}, fmt.Errorf("account not found")
	}

	res := zeroResult()

	solved := extractInt(page, ccSolvedPattern)
	res.Problems.Total = solved
	res.Problems.PlatformStats[shared.PlatformCodeChef] = solved

	current := extractInt(page, ccRatingPattern)
	highest := extractInt(stripTags(page), ccHighestPattern)
	if highest < current {
		highest = current
	}
	contests := extractInt(stripTags(page), ccContestsPattern)

	if current > 0 || contests > 0 {
		res.Contests[shared.PlatformCodeChef] = shared.ContestRecord{
			CurrentRating: current,
			HighestRating: highest,
			TotalContests: contests,
		}
	}

	res.Badges = DeriveBadges(shared.PlatformCodeChef, highest)
	return res, nil
}
