/* geeksforgeeks.go
 * Contains the GeeksforGeeks adapter. The practice profile page is fetched as HTML and the
 * per-difficulty solved counts are extracted with best-effort patterns
 */

package external

import (
	"fmt"
	"regexp"

	"cptracker/api/shared"
)

var (
	gfgTotalPattern    = regexp.MustCompile(`(?i)Problem[s]? Solved\D{0,40}?([0-9,]+)`)
	gfgEasyPattern     = regexp.MustCompile(`(?i)Easy\s*\(([0-9,]+)\)`)
	gfgMediumPattern   = regexp.MustCompile(`(?i)Medium\s*\(([0-9,]+)\)`)
	gfgHardPattern     = regexp.MustCompile(`(?i)Hard\s*\(([0-9,]+)\)`)
	gfgBasicPattern    = regexp.MustCompile(`(?i)Basic\s*\(([0-9,]+)\)`)
	gfgSchoolPattern   = regexp.MustCompile(`(?i)School\s*\(([0-9,]+)\)`)
	gfgNotFoundPattern = regexp.MustCompile(`(?i)(could not find the page|profile does not exist)`)
)

// fetchGeeksforGeeks scrapes one GeeksforGeeks handle.
// Preconditions: receives a non-empty handle
// Postconditions: returns the normalized result, or an error for the dispatcher to absorb
func fetchGeeksforGeeks(handle string) (shared.PlatformResult, error) {
	body, err := getBody(fmt.Sprintf("https://www.geeksforgeeks.org/user/%s/", handle))
	if err != nil {
		return shared.PlatformResult{}, fmt.Errorf("error fetching geeksforgeeks profile: %w", err)
	}
	return ParseGeeksforGeeks(string(body))
}

// ParseGeeksforGeeks builds the normalized result from a GeeksforGeeks profile page.
// Preconditions: receives the profile page HTML
// Postconditions: returns the normalized result, or an error when the page is a not-found page.
// GeeksforGeeks has no rated contests, so the contest map stays empty
func ParseGeeksforGeeks(page string) (shared.PlatformResult, error) {
	if gfgNotFoundPattern.MatchString(page) {
		return shared.PlatformResult{}, fmt.Errorf("account not found")
	}

	res := zeroResult()
	text := stripTags(page)

	// The school and basic buckets fold into easy for the normalized breakdown
	res.Problems.Easy = extractInt(text, gfgEasyPattern) + extractInt(text, gfgBasicPattern) + extractInt(text, gfgSchoolPattern)
	res.Problems.Medium = extractInt(text, gfgMediumPattern)
	res.Problems.Hard = extractInt(text, gfgHardPattern)

	total := extractInt(text, gfgTotalPattern)
	if total == 0 {
		total = res.Problems.Easy + res.Problems.Medium + res.Problems.Hard
	}
	res.Problems.Total = total
	res.Problems.PlatformStats[shared.PlatformGeeksforGeeks] = total

	return res, nil
}
