/* parser.go
 * Contains the best-effort extraction helpers used when processing HTML profile pages. Platforms
 * change layout without notice, so every helper degrades to a zero value instead of failing
 */

package external

import (
	"regexp"
	"strconv"
	"strings"
)

// extractFirst runs the given pattern against the page and returns the first
// capture group, or "" when the pattern does not match.
func extractFirst(page string, pattern *regexp.Regexp) string {
	m := pattern.FindStringSubmatch(page)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// extractInt runs the given pattern against the page and parses the first
// capture group as an integer, returning 0 when the pattern does not match or
// the capture is not numeric.
func extractInt(page string, pattern *regexp.Regexp) int {
	return parseCount(extractFirst(page, pattern))
}

// parseCount converts a human formatted count ("1,234", "1234+", " 56 ") into
// an int. Returns 0 for anything unparseable, never an error: a missing count
// on a profile page is normal, not exceptional.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "+")
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}

// stripTags removes HTML tags from a fragment so text content can be matched
// with simple patterns.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

func stripTags(fragment string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(fragment, " "))
}
