/* names.go
 * Contains the fuzzy matching used to resolve names typed into commands (student usernames,
 * platform names) against the known-good lists
 */

package logic

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MatchName resolves one typed name against a list of valid names.
// Preconditions: receives the typed name and the list of valid names
// Postconditions: returns the matched valid name (original casing) and true, or "" and false when
// nothing matches. Exact matches win over fuzzy ones; among fuzzy matches the best ranked wins
func MatchName(input string, valid []string) (string, bool) {
	lookup := make(map[string]string, len(valid))
	lower := make([]string, 0, len(valid))
	for _, name := range valid {
		l := strings.ToLower(name)
		lookup[l] = name
		lower = append(lower, l)
	}

	lowerInput := strings.ToLower(strings.TrimSpace(input))
	if original, ok := lookup[lowerInput]; ok {
		return original, true
	}

	results := fuzzy.RankFind(lowerInput, lower)
	if len(results) == 0 {
		return "", false
	}

	best := results[0]
	for _, candidate := range results[1:] {
		if candidate.Distance < best.Distance {
			best = candidate
		}
	}
	return lookup[best.Target], true
}
