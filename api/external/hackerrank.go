/* hackerrank.go
 * Contains the HackerRank adapter. The public badges endpoint returns JSON describing the star
 * badges a user has earned; solved counts are approximated from the same payload since HackerRank
 * does not expose a plain solved-problems figure
 */

package external

import (
	"encoding/json"
	"fmt"
	"strings"

	"cptracker/api/shared"
)

type hrBadgesResponse struct {
	Models []struct {
		BadgeName string `json:"badge_name"`
		Stars     int    `json:"stars"`
		Solved    int    `json:"solved"`
	} `json:"models"`
}

// fetchHackerRank scrapes one HackerRank handle.
// Preconditions: receives a non-empty handle
// Postconditions: returns the normalized result, or an error for the dispatcher to absorb
func fetchHackerRank(handle string) (shared.PlatformResult, error) {
	body, err := getBody(
		fmt.Sprintf("https://www.hackerrank.com/rest/hackers/%s/badges", handle),
		"Accept", "application/json",
	)
	if err != nil {
		return shared.PlatformResult{}, fmt.Errorf("error fetching hackerrank badges: %w", err)
	}
	return ParseHackerRank(body)
}

// ParseHackerRank builds the normalized result from a HackerRank badges response.
// Preconditions: receives the raw response body
// Postconditions: returns the normalized result, or an error if the body could not be decoded.
// HackerRank has no rated contests here, so the contest map stays empty
func ParseHackerRank(body []byte) (shared.PlatformResult, error) {
	var resp hrBadgesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return shared.PlatformResult{}, fmt.Errorf("error parsing JSON: %w", err)
	}

	res := zeroResult()
	solved := 0
	for _, model := range resp.Models {
		solved += model.Solved
		if model.Stars <= 0 {
			continue
		}
		slug := strings.ToLower(strings.ReplaceAll(model.BadgeName, " ", "-"))
		res.Badges = append(res.Badges, shared.Badge{
			ID:       fmt.Sprintf("%s-%s-%d-star", shared.PlatformHackerRank, slug, model.Stars),
			Name:     fmt.Sprintf("%s (%d★)", model.BadgeName, model.Stars),
			Platform: shared.PlatformHackerRank,
			Icon:     "🏅",
			Level:    model.Stars,
		})
	}

	res.Problems.Total = solved
	res.Problems.PlatformStats[shared.PlatformHackerRank] = solved
	return res, nil
}
