/* codeforces.go
 * Contains the CodeForces adapter. CodeForces exposes a public REST api, so this adapter is pure
 * JSON parsing: user.info for ratings, user.rating for contest history and user.status for
 * counting distinct solved problems
 */

package external

import (
	"encoding/json"
	"fmt"
	"time"

	"cptracker/api/shared"
)

const codeforcesAPIBase = "https://codeforces.com/api"

// cfEnvelope is the common CodeForces response wrapper.
type cfEnvelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

type cfUserInfo struct {
	Rating    int `json:"rating"`
	MaxRating int `json:"maxRating"`
}

type cfRatingChange struct {
	ContestID               int `json:"contestId"`
	RatingUpdateTimeSeconds int64 `json:"ratingUpdateTimeSeconds"`
	NewRating               int `json:"newRating"`
}

type cfSubmission struct {
	Verdict string `json:"verdict"`
	Problem struct {
		ContestID int    `json:"contestId"`
		Index     string `json:"index"`
	} `json:"problem"`
}

// fetchCodeForces scrapes one CodeForces handle.
// Preconditions: receives a non-empty handle
// Postconditions: returns the normalized result, or an error for the dispatcher to absorb
func fetchCodeForces(handle string) (shared.PlatformResult, error) {
	infoBody, err := getBody(fmt.Sprintf("%s/user.info?handles=%s", codeforcesAPIBase, handle))
	if err != nil {
		return shared.PlatformResult{}, fmt.Errorf("error fetching user info: %w", err)
	}

	ratingBody, err := getBody(fmt.Sprintf("%s/user.rating?handle=%s", codeforcesAPIBase, handle))
	if err != nil {
		return shared.PlatformResult{}, fmt.Errorf("error fetching rating history: %w", err)
	}

	statusBody, err := getBody(fmt.Sprintf("%s/user.status?handle=%s&from=1&count=10000", codeforcesAPIBase, handle))
	if err != nil {
		return shared.PlatformResult{}, fmt.Errorf("error fetching submissions: %w", err)
	}

	return ParseCodeForces(infoBody, ratingBody, statusBody)
}

// ParseCodeForces builds the normalized result from the three CodeForces api responses.
// Preconditions: receives the raw user.info, user.rating and user.status bodies
// Postconditions: returns the normalized result, or an error if no body could be decoded.
// Individual malformed sections degrade to zero values rather than failing the whole parse
func ParseCodeForces(infoBody, ratingBody, statusBody []byte) (shared.PlatformResult, error) {
	res := zeroResult()

	current, highest, err := parseCFUserInfo(infoBody)
	if err != nil {
		return shared.PlatformResult{}, err
	}

	history := parseCFRatingHistory(ratingBody)
	solved := parseCFSolvedCount(statusBody)

	res.Problems.PlatformStats[shared.PlatformCodeForces] = solved
	res.Problems.Total = solved

	if highest < current {
		highest = current
	}
	record := shared.ContestRecord{
		CurrentRating: current,
		HighestRating: highest,
		TotalContests: len(history),
		RatingHistory: history,
	}
	if record.CurrentRating > 0 || record.TotalContests > 0 {
		res.Contests[shared.PlatformCodeForces] = record
	}

	res.Badges = DeriveBadges(shared.PlatformCodeForces, highest)
	return res, nil
}

// parseCFUserInfo extracts current and highest rating from a user.info response.
func parseCFUserInfo(body []byte) (int, int, error) {
	var env cfEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return 0, 0, fmt.Errorf("error parsing user info JSON: %w", err)
	}
	if env.Status != "OK" {
		return 0, 0, fmt.Errorf("codeforces api returned status %q: %s", env.Status, env.Comment)
	}

	var users []cfUserInfo
	if err := json.Unmarshal(env.Result, &users); err != nil {
		return 0, 0, fmt.Errorf("error parsing user info result: %w", err)
	}
	if len(users) == 0 {
		return 0, 0, fmt.Errorf("user info result is empty")
	}
	return users[0].Rating, users[0].MaxRating, nil
}

// parseCFRatingHistory extracts the ordered contest rating trajectory from a
// user.rating response. A malformed body yields an empty history.
func parseCFRatingHistory(body []byte) []shared.RatingPoint {
	var env cfEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Status != "OK" {
		return nil
	}

	var changes []cfRatingChange
	if err := json.Unmarshal(env.Result, &changes); err != nil {
		return nil
	}

	points := make([]shared.RatingPoint, 0, len(changes))
	for _, change := range changes {
		points = append(points, shared.RatingPoint{
			Date:       time.Unix(change.RatingUpdateTimeSeconds, 0).UTC(),
			Rating:     change.NewRating,
			HasEndTime: true,
		})
	}
	return points
}

// parseCFSolvedCount counts distinct problems with an OK verdict in a
// user.status response. A malformed body yields 0.
func parseCFSolvedCount(body []byte) int {
	var env cfEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Status != "OK" {
		return 0
	}

	var submissions []cfSubmission
	if err := json.Unmarshal(env.Result, &submissions); err != nil {
		return 0
	}

	seen := make(map[string]bool)
	for _, sub := range submissions {
		if sub.Verdict != "OK" {
			continue
		}
		key := fmt.Sprintf("%d-%s", sub.Problem.ContestID, sub.Problem.Index)
		seen[key] = true
	}
	return len(seen)
}
