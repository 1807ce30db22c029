/* leetcode.go
 * Contains the LeetCode adapter. LeetCode exposes a public GraphQL endpoint, queried here for the
 * per-difficulty accepted counts and the contest ranking history
 */

package external

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"cptracker/api/shared"
)

const leetcodeGraphQLURL = "https://leetcode.com/graphql"

const leetcodeStatsQuery = `
query userProfile($username: String!) {
  matchedUser(username: $username) {
    submitStatsGlobal {
      acSubmissionNum { difficulty count }
    }
  }
  userContestRanking(username: $username) {
    attendedContestsCount
    rating
  }
  userContestRankingHistory(username: $username) {
    attended
    rating
    contest { startTime }
  }
}`

type lcResponse struct {
	Data struct {
		MatchedUser *struct {
			SubmitStatsGlobal struct {
				ACSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStatsGlobal"`
		} `json:"matchedUser"`
		UserContestRanking *struct {
			AttendedContestsCount int     `json:"attendedContestsCount"`
			Rating                float64 `json:"rating"`
		} `json:"userContestRanking"`
		UserContestRankingHistory []struct {
			Attended bool    `json:"attended"`
			Rating   float64 `json:"rating"`
			Contest  struct {
				StartTime int64 `json:"startTime"`
			} `json:"contest"`
		} `json:"userContestRankingHistory"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// fetchLeetCode scrapes one LeetCode handle.
// Preconditions: receives a non-empty handle
// Postconditions: returns the normalized result, or an error for the dispatcher to absorb
func fetchLeetCode(handle string) (shared.PlatformResult, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"query":     leetcodeStatsQuery,
		"variables": map[string]string{"username": handle},
	})
	if err != nil {
		return shared.PlatformResult{}, fmt.Errorf("failed to build graphql payload: %w", err)
	}

	body, err := postJSON(leetcodeGraphQLURL, payload)
	if err != nil {
		return shared.PlatformResult{}, fmt.Errorf("error fetching leetcode profile: %w", err)
	}

	return ParseLeetCode(body)
}

// ParseLeetCode builds the normalized result from a LeetCode GraphQL response body.
// Preconditions: receives the raw response body
// Postconditions: returns the normalized result, or an error if the body could not be decoded or
// the account does not exist. Missing contest sections degrade to zero values
func ParseLeetCode(body []byte) (shared.PlatformResult, error) {
	var resp lcResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return shared.PlatformResult{}, fmt.Errorf("error parsing JSON: %w", err)
	}
	if len(resp.Errors) > 0 {
		return shared.PlatformResult{}, fmt.Errorf("graphql error: %s", resp.Errors[0].Message)
	}
	if resp.Data.MatchedUser == nil {
		return shared.PlatformResult{}, fmt.Errorf("account not found")
	}

	res := zeroResult()
	for _, bucket := range resp.Data.MatchedUser.SubmitStatsGlobal.ACSubmissionNum {
		switch strings.ToLower(bucket.Difficulty) {
		case "all":
			res.Problems.Total = bucket.Count
			res.Problems.PlatformStats[shared.PlatformLeetCode] = bucket.Count
		case "easy":
			res.Problems.Easy = bucket.Count
		case "medium":
			res.Problems.Medium = bucket.Count
		case "hard":
			res.Problems.Hard = bucket.Count
		}
	}

	// Some responses omit the "All" bucket; fall back to the difficulty sum
	if res.Problems.PlatformStats[shared.PlatformLeetCode] == 0 {
		sum := res.Problems.Easy + res.Problems.Medium + res.Problems.Hard
		res.Problems.PlatformStats[shared.PlatformLeetCode] = sum
		res.Problems.Total = sum
	}

	current := 0
	contests := 0
	if ranking := resp.Data.UserContestRanking; ranking != nil {
		current = int(math.Round(ranking.Rating))
		contests = ranking.AttendedContestsCount
	}

	highest := current
	var history []shared.RatingPoint
	for _, entry := range resp.Data.UserContestRankingHistory {
		if !entry.Attended {
			continue
		}
		rating := int(math.Round(entry.Rating))
		if rating > highest {
			highest = rating
		}
		history = append(history, shared.RatingPoint{
			Date:       time.Unix(entry.Contest.StartTime, 0).UTC(),
			Rating:     rating,
			HasEndTime: true,
		})
	}
	if contests == 0 {
		contests = len(history)
	}

	if current > 0 || contests > 0 {
		res.Contests[shared.PlatformLeetCode] = shared.ContestRecord{
			CurrentRating: current,
			HighestRating: highest,
			TotalContests: contests,
			RatingHistory: history,
		}
	}

	res.Badges = DeriveBadges(shared.PlatformLeetCode, highest)
	return res, nil
}
