/* codeforces_test.go
 * Contains unit tests for codeforces.go parsing functions using canned api responses
 */

package external

import (
	"testing"

	"cptracker/api/shared"

	"github.com/stretchr/testify/assert"
)

const cfInfoBody = `{"status":"OK","result":[{"handle":"tester","rating":1620,"maxRating":1710}]}`

const cfRatingBody = `{"status":"OK","result":[
  {"contestId":100,"ratingUpdateTimeSeconds":1704067200,"newRating":1500},
  {"contestId":101,"ratingUpdateTimeSeconds":1704672000,"newRating":1620}
]}`

const cfStatusBody = `{"status":"OK","result":[
  {"verdict":"OK","problem":{"contestId":100,"index":"A"}},
  {"verdict":"OK","problem":{"contestId":100,"index":"A"}},
  {"verdict":"OK","problem":{"contestId":100,"index":"B"}},
  {"verdict":"WRONG_ANSWER","problem":{"contestId":101,"index":"C"}},
  {"verdict":"OK","problem":{"contestId":101,"index":"C"}}
]}`

// TestParseCodeForces_FullProfile tests parsing a complete three-response profile
func TestParseCodeForces_FullProfile(t *testing.T) {
	res, err := ParseCodeForces([]byte(cfInfoBody), []byte(cfRatingBody), []byte(cfStatusBody))

	assert.NoError(t, err)
	assert.Equal(t, 3, res.Problems.Total)
	assert.Equal(t, 3, res.Problems.PlatformStats[shared.PlatformCodeForces])

	record := res.Contests[shared.PlatformCodeForces]
	assert.Equal(t, 1620, record.CurrentRating)
	assert.Equal(t, 1710, record.HighestRating)
	assert.Equal(t, 2, record.TotalContests)
	assert.Len(t, record.RatingHistory, 2)
	assert.True(t, record.RatingHistory[0].HasEndTime)
}

// TestParseCodeForces_BadUserInfoIsFatal tests that an unusable user.info response fails the parse
func TestParseCodeForces_BadUserInfoIsFatal(t *testing.T) {
	badInfo := `{"status":"FAILED","comment":"handles: User not found"}`

	_, err := ParseCodeForces([]byte(badInfo), []byte(cfRatingBody), []byte(cfStatusBody))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "User not found")
}

// TestParseCodeForces_MalformedSectionsDegrade tests that broken rating and status bodies yield
// zeros instead of failing
func TestParseCodeForces_MalformedSectionsDegrade(t *testing.T) {
	res, err := ParseCodeForces([]byte(cfInfoBody), []byte("not json"), []byte("{"))

	assert.NoError(t, err)
	assert.Zero(t, res.Problems.Total)

	record := res.Contests[shared.PlatformCodeForces]
	assert.Equal(t, 1620, record.CurrentRating)
	assert.Zero(t, record.TotalContests)
}

// TestParseCodeForces_HighestNeverBelowCurrent tests the maxRating floor
func TestParseCodeForces_HighestNeverBelowCurrent(t *testing.T) {
	info := `{"status":"OK","result":[{"rating":1800,"maxRating":1700}]}`

	res, err := ParseCodeForces([]byte(info), []byte(`{"status":"OK","result":[]}`), []byte(`{"status":"OK","result":[]}`))

	assert.NoError(t, err)
	assert.Equal(t, 1800, res.Contests[shared.PlatformCodeForces].HighestRating)
}

// TestParseCodeForces_Badges tests that the tier badge is derived from the highest rating
func TestParseCodeForces_Badges(t *testing.T) {
	res, err := ParseCodeForces([]byte(cfInfoBody), []byte(cfRatingBody), []byte(cfStatusBody))

	assert.NoError(t, err)
	assert.Len(t, res.Badges, 1)
	assert.Equal(t, "Expert", res.Badges[0].Name)
}

// TestParseCFSolvedCount_DistinctProblemsOnly tests deduplication of repeated accepted submissions
func TestParseCFSolvedCount_DistinctProblemsOnly(t *testing.T) {
	assert.Equal(t, 3, parseCFSolvedCount([]byte(cfStatusBody)))
}
