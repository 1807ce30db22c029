/* external.go
 * Contains the shared logic used to fetch data from the external coding platforms, and the Scrape
 * dispatcher that converts any upstream failure into an all-zero result for the higher level functions
 */

package external

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"cptracker/api/shared"
)

// userAgent is sent on every outbound request. Some platforms reject requests
// with no user agent at all.
const userAgent = "CPTrackerDataFetcher/1.0"

// requestTimeout bounds a single upstream call so one slow platform cannot
// stall a multi-student batch.
const requestTimeout = 20 * time.Second

var httpClient = &http.Client{Timeout: requestTimeout}

// Scrape fetches and normalizes the profile data for one account handle on one platform.
// Preconditions: receives the platform and a non-empty handle
// Postconditions: returns the normalized PlatformResult. Upstream failures (network error, timeout,
// account not found, unparseable page) are never returned as errors: the failure is logged and an
// all-zero result comes back. Callers must treat a zero result as "no data obtained this run"
func Scrape(platform shared.Platform, handle string) shared.PlatformResult {
	var res shared.PlatformResult
	var err error

	switch platform {
	case shared.PlatformLeetCode:
		res, err = fetchLeetCode(handle)
	case shared.PlatformCodeForces:
		res, err = fetchCodeForces(handle)
	case shared.PlatformCodeChef:
		res, err = fetchCodeChef(handle)
	case shared.PlatformGeeksforGeeks:
		res, err = fetchGeeksforGeeks(handle)
	case shared.PlatformHackerRank:
		res, err = fetchHackerRank(handle)
	default:
		err = fmt.Errorf("unknown platform: %s", platform)
	}

	if err != nil {
		log.Printf("scrape failed for %s/%s: %v", platform, handle, err)
		return zeroResult()
	}
	return res
}

// zeroResult returns an empty result with initialized maps so callers can
// range/merge without nil checks.
func zeroResult() shared.PlatformResult {
	return shared.PlatformResult{
		Problems: shared.ProblemStats{PlatformStats: map[shared.Platform]int{}},
		Contests: shared.ContestStats{},
	}
}

// getBody performs a GET request against the given url and returns the response body.
// Preconditions: receives a url string and optional header key/value pairs (flattened, must be even)
// Postconditions: returns the body bytes, or an error if the request failed or the status was not 200
func getBody(url string, headers ...string) ([]byte, error) {
	request, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Headers to comply with API requirements
	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept-Encoding", "gzip")
	for i := 0; i+1 < len(headers); i += 2 {
		request.Header.Set(headers[i], headers[i+1])
	}

	response, err := httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", response.StatusCode)
	}

	// Body may arrive gzipped when the upstream honors Accept-Encoding
	var body []byte
	if response.Header.Get("Content-Encoding") == "gzip" {
		reader, err := gzip.NewReader(response.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer reader.Close()
		body, err = io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to read gzip body: %w", err)
		}
	} else {
		body, err = io.ReadAll(response.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
	}

	return body, nil
}

// postJSON performs a POST request with a JSON payload and returns the response body.
// Used for the LeetCode GraphQL endpoint which only answers POST
// Preconditions: receives a url string and the raw JSON payload
// Postconditions: returns the body bytes, or an error if the request failed or the status was not 200
func postJSON(url string, payload []byte) ([]byte, error) {
	request, err := http.NewRequest("POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Content-Type", "application/json")

	response, err := httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
