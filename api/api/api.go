/* api.go
 * This file contains the API struct and constructor for the tracker core. For consistent results,
 * functions should only be called through this package, not the sub packages for logic and store.
 * The orchestration methods are split into scrape.go, weekly.go, leaderboard.go, snapshot.go and
 * bulk.go
 */

package api

import (
	"fmt"
	"sync"
	"time"

	"cptracker/api/cache"
	"cptracker/api/external"
	"cptracker/api/shared"
	"cptracker/api/store"
	"cptracker/api/throttle"
)

// ScrapeFunc fetches the normalized result for one handle on one platform.
// Declared as a field type so tests can substitute the network layer.
type ScrapeFunc func(platform shared.Platform, handle string) shared.PlatformResult

// Default pacing and cache staleness. Scrape delays are a courtesy to the
// upstream platforms, not a correctness requirement.
const (
	defaultScrapeDelay = 2 * time.Second
	defaultBulkDelay   = 3 * time.Second
	defaultCacheTTL    = 10 * time.Minute
	baselineDaysAgo    = 7
)

// API provides the methods for interacting with the tracker data layer.
type API struct {
	Store   store.Interface
	Scraper ScrapeFunc

	ScrapeLimiter *throttle.Limiter
	BulkLimiter   *throttle.Limiter

	Cache *cache.Cache

	// bulk orchestration state; at most one bulk operation runs at a time
	mu       sync.Mutex
	running  bool
	cancel   bool
	progress Progress
}

// NewAPI creates a new API instance with the provided configuration.
// Preconditions: receives strings containing dbName and mongoURI
// Postconditions: returns a pointer to an API wired to a live store, or an error if the store
// could not be initialized
func NewAPI(dbName string, mongoURI string) (*API, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName is required")
	}

	s, err := store.NewStore(dbName, mongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return NewAPIWithStore(s), nil
}

// NewAPIWithStore creates an API around an existing store. Used by tests with a mock store.
func NewAPIWithStore(s store.Interface) *API {
	return &API{
		Store:         s,
		Scraper:       external.Scrape,
		ScrapeLimiter: throttle.New(defaultScrapeDelay),
		BulkLimiter:   throttle.New(defaultBulkDelay),
		Cache:         cache.New(defaultCacheTTL),
	}
}
