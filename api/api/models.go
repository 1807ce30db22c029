/* models.go
 * Contains the result and progress types returned by the API orchestration methods
 */

package api

import (
	"errors"
	"time"
)

// ErrBulkConflict is returned when a bulk refresh is requested while one is
// already in flight. Bulk operations do not queue.
var ErrBulkConflict = errors.New("a bulk refresh is already running")

// ErrNoAccounts is returned when a scrape is requested for a student with no
// configured platform accounts.
var ErrNoAccounts = errors.New("student has no platform accounts configured")

// BatchError records one student's failure inside a bulk run. The batch itself
// continues past it.
type BatchError struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Progress is the pollable state of the current (or last) bulk run. Reads
// always see a consistent snapshot.
type Progress struct {
	Total      int          `json:"total"`
	Completed  int          `json:"completed"`
	Failed     int          `json:"failed"`
	Current    string       `json:"current"`
	Errors     []BatchError `json:"errors"`
	Running    bool         `json:"running"`
	Cancelled  bool         `json:"cancelled"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt,omitempty"`
}

// SnapshotRunResult summarizes one snapshot capture run.
type SnapshotRunResult struct {
	SnapshotsCreated int          `json:"snapshotsCreated"`
	Pruned           int64        `json:"pruned"`
	Errors           []BatchError `json:"errors"`
	Timestamp        time.Time    `json:"timestamp"`
}
