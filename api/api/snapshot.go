/* snapshot.go
 * Contains the snapshot engine: the daily per-student capture with retention pruning, and the
 * coarse admin weekly report built from the same baseline diffs as the student-facing ranking
 */

package api

import (
	"fmt"
	"log"
	"time"

	"cptracker/api/logic"
	"cptracker/api/shared"
	"cptracker/api/store"
)

// CreateDailySnapshot captures a scoring snapshot for every student from their currently stored
// stats, then prunes snapshots past the retention window. No scraping happens here; the capture
// reads whatever the last merge persisted.
// Preconditions: none
// Postconditions: returns the run summary. A student whose insert fails is recorded in Errors and
// the run continues; pruning runs even when some inserts failed
func (a *API) CreateDailySnapshot() (SnapshotRunResult, error) {
	result := SnapshotRunResult{Timestamp: time.Now()}

	students, err := a.Store.GetAllStudents()
	if err != nil {
		return result, fmt.Errorf("failed to load students: %w", err)
	}

	for _, student := range students {
		snapshot := snapshotFromStudent(student, result.Timestamp)
		if err := a.Store.InsertSnapshot(snapshot); err != nil {
			log.Printf("snapshot insert failed for %s: %v", student.Username, err)
			result.Errors = append(result.Errors, BatchError{
				Username: student.Username,
				Message:  err.Error(),
			})
			continue
		}
		result.SnapshotsCreated++
	}

	pruned, err := a.Store.PruneSnapshots(result.Timestamp)
	if err != nil {
		log.Printf("snapshot prune failed: %v", err)
	} else {
		result.Pruned = pruned
	}

	return result, nil
}

// snapshotFromStudent flattens a student's stored stats into the per-platform counters the
// scoring engine diffs against.
func snapshotFromStudent(student store.Student, at time.Time) store.WeeklySnapshot {
	snapshot := store.WeeklySnapshot{
		StudentID: student.ID,
		Username:  student.Username,
		Timestamp: at,
		Problems:  map[shared.Platform]int{},
		Ratings:   map[shared.Platform]int{},
		Contests:  map[shared.Platform]int{},
	}

	for platform, count := range student.Problems.PlatformStats {
		snapshot.Problems[platform] = count
	}
	for platform, record := range student.Contests {
		snapshot.Ratings[platform] = record.CurrentRating
		snapshot.Contests[platform] = record.TotalContests
	}

	return snapshot
}

// CreateAdminWeeklySnapshot builds and stores the cohort-wide weekly report: per-student solved
// deltas against the week-old baseline, rolled up into platform totals.
// Preconditions: none
// Postconditions: returns the stored report. Students without a usable baseline appear with zero
// deltas so the cohort roster stays complete
func (a *API) CreateAdminWeeklySnapshot() (store.AdminWeeklySnapshot, error) {
	now := time.Now()
	report := store.AdminWeeklySnapshot{
		WeekStart:   now.AddDate(0, 0, -baselineDaysAgo),
		WeekEnd:     now,
		GeneratedAt: now,
		Totals:      map[shared.Platform]int{},
	}

	students, err := a.Store.GetAllStudents()
	if err != nil {
		return report, fmt.Errorf("failed to load students: %w", err)
	}

	for _, student := range students {
		breakdown := store.AdminStudentBreakdown{
			Username:   student.Username,
			Name:       student.Name,
			Department: student.Department,
			Platforms:  map[shared.Platform]int{},
		}

		baseline, err := a.Store.GetBaselineSnapshot(student.Username, baselineDaysAgo)
		if err != nil {
			log.Printf("baseline lookup failed for %s: %v", student.Username, err)
		}
		if baseline != nil {
			metrics := logic.ComputeWeeklyMetrics(student, *baseline)
			for platform, delta := range metrics.ProblemDelta {
				breakdown.Platforms[platform] = delta
				breakdown.TotalSolved += delta
				report.Totals[platform] += delta
			}
		}

		report.TotalSolved += breakdown.TotalSolved
		report.Students = append(report.Students, breakdown)
	}

	if err := a.Store.StoreAdminSnapshot(report); err != nil {
		return report, fmt.Errorf("failed to store admin snapshot: %w", err)
	}

	return report, nil
}

// GetWeeklyReport returns the most recently generated admin weekly report.
// Preconditions: none
// Postconditions: returns the latest stored report, or mongo.ErrNoDocuments when no report has
// been generated yet
func (a *API) GetWeeklyReport() (store.AdminWeeklySnapshot, error) {
	return a.Store.GetLatestAdminSnapshot()
}
