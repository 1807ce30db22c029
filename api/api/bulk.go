/* bulk.go
 * Contains the bulk refresh orchestrator: sequential scrapes over a roster with pollable progress,
 * cooperative cancellation at student boundaries and a single-run-at-a-time guard
 */

package api

import (
	"context"
	"fmt"
	"log"
	"time"

	"cptracker/api/store"
)

// RefreshAll starts a bulk refresh covering every student.
// Preconditions: receives the calling context
// Postconditions: the run is started in the background and nil is returned, or ErrBulkConflict
// when a run is already in flight
func (a *API) RefreshAll(ctx context.Context) error {
	students, err := a.Store.GetAllStudents()
	if err != nil {
		return fmt.Errorf("failed to load students: %w", err)
	}
	return a.startBulk(ctx, students)
}

// RefreshDepartment starts a bulk refresh covering one department's students.
// Preconditions: receives the calling context and the department name
// Postconditions: the run is started in the background and nil is returned, or ErrBulkConflict
// when a run is already in flight
func (a *API) RefreshDepartment(ctx context.Context, department string) error {
	students, err := a.Store.GetStudentsByDepartment(department)
	if err != nil {
		return fmt.Errorf("failed to load students for department '%s': %w", department, err)
	}
	if len(students) == 0 {
		return fmt.Errorf("no students found in department '%s'", department)
	}
	return a.startBulk(ctx, students)
}

// startBulk claims the single bulk slot and launches the run. The claim and the progress reset
// happen under the same lock so a poller never sees the previous run's counters with Running set.
func (a *API) startBulk(ctx context.Context, students []store.Student) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrBulkConflict
	}
	a.running = true
	a.cancel = false
	a.progress = Progress{
		Total:     len(students),
		Running:   true,
		StartedAt: time.Now(),
	}
	a.mu.Unlock()

	go a.runBulk(ctx, students)
	return nil
}

// runBulk works through the roster one student at a time. Cancellation is only honored between
// students: an in-flight scrape always completes and its merge is kept.
func (a *API) runBulk(ctx context.Context, students []store.Student) {
	for _, student := range students {
		a.mu.Lock()
		if a.cancel {
			a.progress.Cancelled = true
			a.mu.Unlock()
			break
		}
		a.progress.Current = student.Username
		a.mu.Unlock()

		if err := a.BulkLimiter.Wait(ctx); err != nil {
			a.mu.Lock()
			a.progress.Cancelled = true
			a.mu.Unlock()
			break
		}

		_, err := a.ScrapeStudent(ctx, student.Username)

		a.mu.Lock()
		if err != nil {
			a.progress.Failed++
			a.progress.Errors = append(a.progress.Errors, BatchError{
				Username: student.Username,
				Message:  err.Error(),
			})
		} else {
			a.progress.Completed++
		}
		a.mu.Unlock()
	}

	// One recompute at the end covers the whole batch; per-student recomputes
	// already happened inside ScrapeStudent but the final pass settles any
	// interleaved writes
	if err := a.ComputeAndStoreLeaderboards(); err != nil {
		log.Printf("leaderboard recompute after bulk refresh failed: %v", err)
	}
	a.invalidateAnalyticsCaches()

	a.mu.Lock()
	a.running = false
	a.progress.Running = false
	a.progress.Current = ""
	a.progress.FinishedAt = time.Now()
	a.mu.Unlock()
}

// GetProgress returns a consistent copy of the current (or last) bulk run state.
func (a *API) GetProgress() Progress {
	a.mu.Lock()
	defer a.mu.Unlock()

	progress := a.progress
	progress.Errors = append([]BatchError(nil), a.progress.Errors...)
	return progress
}

// CancelRefresh requests cancellation of the running bulk refresh. The run stops at the next
// student boundary; work already merged is kept.
// Preconditions: none
// Postconditions: returns true when a run was in flight and has been asked to stop
func (a *API) CancelRefresh() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return false
	}
	a.cancel = true
	return true
}
