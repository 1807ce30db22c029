/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 */

package store

import (
	"context"
	"time"

	"cptracker/api/shared"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	// students
	CreateStudent(student Student) error
	GetStudentByUsername(username string) (Student, error)
	GetAllStudents() ([]Student, error)
	GetStudentsByDepartment(department string) ([]Student, error)
	UpdateStudentAnalytics(username string, problems shared.ProblemStats, contests shared.ContestStats, badges []shared.Badge, scrapedAt time.Time) error
	UpdateStudentProfile(username string, mainAccounts, subAccounts []shared.Account, department string) error
	DeleteStudent(username string) error
	GetActiveUsernames() (map[string]bool, error)

	// snapshots
	InsertSnapshot(snapshot WeeklySnapshot) error
	GetBaselineSnapshot(username string, daysAgo int) (*WeeklySnapshot, error)
	PruneSnapshots(now time.Time) (int64, error)
	StoreAdminSnapshot(snapshot AdminWeeklySnapshot) error
	GetLatestAdminSnapshot() (AdminWeeklySnapshot, error)

	// leaderboards
	StoreLeaderboard(leaderboard Leaderboard) error
	FetchLeaderboard(scope string, platform shared.Platform) (Leaderboard, error)

	// Getter methods for accessing fields
	GetDatabase() interface{ Name() string }
	GetClient() interface{ Disconnect(context.Context) error }
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetDatabase returns the database instance
func (s *Store) GetDatabase() interface{ Name() string } {
	return s.Database
}

// GetClient returns the MongoDB client
func (s *Store) GetClient() interface{ Disconnect(context.Context) error } {
	return s.Client
}
