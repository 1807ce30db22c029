/* test_mocks.go
 * Contains mock structures for testing the API package
 */

package api

import (
	"context"
	"time"

	"cptracker/api/shared"
	"cptracker/api/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MockStore implements the store Interface for testing
type MockStore struct {
	// Storage for mock data
	Students        map[string]store.Student
	Snapshots       []store.WeeklySnapshot
	AdminSnapshots  []store.AdminWeeklySnapshot
	Leaderboards    map[string]store.Leaderboard
	ActiveUsernames map[string]bool

	// Error injection for testing error paths
	CreateStudentError          error
	GetStudentByUsernameError   error
	GetAllStudentsError         error
	GetStudentsByDeptError      error
	UpdateStudentAnalyticsError error
	UpdateStudentProfileError   error
	DeleteStudentError          error
	GetActiveUsernamesError     error
	InsertSnapshotError         error
	GetBaselineSnapshotError    error
	PruneSnapshotsError         error
	StoreAdminSnapshotError     error
	GetLatestAdminSnapshotError error
	StoreLeaderboardError       error
	FetchLeaderboardError       error
}

// mockDatabase implements the minimal Database interface needed for tests
type mockDatabase struct {
	name string
}

func (m *mockDatabase) Name() string {
	return m.name
}

// mockClient implements the minimal Client interface needed for tests
type mockClient struct{}

func (m *mockClient) Disconnect(context.Context) error {
	return nil
}

// NewMockStoreAPI creates a new MockStore with empty storage
func NewMockStoreAPI() *MockStore {
	return &MockStore{
		Students:        make(map[string]store.Student),
		Leaderboards:    make(map[string]store.Leaderboard),
		ActiveUsernames: make(map[string]bool),
	}
}

// AddStudent seeds a student record and marks the username active
func (m *MockStore) AddStudent(student store.Student) {
	if student.ID.IsZero() {
		student.ID = primitive.NewObjectID()
	}
	m.Students[student.Username] = student
	m.ActiveUsernames[student.Username] = true
}

// CreateStudent mock implementation
func (m *MockStore) CreateStudent(student store.Student) error {
	if m.CreateStudentError != nil {
		return m.CreateStudentError
	}
	m.AddStudent(student)
	return nil
}

// GetStudentByUsername mock implementation
func (m *MockStore) GetStudentByUsername(username string) (store.Student, error) {
	if m.GetStudentByUsernameError != nil {
		return store.Student{}, m.GetStudentByUsernameError
	}
	student, ok := m.Students[username]
	if !ok {
		return store.Student{}, mongo.ErrNoDocuments
	}
	return student, nil
}

// GetAllStudents mock implementation
func (m *MockStore) GetAllStudents() ([]store.Student, error) {
	if m.GetAllStudentsError != nil {
		return nil, m.GetAllStudentsError
	}
	students := make([]store.Student, 0, len(m.Students))
	for _, student := range m.Students {
		students = append(students, student)
	}
	return students, nil
}

// GetStudentsByDepartment mock implementation
func (m *MockStore) GetStudentsByDepartment(department string) ([]store.Student, error) {
	if m.GetStudentsByDeptError != nil {
		return nil, m.GetStudentsByDeptError
	}
	var students []store.Student
	for _, student := range m.Students {
		if student.Department == department {
			students = append(students, student)
		}
	}
	return students, nil
}

// UpdateStudentAnalytics mock implementation
func (m *MockStore) UpdateStudentAnalytics(username string, problems shared.ProblemStats, contests shared.ContestStats, badges []shared.Badge, scrapedAt time.Time) error {
	if m.UpdateStudentAnalyticsError != nil {
		return m.UpdateStudentAnalyticsError
	}
	student, ok := m.Students[username]
	if !ok {
		return mongo.ErrNoDocuments
	}
	student.Problems = problems
	student.Contests = contests
	student.Badges = badges
	student.LastScrapedAt = scrapedAt
	m.Students[username] = student
	return nil
}

// UpdateStudentProfile mock implementation
func (m *MockStore) UpdateStudentProfile(username string, mainAccounts, subAccounts []shared.Account, department string) error {
	if m.UpdateStudentProfileError != nil {
		return m.UpdateStudentProfileError
	}
	student, ok := m.Students[username]
	if !ok {
		return mongo.ErrNoDocuments
	}
	student.MainAccounts = mainAccounts
	student.SubAccounts = subAccounts
	student.Department = department
	m.Students[username] = student
	return nil
}

// DeleteStudent mock implementation
func (m *MockStore) DeleteStudent(username string) error {
	if m.DeleteStudentError != nil {
		return m.DeleteStudentError
	}
	if _, ok := m.Students[username]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.Students, username)
	kept := m.Snapshots[:0]
	for _, snapshot := range m.Snapshots {
		if snapshot.Username != username {
			kept = append(kept, snapshot)
		}
	}
	m.Snapshots = kept
	return nil
}

// GetActiveUsernames mock implementation
func (m *MockStore) GetActiveUsernames() (map[string]bool, error) {
	if m.GetActiveUsernamesError != nil {
		return nil, m.GetActiveUsernamesError
	}
	return m.ActiveUsernames, nil
}

// InsertSnapshot mock implementation
func (m *MockStore) InsertSnapshot(snapshot store.WeeklySnapshot) error {
	if m.InsertSnapshotError != nil {
		return m.InsertSnapshotError
	}
	m.Snapshots = append(m.Snapshots, snapshot)
	return nil
}

// GetBaselineSnapshot mock implementation mirroring the real window semantics:
// returns the stored snapshot closest to now-daysAgo, nil when none exists
func (m *MockStore) GetBaselineSnapshot(username string, daysAgo int) (*store.WeeklySnapshot, error) {
	if m.GetBaselineSnapshotError != nil {
		return nil, m.GetBaselineSnapshotError
	}
	target := time.Now().AddDate(0, 0, -daysAgo)
	var best *store.WeeklySnapshot
	var bestDistance time.Duration
	for i := range m.Snapshots {
		snapshot := m.Snapshots[i]
		if snapshot.Username != username {
			continue
		}
		distance := snapshot.Timestamp.Sub(target)
		if distance < 0 {
			distance = -distance
		}
		if best == nil || distance < bestDistance {
			best = &m.Snapshots[i]
			bestDistance = distance
		}
	}
	return best, nil
}

// PruneSnapshots mock implementation
func (m *MockStore) PruneSnapshots(now time.Time) (int64, error) {
	if m.PruneSnapshotsError != nil {
		return 0, m.PruneSnapshotsError
	}
	cutoff := now.Add(-store.SnapshotRetention)
	kept := m.Snapshots[:0]
	var pruned int64
	for _, snapshot := range m.Snapshots {
		if snapshot.Timestamp.Before(cutoff) {
			pruned++
			continue
		}
		kept = append(kept, snapshot)
	}
	m.Snapshots = kept
	return pruned, nil
}

// StoreAdminSnapshot mock implementation
func (m *MockStore) StoreAdminSnapshot(snapshot store.AdminWeeklySnapshot) error {
	if m.StoreAdminSnapshotError != nil {
		return m.StoreAdminSnapshotError
	}
	m.AdminSnapshots = append(m.AdminSnapshots, snapshot)
	return nil
}

// GetLatestAdminSnapshot mock implementation
func (m *MockStore) GetLatestAdminSnapshot() (store.AdminWeeklySnapshot, error) {
	if m.GetLatestAdminSnapshotError != nil {
		return store.AdminWeeklySnapshot{}, m.GetLatestAdminSnapshotError
	}
	if len(m.AdminSnapshots) == 0 {
		return store.AdminWeeklySnapshot{}, mongo.ErrNoDocuments
	}
	return m.AdminSnapshots[len(m.AdminSnapshots)-1], nil
}

// leaderboardKey builds the map key for a (scope, platform) pair
func leaderboardKey(scope string, platform shared.Platform) string {
	return scope + "/" + string(platform)
}

// StoreLeaderboard mock implementation
func (m *MockStore) StoreLeaderboard(leaderboard store.Leaderboard) error {
	if m.StoreLeaderboardError != nil {
		return m.StoreLeaderboardError
	}
	m.Leaderboards[leaderboardKey(leaderboard.Scope, leaderboard.Platform)] = leaderboard
	return nil
}

// FetchLeaderboard mock implementation
func (m *MockStore) FetchLeaderboard(scope string, platform shared.Platform) (store.Leaderboard, error) {
	if m.FetchLeaderboardError != nil {
		return store.Leaderboard{}, m.FetchLeaderboardError
	}
	board, ok := m.Leaderboards[leaderboardKey(scope, platform)]
	if !ok {
		return store.Leaderboard{}, mongo.ErrNoDocuments
	}
	return board, nil
}

// GetDatabase mock implementation
func (m *MockStore) GetDatabase() interface{ Name() string } {
	return &mockDatabase{name: "test_db"}
}

// GetClient mock implementation
func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return &mockClient{}
}

// Ensure MockStore implements the store interface
var _ store.Interface = (*MockStore)(nil)
