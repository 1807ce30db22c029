/* api_test.go
 * Contains unit tests for the API orchestration methods: scrape pipeline, weekly analytics,
 * leaderboard materialization, snapshots and bulk refresh
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"cptracker/api/cache"
	"cptracker/api/shared"
	"cptracker/api/store"
	"cptracker/api/throttle"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// newTestAPI builds an API with zero-delay limiters around a mock store so tests run instantly.
func newTestAPI(mockStore *MockStore, scraper ScrapeFunc) *API {
	return &API{
		Store:         mockStore,
		Scraper:       scraper,
		ScrapeLimiter: throttle.New(0),
		BulkLimiter:   throttle.New(0),
		Cache:         cache.New(time.Minute),
	}
}

// fixedScraper returns the same canned result for every handle.
func fixedScraper(result shared.PlatformResult) ScrapeFunc {
	return func(platform shared.Platform, handle string) shared.PlatformResult {
		return result
	}
}

func testStudent(username string) store.Student {
	return store.Student{
		ID:       primitive.NewObjectID(),
		Username: username,
		Name:     username,
		MainAccounts: []shared.Account{
			{Platform: shared.PlatformLeetCode, Handle: username + "_lc"},
		},
		Problems: shared.ProblemStats{PlatformStats: map[shared.Platform]int{}},
		Contests: shared.ContestStats{},
	}
}

// region NewAPI tests

func TestNewAPI_MissingDbName(t *testing.T) {
	_, err := NewAPI("", "mongodb://localhost")
	if err == nil {
		t.Error("Expected error when dbName is empty, got nil")
	}

	if !strings.Contains(err.Error(), "dbName is required") {
		t.Errorf("Expected error message about required dbName, got: %s", err.Error())
	}
}

// endregion

// region ScrapeStudent tests

func TestScrapeStudent_Success(t *testing.T) {
	mockStore := NewMockStoreAPI()
	mockStore.AddStudent(testStudent("alice"))

	scraped := shared.PlatformResult{
		Problems: shared.ProblemStats{
			Total:         40,
			Easy:          20,
			Medium:        15,
			Hard:          5,
			PlatformStats: map[shared.Platform]int{shared.PlatformLeetCode: 40},
		},
		Contests: shared.ContestStats{
			shared.PlatformLeetCode: {CurrentRating: 1600, HighestRating: 1650, TotalContests: 4},
		},
	}

	api := newTestAPI(mockStore, fixedScraper(scraped))

	result, err := api.ScrapeStudent(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}

	if result.Problems.Total != 40 {
		t.Errorf("Expected total of 40 problems, got %d", result.Problems.Total)
	}

	stored := mockStore.Students["alice"]
	if stored.Problems.PlatformStats[shared.PlatformLeetCode] != 40 {
		t.Errorf("Expected 40 leetcode problems persisted, got %d", stored.Problems.PlatformStats[shared.PlatformLeetCode])
	}
	if stored.LastScrapedAt.IsZero() {
		t.Error("Expected last_scraped_at to be set")
	}
}

func TestScrapeStudent_UnknownStudent(t *testing.T) {
	api := newTestAPI(NewMockStoreAPI(), fixedScraper(shared.PlatformResult{}))

	_, err := api.ScrapeStudent(context.Background(), "ghost")
	if err == nil {
		t.Error("Expected error for unknown student, got nil")
	}
}

func TestScrapeStudent_NoAccounts(t *testing.T) {
	mockStore := NewMockStoreAPI()
	student := testStudent("bob")
	student.MainAccounts = nil
	mockStore.AddStudent(student)

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	_, err := api.ScrapeStudent(context.Background(), "bob")
	if !errors.Is(err, ErrNoAccounts) {
		t.Errorf("Expected ErrNoAccounts, got: %v", err)
	}
}

func TestScrapeStudent_FailedScrapeDoesNotRegress(t *testing.T) {
	mockStore := NewMockStoreAPI()
	student := testStudent("carol")
	student.Problems = shared.ProblemStats{
		Total:         120,
		PlatformStats: map[shared.Platform]int{shared.PlatformLeetCode: 120},
	}
	student.Contests = shared.ContestStats{
		shared.PlatformLeetCode: {CurrentRating: 1800, HighestRating: 1900, TotalContests: 12},
	}
	mockStore.AddStudent(student)

	// zero result simulates an upstream failure degraded by the adapter
	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{
		Problems: shared.ProblemStats{PlatformStats: map[shared.Platform]int{}},
		Contests: shared.ContestStats{},
	}))

	result, err := api.ScrapeStudent(context.Background(), "carol")
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}

	// run result reflects this run only
	if result.Problems.Total != 0 {
		t.Errorf("Expected run total of 0, got %d", result.Problems.Total)
	}

	// stored record must keep the previous values
	stored := mockStore.Students["carol"]
	if stored.Problems.PlatformStats[shared.PlatformLeetCode] != 120 {
		t.Errorf("Expected stored count of 120 to survive, got %d", stored.Problems.PlatformStats[shared.PlatformLeetCode])
	}
	if stored.Contests[shared.PlatformLeetCode].CurrentRating != 1800 {
		t.Errorf("Expected stored rating of 1800 to survive, got %d", stored.Contests[shared.PlatformLeetCode].CurrentRating)
	}
}

// endregion

// region Leaderboard tests

func TestComputeAndStoreLeaderboards_Success(t *testing.T) {
	mockStore := NewMockStoreAPI()

	alice := testStudent("alice")
	alice.Problems = shared.ProblemStats{Total: 50, PlatformStats: map[shared.Platform]int{shared.PlatformLeetCode: 50}}
	mockStore.AddStudent(alice)

	bob := testStudent("bob")
	bob.Problems = shared.ProblemStats{Total: 90, PlatformStats: map[shared.Platform]int{shared.PlatformLeetCode: 90}}
	mockStore.AddStudent(bob)

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	if err := api.ComputeAndStoreLeaderboards(); err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}

	board, err := api.GetOverallLeaderboard(0)
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}
	if board == nil {
		t.Fatal("Expected a leaderboard, got nil")
	}
	if len(board.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(board.Entries))
	}
	if board.Entries[0].Username != "bob" || board.Entries[0].Rank != 1 {
		t.Errorf("Expected bob at rank 1, got %s at rank %d", board.Entries[0].Username, board.Entries[0].Rank)
	}
}

func TestComputeAndStoreLeaderboards_FiltersInactive(t *testing.T) {
	mockStore := NewMockStoreAPI()
	mockStore.AddStudent(testStudent("alice"))
	mockStore.AddStudent(testStudent("orphan"))
	mockStore.ActiveUsernames["orphan"] = false

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	if err := api.ComputeAndStoreLeaderboards(); err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}

	board, err := api.GetOverallLeaderboard(0)
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}
	for _, entry := range board.Entries {
		if entry.Username == "orphan" {
			t.Error("Expected orphaned student to be filtered out of the leaderboard")
		}
	}
}

func TestGetOverallLeaderboard_NeverComputed(t *testing.T) {
	api := newTestAPI(NewMockStoreAPI(), fixedScraper(shared.PlatformResult{}))

	board, err := api.GetOverallLeaderboard(0)
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}
	if board != nil {
		t.Errorf("Expected nil leaderboard before first computation, got %+v", board)
	}
}

func TestGetOverallLeaderboard_LimitTruncates(t *testing.T) {
	mockStore := NewMockStoreAPI()
	for i := 0; i < 5; i++ {
		student := testStudent(fmt.Sprintf("student%d", i))
		student.Problems = shared.ProblemStats{
			Total:         i * 10,
			PlatformStats: map[shared.Platform]int{shared.PlatformLeetCode: i * 10},
		}
		mockStore.AddStudent(student)
	}

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))
	if err := api.ComputeAndStoreLeaderboards(); err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}

	board, err := api.GetOverallLeaderboard(3)
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}
	if len(board.Entries) != 3 {
		t.Errorf("Expected 3 entries after truncation, got %d", len(board.Entries))
	}
}

// endregion

// region Weekly tests

// seedWeeklyStudent stores a student and a week-old baseline such that the deltas are exactly
// problemsDelta on leetcode and ratingDelta on codeforces.
func seedWeeklyStudent(mockStore *MockStore, username string, problemsDelta, ratingDelta int) {
	student := testStudent(username)
	student.Problems = shared.ProblemStats{
		Total:         100 + problemsDelta,
		PlatformStats: map[shared.Platform]int{shared.PlatformLeetCode: 100 + problemsDelta},
	}
	student.Contests = shared.ContestStats{
		shared.PlatformCodeForces: {CurrentRating: 1500 + ratingDelta, HighestRating: 1500 + ratingDelta, TotalContests: 10},
	}
	mockStore.AddStudent(student)

	mockStore.Snapshots = append(mockStore.Snapshots, store.WeeklySnapshot{
		Username:  username,
		Timestamp: time.Now().AddDate(0, 0, -7),
		Problems:  map[shared.Platform]int{shared.PlatformLeetCode: 100},
		Ratings:   map[shared.Platform]int{shared.PlatformCodeForces: 1500},
		Contests:  map[shared.Platform]int{shared.PlatformCodeForces: 10},
	})
}

func TestGetWeeklyLeaderboard_RanksEligibleStudents(t *testing.T) {
	mockStore := NewMockStoreAPI()
	seedWeeklyStudent(mockStore, "alice", 10, 50)
	seedWeeklyStudent(mockStore, "bob", 6, 0)

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	ranked, err := api.GetWeeklyLeaderboard(0)
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}
	if len(ranked) != 2 {
		t.Fatalf("Expected 2 eligible students, got %d", len(ranked))
	}
	if ranked[0].Username != "alice" {
		t.Errorf("Expected alice first, got %s", ranked[0].Username)
	}
}

func TestGetWeeklyLeaderboard_OmitsStudentsBelowGate(t *testing.T) {
	mockStore := NewMockStoreAPI()
	seedWeeklyStudent(mockStore, "alice", 10, 0)
	// 2 problems = 2.4 weighted, 1 active day: fails both thresholds
	seedWeeklyStudent(mockStore, "slacker", 2, 0)

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	ranked, err := api.GetWeeklyLeaderboard(0)
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}
	for _, m := range ranked {
		if m.Username == "slacker" {
			t.Error("Expected student below the eligibility gate to be omitted")
		}
	}
}

func TestGetWeeklyLeaderboard_OmitsStudentsWithoutBaseline(t *testing.T) {
	mockStore := NewMockStoreAPI()
	seedWeeklyStudent(mockStore, "alice", 10, 0)
	mockStore.AddStudent(testStudent("newcomer")) // no snapshot history

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	ranked, err := api.GetWeeklyLeaderboard(0)
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}
	if len(ranked) != 1 || ranked[0].Username != "alice" {
		t.Errorf("Expected only alice to be ranked, got %d entries", len(ranked))
	}
}

func TestGetTopperOfTheWeek_Success(t *testing.T) {
	mockStore := NewMockStoreAPI()
	seedWeeklyStudent(mockStore, "alice", 10, 50)
	seedWeeklyStudent(mockStore, "bob", 6, 0)

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	topper, err := api.GetTopperOfTheWeek()
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}
	if topper == nil {
		t.Fatal("Expected a topper, got nil")
	}
	if topper.Username != "alice" {
		t.Errorf("Expected alice as topper, got %s", topper.Username)
	}
}

func TestGetTopperOfTheWeek_NoEligibleStudents(t *testing.T) {
	mockStore := NewMockStoreAPI()
	mockStore.AddStudent(testStudent("newcomer"))

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	topper, err := api.GetTopperOfTheWeek()
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}
	if topper != nil {
		t.Errorf("Expected nil topper, got %+v", topper)
	}
}

// endregion

// region Snapshot tests

func TestCreateDailySnapshot_Success(t *testing.T) {
	mockStore := NewMockStoreAPI()
	alice := testStudent("alice")
	alice.Problems = shared.ProblemStats{Total: 30, PlatformStats: map[shared.Platform]int{shared.PlatformLeetCode: 30}}
	alice.Contests = shared.ContestStats{
		shared.PlatformLeetCode: {CurrentRating: 1500, TotalContests: 3},
	}
	mockStore.AddStudent(alice)
	mockStore.AddStudent(testStudent("bob"))

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	result, err := api.CreateDailySnapshot()
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}
	if result.SnapshotsCreated != 2 {
		t.Errorf("Expected 2 snapshots created, got %d", result.SnapshotsCreated)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no errors, got %d", len(result.Errors))
	}

	var found *store.WeeklySnapshot
	for i := range mockStore.Snapshots {
		if mockStore.Snapshots[i].Username == "alice" {
			found = &mockStore.Snapshots[i]
		}
	}
	if found == nil {
		t.Fatal("Expected a snapshot for alice")
	}
	if found.Problems[shared.PlatformLeetCode] != 30 {
		t.Errorf("Expected snapshot problem count of 30, got %d", found.Problems[shared.PlatformLeetCode])
	}
	if found.Ratings[shared.PlatformLeetCode] != 1500 {
		t.Errorf("Expected snapshot rating of 1500, got %d", found.Ratings[shared.PlatformLeetCode])
	}
}

func TestCreateDailySnapshot_PrunesOldSnapshots(t *testing.T) {
	mockStore := NewMockStoreAPI()
	mockStore.AddStudent(testStudent("alice"))
	mockStore.Snapshots = append(mockStore.Snapshots, store.WeeklySnapshot{
		Username:  "alice",
		Timestamp: time.Now().Add(-store.SnapshotRetention - 24*time.Hour),
	})

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	result, err := api.CreateDailySnapshot()
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}
	if result.Pruned != 1 {
		t.Errorf("Expected 1 pruned snapshot, got %d", result.Pruned)
	}
}

func TestCreateDailySnapshot_ContinuesPastInsertFailure(t *testing.T) {
	mockStore := NewMockStoreAPI()
	mockStore.AddStudent(testStudent("alice"))
	mockStore.InsertSnapshotError = fmt.Errorf("write failed")

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	result, err := api.CreateDailySnapshot()
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}
	if result.SnapshotsCreated != 0 {
		t.Errorf("Expected 0 snapshots created, got %d", result.SnapshotsCreated)
	}
	if len(result.Errors) != 1 {
		t.Errorf("Expected 1 recorded error, got %d", len(result.Errors))
	}
}

func TestCreateAdminWeeklySnapshot_Success(t *testing.T) {
	mockStore := NewMockStoreAPI()
	seedWeeklyStudent(mockStore, "alice", 10, 0)
	mockStore.AddStudent(testStudent("newcomer"))

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	report, err := api.CreateAdminWeeklySnapshot()
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}
	if report.TotalSolved != 10 {
		t.Errorf("Expected cohort total of 10, got %d", report.TotalSolved)
	}
	if len(report.Students) != 2 {
		t.Errorf("Expected both students in the roster, got %d", len(report.Students))
	}
	if len(mockStore.AdminSnapshots) != 1 {
		t.Errorf("Expected the report to be stored, got %d stored", len(mockStore.AdminSnapshots))
	}
}

// endregion

// region Bulk refresh tests

// waitForBulk polls until the bulk run finishes or the deadline passes.
func waitForBulk(t *testing.T, api *API) Progress {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		progress := api.GetProgress()
		if !progress.Running && !progress.StartedAt.IsZero() && !progress.FinishedAt.IsZero() {
			return progress
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("bulk run did not finish in time")
	return Progress{}
}

func TestRefreshAll_Success(t *testing.T) {
	mockStore := NewMockStoreAPI()
	mockStore.AddStudent(testStudent("alice"))
	mockStore.AddStudent(testStudent("bob"))

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{
		Problems: shared.ProblemStats{
			Total:         5,
			PlatformStats: map[shared.Platform]int{shared.PlatformLeetCode: 5},
		},
	}))

	if err := api.RefreshAll(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}

	progress := waitForBulk(t, api)
	if progress.Total != 2 {
		t.Errorf("Expected total of 2, got %d", progress.Total)
	}
	if progress.Completed != 2 {
		t.Errorf("Expected 2 completed, got %d", progress.Completed)
	}
	if progress.Failed != 0 {
		t.Errorf("Expected 0 failed, got %d", progress.Failed)
	}
}

func TestRefreshAll_RecordsPerStudentFailures(t *testing.T) {
	mockStore := NewMockStoreAPI()
	mockStore.AddStudent(testStudent("alice"))
	broken := testStudent("broken")
	broken.MainAccounts = nil // ErrNoAccounts during the run
	mockStore.AddStudent(broken)

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	if err := api.RefreshAll(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}

	progress := waitForBulk(t, api)
	if progress.Completed != 1 {
		t.Errorf("Expected 1 completed, got %d", progress.Completed)
	}
	if progress.Failed != 1 {
		t.Errorf("Expected 1 failed, got %d", progress.Failed)
	}
	if len(progress.Errors) != 1 || progress.Errors[0].Username != "broken" {
		t.Errorf("Expected one error for 'broken', got %+v", progress.Errors)
	}
}

func TestRefreshAll_ConflictWhileRunning(t *testing.T) {
	mockStore := NewMockStoreAPI()
	mockStore.AddStudent(testStudent("alice"))

	release := make(chan struct{})
	slowScraper := func(platform shared.Platform, handle string) shared.PlatformResult {
		<-release
		return shared.PlatformResult{}
	}

	api := newTestAPI(mockStore, slowScraper)

	if err := api.RefreshAll(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}

	err := api.RefreshAll(context.Background())
	if !errors.Is(err, ErrBulkConflict) {
		t.Errorf("Expected ErrBulkConflict, got: %v", err)
	}

	close(release)
	waitForBulk(t, api)

	// slot is free again once the run finished; the closed channel lets the
	// second run's scrapes return immediately
	if err := api.RefreshAll(context.Background()); err != nil {
		t.Errorf("Expected no error after completion, got: %v", err)
	}
	waitForBulk(t, api)
}

func TestRefreshDepartment_UnknownDepartment(t *testing.T) {
	mockStore := NewMockStoreAPI()
	mockStore.AddStudent(testStudent("alice"))

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	err := api.RefreshDepartment(context.Background(), "Astrology")
	if err == nil {
		t.Error("Expected error for department with no students, got nil")
	}
}

func TestCancelRefresh_StopsAtStudentBoundary(t *testing.T) {
	mockStore := NewMockStoreAPI()
	for i := 0; i < 10; i++ {
		mockStore.AddStudent(testStudent(fmt.Sprintf("student%d", i)))
	}

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	gatedScraper := func(platform shared.Platform, handle string) shared.PlatformResult {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return shared.PlatformResult{}
	}

	api := newTestAPI(mockStore, gatedScraper)

	if err := api.RefreshAll(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}

	<-started
	if !api.CancelRefresh() {
		t.Error("Expected CancelRefresh to report a running bulk")
	}
	close(release)

	progress := waitForBulk(t, api)
	if !progress.Cancelled {
		t.Error("Expected the run to be marked cancelled")
	}
	if progress.Completed+progress.Failed >= progress.Total {
		t.Errorf("Expected the run to stop early, but %d of %d were processed",
			progress.Completed+progress.Failed, progress.Total)
	}
}

func TestCancelRefresh_NoRunInFlight(t *testing.T) {
	api := newTestAPI(NewMockStoreAPI(), fixedScraper(shared.PlatformResult{}))

	if api.CancelRefresh() {
		t.Error("Expected CancelRefresh to return false when nothing is running")
	}
}

func TestGetProgress_ReturnsCopy(t *testing.T) {
	api := newTestAPI(NewMockStoreAPI(), fixedScraper(shared.PlatformResult{}))
	api.progress = Progress{
		Total:  3,
		Errors: []BatchError{{Username: "alice", Message: "boom"}},
	}

	progress := api.GetProgress()
	progress.Errors[0].Username = "mutated"

	if api.progress.Errors[0].Username != "alice" {
		t.Error("Expected GetProgress to return an independent copy of the error slice")
	}
}

// endregion

// region Weekly metrics wiring sanity

func TestWeeklyMetrics_MatchRanking(t *testing.T) {
	mockStore := NewMockStoreAPI()
	seedWeeklyStudent(mockStore, "alice", 10, 50)

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	ranked, err := api.GetWeeklyLeaderboard(0)
	if err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}
	if len(ranked) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(ranked))
	}

	// 10 LC problems: 12 weighted, 5 active days, bonus 25; +50 rating delta
	expected := 12.0*10 + 50 + 0 + 25
	if ranked[0].ImpactScore != expected {
		t.Errorf("Expected impact score %.1f, got %.1f", expected, ranked[0].ImpactScore)
	}
	if ranked[0].ActiveDays != 5 {
		t.Errorf("Expected 5 active days, got %d", ranked[0].ActiveDays)
	}
	if !ranked[0].MeetsThreshold {
		t.Error("Expected the student to meet the eligibility gate")
	}
}

// endregion

// region Student CRUD passthrough tests

func TestCreateStudent_DuplicateRejected(t *testing.T) {
	mockStore := NewMockStoreAPI()
	mockStore.CreateStudentError = errors.New("username already exists")

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	err := api.CreateStudent(testStudent("alice"))
	if err == nil {
		t.Error("Expected error for duplicate username, got nil")
	}
}

func TestUpdateHandles_ReplacesAccounts(t *testing.T) {
	mockStore := NewMockStoreAPI()
	mockStore.AddStudent(testStudent("alice"))

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))

	accounts := []shared.Account{{Platform: shared.PlatformCodeForces, Handle: "alice_cf"}}
	if err := api.UpdateHandles("alice", accounts, nil, "ECE"); err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}

	stored := mockStore.Students["alice"]
	if len(stored.MainAccounts) != 1 || stored.MainAccounts[0].Handle != "alice_cf" {
		t.Errorf("Expected replaced accounts, got %+v", stored.MainAccounts)
	}
	if stored.Department != "ECE" {
		t.Errorf("Expected department ECE, got %s", stored.Department)
	}
}

func TestDeleteStudent_CascadesAndInvalidates(t *testing.T) {
	mockStore := NewMockStoreAPI()
	mockStore.AddStudent(testStudent("alice"))
	mockStore.Snapshots = append(mockStore.Snapshots, store.WeeklySnapshot{
		Username:  "alice",
		Timestamp: time.Now().AddDate(0, 0, -1),
	})

	api := newTestAPI(mockStore, fixedScraper(shared.PlatformResult{}))
	api.Cache.Set(cacheKeyWeekly, []int{1})

	if err := api.DeleteStudent("alice"); err != nil {
		t.Fatalf("Expected no error, got: %s", err.Error())
	}

	if _, ok := mockStore.Students["alice"]; ok {
		t.Error("Expected the student record to be gone")
	}
	if len(mockStore.Snapshots) != 0 {
		t.Errorf("Expected snapshots to cascade, got %d left", len(mockStore.Snapshots))
	}
	if _, ok := api.Cache.Get(cacheKeyWeekly); ok {
		t.Error("Expected the weekly cache entry to be invalidated")
	}
}

func TestGetStudent_Missing(t *testing.T) {
	api := newTestAPI(NewMockStoreAPI(), fixedScraper(shared.PlatformResult{}))

	_, err := api.GetStudent("ghost")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("Expected mongo.ErrNoDocuments, got %v", err)
	}
}

// endregion
