/* students.go
 * Contains the methods for interacting with the students collection, plus the active-usernames
 * lookup against the users collection used for orphan filtering
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cptracker/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateStudent inserts a new student record.
// Preconditions: receives a Student with a unique username and at least one platform account
// Postconditions: inserts the record and returns nil, or an error if the username is taken or
// the record is invalid
func (s *Store) CreateStudent(student Student) error {
	if student.Username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(student.MainAccounts)+len(student.SubAccounts) == 0 {
		return fmt.Errorf("at least one platform account is required")
	}
	if len(student.SubAccounts) > shared.MaxSubAccounts {
		return fmt.Errorf("at most %d sub accounts are allowed", shared.MaxSubAccounts)
	}

	// Reject duplicates up front so the caller gets a clear message
	var existing Student
	err := s.Collections.Students.FindOne(context.TODO(), bson.M{"username": student.Username}).Decode(&existing)
	if err == nil {
		return fmt.Errorf("username '%s' is already taken", student.Username)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("lookup for existing student failed: %w", err)
	}

	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now()
	}
	if student.Problems.PlatformStats == nil {
		student.Problems.PlatformStats = map[shared.Platform]int{}
	}
	if student.Contests == nil {
		student.Contests = shared.ContestStats{}
	}

	_, err = s.Collections.Students.InsertOne(context.TODO(), student)
	if err != nil {
		return fmt.Errorf("failed to insert new student: %w", err)
	}
	return nil
}

// GetStudentByUsername does a DB lookup and gets the student record for a username.
// Preconditions: receives the username
// Postconditions: returns the student if it exists, or an error if it occurs
func (s *Store) GetStudentByUsername(username string) (Student, error) {
	var result Student
	err := s.Collections.Students.FindOne(context.TODO(), bson.M{"username": username}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Student{}, err
		}
		return Student{}, fmt.Errorf("error fetching student from db: %w", err)
	}
	return result, nil
}

// GetAllStudents gets every student record. Used by the snapshot engine, the scoring engine and
// the leaderboard materializer.
// Preconditions: none
// Postconditions: returns a slice of Students or an error if it occurs
func (s *Store) GetAllStudents() ([]Student, error) {
	cursor, err := s.Collections.Students.Find(context.TODO(), bson.D{})
	if err != nil {
		return nil, fmt.Errorf("error fetching students from db: %w", err)
	}

	var results []Student
	if err = cursor.All(context.TODO(), &results); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of students: %w", err)
	}
	return results, nil
}

// GetStudentsByDepartment gets every student record in one department.
// Preconditions: receives the department name
// Postconditions: returns a slice of Students or an error if it occurs
func (s *Store) GetStudentsByDepartment(department string) ([]Student, error) {
	cursor, err := s.Collections.Students.Find(context.TODO(), bson.D{{Key: "department", Value: department}})
	if err != nil {
		return nil, fmt.Errorf("error fetching students from db: %w", err)
	}

	var results []Student
	if err = cursor.All(context.TODO(), &results); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of students: %w", err)
	}
	return results, nil
}

// UpdateStudentAnalytics writes already-merged analytics onto a student record. Callers are
// expected to have applied the non-regression merge (logic.MergeProblemStats and friends) to the
// stored values first; this method just persists the result and stamps last_scraped_at.
// Preconditions: receives the username and the merged problems, contests and badges
// Postconditions: updates the record and returns nil, or an error if it occurs
func (s *Store) UpdateStudentAnalytics(username string, problems shared.ProblemStats, contests shared.ContestStats, badges []shared.Badge, scrapedAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"problem_stats":   problems,
			"contest_stats":   contests,
			"badges":          badges,
			"last_scraped_at": scrapedAt,
		},
	}

	result, err := s.Collections.Students.UpdateOne(context.TODO(), bson.M{"username": username}, update)
	if err != nil {
		return fmt.Errorf("failed to update student analytics: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateStudentProfile updates the editable profile fields of a student record.
// Preconditions: receives the username and the new accounts/department values
// Postconditions: updates the record and returns nil, or an error if it occurs
func (s *Store) UpdateStudentProfile(username string, mainAccounts, subAccounts []shared.Account, department string) error {
	if len(subAccounts) > shared.MaxSubAccounts {
		return fmt.Errorf("at most %d sub accounts are allowed", shared.MaxSubAccounts)
	}

	update := bson.M{
		"$set": bson.M{
			"main_accounts": mainAccounts,
			"sub_accounts":  subAccounts,
			"department":    department,
		},
	}

	result, err := s.Collections.Students.UpdateOne(context.TODO(), bson.M{"username": username}, update)
	if err != nil {
		return fmt.Errorf("failed to update student profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteStudent removes a student record and cascades to its snapshots. Leaderboard caches are
// not touched here; the next materializer run drops the orphaned entries.
// Preconditions: receives the username
// Postconditions: deletes the student and its snapshots, or returns an error if it occurs
func (s *Store) DeleteStudent(username string) error {
	var student Student
	err := s.Collections.Students.FindOne(context.TODO(), bson.M{"username": username}).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
		return fmt.Errorf("lookup for student failed: %w", err)
	}

	_, err = s.Collections.Students.DeleteOne(context.TODO(), bson.M{"username": username})
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	_, err = s.Collections.Snapshots.DeleteMany(context.TODO(), bson.M{"student_id": student.ID})
	if err != nil {
		return fmt.Errorf("failed to delete student snapshots: %w", err)
	}
	return nil
}

// GetActiveUsernames returns the set of usernames that still have an active user account.
// Preconditions: none
// Postconditions: returns the username set, or an error if it occurs
func (s *Store) GetActiveUsernames() (map[string]bool, error) {
	cursor, err := s.Collections.Users.Find(context.TODO(), bson.D{{Key: "active", Value: true}})
	if err != nil {
		return nil, fmt.Errorf("error fetching users from db: %w", err)
	}

	var users []User
	if err = cursor.All(context.TODO(), &users); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of users: %w", err)
	}

	active := make(map[string]bool, len(users))
	for _, user := range users {
		active[user.Username] = true
	}
	return active, nil
}
