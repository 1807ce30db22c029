/* students.go
 * Contains the thin student CRUD passthroughs exposed at the facade boundary so the surfaces
 * never reach into the store for mutations
 */

package api

import (
	"fmt"

	"cptracker/api/shared"
	"cptracker/api/store"
)

// CreateStudent registers a new student record.
// Preconditions: receives the student record with a unique username
// Postconditions: the record is stored, or an error is returned (duplicate usernames rejected)
func (a *API) CreateStudent(student store.Student) error {
	if err := a.Store.CreateStudent(student); err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// GetStudent returns one student's stored record.
// Preconditions: receives the username
// Postconditions: returns the record, or mongo.ErrNoDocuments when it does not exist
func (a *API) GetStudent(username string) (store.Student, error) {
	return a.Store.GetStudentByUsername(username)
}

// UpdateHandles replaces a student's platform accounts and department.
// Preconditions: receives the username and the full replacement account lists
// Postconditions: the profile fields are replaced; accumulated analytics stay untouched
func (a *API) UpdateHandles(username string, mainAccounts, subAccounts []shared.Account, department string) error {
	if err := a.Store.UpdateStudentProfile(username, mainAccounts, subAccounts, department); err != nil {
		return fmt.Errorf("failed to update handles for '%s': %w", username, err)
	}
	return nil
}

// DeleteStudent removes a student, their snapshot history and any cached reads derived from them.
// Preconditions: receives the username
// Postconditions: the record and its snapshots are gone and analytics caches are invalidated, or
// an error is returned and nothing is cached stale
func (a *API) DeleteStudent(username string) error {
	if err := a.Store.DeleteStudent(username); err != nil {
		return err
	}
	a.invalidateAnalyticsCaches()
	return nil
}
