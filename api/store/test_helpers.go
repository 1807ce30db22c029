/* test_helpers.go
 * Contains test helper functions for store package tests
 */

package store

import (
	"context"
)

// NewMockStore creates a Store instance for testing purposes.
// This can be used with a real test database or in-memory MongoDB.
func NewMockStore(dbName string, mongoURI string) (*Store, error) {
	return NewStore(dbName, mongoURI)
}

// CreateTestStore creates a Store connected to a test database.
// Returns the store and a cleanup function.
func CreateTestStore(mongoURI string) (*Store, func(), error) {
	store, err := NewMockStore("test_cptracker", mongoURI)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if store.Client != nil {
			// Drop test database
			store.Database.Drop(context.TODO())
			// Disconnect client
			store.Client.Disconnect(context.TODO())
		}
	}

	return store, cleanup, nil
}
