/* store.go
 * Contains the store struct and NewStore function. The methods for this package were split into
 * files per concern: students, snapshots and leaderboard. Each of these files contains the
 * methods for interacting with that part of the database
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Students       *mongo.Collection
		Snapshots      *mongo.Collection
		AdminSnapshots *mongo.Collection
		Leaderboards   *mongo.Collection
		Users          *mongo.Collection
	}
}

// NewStore initialises the Store and the db connection.
// Preconditions: receives strings containing dbName and mongoURI
// Postconditions: sets collection values and returns a pointer to the Store object, or an error
// if the connection could not be established
func NewStore(dbName string, mongoURI string) (*Store, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName cannot be empty")
	}

	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	s := &Store{
		Client:   client,
		Database: db,
	}
	s.Collections.Students = db.Collection("students")
	s.Collections.Snapshots = db.Collection("weekly_snapshots")
	s.Collections.AdminSnapshots = db.Collection("admin_weekly_snapshots")
	s.Collections.Leaderboards = db.Collection("leaderboards")
	s.Collections.Users = db.Collection("users")

	return s, nil
}
