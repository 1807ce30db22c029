/* leaderboard.go
 * Contains the methods for interacting with the leaderboards collection. Each (scope, platform)
 * pair holds exactly one document that is fully replaced on every computation cycle
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cptracker/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// StoreLeaderboard replaces the cached leaderboard document for its (scope, platform) pair.
// Preconditions: receives the Leaderboard value to be stored with Scope set
// Postconditions: updates the leaderboards collection and returns nil, or an error if it occurs
func (s *Store) StoreLeaderboard(leaderboard Leaderboard) error {
	if leaderboard.Scope == "" {
		return fmt.Errorf("leaderboard scope is empty")
	}
	if leaderboard.Scope == ScopePlatform && leaderboard.Platform == "" {
		return fmt.Errorf("platform leaderboard is missing its platform")
	}

	filter := bson.M{"scope": leaderboard.Scope, "platform": leaderboard.Platform}

	// Attempt to find an existing document
	var existing Leaderboard
	err := s.Collections.Leaderboards.FindOne(context.TODO(), filter).Decode(&existing)
	notFound := errors.Is(err, mongo.ErrNoDocuments)

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing leaderboard failed: %w", err)
	}

	// Perform insert or update
	log.Printf("updating %s/%s leaderboard in db", leaderboard.Scope, leaderboard.Platform)
	if notFound {
		_, err := s.Collections.Leaderboards.InsertOne(context.TODO(), leaderboard)
		if err != nil {
			return fmt.Errorf("leaderboard insert failed: %w", err)
		}
		return nil
	}

	_, err = s.Collections.Leaderboards.UpdateOne(context.TODO(), filter, bson.D{{Key: "$set", Value: leaderboard}})
	if err != nil {
		return fmt.Errorf("leaderboard update failed: %w", err)
	}
	return nil
}

// FetchLeaderboard returns the cached leaderboard for a (scope, platform) pair.
// Preconditions: receives the scope and, for the platform scope, the platform
// Postconditions: returns the Leaderboard, or mongo.ErrNoDocuments when it has never been
// computed, or another error if the lookup fails
func (s *Store) FetchLeaderboard(scope string, platform shared.Platform) (Leaderboard, error) {
	var result Leaderboard
	err := s.Collections.Leaderboards.FindOne(context.TODO(), bson.M{"scope": scope, "platform": platform}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Leaderboard{}, err
		}
		return Leaderboard{}, fmt.Errorf("failed to fetch leaderboard from database: %w", err)
	}
	return result, nil
}
