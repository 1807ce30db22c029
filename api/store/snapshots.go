/* snapshots.go
 * Contains the methods for interacting with the weekly_snapshots and admin_weekly_snapshots
 * collections: inserting captures, the baseline lookup with its widening window, and the
 * retention prune
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Baseline lookup windows. Captures do not always land on the same time of
// day, so the search starts tight and widens to a full extra day.
const (
	baselineTightWindow = 12 * time.Hour
	baselineWideWindow  = 36 * time.Hour
)

// InsertSnapshot writes one immutable point-in-time capture.
// Preconditions: receives a populated WeeklySnapshot
// Postconditions: inserts the snapshot and returns nil, or an error if it occurs
func (s *Store) InsertSnapshot(snapshot WeeklySnapshot) error {
	if snapshot.StudentID.IsZero() {
		return fmt.Errorf("snapshot is missing its student id")
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now()
	}

	_, err := s.Collections.Snapshots.InsertOne(context.TODO(), snapshot)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// GetBaselineSnapshot finds the snapshot closest to now minus daysAgo for a student. A tight
// same-day window is searched first, then a ±1 day window. Missing history is a normal state,
// not an error: the scoring engine treats a nil result as "cannot be scored yet".
// Preconditions: receives the student's username and the lookback in days
// Postconditions: returns a pointer to the closest snapshot, or nil when none exists in range,
// or an error for real db failures
func (s *Store) GetBaselineSnapshot(username string, daysAgo int) (*WeeklySnapshot, error) {
	target := time.Now().AddDate(0, 0, -daysAgo)

	for _, window := range []time.Duration{baselineTightWindow, baselineWideWindow} {
		snapshot, err := s.closestSnapshot(username, target, window)
		if err != nil {
			return nil, err
		}
		if snapshot != nil {
			return snapshot, nil
		}
	}
	return nil, nil
}

// closestSnapshot finds the snapshot for a student nearest to target inside ±window.
func (s *Store) closestSnapshot(username string, target time.Time, window time.Duration) (*WeeklySnapshot, error) {
	filter := bson.M{
		"username": username,
		"timestamp": bson.M{
			"$gte": target.Add(-window),
			"$lte": target.Add(window),
		},
	}

	cursor, err := s.Collections.Snapshots.Find(context.TODO(), filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching snapshots from db: %w", err)
	}

	var candidates []WeeklySnapshot
	if err = cursor.All(context.TODO(), &candidates); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of snapshots: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	best := candidates[0]
	bestDistance := absDuration(best.Timestamp.Sub(target))
	for _, candidate := range candidates[1:] {
		distance := absDuration(candidate.Timestamp.Sub(target))
		if distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}
	return &best, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// PruneSnapshots deletes scoring snapshots older than the retention period.
// Preconditions: receives the current time
// Postconditions: returns the number of snapshots removed, or an error if it occurs
func (s *Store) PruneSnapshots(now time.Time) (int64, error) {
	cutoff := now.Add(-SnapshotRetention)
	result, err := s.Collections.Snapshots.DeleteMany(context.TODO(), bson.M{
		"timestamp": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return result.DeletedCount, nil
}

// StoreAdminSnapshot inserts or replaces the cohort report for a week. Keyed by
// (week_start, week_end) so regenerating a report replaces the stale one.
// Preconditions: receives a populated AdminWeeklySnapshot
// Postconditions: upserts the document and returns nil, or an error if it occurs
func (s *Store) StoreAdminSnapshot(snapshot AdminWeeklySnapshot) error {
	filter := bson.M{
		"week_start": snapshot.WeekStart,
		"week_end":   snapshot.WeekEnd,
	}

	var existing AdminWeeklySnapshot
	err := s.Collections.AdminSnapshots.FindOne(context.TODO(), filter).Decode(&existing)
	notFound := errors.Is(err, mongo.ErrNoDocuments)

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing admin snapshot failed: %w", err)
	}

	if notFound {
		_, err := s.Collections.AdminSnapshots.InsertOne(context.TODO(), snapshot)
		if err != nil {
			return fmt.Errorf("admin snapshot insert failed: %w", err)
		}
		return nil
	}

	_, err = s.Collections.AdminSnapshots.UpdateOne(context.TODO(), filter, bson.D{{Key: "$set", Value: snapshot}})
	if err != nil {
		return fmt.Errorf("admin snapshot update failed: %w", err)
	}
	return nil
}

// GetLatestAdminSnapshot returns the most recently generated cohort report.
// Preconditions: none
// Postconditions: returns the report, or mongo.ErrNoDocuments when none has been generated yet
func (s *Store) GetLatestAdminSnapshot() (AdminWeeklySnapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "generated_at", Value: -1}})

	var result AdminWeeklySnapshot
	err := s.Collections.AdminSnapshots.FindOne(context.TODO(), bson.D{}, opts).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return AdminWeeklySnapshot{}, err
		}
		return AdminWeeklySnapshot{}, fmt.Errorf("error fetching admin snapshot from db: %w", err)
	}
	return result, nil
}
