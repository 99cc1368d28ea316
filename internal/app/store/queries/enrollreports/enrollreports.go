// internal/app/store/queries/enrollreports/enrollreports.go
package enrollreports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnrollmentStats summarizes the enrollment records of a single course
// broken down by status.
type EnrollmentStats struct {
	Active    int64 `json:"active"`
	Expired   int64 `json:"expired"`
	Cancelled int64 `json:"cancelled"`
	Total     int64 `json:"total"`
}

// CountEnrollmentsPerCourse returns the number of active enrollments for
// each of the given course ids. Courses with no enrollments are absent
// from the returned map.
func CountEnrollmentsPerCourse(ctx context.Context, db *mongo.Database, courseIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	counts := make(map[primitive.ObjectID]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	pipeline := []bson.M{
		{"$match": bson.M{
			"course_id": bson.M{"$in": courseIDs},
			"status":    "active",
		}},
		{"$group": bson.M{
			"_id":   "$course_id",
			"count": bson.M{"$sum": 1},
		}},
	}

	cur, err := db.Collection("enrollments").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int64              `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.ID] = row.Count
	}
	return counts, cur.Err()
}

// CountEnrollmentStats returns the per-status enrollment counts for one
// course. Only enrollments whose learner account still exists are counted,
// so records orphaned by account deletion never inflate the numbers.
func CountEnrollmentStats(ctx context.Context, db *mongo.Database, courseID primitive.ObjectID) (EnrollmentStats, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"course_id": courseID}},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "learner_id",
			"foreignField": "_id",
			"as":           "learner",
		}},
		{"$unwind": "$learner"},
		{"$group": bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}},
	}

	cur, err := db.Collection("enrollments").Aggregate(ctx, pipeline)
	if err != nil {
		return EnrollmentStats{}, err
	}
	defer cur.Close(ctx)

	var stats EnrollmentStats
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return EnrollmentStats{}, err
		}
		switch row.Status {
		case "active":
			stats.Active = row.Count
		case "expired":
			stats.Expired = row.Count
		case "cancelled":
			stats.Cancelled = row.Count
		}
		stats.Total += row.Count
	}
	return stats, cur.Err()
}
