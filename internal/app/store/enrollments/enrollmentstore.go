// internal/app/store/enrollments/enrollmentstore.go
package enrollmentstore

import (
	"context"
	"time"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store wraps the enrollments collection. Search uses it to resolve which
// course ids a learner already owns so those can be excluded from results.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("enrollments")}
}

// Create inserts an enrollment record.
func (s *Store) Create(ctx context.Context, e models.Enrollment) (models.Enrollment, error) {
	e.ID = primitive.NewObjectID()
	if e.Status == "" {
		e.Status = "active"
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Enrollment{}, err
	}
	return e, nil
}

// EnrolledCourseIDs returns the distinct course ids a learner holds active
// enrollments for, across all course sources.
func (s *Store) EnrolledCourseIDs(ctx context.Context, learnerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"learner_id": learnerID, "status": "active"})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Enrollment
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	seen := make(map[primitive.ObjectID]bool, len(rows))
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, e := range rows {
		if !seen[e.CourseID] {
			seen[e.CourseID] = true
			ids = append(ids, e.CourseID)
		}
	}
	return ids, nil
}
