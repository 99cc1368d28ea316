// internal/domain/models/enrollment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment links a learner to a course in one of the four sources.
// Search uses it to auto-exclude courses the learner already owns.
type Enrollment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LearnerID    primitive.ObjectID `bson:"learner_id" json:"learner_id"`
	CourseID     primitive.ObjectID `bson:"course_id" json:"course_id"`
	CourseSource string             `bson:"course_source" json:"course_source"` // collection name
	Status       string             `bson:"status" json:"status"`               // "active", "expired", "cancelled"
	EnrolledAt   time.Time          `bson:"enrolled_at" json:"enrolled_at"`
}
