// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is a legacy catalog document under the original, pre-split flat
// schema. It has no type discriminator: ClassType is a free-text label
// ("Live Courses", "recorded", "Blended Learning", ...) that is bucketed at
// read time into one of the three typed shapes.
//
// Legacy documents are never migrated in place. The adapter in
// system/classify produces a typed *view* tagged _legacy=true; the stored
// record keeps its original shape indefinitely.
type Course struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped

	Description string `bson:"description,omitempty" json:"description,omitempty"`

	ClassType    string   `bson:"class_type,omitempty" json:"class_type,omitempty"`
	Category     string   `bson:"course_category,omitempty" json:"course_category,omitempty"`
	CategoryType string   `bson:"category_type,omitempty" json:"category_type,omitempty"`
	Tags         []string `bson:"tags,omitempty" json:"tags,omitempty"`
	GradeLevel   string   `bson:"grade_level,omitempty" json:"grade_level,omitempty"`

	Status string  `bson:"status" json:"status"` // "published", "draft", "archived"
	Prices []Price `bson:"prices,omitempty" json:"prices,omitempty"`

	Curriculum Curriculum `bson:"curriculum" json:"curriculum"`
	// CurriculumVersion guards curriculum writes: saves compare-and-swap on
	// this counter so two concurrent edits cannot silently overwrite.
	CurriculumVersion int64 `bson:"curriculum_version" json:"curriculum_version"`

	InstructorID *primitive.ObjectID `bson:"instructor_id,omitempty" json:"instructor_id,omitempty"`

	// Variant payload fields some legacy documents carry despite the flat
	// schema. The adapter copies these through; defaults apply only where
	// the stored document left them absent.
	CourseSchedule       Schedule `bson:"course_schedule,omitempty" json:"course_schedule,omitempty"`
	DoubtSessionSchedule Schedule `bson:"doubt_session_schedule,omitempty" json:"doubt_session_schedule,omitempty"`
	AccessType           string   `bson:"access_type,omitempty" json:"access_type,omitempty"`
	AccessDuration       string   `bson:"access_duration,omitempty" json:"access_duration,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
