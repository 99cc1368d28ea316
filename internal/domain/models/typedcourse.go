// internal/domain/models/typedcourse.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Schedule is a loosely structured schedule document. The platform stores
// whatever the scheduling UI produces; this layer only needs to carry it and
// default it to an empty document when adapting legacy records.
type Schedule map[string]interface{}

// TypedCourse is a course under one of the three post-split schemas.
//
// All three typed collections share this shape; CourseType discriminates and
// the variant payload fields are populated per type:
//   - live:    CourseSchedule
//   - blended: DoubtSessionSchedule
//   - free:    AccessType (default "unlimited") and AccessDuration
type TypedCourse struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"`

	Description string `bson:"description,omitempty" json:"description,omitempty"`

	CourseType   string   `bson:"course_type" json:"course_type"`
	Category     string   `bson:"course_category,omitempty" json:"course_category,omitempty"`
	CategoryType string   `bson:"category_type,omitempty" json:"category_type,omitempty"`
	Tags         []string `bson:"tags,omitempty" json:"tags,omitempty"`
	GradeLevel   string   `bson:"grade_level,omitempty" json:"grade_level,omitempty"`

	Status string  `bson:"status" json:"status"`
	Prices []Price `bson:"prices,omitempty" json:"prices,omitempty"`

	Curriculum        Curriculum `bson:"curriculum" json:"curriculum"`
	CurriculumVersion int64      `bson:"curriculum_version" json:"curriculum_version"`

	InstructorID *primitive.ObjectID `bson:"instructor_id,omitempty" json:"instructor_id,omitempty"`

	// Variant payloads. Only the field matching CourseType is meaningful.
	CourseSchedule       Schedule `bson:"course_schedule,omitempty" json:"course_schedule,omitempty"`
	DoubtSessionSchedule Schedule `bson:"doubt_session_schedule,omitempty" json:"doubt_session_schedule,omitempty"`
	AccessType           string   `bson:"access_type,omitempty" json:"access_type,omitempty"`
	AccessDuration       string   `bson:"access_duration,omitempty" json:"access_duration,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// AdaptedCourse is the read-time view of a course in the typed shape.
//
// Typed-source hits use it directly (Legacy=false). Legacy hits are produced
// by classify.Adapt, which shallow-copies the stored document, sets
// CourseType and Legacy=true, and fills variant defaults only where the
// legacy record left them absent. The original class_type label is retained
// so delivery-format display logic still has the raw value.
type AdaptedCourse struct {
	TypedCourse `bson:",inline"`

	ClassType string `bson:"class_type,omitempty" json:"class_type,omitempty"`
	Legacy    bool   `bson:"_legacy" json:"_legacy"`

	// Annotations added during search merge; never persisted.
	Source         string `bson:"-" json:"source,omitempty"`
	DeliveryFormat string `bson:"-" json:"delivery_format,omitempty"`
}
