// internal/domain/models/curriculum.go
package models

import "time"

// Lesson type identifiers. A lesson always carries a LessonType once it has
// passed through the curriculum indexer; missing types are inferred there
// ("video" when a video URL is present, "text" otherwise).
const (
	LessonTypeVideo = "video"
	LessonTypeText  = "text"
)

// Curriculum is the ordered week tree embedded in every course document.
//
// Node ids are positional: they are assigned by a whole-tree re-index that
// runs after every structural mutation, immediately before the tree is
// persisted. Live-class ids are the one exception — once assigned they are
// preserved across re-indexes.
type Curriculum struct {
	Weeks []Week `bson:"weeks" json:"weeks"`
}

// Week is a top-level curriculum node. It may hold direct lessons, sections
// (each with their own lessons), and live classes, in any combination.
type Week struct {
	ID          string      `bson:"id" json:"id"`
	Title       string      `bson:"title" json:"title"`
	Description string      `bson:"description,omitempty" json:"description,omitempty"`
	Lessons     []Lesson    `bson:"lessons,omitempty" json:"lessons,omitempty"`
	Sections    []Section   `bson:"sections,omitempty" json:"sections,omitempty"`
	LiveClasses []LiveClass `bson:"live_classes,omitempty" json:"live_classes,omitempty"`
}

// Section groups lessons inside a week.
type Section struct {
	ID      string   `bson:"id" json:"id"`
	Title   string   `bson:"title" json:"title"`
	Lessons []Lesson `bson:"lessons,omitempty" json:"lessons,omitempty"`
}

// Lesson is a single unit of content, either video or text.
type Lesson struct {
	ID          string     `bson:"id" json:"id"`
	Title       string     `bson:"title" json:"title"`
	LessonType  string     `bson:"lessonType,omitempty" json:"lessonType,omitempty"`
	VideoURL    string     `bson:"video_url,omitempty" json:"video_url,omitempty"`
	TextContent string     `bson:"text_content,omitempty" json:"text_content,omitempty"`
	DurationMin int        `bson:"duration_min,omitempty" json:"duration_min,omitempty"`
	Resources   []Resource `bson:"resources,omitempty" json:"resources,omitempty"`
}

// LiveClass is a scheduled live session attached to a week.
type LiveClass struct {
	ID          string     `bson:"id" json:"id"`
	Title       string     `bson:"title" json:"title"`
	ScheduledAt *time.Time `bson:"scheduled_at,omitempty" json:"scheduled_at,omitempty"`
	MeetingURL  string     `bson:"meeting_url,omitempty" json:"meeting_url,omitempty"`
}

// Resource is supplementary material attached to a lesson.
type Resource struct {
	ID    string `bson:"id" json:"id"`
	Title string `bson:"title" json:"title"`
	URL   string `bson:"url,omitempty" json:"url,omitempty"`
	Kind  string `bson:"kind,omitempty" json:"kind,omitempty"` // e.g. "pdf", "link", "notes"
}
