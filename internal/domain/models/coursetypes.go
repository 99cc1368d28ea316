// internal/domain/models/coursetypes.go
package models

// Canonical course type identifiers.
//
// These are the three typed schemas the catalog was split into. Legacy
// documents carry no discriminator; they are classified at read time from
// their free-text class_type label (see system/classify).
const (
	CourseTypeLive    = "live"
	CourseTypeBlended = "blended"
	CourseTypeFree    = "free"
)

// CourseTypes is the full set of valid typed-course identifiers.
var CourseTypes = []string{
	CourseTypeLive,
	CourseTypeBlended,
	CourseTypeFree,
}

// Collection names for the four logical course sources.
const (
	LegacyCollection  = "courses"
	LiveCollection    = "live_courses"
	BlendedCollection = "blended_courses"
	FreeCollection    = "free_courses"
)

// CollectionFor maps a course type to its backing collection name.
// Returns "" for an unrecognized type.
func CollectionFor(courseType string) string {
	switch courseType {
	case CourseTypeLive:
		return LiveCollection
	case CourseTypeBlended:
		return BlendedCollection
	case CourseTypeFree:
		return FreeCollection
	default:
		return ""
	}
}

// IsValidCourseType reports whether t names one of the three typed schemas.
func IsValidCourseType(t string) bool {
	return CollectionFor(t) != ""
}

// Course status values. Search and currency-fallback counting only consider
// published documents.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusArchived  = "archived"
)

// AccessTypeUnlimited is the default access_type for free courses.
const AccessTypeUnlimited = "unlimited"
