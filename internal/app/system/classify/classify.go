// internal/app/system/classify/classify.go

// Package classify maps legacy free-text class_type labels onto the three
// typed course schemas and produces typed read-time views of legacy
// documents.
//
// Classification is substring-based and deliberately forgiving: the legacy
// collection holds labels like "Live Courses", "Blended Learning",
// "Self Paced / Recorded", and plain typos. Anything that is not clearly
// live or blended falls back to free.
package classify

import (
	"strings"

	"github.com/dalemusser/coursehub/internal/domain/models"
)

// Classify buckets a legacy class_type label into a typed course type.
// "live" substring wins over "blend"; everything else (including self-paced
// and recorded labels, and the empty string) is free.
func Classify(classType string) string {
	label := strings.ToLower(classType)
	switch {
	case strings.Contains(label, "live"):
		return models.CourseTypeLive
	case strings.Contains(label, "blend"):
		return models.CourseTypeBlended
	default:
		return models.CourseTypeFree
	}
}

// Adapt produces the typed view of a legacy course record.
//
// The view is a shallow copy: it shares slices and the curriculum with the
// stored record but is a distinct value, so callers can annotate it freely.
// Variant defaults are filled only where the legacy record left the
// corresponding field absent — populated legacy sub-fields are never
// overwritten. The stored record itself is never mutated.
func Adapt(c models.Course, targetType string) models.AdaptedCourse {
	out := models.AdaptedCourse{
		TypedCourse: models.TypedCourse{
			ID:                c.ID,
			Title:             c.Title,
			TitleCI:           c.TitleCI,
			Description:       c.Description,
			CourseType:        targetType,
			Category:          c.Category,
			CategoryType:      c.CategoryType,
			Tags:              c.Tags,
			GradeLevel:        c.GradeLevel,
			Status:            c.Status,
			Prices:            c.Prices,
			Curriculum:        c.Curriculum,
			CurriculumVersion: c.CurriculumVersion,
			InstructorID:      c.InstructorID,
			CreatedAt:         c.CreatedAt,
			UpdatedAt:         c.UpdatedAt,

			CourseSchedule:       c.CourseSchedule,
			DoubtSessionSchedule: c.DoubtSessionSchedule,
			AccessType:           c.AccessType,
			AccessDuration:       c.AccessDuration,
		},
		ClassType: c.ClassType,
		Legacy:    true,
	}

	switch targetType {
	case models.CourseTypeLive:
		if out.CourseSchedule == nil {
			out.CourseSchedule = models.Schedule{}
		}
	case models.CourseTypeBlended:
		if out.DoubtSessionSchedule == nil {
			out.DoubtSessionSchedule = models.Schedule{}
		}
	case models.CourseTypeFree:
		if out.AccessType == "" {
			out.AccessType = models.AccessTypeUnlimited
		}
	}
	return out
}

// AdaptAuto classifies and adapts in one step.
func AdaptAuto(c models.Course) models.AdaptedCourse {
	return Adapt(c, Classify(c.ClassType))
}

// Delivery-format display labels. These annotate search results and facet
// rows; they are presentation values, not stored ones.
const (
	FormatLive      = "Live"
	FormatBlended   = "Blended"
	FormatSelfPaced = "Self-Paced"
	FormatUnknown   = "Unknown"
)

// DeliveryFormat buckets a class_type label for display. Unlike Classify it
// does not default everything to self-paced: only labels that actually look
// self-paced or recorded get that bucket. An empty label is Unknown, and an
// unrecognizable non-empty label is passed through as-is so odd legacy
// values stay visible in filter UIs instead of vanishing into a bucket.
func DeliveryFormat(classType string) string {
	label := strings.ToLower(strings.TrimSpace(classType))
	switch {
	case label == "":
		return FormatUnknown
	case strings.Contains(label, "live"):
		return FormatLive
	case strings.Contains(label, "blend"):
		return FormatBlended
	case strings.Contains(label, "self"), strings.Contains(label, "record"):
		return FormatSelfPaced
	default:
		return classType
	}
}
