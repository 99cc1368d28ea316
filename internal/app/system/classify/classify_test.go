// internal/app/system/classify/classify_test.go
package classify_test

import (
	"testing"

	"github.com/dalemusser/coursehub/internal/app/system/classify"
	"github.com/dalemusser/coursehub/internal/domain/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Live Courses", models.CourseTypeLive},
		{"live", models.CourseTypeLive},
		{"LIVE batch 2024", models.CourseTypeLive},
		{"Blended Learning", models.CourseTypeBlended},
		{"blend", models.CourseTypeBlended},
		{"Self Paced / Recorded", models.CourseTypeFree},
		{"recorded", models.CourseTypeFree},
		{"", models.CourseTypeFree},
		{"whatever", models.CourseTypeFree},
		// live wins over blend when both appear
		{"Live + Blended", models.CourseTypeLive},
	}
	for _, tt := range tests {
		if got := classify.Classify(tt.label); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestDeliveryFormat(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Live Courses", classify.FormatLive},
		{"Blended Learning", classify.FormatBlended},
		{"Self Paced", classify.FormatSelfPaced},
		{"recorded", classify.FormatSelfPaced},
		{"", classify.FormatUnknown},
		{"   ", classify.FormatUnknown},
		// unrecognizable non-empty labels pass through unchanged
		{"Workshop Series", "Workshop Series"},
	}
	for _, tt := range tests {
		if got := classify.DeliveryFormat(tt.label); got != tt.want {
			t.Errorf("DeliveryFormat(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestAdaptFillsVariantDefaults(t *testing.T) {
	base := models.Course{Title: "Algebra", ClassType: "Live Courses"}

	live := classify.Adapt(base, models.CourseTypeLive)
	if live.CourseSchedule == nil {
		t.Error("live adaptation should default course_schedule to an empty document")
	}
	if !live.Legacy {
		t.Error("adapted view must be marked legacy")
	}
	if live.CourseType != models.CourseTypeLive {
		t.Errorf("CourseType = %q, want %q", live.CourseType, models.CourseTypeLive)
	}
	if live.ClassType != "Live Courses" {
		t.Errorf("ClassType should be retained, got %q", live.ClassType)
	}

	blended := classify.Adapt(base, models.CourseTypeBlended)
	if blended.DoubtSessionSchedule == nil {
		t.Error("blended adaptation should default doubt_session_schedule")
	}

	free := classify.Adapt(base, models.CourseTypeFree)
	if free.AccessType != models.AccessTypeUnlimited {
		t.Errorf("free adaptation AccessType = %q, want %q", free.AccessType, models.AccessTypeUnlimited)
	}
}

func TestAdaptDoesNotOverwritePopulatedFields(t *testing.T) {
	c := models.Course{Title: "Chemistry", ClassType: "recorded"}

	adapted := classify.Adapt(c, models.CourseTypeFree)
	if adapted.AccessType != models.AccessTypeUnlimited {
		t.Fatalf("expected default access type, got %q", adapted.AccessType)
	}

	// Legacy documents that already carry variant payload fields keep them.
	c = models.Course{
		Title:          "Chemistry",
		ClassType:      "recorded",
		AccessType:     "limited",
		AccessDuration: "90d",
	}
	adapted = classify.Adapt(c, models.CourseTypeFree)
	if adapted.AccessType != "limited" {
		t.Errorf("populated access_type overwritten: got %q, want %q", adapted.AccessType, "limited")
	}
	if adapted.AccessDuration != "90d" {
		t.Errorf("access_duration lost: got %q, want %q", adapted.AccessDuration, "90d")
	}

	sched := models.Schedule{"day": "mon"}
	liveLegacy := models.Course{Title: "Bio", ClassType: "Live Courses", CourseSchedule: sched}
	live := classify.Adapt(liveLegacy, models.CourseTypeLive)
	if got := live.CourseSchedule["day"]; got != "mon" {
		t.Errorf("populated course_schedule overwritten: day = %v, want mon", got)
	}

	// The stored record is never mutated by adaptation.
	if c.Status != "" {
		t.Error("adaptation must not mutate the source record")
	}
}

func TestAdaptAuto(t *testing.T) {
	c := models.Course{Title: "Physics", ClassType: "Blended Learning", Status: models.StatusPublished}
	adapted := classify.AdaptAuto(c)
	if adapted.CourseType != models.CourseTypeBlended {
		t.Errorf("CourseType = %q, want %q", adapted.CourseType, models.CourseTypeBlended)
	}
	if adapted.Title != c.Title || adapted.Status != c.Status {
		t.Error("adapted view should carry over title and status")
	}
}
