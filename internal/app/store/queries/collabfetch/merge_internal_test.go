// internal/app/store/queries/collabfetch/merge_internal_test.go
package collabfetch

import (
	"reflect"
	"testing"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func hit(title, source string) models.AdaptedCourse {
	return models.AdaptedCourse{
		TypedCourse: models.TypedCourse{ID: primitive.NewObjectID(), Title: title},
		Source:      source,
	}
}

func titles(hits []models.AdaptedCourse) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Title)
	}
	return out
}

func TestCombineUnified(t *testing.T) {
	newSide := &SideResult{Data: []models.AdaptedCourse{hit("A", "live_courses")}}
	legacySide := &SideResult{Data: []models.AdaptedCourse{hit("B", "courses")}}

	got := combine(newSide, legacySide, MergeUnified)
	if !reflect.DeepEqual(titles(got), []string{"A", "B"}) {
		t.Errorf("unified merge = %v, want typed before legacy", titles(got))
	}
}

func TestCombinePrioritizeNew(t *testing.T) {
	newSide := &SideResult{Data: []models.AdaptedCourse{
		hit("Python Basics", "live_courses"),
		hit("Statistics", "free_courses"),
	}}
	legacySide := &SideResult{Data: []models.AdaptedCourse{
		hit("python basics", "courses"), // same title, different case: suppressed
		hit("Watercolor", "courses"),
	}}

	got := combine(newSide, legacySide, MergePrioritizeNew)
	want := []string{"Python Basics", "Statistics", "Watercolor"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Errorf("prioritize_new merge = %v, want %v", titles(got), want)
	}
}

func TestCombinePrioritizeNewDoesNotGateOnSimilarity(t *testing.T) {
	// Only exact (case-insensitive) title matches suppress a legacy record;
	// near-duplicates survive unless dedup is requested separately.
	newSide := &SideResult{Data: []models.AdaptedCourse{hit("Python Basics", "live_courses")}}
	legacySide := &SideResult{Data: []models.AdaptedCourse{hit("Python Basics!", "courses")}}

	got := combine(newSide, legacySide, MergePrioritizeNew)
	if len(got) != 2 {
		t.Errorf("near-duplicate legacy title should survive prioritize_new, got %v", titles(got))
	}
}

func TestCombineOneSidedInputs(t *testing.T) {
	only := &SideResult{Data: []models.AdaptedCourse{hit("Solo", "courses")}}

	if got := combine(nil, only, MergeUnified); len(got) != 1 {
		t.Errorf("legacy-only combine = %v", titles(got))
	}
	if got := combine(only, nil, MergePrioritizeNew); len(got) != 1 {
		t.Errorf("new-only combine = %v", titles(got))
	}
	if got := combine(nil, nil, MergeUnified); got != nil {
		t.Errorf("empty combine = %v, want nil", got)
	}
}

func TestCompareFieldSets(t *testing.T) {
	c := New(nil, zap.NewNop())

	newSide := &SideResult{Data: []models.AdaptedCourse{
		{TypedCourse: models.TypedCourse{
			ID:         primitive.NewObjectID(),
			Title:      "A",
			CourseType: "live",
			AccessType: "unlimited",
		}},
	}}
	legacySide := &SideResult{Data: []models.AdaptedCourse{
		{
			TypedCourse: models.TypedCourse{ID: primitive.NewObjectID(), Title: "B"},
			ClassType:   "Live Courses",
			Legacy:      true,
		},
	}}

	cmp := c.compare(newSide, legacySide, CompareSummary)

	if cmp.Level != CompareSummary {
		t.Errorf("Level = %q", cmp.Level)
	}
	if !contains(cmp.CommonFields, "title") {
		t.Errorf("title should be common, got %v", cmp.CommonFields)
	}
	if !contains(cmp.NewOnlyFields, "access_type") {
		t.Errorf("access_type should be new-only, got %v", cmp.NewOnlyFields)
	}
	if !contains(cmp.LegacyOnly, "class_type") {
		t.Errorf("class_type should be legacy-only, got %v", cmp.LegacyOnly)
	}
	if cmp.NewCoverage != nil {
		t.Error("summary level must not include coverage maps")
	}
}

func TestCompareDetailedCoverage(t *testing.T) {
	c := New(nil, zap.NewNop())

	// Two records, one with a description: coverage 0.5.
	newSide := &SideResult{Data: []models.AdaptedCourse{
		{TypedCourse: models.TypedCourse{ID: primitive.NewObjectID(), Title: "A", Description: "x"}},
		{TypedCourse: models.TypedCourse{ID: primitive.NewObjectID(), Title: "B"}},
	}}

	cmp := c.compare(newSide, nil, CompareDetailed)
	if cmp.NewCoverage == nil {
		t.Fatal("detailed level must include coverage")
	}
	if got := cmp.NewCoverage["description"]; got != 0.5 {
		t.Errorf("description coverage = %v, want 0.5", got)
	}
	if got := cmp.NewCoverage["title"]; got != 1.0 {
		t.Errorf("title coverage = %v, want 1.0", got)
	}
	if len(cmp.LegacyFields) != 0 {
		t.Errorf("missing side should report no fields, got %v", cmp.LegacyFields)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
