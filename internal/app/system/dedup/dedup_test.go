// internal/app/system/dedup/dedup_test.go
package dedup_test

import (
	"testing"

	"github.com/dalemusser/coursehub/internal/app/system/dedup"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func course(title string) models.AdaptedCourse {
	return models.AdaptedCourse{
		TypedCourse: models.TypedCourse{ID: primitive.NewObjectID(), Title: title},
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Algebra", "Algebra", 1.0},
		{"Algebra", "ALGEBRA", 1.0}, // case-insensitive
		{"", "", 1.0},
		{"abcd", "wxyz", 0.0},
	}
	for _, tt := range tests {
		if got := dedup.Similarity(tt.a, tt.b); got != tt.want {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}

	// One edit in a ten-char title: (10-1)/10 = 0.9.
	if got := dedup.Similarity("Algebra 101", "Algebra 102"); got < 0.9 {
		t.Errorf("near-identical titles scored %v, want >= 0.9", got)
	}
	// Unrelated titles score low.
	if got := dedup.Similarity("Intro to Python", "Organic Chemistry"); got >= 0.5 {
		t.Errorf("unrelated titles scored %v, want < 0.5", got)
	}
}

func TestRunMergesNearDuplicates(t *testing.T) {
	kept := course("Machine Learning Fundamentals")
	dup := course("Machine Learning Fundamentals!")
	distinct := course("Watercolor Painting")

	res := dedup.Run([]models.AdaptedCourse{kept, dup, distinct}, 0.8)

	if res.UniqueCount != 2 {
		t.Fatalf("UniqueCount = %d, want 2 (unique: %+v)", res.UniqueCount, res.Unique)
	}
	if res.DuplicateCount != 1 {
		t.Fatalf("DuplicateCount = %d, want 1", res.DuplicateCount)
	}
	d := res.Duplicates[0]
	if d.Course.Title != dup.Title {
		t.Errorf("suppressed title = %q, want %q", d.Course.Title, dup.Title)
	}
	if d.MatchedID != kept.ID.Hex() {
		t.Errorf("MatchedID = %q, want the kept record's id %q", d.MatchedID, kept.ID.Hex())
	}
	if d.Score < 0.8 {
		t.Errorf("Score = %v, want >= threshold", d.Score)
	}
}

func TestRunKeepsDissimilarTitles(t *testing.T) {
	a := course("Intro to Go")
	b := course("Advanced Thermodynamics")
	res := dedup.Run([]models.AdaptedCourse{a, b}, 0.8)
	if res.UniqueCount != 2 || res.DuplicateCount != 0 {
		t.Fatalf("got %d unique / %d duplicates, want 2 / 0", res.UniqueCount, res.DuplicateCount)
	}
}

func TestRunPreservesCandidateOrder(t *testing.T) {
	first := course("Course A")
	second := course("Course B")
	third := course("Course C")
	res := dedup.Run([]models.AdaptedCourse{first, second, third}, 0.9)
	want := []string{"Course A", "Course B", "Course C"}
	for i, w := range want {
		if res.Unique[i].Title != w {
			t.Fatalf("Unique[%d].Title = %q, want %q", i, res.Unique[i].Title, w)
		}
	}
}

func TestRunDefaultThreshold(t *testing.T) {
	res := dedup.Run(nil, 0)
	if res.Threshold != dedup.DefaultThreshold {
		t.Errorf("Threshold = %v, want %v", res.Threshold, dedup.DefaultThreshold)
	}
	res = dedup.Run(nil, -1)
	if res.Threshold != dedup.DefaultThreshold {
		t.Errorf("negative threshold should fall back to default, got %v", res.Threshold)
	}
}

func TestRunThresholdBoundary(t *testing.T) {
	// "aaaaaaaaab" vs "aaaaaaaaaa": similarity exactly 0.9.
	a := course("aaaaaaaaaa")
	b := course("aaaaaaaaab")

	atThreshold := dedup.Run([]models.AdaptedCourse{a, b}, 0.9)
	if atThreshold.DuplicateCount != 1 {
		t.Errorf("score equal to threshold should merge, got %d duplicates", atThreshold.DuplicateCount)
	}

	above := dedup.Run([]models.AdaptedCourse{a, b}, 0.95)
	if above.DuplicateCount != 0 {
		t.Errorf("score below threshold should not merge, got %d duplicates", above.DuplicateCount)
	}
}
