// internal/app/store/queries/enrollreports/enrollreports_test.go
package enrollreports_test

import (
	"testing"

	"github.com/dalemusser/coursehub/internal/app/store/queries/enrollreports"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/coursehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCountEnrollmentsPerCourse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	popular := fx.CreateLegacyCourse(ctx, "Popular", "recorded")
	quiet := fx.CreateLegacyCourse(ctx, "Quiet", "recorded")

	for i := 0; i < 3; i++ {
		fx.CreateEnrollment(ctx, primitive.NewObjectID(), popular.ID, models.LegacyCollection)
	}

	counts, err := enrollreports.CountEnrollmentsPerCourse(ctx, db,
		[]primitive.ObjectID{popular.ID, quiet.ID})
	if err != nil {
		t.Fatalf("CountEnrollmentsPerCourse: %v", err)
	}
	if counts[popular.ID] != 3 {
		t.Errorf("popular count = %d, want 3", counts[popular.ID])
	}
	if _, present := counts[quiet.ID]; present {
		t.Error("courses with no enrollments should be absent from the map")
	}
}

func TestCountEnrollmentsPerCourseEmptyInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	counts, err := enrollreports.CountEnrollmentsPerCourse(ctx, db, nil)
	if err != nil {
		t.Fatalf("CountEnrollmentsPerCourse: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("counts = %v, want empty", counts)
	}
}

func TestCountEnrollmentsPerCourseOnlyActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	course := fx.CreateLegacyCourse(ctx, "Course", "recorded")
	fx.CreateEnrollment(ctx, primitive.NewObjectID(), course.ID, models.LegacyCollection)

	cancelled := fx.CreateEnrollment(ctx, primitive.NewObjectID(), course.ID, models.LegacyCollection)
	_, err := db.Collection("enrollments").UpdateByID(ctx, cancelled.ID,
		bson.M{"$set": bson.M{"status": "cancelled"}})
	if err != nil {
		t.Fatalf("update enrollment: %v", err)
	}

	counts, err := enrollreports.CountEnrollmentsPerCourse(ctx, db, []primitive.ObjectID{course.ID})
	if err != nil {
		t.Fatalf("CountEnrollmentsPerCourse: %v", err)
	}
	if counts[course.ID] != 1 {
		t.Errorf("count = %d, want only the active enrollment", counts[course.ID])
	}
}

func TestCountEnrollmentStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	course := fx.CreateLegacyCourse(ctx, "Course", "recorded")

	// Two active learners with accounts, one expired, one orphaned record
	// whose learner no longer exists.
	for i := 0; i < 2; i++ {
		u := fx.CreateInstructor(ctx, "Learner", "learner@example.com")
		fx.CreateEnrollment(ctx, u.ID, course.ID, models.LegacyCollection)
	}
	expiredUser := fx.CreateInstructor(ctx, "Expired", "expired@example.com")
	expired := fx.CreateEnrollment(ctx, expiredUser.ID, course.ID, models.LegacyCollection)
	if _, err := db.Collection("enrollments").UpdateByID(ctx, expired.ID,
		bson.M{"$set": bson.M{"status": "expired"}}); err != nil {
		t.Fatalf("update enrollment: %v", err)
	}
	fx.CreateEnrollment(ctx, primitive.NewObjectID(), course.ID, models.LegacyCollection)

	stats, err := enrollreports.CountEnrollmentStats(ctx, db, course.ID)
	if err != nil {
		t.Fatalf("CountEnrollmentStats: %v", err)
	}
	if stats.Active != 2 {
		t.Errorf("Active = %d, want 2", stats.Active)
	}
	if stats.Expired != 1 {
		t.Errorf("Expired = %d, want 1", stats.Expired)
	}
	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3 (orphaned enrollment excluded)", stats.Total)
	}
}
