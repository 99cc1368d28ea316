package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateLegacyCourse inserts a published legacy course with the given title
// and free-text class_type label. Returns the course with its generated ID.
func (f *Fixtures) CreateLegacyCourse(ctx context.Context, title, classType string) models.Course {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Course{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		ClassType: classType,
		Status:    models.StatusPublished,
		Prices:    []models.Price{{Currency: models.DefaultCurrency, IndividualAmount: 49}},
		CreatedAt: now,
	}

	_, err := f.db.Collection(models.LegacyCollection).InsertOne(ctx, c)
	if err != nil {
		f.t.Fatalf("failed to create legacy course: %v", err)
	}
	return c
}

// CreateLegacyCourseWithDetails inserts a published legacy course with
// category, tags, and prices under the caller's control.
func (f *Fixtures) CreateLegacyCourseWithDetails(ctx context.Context, c models.Course) models.Course {
	f.t.Helper()

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.TitleCI == "" {
		c.TitleCI = text.Fold(c.Title)
	}
	if c.Status == "" {
		c.Status = models.StatusPublished
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := f.db.Collection(models.LegacyCollection).InsertOne(ctx, c)
	if err != nil {
		f.t.Fatalf("failed to create legacy course: %v", err)
	}
	return c
}

// CreateTypedCourse inserts a published course in the collection matching
// courseType (live, blended, or free).
func (f *Fixtures) CreateTypedCourse(ctx context.Context, title, courseType string) models.TypedCourse {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.TypedCourse{
		ID:         primitive.NewObjectID(),
		Title:      title,
		TitleCI:    text.Fold(title),
		CourseType: courseType,
		Status:     models.StatusPublished,
		Prices:     []models.Price{{Currency: models.DefaultCurrency, IndividualAmount: 99}},
		CreatedAt:  now,
	}
	if courseType == models.CourseTypeFree {
		c.AccessType = models.AccessTypeUnlimited
		c.Prices = nil
	}

	_, err := f.db.Collection(models.CollectionFor(courseType)).InsertOne(ctx, c)
	if err != nil {
		f.t.Fatalf("failed to create %s course: %v", courseType, err)
	}
	return c
}

// CreateEnrollment inserts an active enrollment linking a learner to a course.
func (f *Fixtures) CreateEnrollment(ctx context.Context, learnerID, courseID primitive.ObjectID, source string) models.Enrollment {
	f.t.Helper()

	e := models.Enrollment{
		ID:           primitive.NewObjectID(),
		LearnerID:    learnerID,
		CourseID:     courseID,
		CourseSource: source,
		Status:       "active",
		EnrolledAt:   time.Now().UTC(),
	}

	_, err := f.db.Collection("enrollments").InsertOne(ctx, e)
	if err != nil {
		f.t.Fatalf("failed to create enrollment: %v", err)
	}
	return e
}

// CreateInstructor inserts a user in the instructor role.
func (f *Fixtures) CreateInstructor(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       "instructor",
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, u)
	if err != nil {
		f.t.Fatalf("failed to create instructor: %v", err)
	}
	return u
}
