// internal/app/features/catalog/handler_test.go
package catalog_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	catalogfeature "github.com/dalemusser/coursehub/internal/app/features/catalog"
	curriculumfeature "github.com/dalemusser/coursehub/internal/app/features/curriculum"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/coursehub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// newRouter builds the /courses router exactly as bootstrap mounts it.
func newRouter(t *testing.T, db *mongo.Database) chi.Router {
	t.Helper()

	logger := zap.NewNop()
	catalogHandler, err := catalogfeature.NewHandler(db, logger, "", nil, "")
	if err != nil {
		t.Fatalf("catalog NewHandler: %v", err)
	}
	curriculumHandler, err := curriculumfeature.NewHandler(db, logger)
	if err != nil {
		t.Fatalf("curriculum NewHandler: %v", err)
	}

	r := chi.NewRouter()
	r.Mount("/courses", catalogfeature.Routes(catalogHandler, curriculumfeature.Routes(curriculumHandler)))
	return r
}

func do(t *testing.T, router chi.Router, req *http.Request) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateLegacyCourse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newRouter(t, db)

	rec := do(t, router, testutil.NewJSONRequest("POST", "/courses/legacy",
		`{"title":"Flat Schema Course","class_type":"Live Courses"}`))

	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"class_type":"Live Courses"`)
	rec.AssertContains(t, `"status":"draft"`)
}

func TestCreateTypedCourse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newRouter(t, db)

	rec := do(t, router, testutil.NewJSONRequest("POST", "/courses/free",
		`{"title":"Free Intro"}`))

	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"course_type":"free"`)
	rec.AssertContains(t, `"access_type":"unlimited"`)
}

func TestCreateUnknownType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newRouter(t, db)

	rec := do(t, router, testutil.NewJSONRequest("POST", "/courses/webinar", `{"title":"X"}`))
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "unknown course type")
}

func TestCreateRejectsBadJSON(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newRouter(t, db)

	rec := do(t, router, testutil.NewJSONRequest("POST", "/courses/legacy", `{"title"`))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestGetCrossGeneration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, db)

	// A legacy record requested under its adapted type still resolves.
	legacy := fx.CreateLegacyCourse(ctx, "Old Live Course", "Live Courses")

	rec := do(t, router, testutil.NewRequest("GET", "/courses/live/"+legacy.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"source":"courses"`)
	rec.AssertContains(t, `"_legacy":true`)
	rec.AssertContains(t, `"delivery_format":"Live"`)
}

func TestGetWithInstructorJoin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, db)

	inst := fx.CreateInstructor(ctx, "Ada Lovelace", "ada@example.com")
	course := fx.CreateLegacyCourseWithDetails(ctx, models.Course{
		Title:        "Numbers",
		InstructorID: &inst.ID,
	})

	rec := do(t, router, testutil.NewRequest("GET", "/courses/legacy/"+course.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"full_name":"Ada Lovelace"`)
}

func TestGetWithEnrollmentStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, db)

	course := fx.CreateLegacyCourse(ctx, "Tracked", "recorded")
	learner := fx.CreateInstructor(ctx, "Learner", "l@example.com")
	fx.CreateEnrollment(ctx, learner.ID, course.ID, models.LegacyCollection)

	rec := do(t, router, testutil.NewRequest("GET",
		"/courses/legacy/"+course.ID.Hex()+"?enrollments=true"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"enrollments":{"active":1`)
}

func TestGetMissingCourse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newRouter(t, db)

	rec := do(t, router, testutil.NewRequest("GET", "/courses/legacy/aaaaaaaaaaaaaaaaaaaaaaaa"))
	rec.AssertStatus(t, http.StatusNotFound)

	rec = do(t, router, testutil.NewRequest("GET", "/courses/legacy/not-hex"))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestUpdateForceLegacy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, db)

	legacy := fx.CreateLegacyCourse(ctx, "Pre-migration", "Live Courses")

	// Addressed under its adapted type, the write would miss the typed
	// collection; force_legacy redirects it. The response is the adapted
	// view of the stored record, same shape as a read.
	rec := do(t, router, testutil.NewJSONRequest("PUT",
		"/courses/live/"+legacy.ID.Hex()+"?force_legacy=true",
		`{"title":"Renamed"}`))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"title":"Renamed"`)
	rec.AssertContains(t, `"_legacy":true`)
	rec.AssertContains(t, `"source":"courses"`)
	rec.AssertContains(t, `"delivery_format":"Live"`)

	got := do(t, router, testutil.NewRequest("GET", "/courses/legacy/"+legacy.ID.Hex()))
	got.AssertContains(t, `"title":"Renamed"`)
}

func TestUpdateTypedReturnsRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, db)

	course := fx.CreateTypedCourse(ctx, "Live Original", models.CourseTypeLive)

	rec := do(t, router, testutil.NewJSONRequest("PUT",
		"/courses/live/"+course.ID.Hex(), `{"title":"Live Renamed"}`))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"title":"Live Renamed"`)
	rec.AssertContains(t, `"course_type":"live"`)
	rec.AssertContains(t, `"source":"live_courses"`)
	rec.AssertContains(t, `"_legacy":false`)
}

func TestDeleteFallsThroughToLegacy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, db)

	legacy := fx.CreateLegacyCourse(ctx, "Doomed", "Live Courses")

	rec := do(t, router, testutil.NewRequest("DELETE", "/courses/live/"+legacy.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"deleted":1`)

	rec = do(t, router, testutil.NewRequest("DELETE", "/courses/live/"+legacy.ID.Hex()))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestListLegacyWithFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, db)

	fx.CreateLegacyCourse(ctx, "Live One", "Live Courses")
	fx.CreateLegacyCourse(ctx, "Recorded One", "recorded")

	rec := do(t, router, testutil.NewRequest("GET", "/courses/legacy?class_type=live"))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Data []models.AdaptedCourse `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	if err := json.NewDecoder(strings.NewReader(rec.Body.String())).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Title != "Live One" {
		t.Fatalf("data = %+v", resp.Data)
	}
	if resp.Meta.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Meta.Total)
	}
}

func TestListTypedWithEnrollmentCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, db)

	course := fx.CreateTypedCourse(ctx, "Counted", models.CourseTypeLive)
	learner := fx.CreateInstructor(ctx, "Learner", "l@example.com")
	fx.CreateEnrollment(ctx, learner.ID, course.ID, models.LiveCollection)

	rec := do(t, router, testutil.NewRequest("GET", "/courses/live?enrollments=true"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"enrollments":{"`+course.ID.Hex()+`":1}`)
}

func TestListWithInstructorJoins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, db)

	inst := fx.CreateInstructor(ctx, "Grace Hopper", "grace@example.com")
	fx.CreateLegacyCourseWithDetails(ctx, models.Course{
		Title:        "Compilers",
		ClassType:    "recorded",
		InstructorID: &inst.ID,
	})
	fx.CreateLegacyCourse(ctx, "Unassigned", "recorded")

	rec := do(t, router, testutil.NewRequest("GET", "/courses/legacy?instructors=true"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"instructors":{"`+inst.ID.Hex()+`"`)
	rec.AssertContains(t, `"full_name":"Grace Hopper"`)

	// Without the flag the join is skipped.
	rec = do(t, router, testutil.NewRequest("GET", "/courses/legacy"))
	rec.AssertStatus(t, http.StatusOK)
	if strings.Contains(rec.Body.String(), `"instructors"`) {
		t.Error("instructor map should be absent when not requested")
	}
}

func TestSearchEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, db)

	fx.CreateLegacyCourseWithDetails(ctx, models.Course{
		Title: "AI Bootcamp", ClassType: "Live Courses", Category: "AI",
	})
	fx.CreateTypedCourse(ctx, "Unrelated Free Course", models.CourseTypeFree)

	rec := do(t, router, testutil.NewRequest("GET",
		"/courses/search?class_type=Live%20Courses&course_category=AI"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"title":"AI Bootcamp"`)
	rec.AssertContains(t, `"class_types":["live"]`)
	rec.AssertContains(t, `"sources"`)

	var resp struct {
		Data []models.AdaptedCourse `json:"data"`
	}
	if err := json.NewDecoder(strings.NewReader(rec.Body.String())).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Errorf("data = %+v, want just the live AI course", resp.Data)
	}
}

func TestSearchFacets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, db)

	fx.CreateLegacyCourseWithDetails(ctx, models.Course{
		Title: "One", ClassType: "Live Courses", Category: "AI",
		Prices: []models.Price{{Currency: "USD", IndividualAmount: 49}},
	})
	fx.CreateLegacyCourseWithDetails(ctx, models.Course{
		Title: "Two", ClassType: "recorded", Category: "Math",
		Prices: []models.Price{{Currency: "USD", IndividualAmount: 149}},
	})

	rec := do(t, router, testutil.NewRequest("GET", "/courses/search?facets=true"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"facet_source":"courses"`)
	rec.AssertContains(t, `"facets"`)
	rec.AssertContains(t, `"price_bounds":{"min":49,"max":149}`)
}

func TestCollaborativeEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, db)

	fx.CreateTypedCourse(ctx, "Typed", models.CourseTypeLive)
	fx.CreateLegacyCourse(ctx, "Legacy", "recorded")

	rec := do(t, router, testutil.NewRequest("GET", "/courses/collaborative"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"merge_strategy":"separate"`)
	rec.AssertContains(t, `"new_count":1`)
	rec.AssertContains(t, `"legacy_count":1`)
}

func TestCollaborativeRejectsBadParams(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newRouter(t, db)

	tests := []struct {
		target string
		want   string
	}{
		{"/courses/collaborative?source=old", "source must be new, legacy, or both"},
		{"/courses/collaborative?merge=overwrite", "merge must be separate, unified, or prioritize_new"},
		{"/courses/collaborative?compare=full", "compare must be none, summary, or detailed"},
		{"/courses/collaborative?dedup_threshold=1.5", "dedup_threshold must be a number in (0, 1]"},
		{"/courses/collaborative?limit=-1", "limit must be a non-negative integer"},
	}
	for _, tt := range tests {
		rec := do(t, router, testutil.NewRequest("GET", tt.target))
		rec.AssertStatus(t, http.StatusBadRequest)
		rec.AssertContains(t, tt.want)
	}
}
