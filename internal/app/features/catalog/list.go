// internal/app/features/catalog/list.go
package catalog

import (
	"context"
	"net/http"

	"github.com/dalemusser/coursehub/internal/app/store/queries/catalogsearch"
	"github.com/dalemusser/coursehub/internal/app/store/queries/enrollreports"
	"github.com/dalemusser/coursehub/internal/app/system/classify"
	"github.com/dalemusser/coursehub/internal/app/system/paging"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// listResponse is the paginated per-type listing payload. Enrollments and
// Instructors are populated on request: active-enrollment counts keyed by
// course id (courses with no enrollments omitted) and the instructors the
// page references keyed by user id.
type listResponse struct {
	Data        []models.AdaptedCourse `json:"data"`
	Meta        paging.Meta            `json:"meta"`
	Enrollments map[string]int64       `json:"enrollments,omitempty"`
	Instructors map[string]models.User `json:"instructors,omitempty"`
}

// ServeList handles GET /courses/{courseType}.
//
// It accepts the same filter parameters as federated search but runs against
// the one collection the URL names, so listings and search stay consistent
// in how they interpret filters. Legacy results come back adapted.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	courseType := chi.URLParam(r, "courseType")
	p := paging.Parse(r)
	f := catalogsearch.BuildFilter(rawParamsFrom(r))

	currency := f.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Limit))

	if courseType == LegacyTypeParam {
		h.listLegacy(ctx, w, r, f, currency, p, opts)
		return
	}

	store, ok := h.typedStore(courseType)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown course type: "+courseType)
		return
	}

	filter := catalogsearch.TypedFilter(f, currency)
	rows, err := store.Find(ctx, filter, opts)
	if err != nil {
		h.Log.Error("list typed courses failed",
			zap.String("course_type", courseType), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "listing failed")
		return
	}
	total, err := store.Count(ctx, filter)
	if err != nil {
		h.Log.Warn("count typed courses failed", zap.Error(err))
		total = int64(len(rows))
	}

	data := make([]models.AdaptedCourse, 0, len(rows))
	for _, tc := range rows {
		data = append(data, models.AdaptedCourse{
			TypedCourse: tc,
			Source:      models.CollectionFor(courseType),
		})
	}
	resp := listResponse{Data: data, Meta: paging.MetaFor(p, total)}
	if query.Get(r, "enrollments") == "true" {
		resp.Enrollments = h.enrollmentCounts(ctx, data)
	}
	if query.Get(r, "instructors") == "true" {
		resp.Instructors = h.instructorJoins(ctx, data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// instructorJoins resolves the instructors a page of results references,
// keyed by hex user id. Failures degrade to a nil map.
func (h *Handler) instructorJoins(ctx context.Context, data []models.AdaptedCourse) map[string]models.User {
	seen := map[primitive.ObjectID]bool{}
	ids := make([]primitive.ObjectID, 0, len(data))
	for _, c := range data {
		if c.InstructorID != nil && !seen[*c.InstructorID] {
			seen[*c.InstructorID] = true
			ids = append(ids, *c.InstructorID)
		}
	}
	users, err := h.Users.GetInstructors(ctx, ids)
	if err != nil {
		h.Log.Warn("instructor join failed", zap.Error(err))
		return nil
	}
	if len(users) == 0 {
		return nil
	}
	out := make(map[string]models.User, len(users))
	for id, u := range users {
		out[id.Hex()] = u
	}
	return out
}

// enrollmentCounts resolves active-enrollment counts for a page of results.
// Failures degrade to a nil map so listings never 500 on reporting.
func (h *Handler) enrollmentCounts(ctx context.Context, data []models.AdaptedCourse) map[string]int64 {
	ids := make([]primitive.ObjectID, 0, len(data))
	for _, c := range data {
		ids = append(ids, c.ID)
	}
	counts, err := enrollreports.CountEnrollmentsPerCourse(ctx, h.DB, ids)
	if err != nil {
		h.Log.Warn("enrollment counts failed", zap.Error(err))
		return nil
	}
	out := make(map[string]int64, len(counts))
	for id, n := range counts {
		out[id.Hex()] = n
	}
	return out
}

func (h *Handler) listLegacy(ctx context.Context, w http.ResponseWriter, r *http.Request, f models.SearchFilter, currency string, p paging.Params, opts *options.FindOptions) {
	filter := catalogsearch.LegacyFilter(f, currency)
	rows, err := h.Legacy.Find(ctx, filter, opts)
	if err != nil {
		h.Log.Error("list legacy courses failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "listing failed")
		return
	}
	total, err := h.Legacy.Count(ctx, filter)
	if err != nil {
		h.Log.Warn("count legacy courses failed", zap.Error(err))
		total = int64(len(rows))
	}

	data := make([]models.AdaptedCourse, 0, len(rows))
	for _, c := range rows {
		hit := classify.AdaptAuto(c)
		hit.Source = models.LegacyCollection
		hit.DeliveryFormat = classify.DeliveryFormat(c.ClassType)
		data = append(data, hit)
	}
	resp := listResponse{Data: data, Meta: paging.MetaFor(p, total)}
	if query.Get(r, "enrollments") == "true" {
		resp.Enrollments = h.enrollmentCounts(ctx, data)
	}
	if query.Get(r, "instructors") == "true" {
		resp.Instructors = h.instructorJoins(ctx, data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// rawParamsFrom collects the filter parameters shared by listing and search.
func rawParamsFrom(r *http.Request) catalogsearch.RawParams {
	return catalogsearch.RawParams{
		Term:         query.Get(r, "term"),
		ClassType:    query.Get(r, "class_type"),
		Category:     query.Get(r, "course_category"),
		CategoryType: query.Get(r, "category_type"),
		Tag:          query.Get(r, "tag"),
		GradeLevel:   query.Get(r, "grade_level"),
		CourseType:   query.Get(r, "course_type"),
		Status:       query.Get(r, "status"),
		Currency:     query.Get(r, "currency"),
		PriceRange:   query.Get(r, "price_range"),
		ExcludeIDs:   query.Get(r, "exclude_ids"),
		Sort:         query.Get(r, "sort"),
	}
}
