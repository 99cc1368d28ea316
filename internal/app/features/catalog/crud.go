// internal/app/features/catalog/crud.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	coursestore "github.com/dalemusser/coursehub/internal/app/store/courses"
	"github.com/dalemusser/coursehub/internal/app/store/queries/enrollreports"
	typedcoursestore "github.com/dalemusser/coursehub/internal/app/store/typedcourses"
	"github.com/dalemusser/coursehub/internal/app/system/classify"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeCreate handles POST /courses/{courseType}.
//
// The legacy segment accepts the flat document shape; the typed segments
// accept the typed shape and the store pins course_type regardless of what
// the body claims. Duplicate titles return 409.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	courseType := chi.URLParam(r, "courseType")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if courseType == LegacyTypeParam {
		var c models.Course
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := h.Legacy.Create(ctx, c)
		if err != nil {
			h.writeStoreError(w, err, "create legacy course")
			return
		}
		writeJSON(w, http.StatusCreated, created)
		return
	}

	store, ok := h.typedStore(courseType)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown course type: "+courseType)
		return
	}
	var c models.TypedCourse
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := store.Create(ctx, c)
	if err != nil {
		h.writeStoreError(w, err, "create "+courseType+" course")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// getResponse is the single-course payload: the adapted record plus the
// joined instructor, when one is referenced, and enrollment counts when the
// caller asks for them.
type getResponse struct {
	Course      models.AdaptedCourse           `json:"course"`
	Instructor  *models.User                   `json:"instructor,omitempty"`
	Enrollments *enrollreports.EnrollmentStats `json:"enrollments,omitempty"`
}

// ServeGet handles GET /courses/{courseType}/{id}.
//
// The requested collection is tried first; a miss falls through to the
// other generation so ids remain resolvable regardless of which side of
// the migration a record lives on. The response says which source won.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	courseType := chi.URLParam(r, "courseType")
	if _, valid := h.Typed[courseType]; !valid && courseType != LegacyTypeParam {
		writeError(w, http.StatusNotFound, "unknown course type: "+courseType)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	hit, err := h.Engine.GetByIDAcrossSources(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			writeError(w, http.StatusNotFound, "course not found")
			return
		}
		h.Log.Error("get course failed", zap.String("id", id.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	resp := getResponse{Course: hit}
	if hit.InstructorID != nil {
		inst, err := h.Users.GetInstructor(ctx, *hit.InstructorID)
		switch {
		case err == nil:
			resp.Instructor = &inst
		case errors.Is(err, mongo.ErrNoDocuments):
			// dangling reference, course still served
		default:
			h.Log.Warn("instructor join failed",
				zap.String("instructor_id", hit.InstructorID.Hex()), zap.Error(err))
		}
	}
	if query.Get(r, "enrollments") == "true" {
		stats, err := enrollreports.CountEnrollmentStats(ctx, h.DB, id)
		if err != nil {
			h.Log.Warn("enrollment stats failed", zap.String("id", id.Hex()), zap.Error(err))
		} else {
			resp.Enrollments = &stats
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ServeUpdate handles PUT /courses/{courseType}/{id}.
//
// ?force_legacy=true redirects the write to the legacy collection even when
// a typed segment was used, for records that only exist pre-migration.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	courseType := chi.URLParam(r, "courseType")
	forceLegacy := query.Get(r, "force_legacy") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if courseType == LegacyTypeParam || forceLegacy {
		var mut models.Course
		if err := json.NewDecoder(r.Body).Decode(&mut); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := h.Legacy.Update(ctx, id, mut); err != nil {
			h.writeStoreError(w, err, "update legacy course")
			return
		}
		// The caller gets the adapted view of what is now stored, not a
		// bare status, so a force_legacy write round-trips like a read.
		updated, err := h.Legacy.GetByID(ctx, id)
		if err != nil {
			h.writeStoreError(w, err, "reload legacy course")
			return
		}
		hit := classify.AdaptAuto(updated)
		hit.Source = models.LegacyCollection
		hit.DeliveryFormat = classify.DeliveryFormat(updated.ClassType)
		writeJSON(w, http.StatusOK, hit)
		return
	}

	store, okType := h.typedStore(courseType)
	if !okType {
		writeError(w, http.StatusNotFound, "unknown course type: "+courseType)
		return
	}
	var mut models.TypedCourse
	if err := json.NewDecoder(r.Body).Decode(&mut); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := store.Update(ctx, id, mut); err != nil {
		h.writeStoreError(w, err, "update "+courseType+" course")
		return
	}
	updated, err := store.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, err, "reload "+courseType+" course")
		return
	}
	// The store's pinned discriminator names the source, not the URL segment.
	writeJSON(w, http.StatusOK, models.AdaptedCourse{
		TypedCourse: updated,
		Source:      models.CollectionFor(store.CourseType()),
	})
}

// ServeDelete handles DELETE /courses/{courseType}/{id}. A typed delete that
// matches nothing falls through to the legacy collection.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	courseType := chi.URLParam(r, "courseType")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var (
		deleted int64
		err     error
	)
	if courseType == LegacyTypeParam {
		deleted, err = h.Legacy.Delete(ctx, id)
	} else {
		store, okType := h.typedStore(courseType)
		if !okType {
			writeError(w, http.StatusNotFound, "unknown course type: "+courseType)
			return
		}
		deleted, err = store.Delete(ctx, id)
		if err == nil && deleted == 0 {
			deleted, err = h.Legacy.Delete(ctx, id)
		}
	}
	if err != nil {
		h.Log.Error("delete course failed", zap.String("id", id.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	if deleted == 0 {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// pathID parses the {id} URL segment, responding 400 on a malformed id.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id: "+idStr)
		return primitive.NilObjectID, false
	}
	return id, true
}

// writeStoreError maps store errors onto HTTP statuses.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, coursestore.ErrDuplicateTitle), errors.Is(err, typedcoursestore.ErrDuplicateTitle):
		writeError(w, http.StatusConflict, "a course with that title already exists")
	case errors.Is(err, mongo.ErrNoDocuments):
		writeError(w, http.StatusNotFound, "course not found")
	default:
		h.Log.Error(op+" failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, op+" failed")
	}
}
