// internal/app/features/curriculum/handler.go

// Package curriculum serves the week/lesson tree endpoints nested under a
// course. Every mutation follows the same shape: load the tree, apply the
// change, re-index the whole tree, then save with a version check so
// concurrent edits surface as 409s instead of silent overwrites.
package curriculum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	coursestore "github.com/dalemusser/coursehub/internal/app/store/courses"
	typedcoursestore "github.com/dalemusser/coursehub/internal/app/store/typedcourses"
	curidx "github.com/dalemusser/coursehub/internal/app/system/curriculum"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies for the curriculum endpoints.
type Handler struct {
	Legacy *coursestore.Store
	Typed  map[string]*typedcoursestore.Store
	Log    *zap.Logger
}

// NewHandler wires the curriculum handler with one store per collection.
func NewHandler(db *mongo.Database, logger *zap.Logger) (*Handler, error) {
	typed := make(map[string]*typedcoursestore.Store, len(models.CourseTypes))
	for _, t := range models.CourseTypes {
		s, err := typedcoursestore.New(db, t)
		if err != nil {
			return nil, err
		}
		typed[t] = s
	}
	return &Handler{
		Legacy: coursestore.New(db),
		Typed:  typed,
		Log:    logger,
	}, nil
}

// source is one collection's load/save pair for a curriculum tree.
type source struct {
	load func(ctx context.Context, id primitive.ObjectID) (models.Curriculum, int64, error)
	save func(ctx context.Context, id primitive.ObjectID, cur models.Curriculum, version int64) error
}

// sources returns the collections to try for a course-type segment, in
// order. Typed segments fall through to legacy so pre-migration records
// stay editable under their adapted type.
func (h *Handler) sources(courseType string) ([]source, bool) {
	legacy := source{
		load: func(ctx context.Context, id primitive.ObjectID) (models.Curriculum, int64, error) {
			c, err := h.Legacy.GetByID(ctx, id)
			return c.Curriculum, c.CurriculumVersion, err
		},
		save: h.Legacy.SaveCurriculum,
	}
	if courseType == "legacy" {
		return []source{legacy}, true
	}
	store, ok := h.Typed[courseType]
	if !ok {
		return nil, false
	}
	typed := source{
		load: func(ctx context.Context, id primitive.ObjectID) (models.Curriculum, int64, error) {
			c, err := store.GetByID(ctx, id)
			return c.Curriculum, c.CurriculumVersion, err
		},
		save: store.SaveCurriculum,
	}
	return []source{typed, legacy}, true
}

// loadTree finds the course's curriculum in the first collection that has
// it, returning the winning source so the mutation saves to the same place.
func (h *Handler) loadTree(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Curriculum, int64, source, bool) {
	courseType := chi.URLParam(r, "courseType")
	srcs, ok := h.sources(courseType)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown course type: "+courseType)
		return models.Curriculum{}, 0, source{}, false
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return models.Curriculum{}, 0, source{}, false
	}

	for _, src := range srcs {
		cur, version, err := src.load(ctx, id)
		if err == nil {
			return cur, version, src, true
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			h.Log.Error("load curriculum failed", zap.String("id", id.Hex()), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "lookup failed")
			return models.Curriculum{}, 0, source{}, false
		}
	}
	writeError(w, http.StatusNotFound, "course not found")
	return models.Curriculum{}, 0, source{}, false
}

// treeResponse is the payload for reads and for successful mutations.
type treeResponse struct {
	Curriculum models.Curriculum `json:"curriculum"`
	Version    int64             `json:"curriculum_version"`
}

// mutate runs one structural change end to end: load, apply, re-index,
// versioned save. apply returns a user-facing error for invalid input
// (unknown week id, missing title); those come back as the given status.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, failStatus int, apply func(cur *models.Curriculum) error) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cur, version, src, ok := h.loadTree(ctx, w, r)
	if !ok {
		return
	}
	if err := apply(&cur); err != nil {
		writeError(w, failStatus, err.Error())
		return
	}
	curidx.Reindex(&cur)

	id, _ := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err := src.save(ctx, id, cur, version); err != nil {
		switch {
		case errors.Is(err, coursestore.ErrVersionConflict), errors.Is(err, typedcoursestore.ErrVersionConflict):
			writeError(w, http.StatusConflict, "curriculum was modified by another request, reload and retry")
		case errors.Is(err, mongo.ErrNoDocuments):
			writeError(w, http.StatusNotFound, "course not found")
		default:
			h.Log.Error("save curriculum failed", zap.String("id", id.Hex()), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "save failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, treeResponse{Curriculum: cur, Version: version + 1})
}

// ServeGet handles GET /courses/{courseType}/{id}/curriculum.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cur, version, _, ok := h.loadTree(ctx, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, treeResponse{Curriculum: cur, Version: version})
}

// ServeStats handles GET /courses/{courseType}/{id}/curriculum/stats.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cur, _, _, ok := h.loadTree(ctx, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, curidx.Summarize(cur))
}

// weekNotFound builds the not-found error that lists the valid week ids.
func weekNotFound(cur models.Curriculum, weekID string) error {
	return fmt.Errorf("week %q not found (valid week ids: %v)", weekID, curidx.WeekIDs(cur))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
