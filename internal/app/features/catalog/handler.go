// internal/app/features/catalog/handler.go

// Package catalog serves the course catalog API: per-type CRUD, federated
// search across the four backing collections, facet computation, and the
// collaborative dual-source fetch.
package catalog

import (
	"encoding/json"
	"net/http"

	coursestore "github.com/dalemusser/coursehub/internal/app/store/courses"
	"github.com/dalemusser/coursehub/internal/app/store/queries/catalogsearch"
	"github.com/dalemusser/coursehub/internal/app/store/queries/collabfetch"
	typedcoursestore "github.com/dalemusser/coursehub/internal/app/store/typedcourses"
	userstore "github.com/dalemusser/coursehub/internal/app/store/users"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// LegacyTypeParam is the URL segment selecting the legacy collection in
// /courses/{courseType} routes; the other valid segments are the three
// typed course types.
const LegacyTypeParam = "legacy"

// Handler holds dependencies for the catalog endpoints.
type Handler struct {
	DB     *mongo.Database
	Legacy *coursestore.Store
	Typed  map[string]*typedcoursestore.Store
	Engine *catalogsearch.Engine
	Collab *collabfetch.Coordinator
	Users  *userstore.Store

	// LearnerCookie decodes the optional signed learner-identity cookie
	// used for enrolled-course exclusion. Nil when no key is configured.
	LearnerCookie     *securecookie.SecureCookie
	LearnerCookieName string

	// DedupThreshold is the configured default for collaborative-fetch
	// dedup when the request does not supply one. Zero falls back to the
	// engine default.
	DedupThreshold float64

	Log *zap.Logger
}

// NewHandler wires the catalog handler. The typed stores are built here, one
// per typed collection; construction only fails on a programming error.
func NewHandler(db *mongo.Database, logger *zap.Logger, defaultCurrency string, cookie *securecookie.SecureCookie, cookieName string) (*Handler, error) {
	typed := make(map[string]*typedcoursestore.Store, len(models.CourseTypes))
	for _, t := range models.CourseTypes {
		s, err := typedcoursestore.New(db, t)
		if err != nil {
			return nil, err
		}
		typed[t] = s
	}
	return &Handler{
		DB:                db,
		Legacy:            coursestore.New(db),
		Typed:             typed,
		Engine:            catalogsearch.New(db, logger, defaultCurrency),
		Collab:            collabfetch.New(db, logger),
		Users:             userstore.New(db),
		LearnerCookie:     cookie,
		LearnerCookieName: cookieName,
		Log:               logger,
	}, nil
}

// typedStore resolves the {courseType} URL segment to a typed store. The
// second return is false for the legacy segment and for unknown types.
func (h *Handler) typedStore(courseType string) (*typedcoursestore.Store, bool) {
	s, ok := h.Typed[courseType]
	return s, ok
}

// learnerID extracts the learner's hex id from the signed cookie. Missing,
// unsigned, or malformed cookies all resolve to "" (no exclusions).
func (h *Handler) learnerID(r *http.Request) string {
	if h.LearnerCookie == nil || h.LearnerCookieName == "" {
		return ""
	}
	c, err := r.Cookie(h.LearnerCookieName)
	if err != nil {
		return ""
	}
	var id string
	if err := h.LearnerCookie.Decode(h.LearnerCookieName, c.Value, &id); err != nil {
		return ""
	}
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
