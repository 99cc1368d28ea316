// internal/app/features/catalog/routes.go
package catalog

import (
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes returns the catalog subrouter, mounted under /courses. The
// curriculum router is mounted beneath each course so week and lesson
// endpoints share the {courseType}/{id} context.
func Routes(h *Handler, curriculum chi.Router) chi.Router {
	r := chi.NewRouter()

	// Search and collaborative fetch fan out across every course
	// collection, so they carry a per-IP limiter the CRUD routes don't.
	limiter := ratelimit.New(60, time.Minute)

	// literal segments first so they never collide with {courseType}
	r.With(limiter.Middleware).Get("/search", h.ServeSearch)
	r.With(limiter.Middleware).Get("/collaborative", h.ServeCollaborative)

	r.Route("/{courseType}", func(r chi.Router) {
		r.Get("/", h.ServeList)
		r.Post("/", h.ServeCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.ServeGet)
			r.Put("/", h.ServeUpdate)
			r.Delete("/", h.ServeDelete)
			r.Mount("/curriculum", curriculum)
		})
	})

	return r
}
