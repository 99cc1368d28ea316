// internal/app/features/curriculum/routes.go
package curriculum

import "github.com/go-chi/chi/v5"

// Routes returns the curriculum subrouter, mounted beneath
// /courses/{courseType}/{id}/curriculum.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeGet)
	r.Get("/stats", h.ServeStats)

	r.Put("/weeks:reorder", h.ServeReorderWeeks)
	r.Route("/weeks", func(r chi.Router) {
		r.Post("/", h.ServeAddWeek)
		r.Route("/{weekID}", func(r chi.Router) {
			r.Get("/", h.ServeGetWeek)
			r.Put("/", h.ServeUpdateWeek)
			r.Delete("/", h.ServeDeleteWeek)
			r.Post("/lessons", h.ServeAddLesson)
			r.Post("/video-lessons", h.ServeAddVideoLesson)
			r.Post("/sections", h.ServeAddSection)
			r.Post("/live-classes", h.ServeAddLiveClass)
		})
	})

	return r
}
