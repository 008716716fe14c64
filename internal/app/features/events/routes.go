// internal/app/features/events/routes.go
package events

import "github.com/go-chi/chi/v5"

// Routes mounts the event routes.
// Typically: r.Mount("/api/events", events.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/fetchall", h.ServeList)
	r.Get("/view", h.ServeView)
	r.Get("/fetchUpcomingEvents", h.ServeUpcoming)

	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
