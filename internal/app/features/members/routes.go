// internal/app/features/members/routes.go
package members

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts all member routes under the path where the caller mounts it.
// Typically: r.Mount("/api/members", members.Routes(handler, uploadcsv.Routes(upload)))
// bulk, when non-nil, is mounted at /bulkupload.
func Routes(h *Handler, bulk http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/fetchall", h.ServeList)
	if bulk != nil {
		r.Mount("/bulkupload", bulk)
	}

	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
