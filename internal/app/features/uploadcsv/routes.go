// internal/app/features/uploadcsv/routes.go
package uploadcsv

import "github.com/go-chi/chi/v5"

// Routes mounts the bulk import routes.
// Typically: r.Mount("/bulkupload", uploadcsv.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/new", h.HandleUpload)
	r.Post("/new/", h.HandleUpload)
	return r
}
