// internal/app/features/userinfo/routes.go
package userinfo

import "github.com/go-chi/chi/v5"

// Routes builds the userinfo router. No auth middleware is mounted because
// the handler itself distinguishes signed-in from anonymous requests.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeMe)
	return r
}
