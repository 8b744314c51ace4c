// internal/app/features/authsocial/routes.go
package authsocial

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{provider}", h.HandleStart)
	r.Get("/{provider}/callback", h.HandleCallback)
	return r
}
