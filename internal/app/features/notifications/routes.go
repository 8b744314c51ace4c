// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/go-chi/chi/v5"

	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
)

// Routes mounts the notification inbox endpoints. All of them require a
// signed-in user of any account kind.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Post("/{id}/read", h.HandleMarkRead)
	r.Post("/read-all", h.HandleMarkAllRead)

	return r
}
