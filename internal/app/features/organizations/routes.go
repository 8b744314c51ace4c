// internal/app/features/organizations/routes.go
package organizations

import (
	"github.com/go-chi/chi/v5"

	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

// Routes mounts the organization endpoints. Everything requires a signed-in
// brand or agency user; mutations additionally require an owner or admin
// seat, and client-brand links are agency only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireUserType(models.UserTypeBrand, models.UserTypeAgency))

	r.Get("/", h.HandleGet)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleOwner, models.RoleAdmin))

		pr.Post("/onboarding", h.HandleCompleteOnboarding)
		pr.Post("/members", h.HandleAddMember)
		pr.Delete("/members/{userID}", h.HandleRemoveMember)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireUserType(models.UserTypeAgency))
		pr.Use(sm.RequireRole(models.RoleOwner, models.RoleAdmin))

		pr.Post("/clients", h.HandleAddClientBrand)
	})

	return r
}
