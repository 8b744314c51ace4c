// internal/app/features/influencers/routes.go
package influencers

import (
	"github.com/go-chi/chi/v5"

	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

// Routes mounts the influencer endpoints. Self-service routes require an
// influencer session; search and view require a brand or agency session.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireUserType(models.UserTypeInfluencer))

		pr.Get("/me", h.HandleGetOwn)
		pr.Put("/me/profile", h.HandleUpdateProfile)
		pr.Put("/me/social/{platform}", h.HandleSetSocialAccount)
		pr.Put("/me/rate-card", h.HandleUpdateRateCard)
		pr.Post("/me/bio-suggestion", h.HandleSuggestBio)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireUserType(models.UserTypeBrand, models.UserTypeAgency))

		pr.Get("/search", h.HandleSearch)
		pr.Get("/{id}", h.HandleView)
	})

	return r
}
