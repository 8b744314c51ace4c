// internal/app/features/password/routes.go
package password

import (
	"github.com/go-chi/chi/v5"

	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
)

// Routes serves the reset flow. Both endpoints are anonymous because the
// caller has lost their password.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Post("/forgot", h.HandleForgot)
	r.Post("/reset", h.HandleReset)
	return r
}

// VerifyEmailRoutes serves the verification flow. Token redemption is
// anonymous so the link in the email works in a fresh browser; code entry
// and resend require the session that requested the code.
func VerifyEmailRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Post("/token", h.HandleVerifyToken)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/", h.HandleVerifyCode)
		pr.Post("/resend", h.HandleResend)
	})

	return r
}
