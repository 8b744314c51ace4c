// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/obakengmog/fyndfluencer/internal/app/provision"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auditlog"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
)

type Handler struct {
	Provision  *provision.Service
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(svc *provision.Service, sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Provision:  svc,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Log:        logger,
	}
}

// HandleLogout handles POST /api/auth/logout.
//
// Clears the session cookie and tells auth-state subscribers the principal is
// gone. Always answers 204, even when the cookie was already dead.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	u, signedIn := auth.CurrentUser(r)

	h.Provision.Logout(r.Context())

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("session sign-out failed", zap.Error(err))
	}

	if signedIn {
		h.AuditLog.Logout(r.Context(), r, u.ID, u.OrganizationID)
		h.Log.Info("user signed out", zap.String("user_id", u.ID))
	}

	w.WriteHeader(http.StatusNoContent)
}
