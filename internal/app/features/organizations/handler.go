// internal/app/features/organizations/handler.go

// Package organizations serves the tenant-management endpoints for brand and
// agency accounts: the current organization document, onboarding completion,
// team membership, and agency client-brand links.
//
// Every endpoint operates on the caller's own organization, taken from the
// session. There is no cross-tenant access here; admin tooling lives
// elsewhere.
package organizations

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	apierrors "github.com/obakengmog/fyndfluencer/internal/app/features/errors"
	notificationstore "github.com/obakengmog/fyndfluencer/internal/app/store/notifications"
	organizationstore "github.com/obakengmog/fyndfluencer/internal/app/store/organizations"
	userstore "github.com/obakengmog/fyndfluencer/internal/app/store/users"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auditlog"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/app/system/mailer"
	"github.com/obakengmog/fyndfluencer/internal/app/system/timeouts"
)

// Handler is the feature-level entry point for organization management.
type Handler struct {
	Orgs          *organizationstore.Store
	Users         *userstore.Store
	Notifications *notificationstore.Store
	Mail          *mailer.Mailer
	ErrLog        *apierrors.ErrorLogger
	AuditLog      *auditlog.Logger
	Log           *zap.Logger

	SiteName string
	BaseURL  string
}

// NewHandler constructs the organizations handler.
func NewHandler(
	orgs *organizationstore.Store,
	users *userstore.Store,
	notifications *notificationstore.Store,
	mail *mailer.Mailer,
	errLog *apierrors.ErrorLogger,
	audit *auditlog.Logger,
	logger *zap.Logger,
	siteName, baseURL string,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Orgs:          orgs,
		Users:         users,
		Notifications: notifications,
		Mail:          mail,
		ErrLog:        errLog,
		AuditLog:      audit,
		Log:           logger,
		SiteName:      siteName,
		BaseURL:       baseURL,
	}
}

// HandleGet returns the caller's organization document, members included.
// The session middleware guarantees a brand or agency user; a session whose
// organization was deleted answers 404.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)
	if su.OrganizationID == "" {
		apierrors.NotFound(w, "no organization for this account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	org, err := h.Orgs.Get(ctx, su.OrganizationID)
	if err != nil {
		if err == organizationstore.ErrNotFound {
			apierrors.NotFound(w, "organization not found")
			return
		}
		h.ErrLog.LogDBError(w, r, "load organization", err)
		return
	}

	apierrors.WriteJSON(w, http.StatusOK, org)
}
