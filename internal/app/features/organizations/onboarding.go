// internal/app/features/organizations/onboarding.go
package organizations

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apierrors "github.com/obakengmog/fyndfluencer/internal/app/features/errors"
	organizationstore "github.com/obakengmog/fyndfluencer/internal/app/store/organizations"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/app/system/timeouts"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

// HandleCompleteOnboarding stores the questionnaire payload for the caller's
// organization. The payload is a tagged union: its type must match the
// organization's type, and exactly the matching variant must be populated.
// Completing also marks the caller's own onboarding flag done.
func (h *Handler) HandleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	var ob models.OrganizationOnboarding
	if err := apierrors.DecodeJSON(r, &ob); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode onboarding payload", err, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	org, err := h.Orgs.Get(ctx, su.OrganizationID)
	if err != nil {
		if errors.Is(err, organizationstore.ErrNotFound) {
			apierrors.NotFound(w, "organization not found")
			return
		}
		h.ErrLog.LogDBError(w, r, "load organization", err)
		return
	}
	if ob.Type != org.Type {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest,
			"onboarding type does not match the organization type")
		return
	}

	if err := h.Orgs.CompleteOnboarding(ctx, org.ID, ob); err != nil {
		if errors.Is(err, models.ErrOnboardingTypeMismatch) {
			apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest,
				"onboarding payload does not match its declared type")
			return
		}
		h.ErrLog.LogDBError(w, r, "store onboarding", err)
		return
	}

	if err := h.Users.SetOnboarding(ctx, su.ID, true, 0); err != nil {
		h.Log.Warn("mark user onboarding complete failed",
			zap.String("user_id", su.ID), zap.Error(err))
	}

	h.AuditLog.OnboardingCompleted(ctx, r, su.ID, org.ID, ob.Type)
	h.Log.Info("organization onboarding completed",
		zap.String("org_id", org.ID), zap.String("type", ob.Type))

	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
