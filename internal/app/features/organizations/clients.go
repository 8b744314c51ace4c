// internal/app/features/organizations/clients.go
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

type addClientRequest struct {
	BrandOrgID string `json:"brand_org_id"`
}

// HandleAddClientBrand links a brand organization as a client of the caller's
// agency. Linking the same brand twice is a no-op. Only agency organizations
// reach this handler; the route group enforces the account kind.
func (h *Handler) HandleAddClientBrand(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	var req addClientRequest
	if err := apierrors.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode add-client request", err, "invalid request body")
		return
	}
	if req.BrandOrgID == "" {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest,
			"brand_org_id is required")
		return
	}
	if req.BrandOrgID == su.OrganizationID {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest,
			"an agency cannot be its own client")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	brand, err := h.Orgs.Get(ctx, req.BrandOrgID)
	if err != nil {
		if errors.Is(err, organizationstore.ErrNotFound) {
			apierrors.NotFound(w, "brand organization not found")
			return
		}
		h.ErrLog.LogDBError(w, r, "load brand organization", err)
		return
	}
	if brand.Type != models.UserTypeBrand {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest,
			"client organizations must be brands")
		return
	}

	if err := h.Orgs.AddClientBrand(ctx, su.OrganizationID, brand.ID); err != nil {
		if errors.Is(err, organizationstore.ErrNotFound) {
			apierrors.NotFound(w, "agency organization not found")
			return
		}
		h.ErrLog.LogDBError(w, r, "link client brand", err)
		return
	}

	h.AuditLog.ClientBrandLinked(ctx, r, su.ID, su.OrganizationID, brand.ID)
	h.Log.Info("client brand linked",
		zap.String("agency_org_id", su.OrganizationID),
		zap.String("brand_org_id", brand.ID))

	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
