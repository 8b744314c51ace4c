// internal/app/features/organizations/members.go
package organizations

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apierrors "github.com/obakengmog/fyndfluencer/internal/app/features/errors"
	organizationstore "github.com/obakengmog/fyndfluencer/internal/app/store/organizations"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/app/system/authutil"
	"github.com/obakengmog/fyndfluencer/internal/app/system/mailer"
	"github.com/obakengmog/fyndfluencer/internal/app/system/normalize"
	"github.com/obakengmog/fyndfluencer/internal/app/system/timeouts"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

type addMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// HandleAddMember adds a registered user to the caller's organization by
// email. The invitee must hold a brand or agency account matching the
// organization's type; influencers cannot take seats. The invitee gets an
// in-app notification and an invite email.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	var req addMemberRequest
	if err := apierrors.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode add-member request", err, "invalid request body")
		return
	}
	req.Email = normalize.Email(req.Email)
	req.Role = normalize.Role(req.Role)

	if !authutil.ValidEmail(req.Email) {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest,
			"a valid email address is required")
		return
	}
	if req.Role == models.RoleOwner || !models.IsValidRole(req.Role) {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest,
			`role must be "admin", "member" or "viewer"`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	invitee, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		h.ErrLog.LogDBError(w, r, "look up invitee", err)
		return
	}
	if invitee == nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.CodeAccountNotFound,
			"no account exists for this email")
		return
	}
	if invitee.UserType == models.UserTypeInfluencer {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeWrongAccountKind,
			"influencer accounts cannot join an organization team")
		return
	}
	if invitee.OrganizationID != "" && invitee.OrganizationID != su.OrganizationID {
		apierrors.WriteError(w, http.StatusConflict, apierrors.CodeConflict,
			"this account already belongs to another organization")
		return
	}

	member := models.OrganizationMember{
		UserID:      invitee.ID,
		Email:       invitee.Email,
		DisplayName: invitee.DisplayName,
		Role:        req.Role,
		JoinedAt:    time.Now().UTC(),
		InvitedBy:   su.ID,
	}
	if err := h.Orgs.AddMember(ctx, su.OrganizationID, member); err != nil {
		switch {
		case errors.Is(err, organizationstore.ErrMemberExists):
			apierrors.WriteError(w, http.StatusConflict, apierrors.CodeConflict,
				"this account is already a member")
		case errors.Is(err, organizationstore.ErrNotFound):
			apierrors.NotFound(w, "organization not found")
		default:
			h.ErrLog.LogDBError(w, r, "add member", err)
		}
		return
	}

	if err := h.Users.SetOrganization(ctx, invitee.ID, su.OrganizationID, req.Role); err != nil {
		h.Log.Warn("link member to organization failed",
			zap.String("user_id", invitee.ID), zap.Error(err))
	}

	h.notifyInvitee(ctx, su, invitee)

	h.AuditLog.MemberInvited(ctx, r, su.ID, su.OrganizationID, invitee.Email, req.Role)
	h.AuditLog.MemberAdded(ctx, r, su.ID, su.OrganizationID, invitee.ID, req.Role)
	h.Log.Info("organization member added",
		zap.String("org_id", su.OrganizationID),
		zap.String("user_id", invitee.ID),
		zap.String("role", req.Role))

	apierrors.WriteJSON(w, http.StatusCreated, member)
}

// notifyInvitee writes the in-app notification and sends the invite email.
// Both are best effort; the membership write already succeeded.
func (h *Handler) notifyInvitee(ctx context.Context, su *auth.SessionUser, invitee *models.User) {
	org, err := h.Orgs.Get(ctx, su.OrganizationID)
	if err != nil {
		h.Log.Warn("load organization for invite notification failed",
			zap.String("org_id", su.OrganizationID), zap.Error(err))
		return
	}

	if _, err := h.Notifications.Create(ctx, models.Notification{
		ID:     uuid.NewString(),
		UserID: invitee.ID,
		Type:   models.NotificationTeamInvite,
		Title:  "You joined " + org.Name,
		Body:   su.Name + " added you to the " + org.Name + " team.",
		Data: map[string]any{
			"org_id":     org.ID,
			"invited_by": su.ID,
		},
	}); err != nil {
		h.Log.Warn("create invite notification failed",
			zap.String("user_id", invitee.ID), zap.Error(err))
	}

	email := mailer.BuildTeamInviteEmail(mailer.TeamInviteEmailData{
		SiteName:    h.SiteName,
		InviterName: su.Name,
		OrgName:     org.Name,
		AcceptLink:  h.BaseURL + "/org/team",
	})
	email.To = invitee.Email
	if err := h.Mail.Send(email); err != nil {
		h.Log.Warn("send invite email failed",
			zap.String("email", invitee.Email), zap.Error(err))
	}
}

// HandleRemoveMember removes a seat from the caller's organization. The owner
// seat cannot be removed.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest,
			"member id is required")
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
	if userID == org.OwnerID {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest,
			"the owner cannot be removed")
		return
	}

	if err := h.Orgs.RemoveMember(ctx, org.ID, userID); err != nil {
		if errors.Is(err, organizationstore.ErrNotFound) {
			apierrors.NotFound(w, "organization not found")
			return
		}
		h.ErrLog.LogDBError(w, r, "remove member", err)
		return
	}

	if err := h.Users.SetOrganization(ctx, userID, "", ""); err != nil {
		h.Log.Warn("unlink removed member failed",
			zap.String("user_id", userID), zap.Error(err))
	}

	h.AuditLog.MemberRemoved(ctx, r, su.ID, org.ID, userID)
	h.Log.Info("organization member removed",
		zap.String("org_id", org.ID), zap.String("user_id", userID))

	w.WriteHeader(http.StatusNoContent)
}
