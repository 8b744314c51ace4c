// internal/app/features/register/handler.go

// Package register serves corporate account registration for brands and
// agencies. Influencers never register here; they arrive through the social
// sign-in flow.
package register

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	apierrors "github.com/obakengmog/fyndfluencer/internal/app/features/errors"
	"github.com/obakengmog/fyndfluencer/internal/app/provision"
	loginstore "github.com/obakengmog/fyndfluencer/internal/app/store/logins"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auditlog"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/app/system/authutil"
	"github.com/obakengmog/fyndfluencer/internal/app/system/timeouts"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

type Handler struct {
	Provision  *provision.Service
	SessionMgr *auth.SessionManager
	ErrLog     *apierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Logins     *loginstore.Store
	Log        *zap.Logger
}

func NewHandler(
	svc *provision.Service,
	sessionMgr *auth.SessionManager,
	errLog *apierrors.ErrorLogger,
	audit *auditlog.Logger,
	logins *loginstore.Store,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Provision:  svc,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Logins:     logins,
		Log:        logger,
	}
}

type registerRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	DisplayName      string `json:"display_name"`
	UserType         string `json:"user_type"` // brand | agency
	OrganizationName string `json:"organization_name"`
	Website          string `json:"website,omitempty"`
	Industry         string `json:"industry,omitempty"`
}

type registerResponse struct {
	User           *models.User `json:"user"`
	OrganizationID string       `json:"organization_id"`
}

// HandleRegister handles POST /api/auth/register.
//
// Creates the password credential, the organization, and the owner's user
// document, then signs the new owner in. 409 when the email already has a
// credential.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := apierrors.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode register payload failed", err, "Invalid request body.")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !authutil.ValidEmail(req.Email) {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest, "A valid email address is required.")
		return
	}
	if err := authutil.ValidatePassword(req.Password); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest, authutil.PasswordRules())
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest, "A display name is required.")
		return
	}
	if strings.TrimSpace(req.OrganizationName) == "" {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest, "An organization name is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	result, err := h.Provision.RegisterOrganization(ctx, provision.RegistrationInput{
		Email:            req.Email,
		Password:         req.Password,
		DisplayName:      req.DisplayName,
		UserType:         req.UserType,
		OrganizationName: req.OrganizationName,
		Website:          req.Website,
		Industry:         req.Industry,
	})
	if err != nil {
		switch {
		case errors.Is(err, provision.ErrCredentialConflict):
			h.AuditLog.RegistrationConflict(ctx, r, req.Email)
			apierrors.WriteError(w, http.StatusConflict, apierrors.CodeConflict, "An account with this email already exists.")
		case errors.Is(err, provision.ErrInvalidAccountKind):
			apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest, "Account kind must be brand or agency.")
		default:
			h.ErrLog.LogInternalError(w, r, "registration failed", err)
		}
		return
	}

	u := result.User
	if err := h.SessionMgr.SignIn(w, r, &auth.SessionUser{
		ID:             u.ID,
		Name:           u.DisplayName,
		Email:          u.Email,
		UserType:       u.UserType,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
	}); err != nil {
		h.ErrLog.LogInternalError(w, r, "session sign-in failed after registration", err)
		return
	}

	if h.Logins != nil {
		if err := h.Logins.CreateFrom(ctx, r, u.ID, u.AuthProvider); err != nil {
			h.Log.Warn("login history write failed", zap.Error(err), zap.String("user_id", u.ID))
		}
	}

	h.AuditLog.UserProvisioned(ctx, r, u.ID, result.OrganizationID, u.UserType, u.AuthProvider)
	h.AuditLog.OrganizationCreated(ctx, r, u.ID, result.OrganizationID, u.UserType)

	apierrors.WriteJSON(w, http.StatusCreated, registerResponse{
		User:           u,
		OrganizationID: result.OrganizationID,
	})
}
