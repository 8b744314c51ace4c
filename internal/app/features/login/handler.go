// internal/app/features/login/handler.go

// Package login serves the corporate email/password login endpoint. It is the
// channel for brand and agency accounts; influencers who registered through a
// social provider are turned away with a wrong-channel error so the frontend
// can point them at the social buttons instead.
package login

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
	"github.com/obakengmog/fyndfluencer/internal/app/system/identity"
	"github.com/obakengmog/fyndfluencer/internal/app/system/normalize"
	"github.com/obakengmog/fyndfluencer/internal/app/system/ratelimit"
	"github.com/obakengmog/fyndfluencer/internal/app/system/timeouts"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

type Handler struct {
	Provision  *provision.Service
	SessionMgr *auth.SessionManager
	ErrLog     *apierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Logins     *loginstore.Store
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

func NewHandler(
	svc *provision.Service,
	sessionMgr *auth.SessionManager,
	errLog *apierrors.ErrorLogger,
	audit *auditlog.Logger,
	logins *loginstore.Store,
	limiter *ratelimit.LoginLimiter,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Provision:  svc,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Logins:     logins,
		Limiter:    limiter,
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User *models.User `json:"user"`
}

// HandleLogin handles POST /api/auth/login.
//
// Status codes the frontend switches on:
//
//	401 invalid email or password
//	403 code "wrong_login_channel": the account signs in socially
//	404 code "account_not_found": credential exists but no account
//	429 rate limited
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := apierrors.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login payload failed", err, "Invalid request body.")
		return
	}

	email := normalize.Email(req.Email)
	if email == "" || strings.TrimSpace(req.Password) == "" {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest, "Email and password are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if h.Limiter != nil {
		if allowed, reason := h.Limiter.Check(r, email); !allowed {
			h.AuditLog.LoginFailedRateLimit(ctx, r, email)
			h.Log.Warn("login rate limited",
				zap.String("email", email),
				zap.String("reason", reason))
			apierrors.WriteError(w, http.StatusTooManyRequests, apierrors.CodeRateLimited,
				"Too many login attempts. Please wait and try again.")
			return
		}
	}

	result, err := h.Provision.Login(ctx, email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			h.AuditLog.LoginFailedWrongPassword(ctx, r, "", email)
			apierrors.WriteError(w, http.StatusUnauthorized, apierrors.CodeUnauthorized, "Invalid email or password.")
		case errors.Is(err, provision.ErrAccountNotFound):
			h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
			apierrors.WriteError(w, http.StatusNotFound, apierrors.CodeAccountNotFound,
				"No account exists for this login. Please register first.")
		case errors.Is(err, provision.ErrWrongLoginChannel):
			h.AuditLog.LoginFailedWrongChannel(ctx, r, "", email, models.ProviderEmail, "")
			apierrors.WriteError(w, http.StatusForbidden, apierrors.CodeWrongLoginChannel,
				"This account signs in with a social provider.")
		default:
			h.ErrLog.LogInternalError(w, r, "login failed", err)
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
		h.ErrLog.LogInternalError(w, r, "session sign-in failed", err)
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}

	if h.Logins != nil {
		if err := h.Logins.CreateFrom(ctx, r, u.ID, models.ProviderEmail); err != nil {
			h.Log.Warn("login history write failed", zap.Error(err), zap.String("user_id", u.ID))
		}
	}

	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.OrganizationID, models.ProviderEmail, u.Email)

	apierrors.WriteJSON(w, http.StatusOK, loginResponse{User: u})
}
