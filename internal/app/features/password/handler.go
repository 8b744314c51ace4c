// internal/app/features/password/handler.go

// Package password serves password reset and email verification for
// corporate accounts. Both flows ride the same single-use verification
// records: a 6-digit code for in-app confirmation and an opaque token for
// email links.
package password

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	apierrors "github.com/obakengmog/fyndfluencer/internal/app/features/errors"
	"github.com/obakengmog/fyndfluencer/internal/app/provision"
	"github.com/obakengmog/fyndfluencer/internal/app/store/emailverify"
	userstore "github.com/obakengmog/fyndfluencer/internal/app/store/users"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auditlog"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/app/system/authutil"
	"github.com/obakengmog/fyndfluencer/internal/app/system/identity"
	"github.com/obakengmog/fyndfluencer/internal/app/system/identity/idp"
	"github.com/obakengmog/fyndfluencer/internal/app/system/timeouts"
)

type Handler struct {
	Provision *provision.Service
	IDP       *idp.Service
	Users     *userstore.Store
	ErrLog    *apierrors.ErrorLogger
	AuditLog  *auditlog.Logger
	Log       *zap.Logger
}

func NewHandler(
	svc *provision.Service,
	idpSvc *idp.Service,
	users *userstore.Store,
	errLog *apierrors.ErrorLogger,
	audit *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Provision: svc,
		IDP:       idpSvc,
		Users:     users,
		ErrLog:    errLog,
		AuditLog:  audit,
		Log:       logger,
	}
}

// HandleForgot handles POST /api/auth/password/forgot.
//
// Always answers 202 so the endpoint cannot be used to probe which emails
// are registered.
func (h *Handler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := apierrors.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode forgot payload failed", err, "Invalid request body.")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest, "An email address is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Provision.RequestPasswordReset(ctx, req.Email); err != nil {
		h.ErrLog.LogInternalError(w, r, "password reset request failed", err)
		return
	}

	h.AuditLog.PasswordResetRequested(ctx, r, req.Email)

	apierrors.WriteJSON(w, http.StatusAccepted, map[string]string{
		"message": "If that email is registered, a reset link is on its way.",
	})
}

// HandleReset handles POST /api/auth/password/reset.
//
// Redeems the emailed token and stores the new password. The token dies on
// first use whether or not the attempt succeeds afterward.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := apierrors.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode reset payload failed", err, "Invalid request body.")
		return
	}
	if req.Token == "" {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest, "A reset token is required.")
		return
	}
	if err := authutil.ValidatePassword(req.NewPassword); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest, authutil.PasswordRules())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	subjectID, err := h.IDP.CompletePasswordReset(ctx, req.Token, req.NewPassword)
	if err != nil {
		h.writeVerifyError(w, r, "password reset", err)
		return
	}

	h.AuditLog.PasswordChanged(ctx, r, subjectID)
	h.Log.Info("password reset completed", zap.String("user_id", subjectID))

	apierrors.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Password updated. You can sign in now.",
	})
}

// HandleVerifyCode handles POST /api/auth/verify-email.
//
// Redeems the 6-digit code for the signed-in account and flips the
// email_verified flag on both the credential and the user document.
func (h *Handler) HandleVerifyCode(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := apierrors.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode verify payload failed", err, "Invalid request body.")
		return
	}
	if req.Code == "" {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest, "A verification code is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.IDP.VerifyEmailCode(ctx, u.ID, req.Code); err != nil {
		h.writeVerifyError(w, r, "email verification", err)
		return
	}

	h.markUserVerified(ctx, r, u.ID, u.Email)

	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": "Email verified."})
}

// HandleVerifyToken handles POST /api/auth/verify-email/token.
//
// Redeems a verification link token. No session is required; the token alone
// identifies the account.
func (h *Handler) HandleVerifyToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := apierrors.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode verify token payload failed", err, "Invalid request body.")
		return
	}
	if req.Token == "" {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest, "A verification token is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	subjectID, err := h.IDP.VerifyEmailToken(ctx, req.Token)
	if err != nil {
		h.writeVerifyError(w, r, "email verification", err)
		return
	}

	h.markUserVerified(ctx, r, subjectID, "")

	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": "Email verified."})
}

// HandleResend handles POST /api/auth/verify-email/resend.
func (h *Handler) HandleResend(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.IDP.SendVerificationEmail(ctx, &identity.Principal{
		SubjectID: u.ID,
		Email:     u.Email,
	})
	if err != nil {
		if errors.Is(err, emailverify.ErrTooManyResends) {
			apierrors.WriteError(w, http.StatusTooManyRequests, apierrors.CodeRateLimited,
				"Too many verification emails. Please wait before requesting another.")
			return
		}
		h.ErrLog.LogInternalError(w, r, "resend verification email failed", err)
		return
	}

	h.AuditLog.VerificationEmailSent(ctx, r, u.ID, u.Email)

	apierrors.WriteJSON(w, http.StatusAccepted, map[string]string{
		"message": "Verification email sent.",
	})
}

// markUserVerified mirrors the credential flag onto the user document. The
// user doc may legitimately be absent when verification happens before the
// account finishes provisioning.
func (h *Handler) markUserVerified(ctx context.Context, r *http.Request, subjectID, email string) {
	if err := h.Users.MarkEmailVerified(ctx, subjectID); err != nil {
		h.Log.Warn("mark user email verified failed",
			zap.Error(err), zap.String("user_id", subjectID))
	}
	h.AuditLog.EmailVerified(ctx, r, subjectID, email)
}

func (h *Handler) writeVerifyError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, emailverify.ErrTooManyAttempts):
		apierrors.WriteError(w, http.StatusTooManyRequests, apierrors.CodeTooManyAttempts,
			"Too many attempts. Request a new code and try again.")
	case errors.Is(err, emailverify.ErrInvalidCode), errors.Is(err, emailverify.ErrNotFound):
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeInvalidCode,
			"That code or link is invalid or has expired.")
	default:
		h.ErrLog.LogInternalError(w, r, op+" failed", err)
	}
}
