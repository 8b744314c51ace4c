// internal/app/features/authsocial/handler.go

// Package authsocial serves the OAuth sign-in flow for influencers. Google
// and Facebook share the same two endpoints; the {provider} URL segment picks
// the backend. Brand and agency accounts never pass through here.
package authsocial

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"

	"github.com/obakengmog/fyndfluencer/internal/app/provision"
	loginstore "github.com/obakengmog/fyndfluencer/internal/app/store/logins"
	"github.com/obakengmog/fyndfluencer/internal/app/store/oauthstate"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auditlog"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/app/system/identity"
	"github.com/obakengmog/fyndfluencer/internal/app/system/timeouts"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

// stateExpiry bounds how long a consent redirect may take.
const stateExpiry = 10 * time.Minute

type Handler struct {
	Provision   *provision.Service
	IDP         identity.Provider
	StateStore  *oauthstate.Store
	SessionMgr  *auth.SessionManager
	AuditLog    *auditlog.Logger
	Logins      *loginstore.Store
	FrontendURL string // external SPA origin, no trailing slash
	Log         *zap.Logger
}

func NewHandler(
	svc *provision.Service,
	idp identity.Provider,
	stateStore *oauthstate.Store,
	sessionMgr *auth.SessionManager,
	audit *auditlog.Logger,
	logins *loginstore.Store,
	frontendURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Provision:   svc,
		IDP:         idp,
		StateStore:  stateStore,
		SessionMgr:  sessionMgr,
		AuditLog:    audit,
		Logins:      logins,
		FrontendURL: strings.TrimRight(frontendURL, "/"),
		Log:         logger,
	}
}

// HandleStart handles GET /api/auth/{provider}.
//
// Saves a one-time state token bound to the provider and redirects the
// browser to the provider's consent screen.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	provider := strings.ToLower(chi.URLParam(r, "provider"))

	state, err := generateState()
	if err != nil {
		h.Log.Error("generate oauth state failed", zap.Error(err))
		h.redirectError(w, r, "internal")
		return
	}

	consentURL, err := h.IDP.AuthCodeURL(provider, state)
	if err != nil {
		h.Log.Warn("social provider not configured", zap.String("provider", provider))
		h.redirectError(w, r, "provider_not_configured")
		return
	}

	returnURL := r.URL.Query().Get("return")
	if !strings.HasPrefix(returnURL, "/") {
		// Only same-site paths survive the round trip.
		returnURL = ""
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(stateExpiry)
	if err := h.StateStore.Save(ctx, state, provider, returnURL, expiresAt); err != nil {
		h.Log.Error("save oauth state failed", zap.Error(err))
		h.redirectError(w, r, "internal")
		return
	}

	h.Log.Debug("starting social sign-in",
		zap.String("provider", provider),
		zap.String("return_url", returnURL))

	http.Redirect(w, r, consentURL, http.StatusTemporaryRedirect)
}

// HandleCallback handles GET /api/auth/{provider}/callback.
//
// Validates the state, exchanges the code, provisions or refreshes the
// influencer account, signs the session in, and sends the browser back to
// the frontend. Failures land on the frontend login page with an error code
// in the query string.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	provider := strings.ToLower(chi.URLParam(r, "provider"))

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("social provider returned error",
			zap.String("provider", provider),
			zap.String("error", errParam))
		h.redirectError(w, r, "consent_denied")
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.redirectError(w, r, "invalid_state")
		return
	}

	sctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	returnURL, valid, err := h.StateStore.Validate(sctx, state, provider)
	cancel()
	if err != nil {
		h.Log.Error("validate oauth state failed", zap.Error(err))
		h.redirectError(w, r, "internal")
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired oauth state", zap.String("provider", provider))
		h.redirectError(w, r, "invalid_state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectError(w, r, "invalid_code")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	result, err := h.Provision.SocialSignIn(ctx, provider, code)
	if err != nil {
		switch {
		case errors.Is(err, provision.ErrWrongAccountKind):
			h.AuditLog.LoginFailedWrongKind(ctx, r, "", "", models.UserTypeInfluencer, "")
			h.redirectError(w, r, "wrong_account_kind")
		case errors.Is(err, identity.ErrCodeExchangeFailed):
			h.Log.Warn("code exchange failed", zap.String("provider", provider), zap.Error(err))
			h.redirectError(w, r, "token_exchange")
		default:
			h.Log.Error("social sign-in failed", zap.String("provider", provider), zap.Error(err))
			h.redirectError(w, r, "internal")
		}
		return
	}

	u := result.User
	if err := h.SessionMgr.SignIn(w, r, &auth.SessionUser{
		ID:       u.ID,
		Name:     u.DisplayName,
		Email:    u.Email,
		UserType: u.UserType,
	}); err != nil {
		h.Log.Error("session sign-in failed", zap.Error(err))
		h.redirectError(w, r, "internal")
		return
	}

	if h.Logins != nil {
		if err := h.Logins.CreateFrom(ctx, r, u.ID, provider); err != nil {
			h.Log.Warn("login history write failed", zap.Error(err), zap.String("user_id", u.ID))
		}
	}

	h.AuditLog.SocialSignIn(ctx, r, u.ID, provider, result.IsNewUser)
	if result.IsNewUser {
		h.AuditLog.UserProvisioned(ctx, r, u.ID, "", u.UserType, provider)
		h.AuditLog.InfluencerProvisioned(ctx, r, u.ID)
	}

	target := h.FrontendURL + "/auth/complete"
	if returnURL != "" {
		target += "?return=" + url.QueryEscape(returnURL)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) redirectError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.FrontendURL+"/login?error="+url.QueryEscape(code), http.StatusSeeOther)
}

// generateState returns a cryptographically random state token.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
