// internal/app/features/influencers/handler.go

// Package influencers serves the creator-profile endpoints. An influencer
// manages their own profile, connected platforms and rate card; brand and
// agency users search and view profiles for campaign planning.
package influencers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apierrors "github.com/obakengmog/fyndfluencer/internal/app/features/errors"
	influencerstore "github.com/obakengmog/fyndfluencer/internal/app/store/influencers"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auditlog"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/app/system/textgen"
	"github.com/obakengmog/fyndfluencer/internal/app/system/timeouts"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

const maxSearchResults = 50

// Handler is the feature-level entry point for influencer profiles.
type Handler struct {
	Influencers *influencerstore.Store
	ErrLog      *apierrors.ErrorLogger
	AuditLog    *auditlog.Logger
	TextGen     *textgen.Client // nil disables bio suggestions
	Log         *zap.Logger
}

// NewHandler constructs the influencers handler. textGen may be nil, in
// which case the bio suggestion endpoint answers 503.
func NewHandler(
	influencers *influencerstore.Store,
	textGen *textgen.Client,
	errLog *apierrors.ErrorLogger,
	audit *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Influencers: influencers,
		ErrLog:      errLog,
		AuditLog:    audit,
		TextGen:     textGen,
		Log:         logger,
	}
}

// HandleGetOwn returns the caller's own influencer document.
func (h *Handler) HandleGetOwn(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	inf, err := h.Influencers.GetByUser(ctx, su.ID)
	if err != nil {
		h.ErrLog.LogDBError(w, r, "load influencer profile", err)
		return
	}
	if inf == nil {
		apierrors.NotFound(w, "influencer profile not found")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, inf)
}

// HandleUpdateProfile replaces the caller's profile section. The store
// refreshes the searchable denormalizations and sanitizes user-entered text.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	var p models.InfluencerProfile
	if err := apierrors.DecodeJSON(r, &p); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode profile", err, "invalid request body")
		return
	}
	if p.DisplayName == "" {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest,
			"display_name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Influencers.UpdateProfile(ctx, su.ID, p); err != nil {
		if errors.Is(err, influencerstore.ErrNotFound) {
			apierrors.NotFound(w, "influencer profile not found")
			return
		}
		h.ErrLog.LogDBError(w, r, "update profile", err)
		return
	}

	h.AuditLog.ProfileUpdated(ctx, r, su.ID)
	h.Log.Info("influencer profile updated", zap.String("user_id", su.ID))

	inf, err := h.Influencers.GetByUser(ctx, su.ID)
	if err != nil || inf == nil {
		h.ErrLog.LogDBError(w, r, "reload profile", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, inf)
}

type socialAccountRequest struct {
	Handle         string  `json:"handle"`
	ProfileURL     string  `json:"profile_url"`
	Followers      int64   `json:"followers"`
	EngagementRate float64 `json:"engagement_rate"`
}

// HandleSetSocialAccount attaches or replaces one platform connection on the
// caller's profile. Token-backed verification is the platform pipeline's job;
// accounts set here are stored unverified.
func (h *Handler) HandleSetSocialAccount(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)
	platform := chi.URLParam(r, "platform")
	if !models.IsValidPlatform(platform) {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest,
			"unsupported platform")
		return
	}

	var req socialAccountRequest
	if err := apierrors.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode social account", err, "invalid request body")
		return
	}
	if req.Handle == "" {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest,
			"handle is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	acct := models.SocialAccount{
		Platform:       platform,
		Handle:         req.Handle,
		ProfileURL:     req.ProfileURL,
		Followers:      req.Followers,
		EngagementRate: req.EngagementRate,
	}
	if err := h.Influencers.SetSocialAccount(ctx, su.ID, platform, acct); err != nil {
		if errors.Is(err, influencerstore.ErrNotFound) {
			apierrors.NotFound(w, "influencer profile not found")
			return
		}
		h.ErrLog.LogDBError(w, r, "set social account", err)
		return
	}

	h.Log.Info("social account set",
		zap.String("user_id", su.ID), zap.String("platform", platform))
	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleUpdateRateCard replaces the caller's rate card.
func (h *Handler) HandleUpdateRateCard(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	var rc models.RateCard
	if err := apierrors.DecodeJSON(r, &rc); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode rate card", err, "invalid request body")
		return
	}
	if rc.Post < 0 || rc.Story < 0 || rc.Reel < 0 || rc.Video < 0 {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest,
			"rates cannot be negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Influencers.UpdateRateCard(ctx, su.ID, rc); err != nil {
		if errors.Is(err, influencerstore.ErrNotFound) {
			apierrors.NotFound(w, "influencer profile not found")
			return
		}
		h.ErrLog.LogDBError(w, r, "update rate card", err)
		return
	}

	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleSearch finds creators by niche and country for brand/agency users.
// Both filters are optional; results are capped and ordered by follower
// count, verified profiles first.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	niche := r.URL.Query().Get("niche")
	country := r.URL.Query().Get("country")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	results, err := h.Influencers.Search(ctx, niche, country, maxSearchResults)
	if err != nil {
		h.ErrLog.LogDBError(w, r, "search influencers", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
	})
}

// HandleView returns one influencer document for a brand/agency viewer.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	inf, err := h.Influencers.Get(ctx, id)
	if err != nil {
		if errors.Is(err, influencerstore.ErrNotFound) {
			apierrors.NotFound(w, "influencer not found")
			return
		}
		h.ErrLog.LogDBError(w, r, "load influencer", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, inf)
}
