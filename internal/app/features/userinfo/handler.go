// internal/app/features/userinfo/handler.go

// Package userinfo serves the current-session endpoint the frontend polls
// on page load. It answers 200 whether or not a session exists, so the SPA
// can branch on the authenticated flag without handling an error status.
package userinfo

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apierrors "github.com/obakengmog/fyndfluencer/internal/app/features/errors"
	influencerstore "github.com/obakengmog/fyndfluencer/internal/app/store/influencers"
	organizationstore "github.com/obakengmog/fyndfluencer/internal/app/store/organizations"
	userstore "github.com/obakengmog/fyndfluencer/internal/app/store/users"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/app/system/timeouts"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

// Handler serves identity information for the signed-in user.
type Handler struct {
	Users       *userstore.Store
	Orgs        *organizationstore.Store
	Influencers *influencerstore.Store
	ErrLog      *apierrors.ErrorLogger
	Log         *zap.Logger
}

// NewHandler creates a new userinfo handler.
func NewHandler(
	users *userstore.Store,
	orgs *organizationstore.Store,
	influencers *influencerstore.Store,
	errLog *apierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Users:       users,
		Orgs:        orgs,
		Influencers: influencers,
		ErrLog:      errLog,
		Log:         logger,
	}
}

type meResponse struct {
	Authenticated bool               `json:"authenticated"`
	User          *models.User       `json:"user,omitempty"`
	Organization  *orgSummary        `json:"organization,omitempty"`
	Influencer    *models.Influencer `json:"influencer,omitempty"`
}

// orgSummary is the membership-free view of an organization. The full member
// roster is only exposed through the organizations endpoints, which enforce
// role checks.
type orgSummary struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Logo        string `json:"logo,omitempty"`
	Industry    string `json:"industry,omitempty"`
	MemberCount int    `json:"member_count"`
	Onboarded   bool   `json:"onboarded"`
}

// ServeMe returns the fresh account record for the session user, plus the
// satellite document for their account kind. A request with no session (or
// a session whose user was since deleted) answers authenticated:false.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.WriteJSON(w, http.StatusOK, meResponse{Authenticated: false})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Get(ctx, su.ID)
	if err != nil {
		h.ErrLog.LogDBError(w, r, "load current user", err)
		return
	}
	if u == nil {
		apierrors.WriteJSON(w, http.StatusOK, meResponse{Authenticated: false})
		return
	}

	resp := meResponse{Authenticated: true, User: u}

	switch u.UserType {
	case models.UserTypeBrand, models.UserTypeAgency:
		if u.OrganizationID != "" {
			org, err := h.Orgs.Get(ctx, u.OrganizationID)
			if err != nil && !errors.Is(err, organizationstore.ErrNotFound) {
				h.ErrLog.LogDBError(w, r, "load organization", err)
				return
			}
			if org != nil {
				resp.Organization = &orgSummary{
					ID:          org.ID,
					Type:        org.Type,
					Name:        org.Name,
					Logo:        org.Logo,
					Industry:    org.Industry,
					MemberCount: len(org.Members),
					Onboarded:   org.Onboarding != nil,
				}
			}
		}
	case models.UserTypeInfluencer:
		inf, err := h.Influencers.GetByUser(ctx, u.ID)
		if err != nil {
			h.ErrLog.LogDBError(w, r, "load influencer profile", err)
			return
		}
		resp.Influencer = inf
	}

	apierrors.WriteJSON(w, http.StatusOK, resp)
}
