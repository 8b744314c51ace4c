// internal/app/features/influencers/suggest.go
package influencers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	apierrors "github.com/obakengmog/fyndfluencer/internal/app/features/errors"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/app/system/timeouts"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

const suggestSystemPrompt = "You write short, first-person bios for social media " +
	"creators on an influencer marketplace. Answer with a JSON object containing " +
	"a single \"bio\" field of at most 400 characters. No hashtags, no emoji."

type bioSuggestion struct {
	Bio string `json:"bio"`
}

// HandleSuggestBio generates a draft bio from the creator's existing
// profile. The draft is returned to the client as a suggestion; nothing is
// written until the creator saves it through the profile endpoint.
func (h *Handler) HandleSuggestBio(w http.ResponseWriter, r *http.Request) {
	if h.TextGen == nil {
		apierrors.WriteError(w, http.StatusServiceUnavailable, apierrors.CodeInternal,
			"Bio suggestions are not enabled.")
		return
	}

	su, _ := auth.CurrentUser(r)

	loadCtx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	inf, err := h.Influencers.GetByUser(loadCtx, su.ID)
	cancel()
	if err != nil {
		h.ErrLog.LogDBError(w, r, "load influencer for bio suggestion", err)
		return
	}
	if inf == nil {
		apierrors.NotFound(w, "no influencer profile for this account")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Creator name: %s\n", inf.Profile.DisplayName)
	if len(inf.Profile.Niches) > 0 {
		fmt.Fprintf(&sb, "Niches: %s\n", strings.Join(inf.Profile.Niches, ", "))
	}
	if inf.Profile.Country != "" {
		fmt.Fprintf(&sb, "Country: %s\n", inf.Profile.Country)
	}
	accounts := []*models.SocialAccount{
		inf.SocialAccounts.Instagram,
		inf.SocialAccounts.TikTok,
		inf.SocialAccounts.YouTube,
		inf.SocialAccounts.Twitter,
	}
	for _, acct := range accounts {
		if acct == nil {
			continue
		}
		fmt.Fprintf(&sb, "Platform: %s (@%s, %d followers)\n", acct.Platform, acct.Handle, acct.Followers)
	}
	sb.WriteString("Write the bio now.")

	genCtx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var suggestion bioSuggestion
	if err := h.TextGen.GenerateJSON(genCtx, sb.String(), suggestSystemPrompt, &suggestion); err != nil {
		h.Log.Error("bio suggestion failed", zap.String("user_id", su.ID), zap.Error(err))
		apierrors.WriteError(w, http.StatusBadGateway, apierrors.CodeInternal,
			"Could not generate a suggestion right now.")
		return
	}
	if strings.TrimSpace(suggestion.Bio) == "" {
		apierrors.WriteError(w, http.StatusBadGateway, apierrors.CodeInternal,
			"Could not generate a suggestion right now.")
		return
	}

	apierrors.WriteJSON(w, http.StatusOK, suggestion)
}
