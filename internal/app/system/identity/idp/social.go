// internal/app/system/identity/idp/social.go
package idp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"github.com/obakengmog/fyndfluencer/internal/app/system/identity"
	"github.com/obakengmog/fyndfluencer/internal/app/system/normalize"
)

// socialProvider wraps one OAuth provider's config and userinfo fetch.
type socialProvider struct {
	name   string
	config *oauth2.Config
	fetch  func(ctx context.Context, token *oauth2.Token) (*identity.Principal, error)
}

func (s *Service) configureSocial(cfg Config) {
	if cfg.GoogleClientID != "" {
		s.social["google"] = &socialProvider{
			name: "google",
			config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.BaseURL + "/api/auth/google/callback",
				Scopes: []string{
					"https://www.googleapis.com/auth/userinfo.email",
					"https://www.googleapis.com/auth/userinfo.profile",
				},
				Endpoint: google.Endpoint,
			},
			fetch: fetchGoogleUserInfo,
		}
	}
	if cfg.FacebookClientID != "" {
		s.social["facebook"] = &socialProvider{
			name: "facebook",
			config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				RedirectURL:  cfg.BaseURL + "/api/auth/facebook/callback",
				Scopes:       []string{"email", "public_profile"},
				Endpoint:     facebook.Endpoint,
			},
			fetch: fetchFacebookUserInfo,
		}
	}
}

// AuthCodeURL returns the provider's consent URL for the given state token.
func (s *Service) AuthCodeURL(provider, state string) (string, error) {
	sp, ok := s.social[normalize.Provider(provider)]
	if !ok {
		return "", identity.ErrUnknownProvider
	}
	return sp.config.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// VerifySocial exchanges an authorization code and returns the social
// principal.
func (s *Service) VerifySocial(ctx context.Context, provider, code string) (*identity.Principal, error) {
	sp, ok := s.social[normalize.Provider(provider)]
	if !ok {
		return nil, identity.ErrUnknownProvider
	}

	token, err := sp.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", identity.ErrCodeExchangeFailed, err)
	}

	return sp.fetch(ctx, token)
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*identity.Principal, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &identity.Principal{
		SubjectID:     "google:" + info.ID,
		Email:         normalize.Email(info.Email),
		DisplayName:   info.Name,
		PhotoURL:      info.Picture,
		Provider:      "google",
		EmailVerified: info.EmailVerified,
	}, nil
}

// facebookUserInfo represents user info returned from the Graph API.
type facebookUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// fetchFacebookUserInfo retrieves user information from the Graph API.
func fetchFacebookUserInfo(ctx context.Context, token *oauth2.Token) (*identity.Principal, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://graph.facebook.com/me?fields=id,name,email,picture.type(large)")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info facebookUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	// Facebook reports emails it has verified; accounts without a
	// confirmed email omit the field entirely.
	return &identity.Principal{
		SubjectID:     "facebook:" + info.ID,
		Email:         normalize.Email(info.Email),
		DisplayName:   info.Name,
		PhotoURL:      info.Picture.Data.URL,
		Provider:      "facebook",
		EmailVerified: info.Email != "",
	}, nil
}
