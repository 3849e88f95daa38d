package strava

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// Endpoint is Strava's OAuth 2.0 endpoint
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://www.strava.com/oauth/authorize",
	TokenURL:  "https://www.strava.com/oauth/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// ScopeActivityReadAll grants read access to all of the athlete's activities, including private ones
const ScopeActivityReadAll = "activity:read_all"

// NewOAuthConfig creates the OAuth configuration for the greens application
func NewOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{ScopeActivityReadAll},
	}
}

// AuthorizeURL returns the URL the athlete is sent to in order to grant access
func AuthorizeURL(cfg *oauth2.Config, state string) string {
	return cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "auto"))
}

// ExchangeCode trades an authorization code for a token
func ExchangeCode(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, fmt.Errorf("missing authorization code")
	}
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return tok, nil
}
