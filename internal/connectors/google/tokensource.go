package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
)

// OAuth2 scopes required by the connectors.
const (
	ScopeYouTube      = "https://www.googleapis.com/auth/youtube"
	ScopeSpreadsheets = "https://www.googleapis.com/auth/spreadsheets"
)

// Credentials holds the OAuth client and the long-lived refresh token for
// the account being synchronised. All three fields come from configuration;
// access tokens are minted on demand and never persisted.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// NewTokenSource builds an oauth2.TokenSource that refreshes access tokens
// from the stored refresh token. The returned TokenSource can be used with
// option.WithTokenSource() when creating Google API services.
//
// Returns domain.ErrAuthRequired when any credential field is missing, so
// an unconfigured install fails fast instead of on the first API call.
func NewTokenSource(ctx context.Context, creds Credentials) (oauth2.TokenSource, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("oauth client not configured: %w", domain.ErrAuthRequired)
	}
	if creds.RefreshToken == "" {
		return nil, fmt.Errorf("no refresh token stored: %w", domain.ErrAuthRequired)
	}

	cfg := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     googleoauth.Endpoint,
		Scopes:       []string{ScopeYouTube, ScopeSpreadsheets},
	}

	token := &oauth2.Token{RefreshToken: creds.RefreshToken}
	return cfg.TokenSource(ctx, token), nil
}
