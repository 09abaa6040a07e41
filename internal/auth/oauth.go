package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

// ErrAppCredentialsRequired is returned when the login flow has no app id or secret.
var ErrAppCredentialsRequired = errors.New("app id and app secret are required")

// OAuthConfig describes the Facebook login flow for an app.
type OAuthConfig struct {
	AppID       string
	AppSecret   string
	RedirectURL string
	Scopes      []string

	// AuthURL and TokenURL override the Facebook endpoints when set.
	AuthURL  string
	TokenURL string
}

func (c *OAuthConfig) oauth2Config() *oauth2.Config {
	endpoint := facebook.Endpoint
	if c.AuthURL != "" {
		endpoint.AuthURL = c.AuthURL
	}

	if c.TokenURL != "" {
		endpoint.TokenURL = c.TokenURL
	}

	return &oauth2.Config{
		ClientID:     c.AppID,
		ClientSecret: c.AppSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       c.Scopes,
		Endpoint:     endpoint,
	}
}

// LoginURL returns the login dialog URL a user visits to grant the scopes.
func LoginURL(config *OAuthConfig, state string) string {
	return config.oauth2Config().AuthCodeURL(state)
}

// ExchangeCode trades the code returned to the redirect URL for a user access token.
func ExchangeCode(ctx context.Context, config *OAuthConfig, code string) (*oauth2.Token, error) {
	if config.AppID == "" || config.AppSecret == "" {
		return nil, ErrAppCredentialsRequired
	}

	token, err := config.oauth2Config().Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	return token, nil
}
