// Package fqbclient provides the main entry point for creating Graph API connections
package fqbclient

import (
	"strings"

	"github.com/fivetwenty-io/fqb/internal/auth"
	"github.com/fivetwenty-io/fqb/internal/constants"
	fqbhttp "github.com/fivetwenty-io/fqb/internal/http"
	"github.com/fivetwenty-io/fqb/pkg/fqb"
)

// New creates a connection backed by the Graph HTTP transport.
func New(config *fqb.Config) (*fqb.Connection, error) {
	if config == nil {
		return nil, fqb.ErrConfigRequired
	}

	graphURL, err := normalizeGraphURL(config.GraphURL)
	if err != nil {
		return nil, err
	}

	config.GraphURL = graphURL

	transport := fqbhttp.NewClient(graphURL, createHTTPClientOptions(config)...)

	credentials := auth.NewCredentials()
	credentials.SetAppCredentials(config.AppID, config.AppSecret)
	credentials.SetAccessToken(config.AccessToken)

	opts := []fqb.ConnectionOption{
		fqb.WithCredentials(credentials),
		fqb.WithAppSecretProof(config.AppSecretProof),
	}

	if config.Logger != nil {
		opts = append(opts, fqb.WithLogger(config.Logger))
	}

	return fqb.NewConnection(transport, opts...), nil
}

// normalizeGraphURL trims trailing slashes and adds https:// when no scheme
// is present.
func normalizeGraphURL(graphURL string) (string, error) {
	graphURL = strings.TrimSpace(graphURL)
	if graphURL == "" {
		graphURL = constants.DefaultGraphURL
	}

	graphURL = strings.TrimRight(graphURL, "/")
	if graphURL == "" {
		return "", fqb.ErrGraphURLRequired
	}

	if !strings.HasPrefix(graphURL, "http://") && !strings.HasPrefix(graphURL, "https://") {
		graphURL = "https://" + graphURL
	}

	return graphURL, nil
}

// createHTTPClientOptions maps the config onto transport options.
func createHTTPClientOptions(config *fqb.Config) []fqbhttp.Option {
	opts := []fqbhttp.Option{
		fqbhttp.WithDebug(config.Debug),
	}

	if config.Logger != nil {
		opts = append(opts, fqbhttp.WithLogger(config.Logger))
	}

	if config.GraphVersion != "" {
		opts = append(opts, fqbhttp.WithGraphVersion(config.GraphVersion))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, fqbhttp.WithTimeout(config.HTTPTimeout))
	}

	if config.UserAgent != "" {
		opts = append(opts, fqbhttp.WithUserAgent(config.UserAgent))
	}

	return opts
}

// NewWithToken creates a connection to the default Graph API URL using an
// access token.
func NewWithToken(token string) (*fqb.Connection, error) {
	return New(&fqb.Config{
		AccessToken: token,
	})
}

// NewWithAppCredentials creates a connection authenticated with the app
// access token of appID and appSecret.
func NewWithAppCredentials(appID, appSecret string) (*fqb.Connection, error) {
	return New(&fqb.Config{
		AppID:     appID,
		AppSecret: appSecret,
	})
}

// NewWithURL creates an unauthenticated connection to graphURL.
func NewWithURL(graphURL string) (*fqb.Connection, error) {
	return New(&fqb.Config{
		GraphURL: graphURL,
	})
}
