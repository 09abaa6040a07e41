package fqb

import "time"

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents configuration for building a Connection with
// fqbclient.New.
//
// # Authentication
//
// AccessToken, if set, is sent with every request. Otherwise, when AppID and
// AppSecret are both set, the app access token "<app id>|<app secret>" is
// used. With no credentials requests are sent unauthenticated.
//
// # Retries and caching
//
// Requests are dispatched exactly once. Failures surface immediately as
// *Error values; there is no retry, caching or rate limiting.
type Config struct {
	// GraphURL: base URL of the Graph API (default "https://graph.facebook.com").
	// fqbclient.New trims a trailing slash and adds "https://" if no scheme is
	// present.
	GraphURL string
	// GraphVersion: optional version prefix such as "v2.1". When set, compiled
	// paths are sent as "/<version>/<path>".
	GraphVersion string

	// AppID: app id used with AppSecret for app access tokens.
	AppID string
	// AppSecret: app secret; also the key of appsecret_proof.
	AppSecret string
	// AccessToken: bearer token sent as the access_token parameter.
	AccessToken string
	// AppSecretProof: sign every access token with the app secret.
	AppSecretProof bool

	// HTTPTimeout: per-request timeout of the HTTP transport. Contexts passed
	// to requests may cancel earlier.
	HTTPTimeout time.Duration
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Debug: log every request and response when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the transport and connection.
	Logger Logger
}
