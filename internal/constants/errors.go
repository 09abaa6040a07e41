package constants

import "errors"

// Configuration errors.
var (
	ErrUnknownConfigKey = errors.New("unknown configuration key")
	ErrNotAuthenticated = errors.New("not authenticated, use 'fqb login' first")
)

// Validation errors.
var (
	ErrInvalidEdgeSpec  = errors.New("invalid edge specification, expected name[:limit][:field,field]")
	ErrInvalidEdgeLimit = errors.New("invalid edge limit")
	ErrInvalidDataPair  = errors.New("invalid data pair, expected key=value")
	ErrInvalidOutput    = errors.New("invalid output format, expected table, json or yaml")
)

// Required field errors.
var (
	ErrCredentialsRequired = errors.New("--token or --app-id with --app-secret is required")
)
