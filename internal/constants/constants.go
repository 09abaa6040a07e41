package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Configuration locations.
const (
	// ConfigDirName is the directory below the user's home holding the config.
	ConfigDirName = ".fqb"

	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"

	// ConfigFileType is the config file format.
	ConfigFileType = "yml"

	// EnvPrefix prefixes environment variables read by the CLI.
	EnvPrefix = "FQB"
)

// Graph API defaults.
const (
	// DefaultGraphURL is the Graph API base URL.
	DefaultGraphURL = "https://graph.facebook.com"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "fqb-go/1.0"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// HTTP status codes commonly used.
const (
	// HTTPStatusBadRequest is the first status code treated as a failure.
	HTTPStatusBadRequest = 400
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Command argument counts.
const (
	// MinimumArgumentCount is used by KEY VALUE commands.
	MinimumArgumentCount = 2
)

// Edge flag layout "name[:limit][:fields]".
const (
	EdgeSpecNameOnly     = 1
	EdgeSpecWithFields   = 2
	EdgeSpecWithLimit    = 3
	KeyValuePartCount    = 2
	DefaultJSONIndentLen = 2
)
