package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fivetwenty-io/fqb/internal/auth"
	"github.com/fivetwenty-io/fqb/internal/constants"
	"github.com/fivetwenty-io/fqb/pkg/fqb"
	"github.com/fivetwenty-io/fqb/pkg/fqbclient"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
//
//nolint:funlen // Command wiring reads better in one place
func NewLoginCommand() *cobra.Command {
	var (
		code        string
		redirectURI string
		scopes      []string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store Graph API credentials",
		Long: `Verify and store an access token or app credentials.

Credentials are taken from --token or --app-id/--app-secret. Without them the
access token is prompted for.

With --redirect-uri alone the login dialog URL is printed together with the
random state it carries. Passing the code
Facebook returned to that URL with --code exchanges it for a user token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if code == "" && redirectURI != "" {
				state := uuid.NewString()

				_, _ = fmt.Fprintln(cmd.OutOrStdout(), auth.LoginURL(oauthConfig(config, redirectURI, scopes), state))
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "State: %s (check it matches the state returned to the redirect URI)\n", state)

				return nil
			}

			if code != "" {
				token, err := auth.ExchangeCode(context.Background(), oauthConfig(config, redirectURI, scopes), code)
				if err != nil {
					return err
				}

				config.Token = token.AccessToken
			}

			if config.Token == "" && config.AppID == "" {
				token, err := promptSecret(cmd.OutOrStdout(), "Access token: ")
				if err != nil {
					return err
				}

				config.Token = token
			}

			if config.Token == "" && config.AppID != "" && config.AppSecret == "" {
				secret, err := promptSecret(cmd.OutOrStdout(), "App secret: ")
				if err != nil {
					return err
				}

				config.AppSecret = secret
			}

			if config.Token == "" && (config.AppID == "" || config.AppSecret == "") {
				return constants.ErrCredentialsRequired
			}

			conn, err := fqbclient.New(buildClientConfig(config))
			if err != nil {
				return fmt.Errorf("failed to create connection: %w", err)
			}

			identity, err := verifyCredentials(context.Background(), conn, config)
			if err != nil {
				return fmt.Errorf("failed to verify credentials: %w", err)
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n",
				identity.GetString("name"), identity.GetString("id"))

			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "authorization code to exchange for a user token")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "redirect URI registered for the app")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "permissions to request in the login dialog")

	return cmd
}

// oauthConfig builds the login flow config. The token endpoint follows the
// configured graph URL so a custom Graph host also serves the exchange.
func oauthConfig(config *Config, redirectURI string, scopes []string) *auth.OAuthConfig {
	oauth := &auth.OAuthConfig{
		AppID:       config.AppID,
		AppSecret:   config.AppSecret,
		RedirectURL: redirectURI,
		Scopes:      scopes,
	}

	if config.GraphURL != "" {
		oauth.TokenURL = strings.TrimRight(config.GraphURL, "/") + "/oauth/access_token"
	}

	return oauth
}

// verifyCredentials reads the user behind a token, or the app behind app
// credentials.
func verifyCredentials(ctx context.Context, conn *fqb.Connection, config *Config) (*fqb.Response, error) {
	node := "me"
	if config.Token == "" {
		node = "app"
	}

	return fqb.New(conn).Object(node, "id", "name").Get(ctx)
}

// promptSecret reads a secret without echo when stdin is a terminal.
func promptSecret(writer io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(writer, prompt)

	fd := int(os.Stdin.Fd()) // #nosec G115 -- file descriptors fit in int
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)

		_, _ = fmt.Fprintln(writer)

		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}

		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Long:  "Clear the stored access token and app secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.Token = ""
			config.AppSecret = ""

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Successfully logged out")

			return nil
		},
	}
}
