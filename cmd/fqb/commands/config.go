package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fivetwenty-io/fqb/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	GraphURL       string `json:"graph_url,omitempty"     yaml:"graph_url,omitempty"`
	GraphVersion   string `json:"graph_version,omitempty" yaml:"graph_version,omitempty"`
	AppID          string `json:"app_id,omitempty"        yaml:"app_id,omitempty"`
	AppSecret      string `json:"app_secret,omitempty"    yaml:"app_secret,omitempty"`
	Token          string `json:"token,omitempty"         yaml:"token,omitempty"`
	AppSecretProof bool   `json:"appsecret_proof"         yaml:"appsecret_proof"`
	Output         string `json:"output"                  yaml:"output"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage FQB CLI configuration including credentials and Graph API settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskConfig(loadConfig())
			writer := cmd.OutOrStdout()

			switch viper.GetString("output") {
			case constants.FormatJSON:
				encoder := json.NewEncoder(writer)
				encoder.SetIndent("", "  ")

				return encoder.Encode(config)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(writer)

				return encoder.Encode(config)
			default:
				return displayConfigTable(writer, config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value: graph_url, graph_version, app_id, app_secret, token, appsecret_proof or output",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			config := loadConfig()

			err := setConfigValue(config, key, value)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			return outputConfigUpdateResult(cmd.OutOrStdout(), "Set", key, maskIfSecret(key, value))
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value, restoring its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			config := loadConfig()

			err := unsetConfigValue(config, key)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			return outputConfigUpdateResult(cmd.OutOrStdout(), "Unset", key, "")
		},
	}
}

// loadConfig reads the effective configuration from viper.
func loadConfig() *Config {
	return &Config{
		GraphURL:       viper.GetString("graph_url"),
		GraphVersion:   viper.GetString("graph_version"),
		AppID:          viper.GetString("app_id"),
		AppSecret:      viper.GetString("app_secret"),
		Token:          viper.GetString("token"),
		AppSecretProof: viper.GetBool("appsecret_proof"),
		Output:         viper.GetString("output"),
	}
}

// configPath returns the config file in use, or ~/.fqb/config.yml.
func configPath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(home, constants.ConfigDirName)

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, constants.ConfigFileName+"."+constants.ConfigFileType), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configPath()
	if err != nil {
		return err
	}

	return writeConfigFile(configFile, config)
}

func writeConfigFile(configFile string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setConfigValue sets a configuration key.
func setConfigValue(config *Config, key, value string) error {
	switch key {
	case "graph_url":
		config.GraphURL = value
	case "graph_version":
		config.GraphVersion = value
	case "app_id":
		config.AppID = value
	case "app_secret":
		config.AppSecret = value
	case "token":
		config.Token = value
	case "appsecret_proof":
		config.AppSecretProof = parseBoolValue(value)
	case "output":
		err := validateOutput(value)
		if err != nil {
			return err
		}

		config.Output = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

// unsetConfigValue resets a configuration key to its default.
func unsetConfigValue(config *Config, key string) error {
	switch key {
	case "appsecret_proof":
		config.AppSecretProof = false

		return nil
	case "output":
		config.Output = constants.FormatTable

		return nil
	default:
		return setConfigValue(config, key, "")
	}
}

// parseBoolValue parses a boolean value from string.
func parseBoolValue(value string) bool {
	parsed, err := strconv.ParseBool(value)

	return err == nil && parsed
}

func validateOutput(output string) error {
	switch output {
	case constants.FormatJSON, constants.FormatYAML, constants.FormatTable:
		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutput, output)
	}
}

func isSecretKey(key string) bool {
	return key == "token" || key == "app_secret"
}

func maskIfSecret(key, value string) string {
	if isSecretKey(key) {
		return maskSecret(value)
	}

	return value
}

// maskSecret keeps the last four characters of long secrets.
func maskSecret(secret string) string {
	const visible = 4

	if secret == "" {
		return ""
	}

	if len(secret) <= visible*2 {
		return "****"
	}

	return "****" + secret[len(secret)-visible:]
}

func maskConfig(config *Config) *Config {
	masked := *config
	masked.AppSecret = maskSecret(config.AppSecret)
	masked.Token = maskSecret(config.Token)

	return &masked
}

func displayConfigTable(writer io.Writer, config *Config) error {
	table := tablewriter.NewWriter(writer)
	table.Header("Property", "Value")

	_ = table.Append([]string{"Graph URL", formatConfigValue(config.GraphURL)})
	_ = table.Append([]string{"Graph Version", formatConfigValue(config.GraphVersion)})
	_ = table.Append([]string{"App ID", formatConfigValue(config.AppID)})
	_ = table.Append([]string{"App Secret", formatConfigValue(config.AppSecret)})
	_ = table.Append([]string{"Token", formatConfigValue(config.Token)})
	_ = table.Append([]string{"AppSecret Proof", strconv.FormatBool(config.AppSecretProof)})
	_ = table.Append([]string{"Output", formatConfigValue(config.Output)})

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatConfigValue(value string) string {
	if value == "" {
		return "(not set)"
	}

	return value
}

// outputConfigUpdateResult outputs configuration update results in the requested format.
func outputConfigUpdateResult(writer io.Writer, action, key, value string) error {
	result := map[string]string{
		"action": action,
		"key":    key,
	}

	if value != "" {
		result["value"] = value
	}

	switch viper.GetString("output") {
	case constants.FormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(result)
		if err != nil {
			return fmt.Errorf("failed to encode config result as JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		err := yaml.NewEncoder(writer).Encode(result)
		if err != nil {
			return fmt.Errorf("failed to encode config result as YAML: %w", err)
		}

		return nil
	default:
		table := tablewriter.NewWriter(writer)
		table.Header("Property", "Value")

		_ = table.Append([]string{"Action", action})
		_ = table.Append([]string{"Key", key})

		if value != "" {
			_ = table.Append([]string{"Value", value})
		}

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render update results table: %w", err)
		}

		return nil
	}
}
