//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	AccessToken string
	AppID       string
	AppSecret   string
	GraphURL    string
	FqbPath     string
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		AccessToken: os.Getenv("FQB_ACCESS_TOKEN"),
		AppID:       os.Getenv("FQB_APP_ID"),
		AppSecret:   os.Getenv("FQB_APP_SECRET"),
		GraphURL:    os.Getenv("FQB_GRAPH_URL"),
		FqbPath:     getFqbPath(),
		Verbose:     os.Getenv("FQB_VERBOSE") == "true",
	}
}

// getFqbPath determines the path to the fqb binary
func getFqbPath() string {
	if path := os.Getenv("FQB_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../fqb",
		"./fqb",
		"../fqb",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "fqb"
}

// SkipIfMissingToken skips the test when no access token is configured
func (config *TestConfig) SkipIfMissingToken(t *testing.T) {
	t.Helper()

	if config.AccessToken == "" {
		t.Skip("FQB_ACCESS_TOKEN not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips the test when the fqb binary cannot be found
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.FqbPath); err != nil {
		t.Skipf("fqb binary not found at %s, skipping integration test", config.FqbPath)
	}
}

// CommandRunner provides utilities for running fqb commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes an fqb command with the configured token and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.FqbPath, args...) // #nosec G204 -- test binary
	cmd.Env = append(os.Environ(), "FQB_TOKEN="+runner.config.AccessToken)

	if runner.config.GraphURL != "" {
		cmd.Env = append(cmd.Env, "FQB_GRAPH_URL="+runner.config.GraphURL)
	}

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.FqbPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	if !json.Valid([]byte(strings.TrimSpace(output))) {
		t.Errorf("Output does not appear to be JSON: %s", output)
	}
}
