package commands

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/fivetwenty-io/fqb/pkg/fqb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// buildInfo describes the running binary.
type buildInfo struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Built    string `json:"built"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

// NewVersionCommand creates the version command. Output goes through the
// same json/yaml/table rendering as Graph responses.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI build",
		Long:  "Print the version, commit, build date and Go toolchain of the fqb binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(buildInfo{
				Version:  version,
				Commit:   commit,
				Built:    date,
				Go:       runtime.Version(),
				Platform: runtime.GOOS + "/" + runtime.GOARCH,
			})
			if err != nil {
				return fmt.Errorf("failed to encode build info: %w", err)
			}

			info, err := fqb.NewResponse(body)
			if err != nil {
				return err
			}

			return outputResponse(cmd.OutOrStdout(), info, viper.GetString("output"))
		},
	}
}
