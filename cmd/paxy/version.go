package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"paxy/internal/emit"
	"paxy/internal/version"
)

type versionPayload struct {
	Tool          string `json:"tool"`
	Version       string `json:"version"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildDate     string `json:"build_date,omitempty"`
	SchemaVersion uint16 `json:"schema_version"`
	Go            string `json:"go"`
}

var versionFormat string

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show paxy build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch versionFormat {
		case "pretty":
			_, err := fmt.Fprint(cmd.OutOrStdout(), version.Info())
			return err
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(versionPayload{
				Tool:          "paxy",
				Version:       version.Version,
				GitCommit:     version.GitCommit,
				BuildDate:     version.BuildDate,
				SchemaVersion: emit.SchemaVersion,
				Go:            runtime.Version(),
			})
		default:
			return fmt.Errorf("unknown format: %s", versionFormat)
		}
	},
}
