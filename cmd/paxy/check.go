package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file.px...",
	Short: "Compile without writing artifacts",
	Long:  `Check runs the full pipeline on each file and reports the first error of each`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	addCompileFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	failed := 0
	for _, path := range args {
		if _, err := compileArg(cmd, path); err != nil {
			failed++
			continue
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		}
	}
	if failed > 0 {
		return errReported
	}
	return nil
}
