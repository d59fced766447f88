package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"paxy/internal/diagfmt"
	"paxy/internal/driver"
	"paxy/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.px",
	Short: "Tokenize a paxy source file",
	Long:  `Tokenize splits every non-blank line of a source file into tokens and prints them`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().String("comment", "", "comment marker (default \"#\")")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	m, err := manifestFor(args[0])
	if err != nil {
		return reportError(cmd, err, nil)
	}
	opts, err := compileOptions(cmd, m)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], opts.Lexer)
	if err != nil {
		var fs *source.FileSet
		if result != nil {
			fs = result.FileSet
		}
		return reportError(cmd, err, fs)
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Lines, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Lines)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
