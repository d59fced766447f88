package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"paxy/internal/driver"
	"paxy/internal/emit"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file.px",
	Short: "Compile one source file into a bytecode artifact",
	Long: `Compile translates a source file into a linked bytecode unit and writes it
next to the source, into [output].dir of paxy.toml, or to -o ("-" for stdout)`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringP("output", "o", "", "artifact path (\"-\" for stdout)")
	compileCmd.Flags().String("format", "", "artifact format (msgpack|cbor|json|text)")
	addCompileFlags(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	c, err := compileArg(cmd, args[0])
	if err != nil {
		return err
	}

	format := emit.FormatMsgpack
	root, outDir := "", ""
	if c.manifest != nil {
		format = c.manifest.Format
		root, outDir = c.manifest.Root, c.manifest.OutDir
	}
	if formatStr != "" {
		if format, err = emit.ParseFormat(formatStr); err != nil {
			return err
		}
	}

	if output == "-" {
		e, err := emit.New(format)
		if err != nil {
			return err
		}
		return e.Emit(cmd.OutOrStdout(), c.result.Unit)
	}
	if output == "" {
		src := args[0]
		if outDir != "" {
			if abs, err := filepath.Abs(src); err == nil {
				src = abs
			}
		}
		output = driver.ArtifactPath(root, src, outDir, format)
	}
	if err := driver.WriteArtifact(output, c.result.Unit, format); err != nil {
		return reportError(cmd, err, nil)
	}
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
	}
	return nil
}
