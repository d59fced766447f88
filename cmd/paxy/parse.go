package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"paxy/internal/driver"
	"paxy/internal/ir"
	"paxy/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.px",
	Short: "Parse a paxy source file",
	Long:  `Parse checks every command against its operand shapes and prints the command list, or the structured IR with --ir`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().Bool("ir", false, "build and print the structured IR")
	addCompileFlags(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	showIR, err := cmd.Flags().GetBool("ir")
	if err != nil {
		return fmt.Errorf("failed to get ir flag: %w", err)
	}
	if showIR {
		c, err := compileArg(cmd, args[0])
		if err != nil {
			return err
		}
		return ir.Dump(cmd.OutOrStdout(), c.result.Program)
	}

	m, err := manifestFor(args[0])
	if err != nil {
		return reportError(cmd, err, nil)
	}
	opts, err := compileOptions(cmd, m)
	if err != nil {
		return err
	}
	fs, f, err := driver.LoadFile(args[0])
	if err != nil {
		return reportError(cmd, err, nil)
	}
	cmds, err := parser.Parse(f, opts.Lexer)
	if err != nil {
		return reportError(cmd, err, fs)
	}
	return printCommands(cmd.OutOrStdout(), cmds)
}

func printCommands(w io.Writer, cmds []parser.Command) error {
	for _, c := range cmds {
		ops := make([]string, len(c.Operands))
		for i, tok := range c.Operands {
			ops[i] = tok.Text
		}
		if _, err := fmt.Fprintf(w, "%4d %-4s %s\n", c.Line, c.Mnemonic, strings.Join(ops, " ")); err != nil {
			return err
		}
	}
	return nil
}
