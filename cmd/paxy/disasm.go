package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"paxy/internal/bytecode"
	"paxy/internal/diag"
	"paxy/internal/driver"
	"paxy/internal/emit"
	"paxy/internal/source"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] file",
	Short: "Print a bytecode listing",
	Long: `Disasm prints the instruction listing of a unit. A .px argument is compiled
first; anything else is decoded as a msgpack, CBOR or JSON artifact`,
	Args: cobra.ExactArgs(1),
	RunE: runDisasm,
}

func init() {
	addCompileFlags(disasmCmd)
}

func runDisasm(cmd *cobra.Command, args []string) error {
	path := args[0]
	var unit *bytecode.Unit
	if filepath.Ext(path) == driver.SourceExt {
		c, err := compileArg(cmd, path)
		if err != nil {
			return err
		}
		unit = c.result.Unit
	} else {
		f, err := os.Open(path)
		if err != nil {
			return reportError(cmd, diag.Errorf(diag.IOReadFailed, source.Span{}, 0, "%v", err), nil)
		}
		defer f.Close()
		u, format, err := emit.Decode(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if _, err := bytecode.Verify(u); err != nil {
			return fmt.Errorf("%s (%s): %w", path, format, err)
		}
		unit = u
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), bytecode.Disassemble(unit))
	return err
}
