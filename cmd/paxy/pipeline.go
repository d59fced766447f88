package main

import (
	"github.com/spf13/cobra"

	"paxy/internal/compiler"
	"paxy/internal/driver"
	"paxy/internal/project"
	"paxy/internal/source"
)

// compiled is one single-file compile as the CLI sees it.
type compiled struct {
	fs       *source.FileSet
	result   *compiler.Result
	manifest *project.Manifest
	opts     compiler.Options
}

// compileArg compiles the file named on the command line. Diagnostics are
// printed here; the returned error is errReported in that case.
func compileArg(cmd *cobra.Command, path string) (*compiled, error) {
	m, err := manifestFor(path)
	if err != nil {
		return nil, reportError(cmd, err, nil)
	}
	opts, err := compileOptions(cmd, m)
	if err != nil {
		return nil, err
	}
	fs, f, err := driver.LoadFile(path)
	if err != nil {
		return nil, reportError(cmd, err, nil)
	}
	res, err := compiler.Compile(cmd.Context(), f, opts)
	printTimings(cmd, opts.Timer)
	if err != nil {
		return nil, reportError(cmd, err, fs)
	}
	return &compiled{fs: fs, result: res, manifest: m, opts: opts}, nil
}
