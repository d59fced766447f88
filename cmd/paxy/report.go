package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"paxy/internal/diagfmt"
	"paxy/internal/observ"
	"paxy/internal/source"
)

type diagSettings struct {
	format   string
	pathMode diagfmt.PathMode
	max      int
	color    bool
}

func readDiagSettings(cmd *cobra.Command) (diagSettings, error) {
	flags := cmd.Root().PersistentFlags()
	format, err := flags.GetString("diag-format")
	if err != nil {
		return diagSettings{}, fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return diagSettings{}, fmt.Errorf("invalid --diag-format %q (expected pretty|short|json)", format)
	}
	modeStr, err := flags.GetString("path-mode")
	if err != nil {
		return diagSettings{}, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	mode, ok := diagfmt.ParsePathMode(modeStr)
	if !ok {
		return diagSettings{}, fmt.Errorf("invalid --path-mode %q", modeStr)
	}
	maxDiag, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return diagSettings{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return diagSettings{format: format, pathMode: mode, max: maxDiag, color: useColor()}, nil
}

// reportError prints err as a diagnostic and returns errReported, so that
// main exits non-zero without printing it twice.
func reportError(cmd *cobra.Command, err error, fs *source.FileSet) error {
	s, serr := readDiagSettings(cmd)
	if serr != nil {
		return serr
	}
	writeDiagnostics(cmd.ErrOrStderr(), s, err, fs)
	return errReported
}

func writeDiagnostics(w io.Writer, s diagSettings, err error, fs *source.FileSet) {
	bag := diagfmt.FromError(err)
	switch s.format {
	case "json":
		if jerr := diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         s.pathMode,
			Max:              s.max,
			IncludeNotes:     true,
		}); jerr != nil {
			fmt.Fprintf(w, "paxy: %v\n", jerr)
		}
	case "short":
		diagfmt.Short(w, bag, fs, diagfmt.PrettyOpts{PathMode: s.pathMode, Max: s.max})
	default:
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     s.color,
			PathMode:  s.pathMode,
			ShowNotes: true,
			Max:       s.max,
		})
	}
}

// printTimings writes the per-pass timer report when --timings is set.
func printTimings(cmd *cobra.Command, t *observ.Timer) {
	if t == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), t.Summary())
}
