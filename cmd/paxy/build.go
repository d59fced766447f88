package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"paxy/internal/buildpipeline"
	"paxy/internal/driver"
	"paxy/internal/emit"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [dir]",
	Short: "Compile every source file under a directory",
	Long: `Build compiles every *.px file under dir (default: the project root or the
current directory) in parallel. A failing file never stops the others`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().IntP("jobs", "j", 0, "max parallel compiles (0 = GOMAXPROCS)")
	buildCmd.Flags().Bool("cache", true, "reuse units from the disk cache")
	buildCmd.Flags().Bool("clean-cache", false, "drop the disk cache before building")
	buildCmd.Flags().String("format", "", "artifact format (msgpack|cbor|json|text)")
	buildCmd.Flags().String("out-dir", "", "write artifacts under this directory")
	buildCmd.Flags().Bool("no-emit", false, "compile only, write no artifacts")
	buildCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	addCompileFlags(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	dir := ""
	if len(args) == 1 {
		var err error
		if dir, err = filepath.Abs(args[0]); err != nil {
			return err
		}
	}
	m, err := loadManifest(dir)
	if err != nil {
		return reportError(cmd, err, nil)
	}
	if dir == "" {
		if m != nil {
			dir = m.Root
		} else if dir, err = filepath.Abs("."); err != nil {
			return err
		}
	}

	copts, err := compileOptions(cmd, m)
	if err != nil {
		return err
	}
	// per-pass timers are not safe to share between workers
	copts.Timer = nil

	opts := driver.BuildOptions{Compiler: copts, Emit: true, Format: emit.FormatMsgpack}
	useCache := true
	if m != nil {
		opts.Jobs = m.Jobs
		opts.Format = m.Format
		opts.Root = m.Root
		opts.OutDir = m.OutDir
		useCache = m.Cache
	}
	if flags.Changed("jobs") {
		opts.Jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("cache") {
		useCache, _ = flags.GetBool("cache")
	}
	if s, _ := flags.GetString("format"); s != "" {
		if opts.Format, err = emit.ParseFormat(s); err != nil {
			return err
		}
	}
	if s, _ := flags.GetString("out-dir"); s != "" {
		if opts.OutDir, err = filepath.Abs(s); err != nil {
			return err
		}
	}
	if noEmit, _ := flags.GetBool("no-emit"); noEmit {
		opts.Emit = false
	}
	if opts.Root == "" {
		opts.Root = dir
	}

	if useCache {
		cache, err := driver.OpenDiskCache("paxy")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if clean, _ := flags.GetBool("clean-cache"); clean {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clean cache: %w", err)
			}
		}
		opts.Cache = cache
	}

	files, err := driver.ListSources(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files under %s", driver.SourceExt, dir)
	}

	uiStr, _ := flags.GetString("ui")
	mode, err := readUIMode(uiStr)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	var report *driver.BuildReport
	if shouldUseTUI(mode, quiet) {
		report, err = runBuildWithUI(cmd.Context(), "paxy build", files, opts)
	} else {
		report, err = driver.CompileFiles(cmd.Context(), files, opts)
	}
	if report == nil {
		return err
	}

	settings, serr := readDiagSettings(cmd)
	if serr != nil {
		return serr
	}
	for _, fr := range report.Files {
		if fr.Err != nil {
			writeDiagnostics(cmd.ErrOrStderr(), settings, fr.Err, fr.FileSet)
		}
	}
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		printStageTimings(cmd.ErrOrStderr(), report.Timings())
	}
	if !quiet {
		printBuildSummary(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return err
	}
	if report.Failed() > 0 {
		return errReported
	}
	return nil
}

func printBuildSummary(w io.Writer, r *driver.BuildReport) {
	cached := 0
	for _, f := range r.Files {
		if f.Cached {
			cached++
		}
	}
	fmt.Fprintf(w, "built %d file(s), %d cached, %d failed in %.1f ms\n",
		len(r.Files), cached, r.Failed(), toMillis(r.Elapsed))
}

func printStageTimings(w io.Writer, t buildpipeline.Timings) {
	for _, st := range []buildpipeline.Stage{
		buildpipeline.StageLoad,
		buildpipeline.StageCache,
		buildpipeline.StageCompile,
		buildpipeline.StageEmit,
	} {
		if t.Has(st) {
			fmt.Fprintf(w, "%-8s %8.1f ms\n", st, toMillis(t.Duration(st)))
		}
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
