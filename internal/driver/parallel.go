package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"paxy/internal/buildpipeline"
	"paxy/internal/bytecode"
	"paxy/internal/compiler"
	"paxy/internal/emit"
	"paxy/internal/source"
	"paxy/internal/trace"
)

// BuildOptions configures CompileFiles.
type BuildOptions struct {
	Compiler compiler.Options
	Jobs     int // 0 means GOMAXPROCS

	// Emit writes one artifact per unit in Format.
	Emit   bool
	Format emit.Format
	Root   string // base for artifact paths under OutDir
	OutDir string

	Cache *DiskCache
	Sink  buildpipeline.ProgressSink
}

// FileResult is the outcome for one input file. Err holds the compile
// error; a failing file never stops the others.
type FileResult struct {
	Path     string
	FileSet  *source.FileSet // holds the loaded file; nil when loading failed
	Unit     *bytecode.Unit
	Artifact string
	Cached   bool
	Err      error
	Timings  buildpipeline.Timings
}

// BuildReport summarizes CompileFiles.
type BuildReport struct {
	Files   []FileResult // in input order
	Elapsed time.Duration
}

// Failed counts files that did not compile.
func (r *BuildReport) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// Timings sums the per-file stage durations.
func (r *BuildReport) Timings() buildpipeline.Timings {
	var total buildpipeline.Timings
	for _, f := range r.Files {
		for _, st := range []buildpipeline.Stage{buildpipeline.StageLoad, buildpipeline.StageCache, buildpipeline.StageCompile, buildpipeline.StageEmit} {
			if f.Timings.Has(st) {
				total.Add(st, f.Timings.Duration(st))
			}
		}
	}
	return total
}

// CompileFiles compiles every path concurrently, at most opts.Jobs at a
// time. Results keep the order of paths. The returned error is non-nil
// only when ctx is cancelled.
func CompileFiles(ctx context.Context, paths []string, opts BuildOptions) (*BuildReport, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "build")
	start := time.Now()

	report := &BuildReport{Files: make([]FileResult, len(paths))}
	for _, p := range paths {
		notify(opts.Sink, p, buildpipeline.StageLoad, buildpipeline.StatusQueued, nil, 0)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// each index is written by exactly one goroutine
			report.Files[i] = buildOne(gctx, path, opts)
			return nil
		})
	}
	err := g.Wait()
	report.Elapsed = time.Since(start)

	span.WithExtra("files", fmt.Sprint(len(paths)))
	span.WithExtra("failed", fmt.Sprint(report.Failed()))
	if err != nil {
		span.End(err.Error())
		return report, err
	}
	span.End("")
	return report, nil
}

// BuildDir compiles every source under dir.
func BuildDir(ctx context.Context, dir string, opts BuildOptions) (*BuildReport, error) {
	paths, err := ListSources(dir)
	if err != nil {
		return nil, err
	}
	if opts.Root == "" {
		opts.Root = dir
	}
	return CompileFiles(ctx, paths, opts)
}

func buildOne(ctx context.Context, path string, opts BuildOptions) FileResult {
	res := FileResult{Path: path}
	fail := func(stage buildpipeline.Stage, err error, began time.Time) FileResult {
		res.Err = err
		res.Timings.Add(stage, time.Since(began))
		notify(opts.Sink, path, stage, buildpipeline.StatusError, err, time.Since(began))
		return res
	}

	began := time.Now()
	notify(opts.Sink, path, buildpipeline.StageLoad, buildpipeline.StatusWorking, nil, 0)
	fileSet, f, err := LoadFile(path)
	if err != nil {
		return fail(buildpipeline.StageLoad, err, began)
	}
	res.FileSet = fileSet
	res.Timings.Add(buildpipeline.StageLoad, time.Since(began))

	if opts.Cache != nil {
		began = time.Now()
		key := CacheKey(f, opts.Compiler)
		var payload DiskPayload
		ok, cerr := opts.Cache.Get(key, &payload)
		res.Timings.Add(buildpipeline.StageCache, time.Since(began))
		if cerr == nil && ok {
			res.Unit = payload.Unit
			res.Cached = true
		}
		defer func() {
			if res.Err == nil && !res.Cached {
				_ = opts.Cache.Put(key, &DiskPayload{Source: path, Fingerprint: opts.Compiler.Fingerprint(), Unit: res.Unit})
			}
		}()
	}

	if res.Unit == nil {
		began = time.Now()
		notify(opts.Sink, path, buildpipeline.StageCompile, buildpipeline.StatusWorking, nil, 0)
		cr, err := compiler.Compile(ctx, f, opts.Compiler)
		if err != nil {
			return fail(buildpipeline.StageCompile, err, began)
		}
		res.Unit = cr.Unit
		res.Timings.Add(buildpipeline.StageCompile, time.Since(began))
	}

	if opts.Emit {
		began = time.Now()
		notify(opts.Sink, path, buildpipeline.StageEmit, buildpipeline.StatusWorking, nil, 0)
		res.Artifact = ArtifactPath(opts.Root, path, opts.OutDir, opts.Format)
		if err := WriteArtifact(res.Artifact, res.Unit, opts.Format); err != nil {
			return fail(buildpipeline.StageEmit, err, began)
		}
		res.Timings.Add(buildpipeline.StageEmit, time.Since(began))
	}

	status, stage := buildpipeline.StatusDone, buildpipeline.StageCompile
	if res.Cached {
		status, stage = buildpipeline.StatusCached, buildpipeline.StageCache
	}
	if opts.Emit {
		stage = buildpipeline.StageEmit
	}
	notify(opts.Sink, path, stage, status, nil, res.Timings.Sum(buildpipeline.StageLoad, buildpipeline.StageCache, buildpipeline.StageCompile, buildpipeline.StageEmit))
	return res
}

func notify(sink buildpipeline.ProgressSink, file string, stage buildpipeline.Stage, status buildpipeline.Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(buildpipeline.Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
