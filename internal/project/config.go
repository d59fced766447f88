package project

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"

	"paxy/internal/codegen"
	"paxy/internal/compiler"
	"paxy/internal/diag"
	"paxy/internal/emit"
	"paxy/internal/source"
	"paxy/internal/symbols"
)

// Config mirrors paxy.toml. Every section and key is optional.
type Config struct {
	Compile CompileConfig `toml:"compile"`
	Output  OutputConfig  `toml:"output"`
	Build   BuildConfig   `toml:"build"`
}

type CompileConfig struct {
	Labels    string `toml:"labels"`
	Variables string `toml:"variables"`
	LoopEnd   string `toml:"loop_end"`
	Comment   string `toml:"comment"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Dir    string `toml:"dir"`
}

type BuildConfig struct {
	Jobs  int  `toml:"jobs"`
	Cache bool `toml:"cache"`
}

// Manifest is a loaded and validated paxy.toml.
type Manifest struct {
	Path    string
	Root    string
	Config  Config
	Options compiler.Options
	Format  emit.Format
	OutDir  string // absolute; empty means next to each source
	Jobs    int    // 0 means GOMAXPROCS
	Cache   bool
}

// Load decodes and validates the manifest at path. Unknown keys and
// invalid values are reported as ProjectBadValue errors.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, badValue(path, "failed to parse TOML: %v", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, badValue(path, "unknown key(s): %s", strings.Join(keys, ", "))
	}

	m := &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
		Jobs:   cfg.Build.Jobs,
		Cache:  true,
	}
	if m.Options, err = cfg.Compile.options(); err != nil {
		return nil, badValue(path, "[compile].%v", err)
	}
	if m.Format, err = emit.ParseFormat(cfg.Output.Format); err != nil {
		return nil, badValue(path, "[output].format: %v", err)
	}
	if dir := strings.TrimSpace(cfg.Output.Dir); dir != "" {
		if filepath.IsAbs(dir) {
			m.OutDir = filepath.Clean(dir)
		} else {
			m.OutDir = filepath.Join(m.Root, filepath.FromSlash(dir))
		}
	}
	if cfg.Build.Jobs < 0 {
		return nil, badValue(path, "[build].jobs must not be negative, got %d", cfg.Build.Jobs)
	}
	if meta.IsDefined("build", "cache") {
		m.Cache = cfg.Build.Cache
	}
	return m, nil
}

// Discover loads the nearest paxy.toml above startDir. ok is false when
// there is none.
func Discover(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := FindPaxyToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err = Load(path)
	return m, true, err
}

func (c CompileConfig) options() (compiler.Options, error) {
	var (
		opts compiler.Options
		err  error
	)
	if opts.Policy.Labels, err = symbols.ParseLabelPolicy(c.Labels); err != nil {
		return opts, fmt.Errorf("labels: %w", err)
	}
	if opts.Policy.Variables, err = symbols.ParseVariablePolicy(c.Variables); err != nil {
		return opts, fmt.Errorf("variables: %w", err)
	}
	if opts.LoopEnd, err = codegen.ParseLoopEndPolicy(c.LoopEnd); err != nil {
		return opts, fmt.Errorf("loop_end: %w", err)
	}
	if strings.IndexFunc(c.Comment, unicode.IsSpace) >= 0 {
		return opts, fmt.Errorf("comment: marker %q must not contain whitespace", c.Comment)
	}
	opts.Lexer.CommentMarker = c.Comment
	return opts, nil
}

func badValue(path, format string, args ...any) *diag.Error {
	e := diag.Errorf(diag.ProjectBadValue, source.Span{}, 0, format, args...)
	e.Message = path + ": " + e.Message
	return e
}
