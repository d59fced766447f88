package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"paxy/internal/compiler"
	"paxy/internal/diag"
	"paxy/internal/source"
)

// SourceExt is the extension of paxy source files.
const SourceExt = ".px"

// LoadFile reads path into a fresh file set. Read failures are reported
// as IOReadFailed errors.
func LoadFile(path string) (*source.FileSet, *source.File, error) {
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		return nil, nil, diag.Errorf(diag.IOReadFailed, source.Span{}, 0, "%s: %v", path, err)
	}
	return fileSet, fileSet.Get(id), nil
}

// CompileFile loads and compiles one source file.
func CompileFile(ctx context.Context, path string, opts compiler.Options) (*compiler.Result, error) {
	_, f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(ctx, f, opts)
}

// ListSources returns every *.px file under dir in sorted order. Hidden
// directories are skipped.
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
