package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"paxy/internal/bytecode"
	"paxy/internal/diag"
	"paxy/internal/emit"
	"paxy/internal/source"
)

// ArtifactPath names the artifact for src. With an empty outDir the
// artifact sits next to the source; otherwise it keeps src's path
// relative to root under outDir.
func ArtifactPath(root, src, outDir string, f emit.Format) string {
	name := strings.TrimSuffix(src, filepath.Ext(src)) + f.Ext()
	if outDir == "" {
		return name
	}
	rel, err := filepath.Rel(root, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(name)
	}
	return filepath.Join(outDir, rel)
}

// WriteArtifact encodes u in format f and replaces path atomically.
func WriteArtifact(path string, u *bytecode.Unit, f emit.Format) error {
	var buf bytes.Buffer
	em, err := emit.New(f)
	if err != nil {
		return err
	}
	if err := em.Emit(&buf, u); err != nil {
		return err
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return diag.Errorf(diag.IOWriteFailed, source.Span{}, 0, "%s: %v", path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
