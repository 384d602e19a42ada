// Package filestore is the on-disk artifact cache.
package filestore

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/couchcryptid/ice-climatology-map/internal/domain"
	"github.com/natefinch/atomic"
)

// Store publishes and looks up rendered artifacts on the local filesystem.
// It implements pipeline.ArtifactStore.
type Store struct{}

// New returns a filesystem artifact store.
func New() *Store { return &Store{} }

// Exists reports whether a published artifact is present at path. Only
// regular files count.
func (s *Store) Exists(_ context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, &domain.IOError{Op: "stat artifact", Path: path, Err: err}
	default:
		return info.Mode().IsRegular(), nil
	}
}

// Publish writes data to path via a temp file in the same directory and a
// rename, so readers see either no file or the complete artifact.
func (s *Store) Publish(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &domain.IOError{Op: "create artifact dir", Path: filepath.Dir(path), Err: err}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return &domain.IOError{Op: "publish artifact", Path: path, Err: err}
	}
	return nil
}

// CheckWritable verifies dir can hold new artifacts by creating and removing
// a probe file.
func (s *Store) CheckWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.IOError{Op: "create output dir", Path: dir, Err: err}
	}
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return &domain.IOError{Op: "write output dir", Path: dir, Err: err}
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
