// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"io"
	"io/fs"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"
)

// Target specifies all functions that are needed to store downloads,
// temporary archives and extracted images.
type Target interface {
	// CreateFile creates a file at path with src as content. If the file already exists and
	// overwrite is false, an error is returned. The size of the file must not exceed maxSize,
	// otherwise an error wrapping [ErrMaxSizeExceeded] is returned together with the number
	// of bytes written. If maxSize < 0, the file size is not limited.
	CreateFile(path string, src io.Reader, mode fs.FileMode, overwrite bool, maxSize int64) (int64, error)

	// CreateDir creates path and all missing parents with mode. Existing directories are kept.
	CreateDir(path string, mode fs.FileMode) error

	// CreateTemp creates a new temporary file in dir. The caller removes it.
	CreateTemp(dir string, prefix string) (billy.File, error)

	// Open opens path for reading.
	Open(path string) (billy.File, error)

	// Remove removes path.
	Remove(path string) error

	// Stat see docs for os.Stat.
	Stat(path string) (fs.FileInfo, error)
}

// BillyTarget is a [Target] backed by a go-billy filesystem.
type BillyTarget struct {
	fs billy.Filesystem
}

// NewTarget returns a [BillyTarget] that operates on fsys. Use osfs.New for
// the local disk and memfs.New for an in-memory filesystem.
func NewTarget(fsys billy.Filesystem) *BillyTarget {
	return &BillyTarget{fs: fsys}
}

// CreateFile implements [Target.CreateFile].
func (t *BillyTarget) CreateFile(path string, src io.Reader, mode fs.FileMode, overwrite bool, maxSize int64) (int64, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_EXCL
	}

	f, err := t.fs.OpenFile(path, flags, mode.Perm())
	if err != nil {
		return 0, errors.Wrapf(err, "cannot create file %s", path)
	}
	defer f.Close()

	n, err := io.Copy(limitWriter(f, maxSize), src)
	if errors.Is(err, io.ErrShortWrite) {
		return n, errors.Wrapf(ErrMaxSizeExceeded, "file %s exceeds %d bytes", path, maxSize)
	}
	if err != nil {
		return n, errors.Wrapf(err, "cannot write file %s", path)
	}
	return n, nil
}

// CreateDir implements [Target.CreateDir].
func (t *BillyTarget) CreateDir(path string, mode fs.FileMode) error {
	if err := t.fs.MkdirAll(path, mode.Perm()); err != nil {
		return errors.Wrapf(err, "cannot create directory %s", path)
	}
	return nil
}

// CreateTemp implements [Target.CreateTemp].
func (t *BillyTarget) CreateTemp(dir string, prefix string) (billy.File, error) {
	f, err := t.fs.TempFile(dir, prefix)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create temp file in %s", dir)
	}
	return f, nil
}

// Open implements [Target.Open].
func (t *BillyTarget) Open(path string) (billy.File, error) {
	return t.fs.Open(path)
}

// Remove implements [Target.Remove].
func (t *BillyTarget) Remove(path string) error {
	return t.fs.Remove(path)
}

// Stat implements [Target.Stat].
func (t *BillyTarget) Stat(path string) (fs.FileInfo, error) {
	return t.fs.Stat(path)
}

// remove deletes path from t and wraps failures in a cleanup error.
func remove(t Target, path string) error {
	if err := t.Remove(path); err != nil {
		return &cleanupError{path: path, err: err}
	}
	return nil
}
