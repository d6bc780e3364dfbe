// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import "github.com/pkg/errors"

var (
	// ErrUnparseableKey is returned by [ParseKey] if a key does not follow the
	// arXiv source naming scheme.
	ErrUnparseableKey = errors.New("key does not match arXiv source pattern")

	// ErrUnsupportedFormat is returned if a file is neither a known archive nor
	// a known compression format.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrMaxDepthExceeded is returned if archives are nested deeper than the
	// configured maximum.
	ErrMaxDepthExceeded = errors.New("maximum nesting depth exceeded")

	// ErrMaxSizeExceeded is returned if more bytes than allowed are written
	// to a single file.
	ErrMaxSizeExceeded = errors.New("maximum file size exceeded")

	// ErrCleanup is returned if a temporary file cannot be removed. It ends
	// the run.
	ErrCleanup = errors.New("cleanup failed")
)

// cleanupError wraps err so that errors.Is(err, ErrCleanup) holds while the
// original cause stays reachable.
type cleanupError struct {
	path string
	err  error
}

func (c *cleanupError) Error() string {
	return "cannot remove " + c.path + ": " + c.err.Error()
}

func (c *cleanupError) Unwrap() error {
	return c.err
}

func (c *cleanupError) Is(target error) bool {
	return target == ErrCleanup
}
