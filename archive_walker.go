// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"io"
)

// archiveWalker is an interface that represents a file walker in an archive
type archiveWalker interface {
	Type() string
	Next() (archiveEntry, error)
}

// archiveEntry is an interface that represents a file in an archive
type archiveEntry interface {
	// Name returns the path of the entry inside the archive
	Name() string

	// Size returns the reported size of the entry, -1 if unknown
	Size() int64

	// IsRegular returns true if the entry is a regular file
	IsRegular() bool

	// Open returns a reader for the content of the entry
	Open() (io.ReadCloser, error)
}

// sizeUnknown is the reported size of entries that do not carry a size.
const sizeUnknown int64 = -1
