// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// magicBytesGZip are the magic bytes for gzip compressed files.
var magicBytesGZip = [][]byte{
	{0x1f, 0x8b},
}

// compressionGZip decompresses .gz and .tgz files. arXiv wraps almost every
// paper in a gzip compressed tar.
var compressionGZip = compression{
	Ext:        "gz",
	Suffixes:   []string{".tgz", ".gz"},
	MagicBytes: magicBytesGZip,
	NewReader:  decompressGZipStream,
}

// decompressGZipStream returns an io.Reader that decompresses src with gzip algorithm.
func decompressGZipStream(src io.Reader) (io.Reader, error) {
	return gzip.NewReader(src)
}
