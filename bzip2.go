// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"io"

	"github.com/dsnet/compress/bzip2"
)

// magicBytesBzip2 are the magic bytes for bzip2 compressed files.
var magicBytesBzip2 = [][]byte{
	[]byte("BZh1"),
	[]byte("BZh2"),
	[]byte("BZh3"),
	[]byte("BZh4"),
	[]byte("BZh5"),
	[]byte("BZh6"),
	[]byte("BZh7"),
	[]byte("BZh8"),
	[]byte("BZh9"),
}

var compressionBzip2 = compression{
	Ext:        "bz2",
	Suffixes:   []string{".tbz2", ".bz2"},
	MagicBytes: magicBytesBzip2,
	NewReader:  decompressBz2Stream,
}

func decompressBz2Stream(src io.Reader) (io.Reader, error) {
	return bzip2.NewReader(src, &bzip2.ReaderConfig{})
}
