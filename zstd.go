// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

var magicBytesZstd = [][]byte{
	{0x28, 0xb5, 0x2f, 0xfd},
}

var compressionZstd = compression{
	Ext:        "zst",
	Suffixes:   []string{".tzst", ".zst"},
	MagicBytes: magicBytesZstd,
	NewReader:  decompressZstdStream,
}

// decompressZstdStream returns a closable zstd decoder. The decoder itself
// has a Close without error result, so it is wrapped.
func decompressZstdStream(src io.Reader) (io.Reader, error) {
	d, err := zstd.NewReader(src)
	if err != nil {
		return nil, err
	}
	return d.IOReadCloser(), nil
}
