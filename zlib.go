// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"io"

	"github.com/klauspost/compress/zlib"
)

var magicBytesZlib = [][]byte{
	{0x78, 0x01},
	{0x78, 0x5e},
	{0x78, 0x9c},
	{0x78, 0xda},
	{0x78, 0x20},
	{0x78, 0x7d},
	{0x78, 0xbb},
	{0x78, 0xf9},
}

var compressionZlib = compression{
	Ext:        "zz",
	Suffixes:   []string{".zz"},
	MagicBytes: magicBytesZlib,
	NewReader:  decompressZlibStream,
}

func decompressZlibStream(src io.Reader) (io.Reader, error) {
	return zlib.NewReader(src)
}
