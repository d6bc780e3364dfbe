// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"io"

	"github.com/ulikunitz/xz"
)

var magicBytesXz = [][]byte{
	{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00},
}

var compressionXz = compression{
	Ext:        "xz",
	Suffixes:   []string{".txz", ".xz"},
	MagicBytes: magicBytesXz,
	NewReader:  decompressXzStream,
}

func decompressXzStream(src io.Reader) (io.Reader, error) {
	return xz.NewReader(src)
}
