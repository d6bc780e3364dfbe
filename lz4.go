// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

var magicBytesLZ4 = [][]byte{
	{0x04, 0x22, 0x4D, 0x18},
}

var compressionLZ4 = compression{
	Ext:        "lz4",
	Suffixes:   []string{".lz4"},
	MagicBytes: magicBytesLZ4,
	NewReader:  decompressLZ4Stream,
}

func decompressLZ4Stream(src io.Reader) (io.Reader, error) {
	return lz4.NewReader(src), nil
}
