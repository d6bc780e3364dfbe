// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"io"

	"github.com/golang/snappy"
)

// magicBytesSnappy is the stream identifier of the snappy framing format.
var magicBytesSnappy = [][]byte{
	append([]byte{0xff, 0x06, 0x00, 0x00}, []byte("sNaPpY")...),
}

var compressionSnappy = compression{
	Ext:        "sz",
	Suffixes:   []string{".sz"},
	MagicBytes: magicBytesSnappy,
	NewReader:  decompressSnappyStream,
}

func decompressSnappyStream(src io.Reader) (io.Reader, error) {
	return snappy.NewReader(src), nil
}
