// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"io"

	"github.com/andybalholm/brotli"
)

// compressionBrotli has no magic bytes, brotli streams are only recognized
// by their suffix.
var compressionBrotli = compression{
	Ext:       "br",
	Suffixes:  []string{".br"},
	NewReader: decompressBrotliStream,
}

func decompressBrotliStream(src io.Reader) (io.Reader, error) {
	return brotli.NewReader(src), nil
}
