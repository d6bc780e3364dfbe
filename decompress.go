// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"io"
	"strings"
)

// decompressionFunc returns a reader that decompresses src.
type decompressionFunc func(src io.Reader) (io.Reader, error)

// compression describes a single stream compression format.
type compression struct {
	// Ext is the canonical file extension without dot
	Ext string

	// Suffixes are the lowercased file suffixes, longest first
	Suffixes []string

	// MagicBytes are the possible leading bytes of a compressed stream
	MagicBytes [][]byte

	// NewReader starts the decompression
	NewReader decompressionFunc
}

// matches returns true if header starts with the magic bytes of c.
func (c compression) matches(header []byte) bool {
	return matchesMagicBytes(header, 0, c.MagicBytes)
}

// suffix returns the suffix of name that belongs to c, or an empty string.
func (c compression) suffix(name string) string {
	lower := strings.ToLower(name)
	for _, s := range c.Suffixes {
		if strings.HasSuffix(lower, s) {
			return s
		}
	}
	return ""
}

// availableCompressions are all stream compressions that can be unwrapped.
var availableCompressions = []compression{
	compressionGZip,
	compressionBzip2,
	compressionXz,
	compressionZstd,
	compressionLZ4,
	compressionSnappy,
	compressionZlib,
	compressionBrotli,
}

// archiveSuffixes are the suffixes of archive formats that are detected
// by magic bytes.
var archiveSuffixes = []string{
	"." + fileExtensionTar,
	"." + fileExtensionZip,
	"." + fileExtension7zip,
	"." + fileExtensionRar,
}

// maxHeaderLength is the number of bytes needed to detect every format
var maxHeaderLength int

// init calculates the maximum header length
func init() {
	needs := offsetTar + len(magicBytesTar[0])
	for _, mbs := range [][][]byte{magicBytesZip, magicBytes7zip, magicBytesRar} {
		for _, mb := range mbs {
			if len(mb) > needs {
				needs = len(mb)
			}
		}
	}
	for _, c := range availableCompressions {
		for _, mb := range c.MagicBytes {
			if len(mb) > needs {
				needs = len(mb)
			}
		}
	}
	maxHeaderLength = needs
}

// defaultNestedSuffixes returns the suffixes of every archive and
// compression format that the walker can open.
func defaultNestedSuffixes() []string {
	suffixes := append([]string{}, archiveSuffixes...)
	for _, c := range availableCompressions {
		suffixes = append(suffixes, c.Suffixes...)
	}
	return suffixes
}

// detectCompression returns the compression of a stream with header and file
// name. Magic bytes win over the suffix, the suffix is only used for formats
// without magic bytes.
func detectCompression(header []byte, name string) (compression, bool) {
	for _, c := range availableCompressions {
		if c.matches(header) {
			return c, true
		}
	}
	for _, c := range availableCompressions {
		if len(c.MagicBytes) == 0 && len(c.suffix(name)) > 0 {
			return c, true
		}
	}
	return compression{}, false
}

// decompressedName determines the name of the content of the compressed
// file name. Tar shorthands like .tgz become .tar.
func decompressedName(c compression, name string) string {
	s := c.suffix(name)
	if len(s) == 0 {
		return name + ".decompressed"
	}
	base := name[:len(name)-len(s)]
	if s == ".t"+c.Ext {
		return base + ".tar"
	}
	return base
}

// singleFileWalker is a walker over a decompressed stream that is not an
// archive. It yields exactly one regular entry.
type singleFileWalker struct {
	name string
	r    io.Reader
	ext  string
	done bool
}

// Type returns the compression extension
func (s *singleFileWalker) Type() string {
	return s.ext
}

// Next returns the decompressed content once, then io.EOF
func (s *singleFileWalker) Next() (archiveEntry, error) {
	if s.done {
		return nil, io.EOF
	}
	s.done = true
	return &singleFileEntry{name: s.name, r: s.r}, nil
}

// singleFileEntry is the content of a compressed file
type singleFileEntry struct {
	name string
	r    io.Reader
}

// Name returns the name of the file without compression suffix
func (s *singleFileEntry) Name() string {
	return s.name
}

// Size is unknown for streams
func (s *singleFileEntry) Size() int64 {
	return sizeUnknown
}

// IsRegular is always true
func (s *singleFileEntry) IsRegular() bool {
	return true
}

// Open returns the decompressed stream
func (s *singleFileEntry) Open() (io.ReadCloser, error) {
	return io.NopCloser(s.r), nil
}
