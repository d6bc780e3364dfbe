package imgharvest

import (
	"bytes"
	"io"
	"testing"
)

func TestHeaderReader(t *testing.T) {
	tests := []struct {
		name       string
		input      []byte
		headerSize int
		wantHeader []byte
	}{
		{name: "longer input", input: []byte("hello world"), headerSize: 5, wantHeader: []byte("hello")},
		{name: "short input", input: []byte("hi"), headerSize: 5, wantHeader: []byte("hi")},
		{name: "empty input", input: []byte{}, headerSize: 5, wantHeader: []byte{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hr, err := newHeaderReader(bytes.NewReader(tc.input), tc.headerSize)
			if err != nil {
				t.Fatalf("newHeaderReader() error = %v", err)
			}
			if !bytes.Equal(hr.PeekHeader(), tc.wantHeader) {
				t.Errorf("PeekHeader() = %q, want %q", hr.PeekHeader(), tc.wantHeader)
			}

			// the full input is still readable and the header stays peekable
			data, err := io.ReadAll(hr)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if !bytes.Equal(data, tc.input) {
				t.Errorf("ReadAll() = %q, want %q", data, tc.input)
			}
			if !bytes.Equal(hr.PeekHeader(), tc.wantHeader) {
				t.Errorf("PeekHeader() after read = %q, want %q", hr.PeekHeader(), tc.wantHeader)
			}
		})
	}
}

func TestMatchesMagicBytes(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		offset int
		magic  [][]byte
		want   bool
	}{
		{name: "match at start", data: []byte{0x1f, 0x8b, 0x08}, magic: magicBytesGZip, want: true},
		{name: "no match", data: []byte{0x00, 0x00}, magic: magicBytesGZip, want: false},
		{name: "too short", data: []byte{0x1f}, magic: magicBytesGZip, want: false},
		{name: "match at offset", data: append(make([]byte, offsetTar), []byte("ustar\x00")...), offset: offsetTar, magic: magicBytesTar, want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := matchesMagicBytes(tc.data, tc.offset, tc.magic); got != tc.want {
				t.Errorf("matchesMagicBytes() = %v, want %v", got, tc.want)
			}
		})
	}
}
