package imgharvest_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"io"
	"math/rand"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/arxiv-tools/imgharvest"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

// archiveContent is a single regular file packed by the pack helpers
type archiveContent struct {
	Name    string
	Content []byte
}

// packTar returns a tar archive with files
func packTar(t *testing.T, files []archiveContent) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, f := range files {
		hdr := &tar.Header{
			Name:     f.Name,
			Mode:     0640,
			Size:     int64(len(f.Content)),
			Typeflag: tar.TypeReg,
		}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write(f.Content)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

// packTarDir returns a tar archive that only holds the directory name
func packTarDir(t *testing.T, name string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0750, Typeflag: tar.TypeDir}))
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

// packZip returns a zip archive with files
func packZip(t *testing.T, files []archiveContent) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.Name)
		require.NoError(t, err)
		_, err = w.Write(f.Content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// compressGzip returns data gzip compressed
func compressGzip(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(data)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

// randomBytes returns n deterministic pseudo random bytes
func randomBytes(n int) []byte {
	b := make([]byte, n)
	r := rand.New(rand.NewSource(int64(n)))
	_, _ = r.Read(b)
	return b
}

// pngBytes returns n bytes that start with the png signature
func pngBytes(n int) []byte {
	b := randomBytes(n)
	copy(b, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x10\x00\x00\x00\x10\x08\x02\x00\x00\x00"))
	return b
}

// newMemTarget returns a target on a fresh in-memory filesystem
func newMemTarget() (*imgharvest.BillyTarget, billy.Filesystem) {
	fs := memfs.New()
	return imgharvest.NewTarget(fs), fs
}

// writeFile stores data at path in fs
func writeFile(t *testing.T, fs billy.Filesystem, path string, data []byte) {
	t.Helper()
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640)
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

// readFile returns the content of path in fs
func readFile(t *testing.T, fs billy.Filesystem, path string) []byte {
	t.Helper()
	f, err := fs.Open(path)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return data
}

// listDir returns the sorted names of all entries in dir, or nil if dir
// does not exist
func listDir(t *testing.T, fs billy.Filesystem, dir string) []string {
	t.Helper()
	infos, err := fs.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, fi := range infos {
		names = append(names, fi.Name())
	}
	sort.Strings(names)
	return names
}

// eventRecorder collects all events of a run
type eventRecorder struct {
	mu     sync.Mutex
	events []imgharvest.Event
}

func (r *eventRecorder) hook(ctx context.Context, e imgharvest.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// kinds returns the number of events per kind
func (r *eventRecorder) kinds() map[imgharvest.EventKind]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := make(map[imgharvest.EventKind]int)
	for _, e := range r.events {
		m[e.Kind]++
	}
	return m
}

// logRecorder is a logger that remembers all messages
type logRecorder struct {
	mu       sync.Mutex
	messages []string
}

func (l *logRecorder) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *logRecorder) Debug(msg string, keysAndValues ...interface{}) { l.record(msg) }
func (l *logRecorder) Info(msg string, keysAndValues ...interface{})  { l.record(msg) }
func (l *logRecorder) Warn(msg string, keysAndValues ...interface{})  { l.record(msg) }
func (l *logRecorder) Error(msg string, keysAndValues ...interface{}) { l.record(msg) }

// count returns how often msg was logged
func (l *logRecorder) count(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.messages {
		if m == msg {
			n++
		}
	}
	return n
}
