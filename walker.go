// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"
)

// Walker opens archives and walks their entries. Images are written to the
// output directory, nested archives are materialized into the work
// directory, walked the same way and removed afterwards.
type Walker struct {
	t      Target
	cfg    *Config
	images *imageExtractor
}

// NewWalker returns a [Walker] that reads from and writes to t.
func NewWalker(t Target, cfg *Config) *Walker {
	return &Walker{
		t:      t,
		cfg:    cfg,
		images: newImageExtractor(t, cfg),
	}
}

// Walk extracts all images from the archive stored at path in the target,
// including images in nested archives. Counters are added to td, the key in
// td is used for emitted events.
func (w *Walker) Walk(ctx context.Context, path string, td *TelemetryData) error {
	if td == nil {
		td = &TelemetryData{}
	}

	// output and work directory must exist before the first entry
	for _, dir := range []string{w.cfg.OutputDir(), w.cfg.WorkDir()} {
		if err := w.t.CreateDir(dir, w.cfg.CreateDirMode()); err != nil {
			return err
		}
	}

	return w.walkFile(ctx, path, pathBase(path), 0, td)
}

// walkFile opens the file at p as an archive and walks it. name is the
// original name of the file and used for suffix based detection.
func (w *Walker) walkFile(ctx context.Context, p string, name string, depth int, td *TelemetryData) error {
	f, err := w.t.Open(p)
	if err != nil {
		return errors.Wrapf(err, "cannot open %s", p)
	}
	defer f.Close()

	aw, closer, err := openArchive(f, name)
	if err != nil {
		return errors.Wrapf(err, "cannot open archive %s", name)
	}
	if closer != nil {
		defer closer.Close()
	}

	w.cfg.Logger().Debug("walk archive", "name", name, "type", aw.Type(), "depth", depth)
	return w.walk(ctx, aw, depth, td)
}

// walk iterates over all entries of aw and dispatches the regular files.
func (w *Walker) walk(ctx context.Context, aw archiveWalker, depth int, td *TelemetryData) error {
	emit := w.cfg.EventHook()
	for {
		// check if context is canceled
		if err := ctx.Err(); err != nil {
			return err
		}

		ae, err := aw.Next()
		switch {

		// if no more files are found exit loop
		case err == io.EOF:
			return nil

		case err != nil:
			return errors.Wrapf(err, "cannot read %s archive", aw.Type())

		// if the entry is nil, just skip it
		case ae == nil:
			continue
		}

		if !ae.IsRegular() {
			continue
		}

		name := pathBase(ae.Name())
		switch {
		case w.images.matches(name):
			if err := w.images.extract(ctx, td.Key, ae, td); err != nil {
				return err
			}

		case w.isNested(name):
			if err := w.walkNested(ctx, ae, name, depth+1, td); err != nil {
				return err
			}

		default:
			td.IgnoredEntries++
			emit(ctx, Event{Kind: EventEntryIgnored, Key: td.Key, Name: ae.Name(), Size: ae.Size()})
		}
	}
}

// walkNested materializes ae into a temp file, walks it and removes it. A
// nested archive that cannot be walked is logged and skipped, only cleanup
// failures and cancellation are returned.
func (w *Walker) walkNested(ctx context.Context, ae archiveEntry, name string, depth int, td *TelemetryData) error {
	emit := w.cfg.EventHook()

	if depth > w.cfg.MaxDepth() {
		w.cfg.Logger().Warn("skipping nested archive (maximum depth exceeded)", "name", ae.Name(), "depth", depth)
		emit(ctx, Event{Kind: EventDepthExceeded, Key: td.Key, Name: ae.Name(), Size: ae.Size(), Err: ErrMaxDepthExceeded})
		return nil
	}

	tmp, err := w.materialize(ae)
	if err != nil {
		return err
	}

	td.NestedArchives++
	emit(ctx, Event{Kind: EventNestedArchive, Key: td.Key, Name: ae.Name(), Size: ae.Size()})
	walkErr := w.walkFile(ctx, tmp, name, depth, td)

	// release the temp file before looking at the result
	if err := remove(w.t, tmp); err != nil {
		return err
	}

	if walkErr == nil {
		return nil
	}
	if errors.Is(walkErr, ErrCleanup) || ctx.Err() != nil {
		return walkErr
	}

	captureError(td, walkErr)
	w.cfg.Logger().Error("Error extracting nested archive", "name", ae.Name(), "error", walkErr)
	emit(ctx, Event{Kind: EventNestedFailed, Key: td.Key, Name: ae.Name(), Size: ae.Size(), Err: walkErr})
	return nil
}

// materialize copies the content of ae into a new temp file in the work
// directory and returns its path.
func (w *Walker) materialize(ae archiveEntry) (string, error) {
	rc, err := ae.Open()
	if err != nil {
		return "", errors.Wrapf(err, "cannot open entry %s", ae.Name())
	}
	defer rc.Close()

	f, err := w.t.CreateTemp(w.cfg.WorkDir(), defaultTempPrefix)
	if err != nil {
		return "", err
	}
	tmp := f.Name()

	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		if rerr := remove(w.t, tmp); rerr != nil {
			return "", rerr
		}
		return "", errors.Wrapf(err, "cannot materialize entry %s", ae.Name())
	}

	if err := f.Close(); err != nil {
		if rerr := remove(w.t, tmp); rerr != nil {
			return "", rerr
		}
		return "", errors.Wrapf(err, "cannot close temp file %s", tmp)
	}

	return tmp, nil
}

// isNested returns true if name ends with a nested archive suffix.
func (w *Walker) isNested(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range w.cfg.NestedSuffixes() {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// openArchive detects the format of f and returns a walker over its
// entries. The returned closer, if any, must be closed after the walk.
func openArchive(f billy.File, name string) (archiveWalker, io.Closer, error) {
	hr, err := newHeaderReader(f, maxHeaderLength)
	if err != nil {
		return nil, nil, err
	}
	header := hr.PeekHeader()

	switch {
	case isZip(header):
		size, err := f.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, nil, errors.Wrap(err, "cannot seek to end of file")
		}
		zw, err := newZipWalker(f, size)
		return zw, nil, err

	case is7zip(header):
		size, err := f.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, nil, errors.Wrap(err, "cannot seek to end of file")
		}
		sw, err := newSevenZipWalker(f, size)
		return sw, nil, err

	case isRar(header):
		rw, err := newRarWalker(hr)
		return rw, nil, err

	case isTar(header):
		return newTarWalker(hr), nil, nil
	}

	if c, ok := detectCompression(header, name); ok {
		return openCompressed(hr, c, name)
	}

	// old tar formats carry no magic bytes
	if strings.HasSuffix(strings.ToLower(name), "."+fileExtensionTar) {
		return newTarWalker(hr), nil, nil
	}

	return nil, nil, errors.Wrapf(ErrUnsupportedFormat, "file %s", name)
}

// openCompressed starts decompressing src. A decompressed tar is walked as
// tar, everything else as a single file named after the compressed file.
func openCompressed(src io.Reader, c compression, name string) (archiveWalker, io.Closer, error) {
	dec, err := c.NewReader(src)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "cannot start %s decompression", c.Ext)
	}

	var closer io.Closer
	if cl, ok := dec.(io.Closer); ok {
		closer = cl
	}

	hr, err := newHeaderReader(dec, maxHeaderLength)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, nil, errors.Wrapf(err, "cannot read decompressed %s header", c.Ext)
	}

	if isTar(hr.PeekHeader()) {
		return newTarWalker(hr), closer, nil
	}
	return &singleFileWalker{name: decompressedName(c, name), r: hr, ext: c.Ext}, closer, nil
}

// pathBase returns the last element of a slash separated path.
func pathBase(p string) string {
	return path.Base(strings.TrimSuffix(p, "/"))
}
