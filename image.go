// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// mimeHeaderLength is the number of bytes inspected for content detection.
const mimeHeaderLength = 3072

// imageExtractor writes image entries into the flat output directory.
type imageExtractor struct {
	t   Target
	cfg *Config
}

func newImageExtractor(t Target, cfg *Config) *imageExtractor {
	return &imageExtractor{t: t, cfg: cfg}
}

// matches returns true if name ends with a supported image extension.
func (x *imageExtractor) matches(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range x.cfg.ImageExtensions() {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// extract writes ae under a unique name into the output directory. Entries
// above the size limit are skipped without log output.
func (x *imageExtractor) extract(ctx context.Context, key string, ae archiveEntry, td *TelemetryData) error {
	emit := x.cfg.EventHook()

	// check reported size
	if size := ae.Size(); size != sizeUnknown && size > x.cfg.MaxImageSize() {
		td.OversizedImages++
		emit(ctx, Event{Kind: EventEntryOversized, Key: key, Name: ae.Name(), Size: size})
		return nil
	}

	rc, err := ae.Open()
	if err != nil {
		return errors.Wrapf(err, "cannot open entry %s", ae.Name())
	}
	defer rc.Close()

	var src io.Reader = rc
	if x.cfg.VerifyImageContent() {
		hr, err := newHeaderReader(rc, mimeHeaderLength)
		if err != nil {
			return errors.Wrapf(err, "cannot read entry %s", ae.Name())
		}
		mt := mimetype.Detect(hr.PeekHeader())
		if !strings.HasPrefix(mt.String(), "image/") {
			x.cfg.Logger().Debug("skipping entry (content mismatch)", "name", ae.Name(), "mime", mt.String())
			td.ContentMismatches++
			emit(ctx, Event{Kind: EventContentMismatch, Key: key, Name: ae.Name(), Size: ae.Size()})
			return nil
		}
		src = hr
	}

	// write with a hard limit, the reported size may be wrong
	dst := path.Join(x.cfg.OutputDir(), uniqueName(path.Base(ae.Name())))
	n, err := x.t.CreateFile(dst, src, x.cfg.FileMode(), false, x.cfg.MaxImageSize())
	if errors.Is(err, ErrMaxSizeExceeded) {
		if err := remove(x.t, dst); err != nil {
			return err
		}
		td.OversizedImages++
		emit(ctx, Event{Kind: EventEntryOversized, Key: key, Name: ae.Name(), Size: n})
		return nil
	}
	if err != nil {
		return err
	}

	td.ExtractedImages++
	td.ExtractionSize += n
	x.cfg.Logger().Info("Extracted image", "path", dst)
	emit(ctx, Event{Kind: EventImageExtracted, Key: key, Name: dst, Size: n})
	return nil
}
