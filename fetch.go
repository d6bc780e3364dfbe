// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"context"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
)

// walkableSuffixes are the download suffixes that are handed to the walker
var walkableSuffixes = []string{".tar.gz", ".tar"}

// Fetcher downloads a single key, extracts its images and removes the
// download again.
type Fetcher struct {
	client GetObjectAPIClient
	t      Target
	cfg    *Config
	walker *Walker
}

// NewFetcher returns a [Fetcher] that downloads with client into t.
func NewFetcher(client GetObjectAPIClient, t Target, cfg *Config) *Fetcher {
	return &Fetcher{
		client: client,
		t:      t,
		cfg:    cfg,
		walker: NewWalker(t, cfg),
	}
}

// Process downloads key and extracts its images. Download and extraction
// failures are logged and nil is returned. Only cleanup failures and
// cancellation of ctx are returned.
func (f *Fetcher) Process(ctx context.Context, key ObjectKey) error {
	td := &TelemetryData{Key: key.Key}

	// emit telemetry data once the key is done
	defer func(start time.Time) {
		captureDuration(td, start)
		f.cfg.TelemetryHook()(ctx, td)
	}(now())

	err := f.process(ctx, key, td)
	if err == nil {
		return nil
	}

	captureError(td, err)
	if errors.Is(err, ErrCleanup) || ctx.Err() != nil {
		return err
	}

	f.cfg.Logger().Error("Error downloading and extracting", "key", key.Key, "error", err)
	f.cfg.EventHook()(ctx, Event{Kind: EventKeyFailed, Key: key.Key, Err: err})
	return nil
}

func (f *Fetcher) process(ctx context.Context, key ObjectKey, td *TelemetryData) error {
	local, err := f.download(ctx, key, td)
	if err != nil {
		return err
	}
	f.cfg.Logger().Info("Downloaded", "key", key.Key, "path", local, "size", td.DownloadedBytes)

	if !key.HasSuffix(walkableSuffixes...) {
		f.cfg.Logger().Info("Unsupported file format", "path", local)
		f.cfg.EventHook()(ctx, Event{Kind: EventUnsupportedFormat, Key: key.Key, Name: local, Size: td.DownloadedBytes, Err: ErrUnsupportedFormat})
		if f.cfg.RemoveUnsupported() {
			if err := remove(f.t, local); err != nil {
				return err
			}
			f.cfg.Logger().Debug("removed unsupported download", "path", local)
		}
		return nil
	}

	walkErr := f.walker.Walk(ctx, local, td)

	// the archive is removed regardless of the walk result
	if err := remove(f.t, local); err != nil {
		return err
	}
	f.cfg.Logger().Info("Deleted archive", "path", local)

	return walkErr
}

// download stores the object of key in the download directory and returns
// the local path. A partial download is removed.
func (f *Fetcher) download(ctx context.Context, key ObjectKey, td *TelemetryData) (string, error) {
	dir := f.cfg.DownloadDir()
	if err := f.t.CreateDir(dir, f.cfg.CreateDirMode()); err != nil {
		return "", err
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(f.cfg.Bucket()),
		Key:    aws.String(key.Key),
	}
	if f.cfg.RequesterPays() {
		input.RequestPayer = types.RequestPayerRequester
	}

	out, err := f.client.GetObject(ctx, input)
	if err != nil {
		return "", errors.Wrapf(err, "cannot get s3://%s/%s", f.cfg.Bucket(), key.Key)
	}
	defer out.Body.Close()

	local := path.Join(dir, key.Base())
	body := newLimitErrorReader(out.Body, f.cfg.MaxDownloadSize())
	_, err = f.t.CreateFile(local, body, f.cfg.FileMode(), true, -1)
	td.DownloadedBytes = body.ReadBytes()
	if err != nil {
		if _, serr := f.t.Stat(local); serr == nil {
			if rerr := remove(f.t, local); rerr != nil {
				return "", rerr
			}
		}
		return "", errors.Wrapf(err, "cannot download s3://%s/%s", f.cfg.Bucket(), key.Key)
	}

	return local, nil
}
