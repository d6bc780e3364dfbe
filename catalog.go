// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
)

// Catalog enumerates the remote keys that belong to the configured window.
type Catalog struct {
	client ListObjectsV2APIClient
	cfg    *Config
}

// NewCatalog returns a [Catalog] that lists with client.
func NewCatalog(client ListObjectsV2APIClient, cfg *Config) *Catalog {
	return &Catalog{client: client, cfg: cfg}
}

// Keys starts a new listing. Every call lists the bucket again.
func (c *Catalog) Keys() *KeyIterator {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.cfg.Bucket()),
		Prefix: aws.String(c.cfg.Prefix()),
	}
	if c.cfg.RequesterPays() {
		input.RequestPayer = types.RequestPayerRequester
	}

	pages := s3.NewListObjectsV2Paginator(c.client, input, func(o *s3.ListObjectsV2PaginatorOptions) {
		if c.cfg.PageSize() > 0 {
			o.Limit = c.cfg.PageSize()
		}
	})

	return &KeyIterator{pages: pages, cfg: c.cfg}
}

// KeyIterator yields the accepted keys of one listing. It is not safe for
// concurrent use.
type KeyIterator struct {
	pages *s3.ListObjectsV2Paginator
	cfg   *Config
	buf   []types.Object
}

// Next returns the next accepted key. It returns io.EOF once the listing is
// exhausted. Listing errors are returned as is and end the iteration.
func (it *KeyIterator) Next(ctx context.Context) (ObjectKey, error) {
	for {
		for len(it.buf) > 0 {
			obj := it.buf[0]
			it.buf = it.buf[1:]
			if key, ok := it.accept(ctx, aws.ToString(obj.Key)); ok {
				return key, nil
			}
		}

		if !it.pages.HasMorePages() {
			return ObjectKey{}, io.EOF
		}

		page, err := it.pages.NextPage(ctx)
		if err != nil {
			return ObjectKey{}, errors.Wrapf(err, "cannot list s3://%s/%s", it.cfg.Bucket(), it.cfg.Prefix())
		}
		if len(page.Contents) == 0 {
			it.cfg.Logger().Info("No files found", "bucket", it.cfg.Bucket(), "prefix", it.cfg.Prefix())
		}
		it.buf = page.Contents
	}
}

// accept parses key and filters by window and suffix.
func (it *KeyIterator) accept(ctx context.Context, key string) (ObjectKey, bool) {
	emit := it.cfg.EventHook()

	k, err := ParseKey(key)
	if err != nil {
		emit(ctx, Event{Kind: EventKeyUnparseable, Key: key, Err: err})
		return ObjectKey{}, false
	}

	if !it.cfg.Window().ContainsMonth(k.Month) {
		emit(ctx, Event{Kind: EventKeyOutsideWindow, Key: key})
		return ObjectKey{}, false
	}

	if !k.HasSuffix(it.cfg.KeySuffixes()...) {
		emit(ctx, Event{Kind: EventKeySuffixMismatch, Key: key})
		return ObjectKey{}, false
	}

	return k, true
}
