// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"context"
	"io"
)

// Harvester runs the whole pipeline: it lists the catalog and processes one
// key after the other.
type Harvester struct {
	cfg     *Config
	t       Target
	catalog *Catalog
	fetcher *Fetcher
}

// New returns a [Harvester] that uses client for the remote bucket and t for
// all local files.
func New(client S3API, t Target, cfg *Config) *Harvester {
	return &Harvester{
		cfg:     cfg,
		t:       t,
		catalog: NewCatalog(client, cfg),
		fetcher: NewFetcher(client, t, cfg),
	}
}

// Run harvests all images of the configured window. It returns listing
// errors, cleanup errors and the error of ctx. Failures of single keys are
// logged and skipped.
func (h *Harvester) Run(ctx context.Context) error {
	if err := h.t.CreateDir(h.cfg.OutputDir(), h.cfg.CreateDirMode()); err != nil {
		return err
	}

	keys := h.catalog.Keys()
	for {
		key, err := keys.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		h.cfg.Logger().Info("Processing file", "key", key.Key)
		if err := h.fetcher.Process(ctx, key); err != nil {
			return err
		}
	}
}
