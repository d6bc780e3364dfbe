// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/arxiv-tools/imgharvest/cmd"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main start the image harvester cli `imgharvest`
func main() {
	cmd.Run(version, commit, date)
}
