// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package imgharvest harvests figure images from the arXiv source bucket.
//
// A [Harvester] lists the monthly source packages of a date window with a
// [Catalog], downloads each package with a [Fetcher] and hands it to a
// [Walker], which walks tar, zip, 7z and rar archives as well as compressed
// streams, recursing into nested archives. Every png, jpg/jpeg and gif entry
// up to the size limit is written under a unique name into a flat output
// directory. Temporary files are removed as soon as they are no longer needed.
//
// Configuration is done using the [Config], which follows the option pattern.
// Local files go through a [Target], per key [TelemetryData] is reported to a
// [TelemetryHook] and single decisions are reported to an [EventHook].
package imgharvest
