// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"context"
	"fmt"
)

// EventKind identifies the decision an [Event] reports.
type EventKind int

const (
	// EventKeyUnparseable is emitted for listed keys that do not follow the naming scheme.
	EventKeyUnparseable EventKind = iota + 1

	// EventKeyOutsideWindow is emitted for keys whose month is outside the date window.
	EventKeyOutsideWindow

	// EventKeySuffixMismatch is emitted for keys without a fetched suffix.
	EventKeySuffixMismatch

	// EventUnsupportedFormat is emitted for downloads that cannot be extracted.
	EventUnsupportedFormat

	// EventKeyFailed is emitted if download or extraction of a key failed.
	EventKeyFailed

	// EventImageExtracted is emitted for every written image.
	EventImageExtracted

	// EventEntryOversized is emitted for images larger than the maximum size.
	EventEntryOversized

	// EventEntryIgnored is emitted for entries that are neither images nor archives.
	EventEntryIgnored

	// EventContentMismatch is emitted for images whose content is not an image.
	EventContentMismatch

	// EventNestedArchive is emitted for every nested archive that is walked.
	EventNestedArchive

	// EventNestedFailed is emitted for nested archives that cannot be walked.
	EventNestedFailed

	// EventDepthExceeded is emitted for nested archives deeper than the maximum depth.
	EventDepthExceeded
)

var eventKindNames = map[EventKind]string{
	EventKeyUnparseable:    "key_unparseable",
	EventKeyOutsideWindow:  "key_outside_window",
	EventKeySuffixMismatch: "key_suffix_mismatch",
	EventUnsupportedFormat: "unsupported_format",
	EventKeyFailed:         "key_failed",
	EventImageExtracted:    "image_extracted",
	EventEntryOversized:    "entry_oversized",
	EventEntryIgnored:      "entry_ignored",
	EventContentMismatch:   "content_mismatch",
	EventNestedArchive:     "nested_archive",
	EventNestedFailed:      "nested_failed",
	EventDepthExceeded:     "depth_exceeded",
}

// String returns the snake case name of the kind.
func (k EventKind) String() string {
	if n, ok := eventKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is a structured record of a single decision during a run. Most
// events correspond to decisions that are otherwise silent.
type Event struct {
	Kind EventKind

	// Key is the remote object key the event belongs to
	Key string

	// Name is the archive member or local path, if any
	Name string

	// Size is the reported size of the member, if any
	Size int64

	// Err is the cause for failure events
	Err error
}

// EventHook is a function type that receives every [Event] of a run.
type EventHook func(context.Context, Event)
