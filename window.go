// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import "time"

var (
	// WindowStart is the fixed lower bound of the default window.
	WindowStart = time.Date(2023, time.September, 19, 0, 0, 0, 0, time.UTC)

	// DefaultCutoff is the upper bound of the default window.
	DefaultCutoff = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// DateWindow is the interval [Start, End) of keys that are processed.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// DefaultWindow returns the window [WindowStart, DefaultCutoff).
func DefaultWindow() DateWindow {
	return DateWindow{Start: WindowStart, End: DefaultCutoff}
}

// NewDateWindow returns a window with the fixed lower bound [WindowStart]
// and cutoff as upper bound.
func NewDateWindow(cutoff time.Time) DateWindow {
	return DateWindow{Start: WindowStart, End: cutoff}
}

// Contains returns true if t lies in [Start, End).
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ContainsMonth returns true if the calendar month starting at month
// overlaps the window. Keys only carry a month, so a month that begins
// before Start but ends after it is inside.
func (w DateWindow) ContainsMonth(month time.Time) bool {
	next := month.AddDate(0, 1, 0)
	return next.After(w.Start) && month.Before(w.End)
}
