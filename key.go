// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// keyPattern matches src/arXiv_src_<YYMM>_<sequence> followed by an optional extension.
var keyPattern = regexp.MustCompile(`^src/arXiv_src_(\d{4})_(\d{1,6})((?:\.[A-Za-z0-9]+)*)$`)

// ObjectKey is a parsed remote object key.
type ObjectKey struct {
	// Key is the full object key
	Key string

	// Month is the first instant of the month encoded in the key (UTC)
	Month time.Time

	// Sequence is the running number of the package within the month
	Sequence int

	// Ext is the extension including the leading dot, e.g. ".tar"
	Ext string
}

// String returns the full object key.
func (k ObjectKey) String() string {
	return k.Key
}

// Base returns the last path element of the key.
func (k ObjectKey) Base() string {
	return path.Base(k.Key)
}

// HasSuffix returns true if the key ends with one of suffixes, ignoring case.
func (k ObjectKey) HasSuffix(suffixes ...string) bool {
	lower := strings.ToLower(k.Key)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// ParseKey parses key into an [ObjectKey]. Keys that do not follow the arXiv
// source naming scheme return an error wrapping [ErrUnparseableKey].
func ParseKey(key string) (ObjectKey, error) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return ObjectKey{}, errors.Wrapf(ErrUnparseableKey, "key %q", key)
	}

	// two digit years: 69-99 -> 19xx, 00-68 -> 20xx
	month, err := time.ParseInLocation("0601", m[1], time.UTC)
	if err != nil {
		return ObjectKey{}, errors.Wrapf(ErrUnparseableKey, "key %q: %s", key, err)
	}

	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return ObjectKey{}, errors.Wrapf(ErrUnparseableKey, "key %q: %s", key, err)
	}

	return ObjectKey{Key: key, Month: month, Sequence: seq, Ext: m[3]}, nil
}
