// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// newID returns a random identifier for output file names.
var newID = uuid.NewString

// uniqueName returns <stem>_<random-id><ext> for the base name name. A name
// that consists of a leading dot and no further extension is used as stem.
func uniqueName(name string) string {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if len(stem) == 0 {
		stem, ext = name, ""
	}
	return fmt.Sprintf("%s_%s%s", stem, newID(), ext)
}
