// SPDX-License-Identifier: MPL-2.0

package diag

import (
	"regexp"
	"strconv"
)

// RootField is how an empty field path is displayed.
const RootField = "<root>"

// plainKey matches keys that can be appended with dot notation.
var plainKey = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Field appends key to a dotted field path. Keys that are not identifier-safe
// (paths such as "src/index.html") use bracket notation: build.copy["src/index.html"].
func Field(base, key string) string {
	if !plainKey.MatchString(key) {
		return base + "[" + strconv.Quote(key) + "]"
	}
	if base == "" {
		return key
	}
	return base + "." + key
}

// Path joins plain keys into a dotted field path.
func Path(keys ...string) string {
	out := ""
	for _, k := range keys {
		out = Field(out, k)
	}
	return out
}
