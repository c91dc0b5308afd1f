// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue/errors"

	"github.com/viewpack/viewpack/pkg/diag"
)

// FormatError prefixes every CUE error in err with the file name and the
// field path it concerns, written the way diagnostics write paths:
//
//	viewpack.config.cue: app.version: conflicting values "1.0.0" and "2.0.0"
//	viewpack.config.cue: build.copy["a.html"]: conflicting values ...
//
// Several errors are listed one per line under a summary. Errors that carry
// no CUE detail are wrapped with the file name only.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	list := errors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(list))
	for _, e := range list {
		field := formatPath(errors.Path(e))
		msg := e.Error()
		if field == "" {
			lines = append(lines, msg)
			continue
		}
		// Some messages already start with the raw CUE path.
		if raw := strings.Join(errors.Path(e), "."); raw != "" {
			if rest, ok := strings.CutPrefix(msg, raw); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
		}
		lines = append(lines, field+": "+msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: %d errors:\n  %s", filePath, len(lines), strings.Join(lines, "\n  "))
}

// formatPath converts CUE path elements to a field path. Numeric elements
// after the first become list indices and quoted labels are unquoted before
// being appended.
func formatPath(path []string) string {
	var out string
	for i, part := range path {
		if i > 0 && isIndex(part) {
			out += "[" + part + "]"
			continue
		}
		if unquoted, err := strconv.Unquote(part); err == nil {
			part = unquoted
		}
		out = diag.Field(out, part)
	}
	return out
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize rejects documents larger than maxSize bytes. Every input
// format goes through the same limit.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if size := int64(len(data)); size > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, size, maxSize)
	}
	return nil
}
