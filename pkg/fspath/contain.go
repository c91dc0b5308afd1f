// SPDX-License-Identifier: MPL-2.0

package fspath

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/viewpack/viewpack/pkg/types"
)

var (
	// ErrEmptyPath is returned for a relative path that is empty or names the root itself.
	ErrEmptyPath = errors.New("path is empty")
	// ErrAbsolutePath is returned when a relative path was expected.
	ErrAbsolutePath = errors.New("path must be relative")
	// ErrPathEscape is returned when a relative path leaves its root via "..".
	ErrPathEscape = errors.New("path escapes its root directory")
)

// IsAbsolute reports whether p is absolute on any supported OS, independent of
// the host: a leading slash or backslash, or a Windows drive letter followed by
// a separator. Configuration files are shared across platforms, so a path that
// is absolute anywhere is rejected everywhere.
func IsAbsolute(p string) bool {
	if p == "" {
		return false
	}
	if p[0] == '/' || p[0] == '\\' {
		return true
	}
	if len(p) >= 3 && isDriveLetter(p[0]) && p[1] == ':' {
		return p[2] == '\\' || p[2] == '/'
	}
	return false
}

// CleanRelative normalizes a configuration-supplied relative path to clean
// slash form. Backslashes are treated as separators.
func CleanRelative(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", ErrEmptyPath
	}
	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("path %q contains a NUL byte", p)
	}
	if IsAbsolute(p) {
		return "", fmt.Errorf("%w: %q", ErrAbsolutePath, p)
	}

	clean := path.Clean(strings.ReplaceAll(p, `\`, "/"))
	switch {
	case clean == ".":
		return "", fmt.Errorf("%w: %q refers to the root directory itself", ErrEmptyPath, p)
	case clean == ".." || strings.HasPrefix(clean, "../"):
		return "", fmt.Errorf("%w: %q", ErrPathEscape, p)
	}
	return clean, nil
}

// Within resolves rel against root and verifies the result stays inside root.
func Within(root types.FilesystemPath, rel string) (types.FilesystemPath, error) {
	clean, err := CleanRelative(rel)
	if err != nil {
		return "", err
	}

	full := filepath.Join(string(root), filepath.FromSlash(clean))
	relPath, err := filepath.Rel(string(root), full)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, rel)
	}
	return types.FilesystemPath(full), nil
}

func isDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
