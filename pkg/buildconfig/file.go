// SPDX-License-Identifier: MPL-2.0

package buildconfig

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/viewpack/viewpack/pkg/document"
	"github.com/viewpack/viewpack/pkg/fspath"
	"github.com/viewpack/viewpack/pkg/types"
)

// ConfigBaseName is the file name, without extension, that Discover looks for.
const ConfigBaseName = "viewpack.config"

// ErrConfigNotFound is returned by Discover when no configuration file exists.
var ErrConfigNotFound = errors.New("no build configuration found")

// ConfigFileNames returns the file names Discover checks, in priority order.
func ConfigFileNames() []string {
	return []string{
		ConfigBaseName + ".cue",
		ConfigBaseName + ".json",
		ConfigBaseName + ".yaml",
		ConfigBaseName + ".yml",
	}
}

// Discover returns the path of the configuration file in dir. When several
// exist the first in ConfigFileNames order wins and the rest are logged.
func Discover(dir types.FilesystemPath) (types.FilesystemPath, error) {
	var found []types.FilesystemPath
	for _, name := range ConfigFileNames() {
		candidate := fspath.JoinStr(dir, name)
		info, err := os.Stat(string(candidate))
		if err != nil || info.IsDir() {
			continue
		}
		found = append(found, candidate)
	}

	if len(found) == 0 {
		return "", fmt.Errorf("%w in %s (looked for %s)", ErrConfigNotFound, dir, strings.Join(ConfigFileNames(), ", "))
	}
	if len(found) > 1 {
		slog.Warn("multiple build configurations found, using the first", "using", found[0], "ignored", found[1:])
	}
	slog.Debug("discovered build configuration", "path", found[0])
	return found[0], nil
}

// ParseFile reads, decodes and validates the configuration at path. The
// format comes from the file extension, and the project root defaults to
// the file's directory. Options override those defaults.
//
// Read and syntax errors are returned as plain errors; validation problems
// are returned as a diag.Report.
func ParseFile(path types.FilesystemPath, opts ...ValidateOption) (*BuildConfig, error) {
	format, err := document.FormatFromPath(string(path))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("reading build configuration: %w", err)
	}

	raw, err := document.Decode(data, string(path), format)
	if err != nil {
		return nil, err
	}

	root, err := fspath.Abs(fspath.Dir(path))
	if err != nil {
		return nil, err
	}
	defaults := []ValidateOption{WithProjectRoot(root), WithSource(string(path))}
	return Validate(raw, append(defaults, opts...)...)
}
