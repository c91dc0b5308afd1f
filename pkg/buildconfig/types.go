// SPDX-License-Identifier: MPL-2.0

package buildconfig

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/viewpack/viewpack/pkg/diag"
	"github.com/viewpack/viewpack/pkg/platform"
	"github.com/viewpack/viewpack/pkg/types"
)

var (
	// ErrInvalidIdentifier is the sentinel wrapped by InvalidIdentifierError.
	ErrInvalidIdentifier = errors.New("invalid application identifier")
	// ErrInvalidVersion is the sentinel wrapped by InvalidVersionError.
	ErrInvalidVersion = errors.New("invalid application version")
	// ErrInvalidViewName is the sentinel wrapped by InvalidViewNameError.
	ErrInvalidViewName = errors.New("invalid view name")

	identifierPattern = regexp.MustCompile(`^[a-z0-9]+(\.[a-z0-9-]+)+$`)
	viewNamePattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)
)

type (
	// Identifier is a reverse-DNS application identifier such as
	// "com.example.my-app". The OS enforces uniqueness; only syntax is checked here.
	Identifier string

	// Version is a semantic version: MAJOR.MINOR.PATCH with optional
	// pre-release and build suffixes, no "v" prefix.
	Version string

	// ViewName keys a view definition. It is used as an output directory name.
	ViewName string

	// InvalidIdentifierError is returned when an Identifier does not match the reverse-DNS pattern.
	InvalidIdentifierError struct {
		Value Identifier
	}

	// InvalidVersionError is returned when a Version is not a full semantic version.
	InvalidVersionError struct {
		Value Version
	}

	// InvalidViewNameError is returned when a ViewName is not identifier-safe.
	InvalidViewNameError struct {
		Value ViewName
	}

	// AppIdentity names the application being packaged.
	AppIdentity struct {
		Name       types.DisplayName `json:"name" yaml:"name" toml:"name"`
		Identifier Identifier        `json:"identifier" yaml:"identifier" toml:"identifier"`
		Version    Version           `json:"version" yaml:"version" toml:"version"`
	}

	// View is one UI bundle entry point. Entrypoint is a clean, slash-separated
	// path relative to the project root.
	View struct {
		Name       ViewName `json:"name" yaml:"name" toml:"name"`
		Entrypoint string   `json:"entrypoint" yaml:"entrypoint" toml:"entrypoint"`
	}

	// CopyEntry copies one static asset into the build output. Both paths are
	// clean and slash-separated: Source relative to the project root,
	// Destination relative to the output directory.
	CopyEntry struct {
		Source      string `json:"source" yaml:"source" toml:"source"`
		Destination string `json:"destination" yaml:"destination" toml:"destination"`
	}

	// PlatformOverride holds the packaging settings declared for one platform.
	PlatformOverride struct {
		// BundleCEF embeds the Chromium Embedded Framework instead of using
		// the OS-native web view.
		BundleCEF bool `json:"bundleCEF" yaml:"bundleCEF" toml:"bundleCEF"`
		// Extra holds any other keys of the platform block as plain values.
		Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty"`
	}

	// BuildConfig is a validated build configuration. It is only constructed
	// by Validate and never changes afterwards; accessors return copies.
	BuildConfig struct {
		app         AppIdentity
		views       []View
		copies      []CopyEntry
		overrides   map[platform.Platform]PlatformOverride
		warnings    diag.Report
		source      string
		projectRoot types.FilesystemPath
	}
)

// String returns the string representation of the Identifier.
func (id Identifier) String() string { return string(id) }

// IsValid returns whether the Identifier matches the reverse-DNS pattern.
func (id Identifier) IsValid() (bool, []error) {
	if !identifierPattern.MatchString(string(id)) {
		return false, []error{&InvalidIdentifierError{Value: id}}
	}
	return true, nil
}

// Error implements the error interface for InvalidIdentifierError.
func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("%q is not a reverse-DNS identifier (expected lowercase dot-separated segments such as \"com.example.app\")", e.Value)
}

// Unwrap returns ErrInvalidIdentifier for errors.Is() compatibility.
func (e *InvalidIdentifierError) Unwrap() error { return ErrInvalidIdentifier }

// String returns the string representation of the Version.
func (v Version) String() string { return string(v) }

// IsValid returns whether the Version is a full MAJOR.MINOR.PATCH semantic version.
// Leading zeros in numeric identifiers are rejected.
func (v Version) IsValid() (bool, []error) {
	s := string(v)
	core, _, _ := strings.Cut(s, "+")
	core, _, _ = strings.Cut(core, "-")
	if strings.HasPrefix(s, "v") || strings.Count(core, ".") != 2 || !semver.IsValid("v"+s) {
		return false, []error{&InvalidVersionError{Value: v}}
	}
	return true, nil
}

// Prerelease returns the pre-release suffix including its leading hyphen,
// or "" for a release version.
func (v Version) Prerelease() string { return semver.Prerelease("v" + string(v)) }

// Compare returns -1, 0 or +1 following semantic version precedence.
// Build metadata is ignored.
func (v Version) Compare(other Version) int {
	return semver.Compare("v"+string(v), "v"+string(other))
}

// Error implements the error interface for InvalidVersionError.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("%q is not a semantic version (expected MAJOR.MINOR.PATCH, e.g. \"0.1.0\")", e.Value)
}

// Unwrap returns ErrInvalidVersion for errors.Is() compatibility.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// String returns the string representation of the ViewName.
func (n ViewName) String() string { return string(n) }

// IsValid returns whether the ViewName is a non-empty identifier-safe string.
func (n ViewName) IsValid() (bool, []error) {
	if !viewNamePattern.MatchString(string(n)) {
		return false, []error{&InvalidViewNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidViewNameError.
func (e *InvalidViewNameError) Error() string {
	return fmt.Sprintf("view name %q must start with a letter or underscore and contain only letters, digits, '_' or '-'", e.Value)
}

// Unwrap returns ErrInvalidViewName for errors.Is() compatibility.
func (e *InvalidViewNameError) Unwrap() error { return ErrInvalidViewName }

// App returns the application identity.
func (c *BuildConfig) App() AppIdentity { return c.app }

// Views returns the views in declaration order.
func (c *BuildConfig) Views() []View { return slices.Clone(c.views) }

// Copies returns the copy entries in declaration order.
func (c *BuildConfig) Copies() []CopyEntry { return slices.Clone(c.copies) }

// Override returns the override declared for p. The boolean is false when
// the configuration has no block for p.
func (c *BuildConfig) Override(p platform.Platform) (PlatformOverride, bool) {
	o, ok := c.overrides[p]
	if !ok {
		return PlatformOverride{}, false
	}
	return PlatformOverride{BundleCEF: o.BundleCEF, Extra: cloneMap(o.Extra)}, true
}

// Platforms returns the platforms with a declared override, in canonical order.
func (c *BuildConfig) Platforms() []platform.Platform {
	var out []platform.Platform
	for _, p := range platform.All() {
		if _, ok := c.overrides[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Warnings returns the non-fatal diagnostics found during validation.
func (c *BuildConfig) Warnings() diag.Report { return slices.Clone(c.warnings) }

// Source returns the name of the document the configuration was read from, if known.
func (c *BuildConfig) Source() string { return c.source }

// ProjectRoot returns the project root the entrypoints were checked against.
func (c *BuildConfig) ProjectRoot() types.FilesystemPath { return c.projectRoot }

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := maps.Clone(m)
	for k, v := range out {
		out[k] = cloneAny(v)
	}
	return out
}

func cloneAny(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneAny(item)
		}
		return out
	default:
		return v
	}
}
