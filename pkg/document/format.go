// SPDX-License-Identifier: MPL-2.0

package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// FormatCUE is a CUE source file.
	FormatCUE Format = "cue"
	// FormatJSON is a JSON source file.
	FormatJSON Format = "json"
	// FormatYAML is a YAML source file.
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is the sentinel wrapped by UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported document format")

type (
	// Format identifies the serialization of a configuration document.
	Format string

	// UnsupportedFormatError is returned for an unknown format name or file extension.
	UnsupportedFormatError struct {
		Value string
	}
)

// Formats returns the supported formats in discovery order.
func Formats() []Format {
	return []Format{FormatCUE, FormatJSON, FormatYAML}
}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cue":
		return FormatCUE, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", &UnsupportedFormatError{Value: s}
	}
}

// FormatFromPath detects the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", &UnsupportedFormatError{Value: filepath.Base(path)}
	}
	return ParseFormat(ext)
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// Extension returns the canonical file extension, including the dot.
func (f Format) Extension() string { return "." + string(f) }

// IsValid returns whether the Format is supported.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatCUE, FormatJSON, FormatYAML:
		return true, nil
	default:
		return false, []error{&UnsupportedFormatError{Value: string(f)}}
	}
}

// Error implements the error interface for UnsupportedFormatError.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format %q (supported: cue, json, yaml)", e.Value)
}

// Unwrap returns ErrUnsupportedFormat for errors.Is() compatibility.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }
