// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Mac is the macOS packaging target.
	Mac Platform = "mac"
	// Linux is the Linux packaging target.
	Linux Platform = "linux"
	// Win is the Windows packaging target.
	Win Platform = "win"

	// HostAlias resolves to the platform of the running operating system.
	HostAlias = "host"
)

const (
	// EngineCEF is the bundled Chromium Embedded Framework.
	EngineCEF Engine = "cef"
	// EngineWebKit is the system WebKit view used on macOS and Linux.
	EngineWebKit Engine = "webkit"
	// EngineWebView2 is the system WebView2 control used on Windows.
	EngineWebView2 Engine = "webview2"
)

// ErrUnsupportedPlatform is the sentinel wrapped by UnsupportedPlatformError.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// aliases maps accepted spellings to canonical platforms. Keys are lower case.
var aliases = map[string]Platform{
	"mac":     Mac,
	"macos":   Mac,
	"darwin":  Mac,
	"osx":     Mac,
	"linux":   Linux,
	"win":     Win,
	"windows": Win,
}

type (
	// Platform is a packaging target operating system.
	Platform string

	// Engine names the web rendering engine a target uses.
	Engine string

	// UnsupportedPlatformError is returned when a platform name is not recognized.
	UnsupportedPlatformError struct {
		Value string
	}
)

// All returns every supported platform in canonical order.
func All() []Platform {
	return []Platform{Mac, Linux, Win}
}

// Names returns the canonical names of All as strings.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = string(p)
	}
	return names
}

// Aliases returns the accepted alternative spellings for p, excluding the canonical name.
func Aliases(p Platform) []string {
	var out []string
	for _, name := range []string{"macos", "darwin", "osx", "windows"} {
		if aliases[name] == p {
			out = append(out, name)
		}
	}
	return out
}

// Parse resolves a platform name or alias. Matching is case-insensitive and
// "host" resolves to the running operating system.
func Parse(name string) (Platform, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == HostAlias {
		return Host()
	}
	if p, ok := aliases[key]; ok {
		return p, nil
	}
	return "", &UnsupportedPlatformError{Value: name}
}

// Canonical returns the canonical platform for an alias key such as "windows",
// and false for canonical names and unknown keys. Used to suggest the right
// spelling for misnamed configuration blocks.
func Canonical(key string) (Platform, bool) {
	p, ok := aliases[strings.ToLower(key)]
	if !ok || string(p) == key {
		return "", false
	}
	return p, true
}

// String returns the string representation of the Platform.
func (p Platform) String() string { return string(p) }

// IsValid returns whether the Platform is one of the supported targets,
// and a list of validation errors if it is not.
func (p Platform) IsValid() (bool, []error) {
	switch p {
	case Mac, Linux, Win:
		return true, nil
	default:
		return false, []error{&UnsupportedPlatformError{Value: string(p)}}
	}
}

// NativeWebView returns the OS-provided rendering engine for the platform.
func (p Platform) NativeWebView() Engine {
	switch p {
	case Mac, Linux:
		return EngineWebKit
	case Win:
		return EngineWebView2
	default:
		return ""
	}
}

// String returns the string representation of the Engine.
func (e Engine) String() string { return string(e) }

// Error implements the error interface for UnsupportedPlatformError.
func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform %q (supported: %s)", e.Value, strings.Join(Names(), ", "))
}

// Unwrap returns ErrUnsupportedPlatform for errors.Is() compatibility.
func (e *UnsupportedPlatformError) Unwrap() error { return ErrUnsupportedPlatform }
