// SPDX-License-Identifier: MPL-2.0

package platform

import "runtime"

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	GOOSWindows = "windows"
	GOOSDarwin  = "darwin"
	GOOSLinux   = "linux"
)

// Host returns the packaging platform matching the running operating system.
// It returns an *UnsupportedPlatformError when GOOS has no packaging target.
func Host() (Platform, error) {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps a runtime.GOOS value to its packaging platform.
func FromGOOS(goos string) (Platform, error) {
	switch goos {
	case GOOSDarwin:
		return Mac, nil
	case GOOSLinux:
		return Linux, nil
	case GOOSWindows:
		return Win, nil
	default:
		return "", &UnsupportedPlatformError{Value: goos}
	}
}

// GOOS returns the runtime.GOOS value the platform packages for.
func (p Platform) GOOS() string {
	switch p {
	case Mac:
		return GOOSDarwin
	case Linux:
		return GOOSLinux
	case Win:
		return GOOSWindows
	default:
		return ""
	}
}
