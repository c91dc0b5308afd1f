// SPDX-License-Identifier: MPL-2.0

// Package platform defines the closed set of packaging targets (mac, linux, win)
// and the cross-platform naming rules that apply to files shipped to them.
//
// Platform values are parsed from user input with a small alias table so that
// "darwin", "macos" and "windows" resolve to their canonical names. Switch
// statements over Platform are expected to be exhaustive; adding a platform
// means updating All, GOOS and NativeWebView together.
package platform
