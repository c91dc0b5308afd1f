// SPDX-License-Identifier: MPL-2.0

// Package config handles viewpack's own settings using Viper with CUE as the file format.
//
// Settings are loaded from ~/.config/viewpack/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/viewpack/config.cue on macOS, %APPDATA%\viewpack\config.cue
// on Windows) and may be overridden by VIEWPACK_* environment variables. They cover the
// default platform set, strict mode, the output directory, the plan output format and UI
// preferences. Project build configuration is not handled here; see pkg/buildconfig.
//
// The settings file is validated against an embedded CUE schema (config_schema.cue).
package config
