// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for viewpack.
//
// The App type is the composition root: command handlers receive it and read
// settings, output writers and the logger through it. Run executes the
// command tree in-process and returns the exit code, which lets tests drive
// the CLI without building a binary.
package cmd
