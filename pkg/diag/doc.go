// SPDX-License-Identifier: MPL-2.0

// Package diag defines the diagnostic taxonomy shared by the build configuration
// validator, the path resolver and the platform target resolver.
//
// Every check produces a Diagnostic carrying a Code, the dotted field path that
// caused it, and a Severity. Diagnostics accumulate into a Report so that a user
// fixing a configuration sees every problem at once rather than one per run.
package diag
