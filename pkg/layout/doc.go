// SPDX-License-Identifier: MPL-2.0

// Package layout maps a validated build configuration onto the filesystem.
//
// Resolve turns every view entrypoint and copy mapping into absolute paths:
// sources under the project root, build outputs under the output directory.
// It is where cross-entry conflicts are detected, because they only become
// visible once each entry has a concrete destination:
//
//   - two copy sources writing the same destination (DestinationConflict),
//   - a copy destination overwriting a compiled view bundle (OutputConflict).
//
// Resolve performs no filesystem access. The only environment input is the
// working directory, used to make a relative project root absolute.
package layout
