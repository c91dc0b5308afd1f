// SPDX-License-Identifier: MPL-2.0

// Package types defines small cross-cutting value types shared by the build
// configuration, layout and CLI packages. Each type carries its own validation
// and has no domain-specific dependencies.
//
// This package is a leaf dependency: it imports only the standard library.
package types
