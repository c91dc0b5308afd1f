// SPDX-License-Identifier: MPL-2.0

// Package target turns a validated build configuration and its resolved
// layout into one concrete build plan per platform.
//
// A ResolvedTarget is derived on demand and never stored: the same
// configuration, layout and platform always produce an equal target.
// When the configuration declares no block for a platform the target is
// synthesized from defaults and marked Defaulted, so callers can tell an
// implicit "bundleCEF: false" from an explicit one.
package target
