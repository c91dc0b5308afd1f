// SPDX-License-Identifier: MPL-2.0

// Package document is the format-neutral model of a raw configuration
// document, plus decoders that produce it from CUE, JSON and YAML sources.
//
// Objects keep their keys in source order and keep repeated keys, so the
// validator can report duplicates that a map-based decoder would silently
// collapse. CUE sources never carry duplicates: repeated labels unify.
package document
