// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE compile and error formatting utilities.
//
// Two flows are supported:
//
//  1. Schema-backed decoding (ParseAndDecode): compile an embedded schema,
//     unify the user's data with a root definition, validate and decode.
//     The tool settings file uses this flow.
//  2. Schema-less compilation (Compile): compile and validate user data on
//     its own, returning the cue.Value for callers that walk it themselves.
//     Build configuration documents written in CUE use this flow.
//
// Both enforce a file size limit before parsing and report errors with
// JSON-path prefixes via FormatError.
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[map[string]any](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("config.cue"),
//	    cueutil.WithConcrete(false),
//	)
package cueutil
