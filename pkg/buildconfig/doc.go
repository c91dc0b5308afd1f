// SPDX-License-Identifier: MPL-2.0

// Package buildconfig models and validates the build configuration of a
// desktop application that embeds a web view.
//
// A configuration names the application, declares one or more views (UI
// bundle entry points), maps static assets into the build output, and sets
// per-platform packaging toggles:
//
//	app: {
//		name:       "my-electrobun-app"
//		identifier: "com.example.my-electrobun-app"
//		version:    "0.1.0"
//	}
//	build: {
//		views: mainview: entrypoint: "src/mainview/index.ts"
//		copy: "src/mainview/index.html": "views/mainview/index.html"
//		mac: bundleCEF: false
//	}
//
// Validate is the only constructor of BuildConfig. It walks a raw
// document.Value, accumulates every problem into a diag.Report, and returns
// an immutable BuildConfig only when no error-level diagnostic was found.
// ParseFile and Discover wrap it for files on disk; Template and Generate
// produce a starter configuration.
package buildconfig
