// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints for operational failures such as a missing build
// configuration or unreadable settings. The catalog holds one Markdown entry
// per diagnostic code and per operational failure; "viewpack explain" renders
// an entry with glamour.
package issue
