// SPDX-License-Identifier: MPL-2.0

package types

import "strconv"

// ExitCode is the status viewpack exits with.
type ExitCode int

const (
	// ExitSuccess means the command completed and the configuration is valid.
	ExitSuccess ExitCode = 0
	// ExitInvalid means the configuration was read but rejected.
	ExitInvalid ExitCode = 1
	// ExitUsage means the command could not run: bad flags, a missing or
	// unreadable configuration file, or a syntax error.
	ExitUsage ExitCode = 2
)

// String returns the decimal form, as shells print it.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
