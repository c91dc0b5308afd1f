// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDisplayName is the sentinel error wrapped by InvalidDisplayNameError.
var ErrInvalidDisplayName = errors.New("invalid display name")

type (
	// DisplayName is a human-readable name shown to end users, such as the
	// application name in window titles and installers. Unlike an identifier
	// it may contain spaces and punctuation, but it must not be blank.
	DisplayName string

	// InvalidDisplayNameError is returned when a DisplayName is empty or
	// whitespace-only.
	InvalidDisplayNameError struct {
		Value DisplayName
	}
)

// String returns the string representation of the DisplayName.
func (d DisplayName) String() string { return string(d) }

// IsValid returns whether the DisplayName is valid.
func (d DisplayName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(d)) == "" {
		return false, []error{&InvalidDisplayNameError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDisplayNameError.
func (e *InvalidDisplayNameError) Error() string {
	return fmt.Sprintf("invalid display name %q: must not be blank", e.Value)
}

// Unwrap returns ErrInvalidDisplayName for errors.Is() compatibility.
func (e *InvalidDisplayNameError) Unwrap() error { return ErrInvalidDisplayName }
