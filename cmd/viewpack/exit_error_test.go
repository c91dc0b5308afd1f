// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/viewpack/viewpack/internal/issue"
	"github.com/viewpack/viewpack/pkg/types"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{"nil", nil, types.ExitSuccess},
		{"invalid", &ExitError{Code: types.ExitInvalid}, types.ExitInvalid},
		{"wrapped", fmt.Errorf("outer: %w", &ExitError{Code: types.ExitInvalid}), types.ExitInvalid},
		{"cobra usage error", errors.New(`unknown flag: --nope`), types.ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitError_Error(t *testing.T) {
	t.Parallel()

	if got := (&ExitError{Code: types.ExitUsage}).Error(); got != "exit status 2" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("boom")
	ae := issue.NewErrorContext().
		WithOperation("load settings").
		WithSuggestion("Check the file").
		WithIssue(issue.SettingsLoadFailedId).
		Wrap(cause).
		BuildError()

	exitErr := &ExitError{Code: types.ExitUsage, Err: ae}
	msg := exitErr.Error()
	for _, want := range []string{"failed to load settings: boom", "• Check the file", "viewpack explain SettingsLoadFailed"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "Error chain") {
		t.Error("non-verbose Error() should not include the chain")
	}
	if !errors.Is(exitErr, cause) {
		t.Error("ExitError should unwrap to its cause")
	}

	exitErr.Verbose = true
	if !strings.Contains(exitErr.Error(), "Error chain") {
		t.Error("verbose Error() should include the chain")
	}
}
