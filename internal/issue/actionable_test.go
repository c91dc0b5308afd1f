// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{"operation only", &ActionableError{Operation: "render plan"}, "failed to render plan"},
		{
			"with resource",
			&ActionableError{Operation: "load settings", Resource: "/home/u/.config/viewpack/config.cue"},
			"failed to load settings: /home/u/.config/viewpack/config.cue",
		},
		{
			"with resource and cause",
			&ActionableError{Operation: "find build configuration", Resource: "./app", Cause: fs.ErrNotExist},
			"failed to find build configuration: ./app: file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_UnwrapChain(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("open viewpack.config.cue: %w", os.ErrPermission)
	err := NewErrorContext().WithOperation("load build configuration").Wrap(cause).BuildError()

	if !errors.Is(err, os.ErrPermission) {
		t.Error("errors.Is should reach the root cause")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("errors.As() failed for %T", err)
	}
	if ae.Cause != cause {
		t.Errorf("Cause = %v, want %v", ae.Cause, cause)
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("unexpected EOF")
	chain := fmt.Errorf("decode yaml: %w", root)

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:     "plain",
			err:      &ActionableError{Operation: "render plan"},
			contains: []string{"failed to render plan"},
			excludes: []string{"•", "explain", "Error chain"},
		},
		{
			name: "suggestions are bulleted",
			err: &ActionableError{
				Operation:   "find build configuration",
				Suggestions: []string{"Run 'viewpack init' to create one", "Pass --file to name it"},
			},
			contains: []string{"\n\n  • Run 'viewpack init' to create one", "\n  • Pass --file to name it"},
		},
		{
			name:     "catalog pointer",
			err:      &ActionableError{Operation: "find build configuration", Issue: ConfigNotFoundId},
			contains: []string{"Run 'viewpack explain ConfigNotFound' for details."},
		},
		{
			name:     "unknown catalog id is ignored",
			err:      &ActionableError{Operation: "render plan", Issue: Id(9999)},
			excludes: []string{"explain"},
		},
		{
			name:     "chain only when verbose",
			err:      &ActionableError{Operation: "load build configuration", Cause: chain},
			excludes: []string{"Error chain"},
		},
		{
			name:     "verbose chain is numbered",
			err:      &ActionableError{Operation: "load build configuration", Cause: chain},
			verbose:  true,
			contains: []string{"Error chain:", "1. decode yaml: unexpected EOF", "2. unexpected EOF"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.err.Format(tt.verbose)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Format() missing %q:\n%s", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("Format() should not contain %q:\n%s", bad, got)
				}
			}
		})
	}
}

func TestActionableError_FormatOrder(t *testing.T) {
	t.Parallel()

	got := (&ActionableError{
		Operation:   "load settings",
		Suggestions: []string{"Check the file"},
		Cause:       errors.New("bad"),
		Issue:       SettingsLoadFailedId,
	}).Format(true)

	suggestion := strings.Index(got, "Check the file")
	pointer := strings.Index(got, "viewpack explain")
	chain := strings.Index(got, "Error chain")
	if suggestion >= pointer || pointer >= chain {
		t.Errorf("want suggestions, explain pointer, chain in that order:\n%s", got)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	ae := NewErrorContext().
		WithOperation("initialize project").
		WithResource("./app").
		WithSuggestion("Identifiers look like dev.example.myapp").
		WithSuggestion("Versions look like 1.0.0").
		WithIssue(InvalidFormatId).
		Wrap(cause).
		Build()

	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if ae.Operation != "initialize project" || ae.Resource != "./app" || ae.Cause != cause || ae.Issue != InvalidFormatId {
		t.Errorf("Build() = %+v", ae)
	}
	if !slices.Equal(ae.Suggestions, []string{"Identifiers look like dev.example.myapp", "Versions look like 1.0.0"}) {
		t.Errorf("Suggestions = %v", ae.Suggestions)
	}
}

func TestErrorContext_MissingOperation(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithResource("./app").Wrap(errors.New("x"))
	if ae := ctx.Build(); ae != nil {
		t.Errorf("Build() = %v, want nil without an operation", ae)
	}
	if err := ctx.BuildError(); err != nil {
		t.Errorf("BuildError() = %#v, want untyped nil", err)
	}
}

func TestErrorContext_BuildCopies(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithOperation("write project file").WithSuggestion("first")
	first := ctx.Build()
	ctx.WithSuggestion("second")
	second := ctx.Build()

	if len(first.Suggestions) != 1 {
		t.Errorf("earlier Build() result changed: %v", first.Suggestions)
	}
	if len(second.Suggestions) != 2 {
		t.Errorf("later Build() = %v, want both suggestions", second.Suggestions)
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	if err := Wrap(nil, "write project file", "index.ts"); err != nil {
		t.Errorf("Wrap(nil) = %#v, want untyped nil", err)
	}

	err := Wrap(fs.ErrExist, "write project file", "src/index.ts")
	if got, want := err.Error(), "failed to write project file: src/index.ts: file already exists"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, fs.ErrExist) {
		t.Error("Wrap should keep the cause reachable")
	}

	if got := Wrap(fs.ErrClosed, "render plan", "").Error(); got != "failed to render plan: file already closed" {
		t.Errorf("Error() without resource = %q", got)
	}
}
