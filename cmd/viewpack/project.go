// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/viewpack/viewpack/internal/issue"
	"github.com/viewpack/viewpack/pkg/buildconfig"
	"github.com/viewpack/viewpack/pkg/diag"
	"github.com/viewpack/viewpack/pkg/document"
	"github.com/viewpack/viewpack/pkg/types"
)

// projectFlags are the flags shared by commands that read a build configuration.
type projectFlags struct {
	file   string
	strict bool
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "build configuration file (default: discovered in the project directory)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "treat warnings as errors")
}

// locate returns the configuration path named by --file, or discovers one in dir.
func (f *projectFlags) locate(dir string) (types.FilesystemPath, error) {
	if f.file != "" {
		return types.FilesystemPath(f.file), nil
	}

	path, err := buildconfig.Discover(types.FilesystemPath(dir))
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("find build configuration").
			WithResource(dir).
			WithSuggestion("Run 'viewpack init' to create one").
			WithSuggestion("Use --file to point at a configuration elsewhere").
			WithIssue(issue.ConfigNotFoundId).
			Wrap(err).
			BuildError()
	}
	return path, nil
}

// loadProject locates, parses and validates the build configuration.
// A validation failure comes back as a diag.Report; every other failure is
// an ActionableError.
func (a *App) loadProject(dir string, flags *projectFlags, strict bool) (*buildconfig.BuildConfig, error) {
	path, err := flags.locate(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := buildconfig.ParseFile(path, buildconfig.WithStrict(strict || flags.strict))
	if err == nil {
		return cfg, nil
	}

	var report diag.Report
	if errors.As(err, &report) {
		return nil, report
	}

	id := issue.ConfigParseFailedId
	if errors.Is(err, document.ErrUnsupportedFormat) {
		id = issue.UnsupportedFormatId
	}
	return nil, issue.NewErrorContext().
		WithOperation("load build configuration").
		WithResource(string(path)).
		WithSuggestion("Check the file syntax near the reported position").
		WithSuggestion("Run 'viewpack validate' after fixing to see remaining problems").
		WithIssue(id).
		Wrap(err).
		BuildError()
}

// failure converts an error from the load and resolve pipeline into an
// ExitError. Reports are printed to w and exit with code 1; anything else is
// a usage or load error.
func (a *App) failure(w io.Writer, err error) error {
	var report diag.Report
	if errors.As(err, &report) {
		printReport(w, report)
		return &ExitError{Code: types.ExitInvalid, Err: validationSummary(report)}
	}
	return a.usageError(err)
}

func validationSummary(report diag.Report) error {
	n := report.ErrorCount()
	if n == 1 {
		return errors.New("validation failed with 1 error")
	}
	return fmt.Errorf("validation failed with %d errors", n)
}

// printReport renders diagnostics as a numbered list, one line for the code
// and field followed by the indented message.
func printReport(w io.Writer, report diag.Report) {
	if len(report) == 0 {
		return
	}

	header := warningIcon
	if report.HasErrors() {
		header = errorIcon
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %d issue(s) found:\n", header, len(report))
	fmt.Fprintln(w)

	for i, d := range report {
		icon := errorIcon
		if d.IsWarning() {
			icon = warningIcon
		}
		field := d.Field
		if field == "" {
			field = diag.RootField
		}
		codeTag := codeTagStyle.Render(fmt.Sprintf("[%s]", d.Code))
		fmt.Fprintf(w, "  %d. %s %s %s\n", i+1, icon, codeTag, pathStyle.Render(field))
		fmt.Fprintf(w, "     %s\n", d.Message)
		if len(d.Related) > 0 {
			fmt.Fprintf(w, "     %s %s\n", SubtitleStyle.Render("related:"), strings.Join(d.Related, ", "))
		}
	}
	fmt.Fprintln(w)
}
