// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/viewpack/viewpack/internal/config"
	"github.com/viewpack/viewpack/internal/issue"
)

// newExplainCommand creates the `viewpack explain` command.
func newExplainCommand(app *App) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "explain <code>",
		Short: "Explain a diagnostic code or error",
		Long: `Explain a diagnostic code or error.

Codes are the bracketed names printed by 'viewpack validate', such as
DestinationConflict. Errors that are not about the configuration contents
name their entry in a "Run 'viewpack explain ...'" hint. Matching ignores case.

Examples:
  viewpack explain DestinationConflict
  viewpack explain --list`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if list {
				for _, entry := range issue.Values() {
					fmt.Fprintln(w, entry.Name())
				}
				return nil
			}

			entry, ok := issue.Lookup(args[0])
			if !ok {
				return app.usageError(issue.NewErrorContext().
					WithOperation("explain").
					WithResource(args[0]).
					WithSuggestion("Run 'viewpack explain --list' to see every entry").
					Wrap(fmt.Errorf("unknown code %q", args[0])).
					BuildError())
			}

			if !isTerminal(w) {
				_, err := io.WriteString(w, entry.Markdown())
				return err
			}

			style := "auto"
			if settings, err := app.Settings(cmd.Context()); err == nil && settings.UI.ColorScheme != config.ColorSchemeAuto {
				style = settings.UI.ColorScheme.String()
			}
			out, err := entry.Render(style)
			if err != nil {
				return app.usageError(issue.Wrap(err, "render explanation", ""))
			}
			_, err = io.WriteString(w, strings.TrimLeft(out, "\n"))
			return err
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list every code and error name")
	return cmd
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
