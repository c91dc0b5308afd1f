// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/viewpack/viewpack/internal/config"
	"github.com/viewpack/viewpack/internal/watch"
	"github.com/viewpack/viewpack/pkg/buildconfig"
	"github.com/viewpack/viewpack/pkg/diag"
	"github.com/viewpack/viewpack/pkg/layout"
)

// newValidateCommand creates the `viewpack validate` command.
func newValidateCommand(app *App) *cobra.Command {
	var (
		flags     projectFlags
		watchMode bool
	)

	cmd := &cobra.Command{
		Use:   "validate [dir]",
		Short: "Validate a project's build configuration",
		Long: `Validate a project's build configuration.

The configuration is discovered in the project directory (default: the current
directory) or named with --file. Every problem is reported at once: schema and
format errors, paths that leave the project, missing entrypoints, and copy rules
whose destinations collide with each other or with a view bundle.

Exits with status 1 when the configuration is rejected. With --watch the check
re-runs whenever a file under the project changes, until interrupted; the
build output directory is not watched.

Examples:
  viewpack validate
  viewpack validate ./app --strict
  viewpack validate --watch
  viewpack validate --file config/viewpack.config.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watchMode {
				return watchValidate(cmd, app, projectDir(args), &flags)
			}
			return runValidate(cmd, app, projectDir(args), &flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-validate whenever project files change")
	return cmd
}

func runValidate(cmd *cobra.Command, app *App, dir string, flags *projectFlags) error {
	settings, err := app.Settings(cmd.Context())
	if err != nil {
		return err
	}
	return validateOnce(cmd.OutOrStdout(), cmd.ErrOrStderr(), app, settings, dir, flags)
}

// watchValidate validates once, then again after every batch of changes.
// Rejections are printed and the loop continues; only settings or watcher
// failures end it.
func watchValidate(cmd *cobra.Command, app *App, dir string, flags *projectFlags) error {
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	settings, err := app.Settings(ctx)
	if err != nil {
		return err
	}

	check := func() {
		if err := validateOnce(stdout, stderr, app, settings, dir, flags); err != nil {
			fmt.Fprintln(stderr, ErrorStyle.Render(err.Error()))
		}
	}
	check()

	w, err := watch.New(watch.Config{
		BaseDir: dir,
		Skip:    []string{settings.OutputDir},
		OnChange: func(_ context.Context, changed []string) error {
			fmt.Fprintf(stdout, "\n%s %d file(s) changed\n", infoIcon, len(changed))
			check()
			return nil
		},
	})
	if err != nil {
		return app.usageError(err)
	}
	fmt.Fprintf(stderr, "%s watching %s (Ctrl+C to stop)\n", infoIcon, pathStyle.Render(dir))
	if err := w.Run(ctx); err != nil {
		return app.usageError(err)
	}
	return nil
}

func validateOnce(stdout, stderr io.Writer, app *App, settings *config.Config, dir string, flags *projectFlags) error {
	cfg, err := app.loadProject(dir, flags, settings.Strict)
	if err != nil {
		return app.failure(stderr, err)
	}

	// Output conflicts depend on where bundles land, so validation includes
	// the layout pass.
	if _, err := layout.Resolve(cfg, "", layout.WithOutputDir(settings.OutputDir)); err != nil {
		var report diag.Report
		if errors.As(err, &report) {
			report = append(cfg.Warnings(), report...)
			return app.failure(stderr, report)
		}
		return app.usageError(err)
	}

	printValidSummary(stdout, cfg)
	if warnings := cfg.Warnings(); len(warnings) > 0 {
		printReport(stderr, warnings)
	}
	return nil
}

func printValidSummary(w io.Writer, cfg *buildconfig.BuildConfig) {
	app := cfg.App()
	fmt.Fprintf(w, "%s %s is valid\n", successIcon, pathStyle.Render(cfg.Source()))
	fmt.Fprintf(w, "%s App:    %s %s (%s)\n", infoIcon, app.Name, app.Version, app.Identifier)
	if pre := app.Version.Prerelease(); pre != "" {
		fmt.Fprintf(w, "%s Pre-release %s\n", infoIcon, pre)
	}
	fmt.Fprintf(w, "%s Views:  %d\n", infoIcon, len(cfg.Views()))
	fmt.Fprintf(w, "%s Copies: %d\n", infoIcon, len(cfg.Copies()))
	if n := len(cfg.Warnings()); n > 0 {
		fmt.Fprintf(w, "%s %d warning(s)\n", warningIcon, n)
	}
}

// projectDir returns the optional directory argument, defaulting to ".".
func projectDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
