// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/viewpack/viewpack/internal/config"
	"github.com/viewpack/viewpack/internal/issue"
	"github.com/viewpack/viewpack/pkg/diag"
	"github.com/viewpack/viewpack/pkg/layout"
	"github.com/viewpack/viewpack/pkg/target"
)

type planFlags struct {
	projectFlags
	platforms []string
	format    string
	outDir    string
}

// newPlanCommand creates the `viewpack plan` command.
func newPlanCommand(app *App) *cobra.Command {
	var flags planFlags

	cmd := &cobra.Command{
		Use:   "plan [dir]",
		Short: "Resolve and print the per-platform build plan",
		Long: `Resolve and print the per-platform build plan.

The configuration is validated first; a rejected configuration prints the
same report as 'viewpack validate' and exits with status 1. Otherwise one
target is printed per platform with the bundle and copy operations, the
rendering engine and any platform settings.

Platforms default to the 'platforms' setting (every platform unless changed).
Platform aliases such as darwin and windows are accepted, as is "host".

Examples:
  viewpack plan
  viewpack plan --platform mac --platform win
  viewpack plan --format yaml --out-dir dist`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, app, projectDir(args), &flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVarP(&flags.platforms, "platform", "p", nil, "platforms to plan (repeatable or comma-separated)")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, yaml or toml (default from settings)")
	cmd.Flags().StringVar(&flags.outDir, "out-dir", "", "build output directory relative to the project (default from settings)")
	return cmd
}

func runPlan(cmd *cobra.Command, app *App, dir string, flags *planFlags) error {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	settings, err := app.Settings(ctx)
	if err != nil {
		return err
	}

	format := settings.Format
	if flags.format != "" {
		format = config.OutputFormat(flags.format)
	}
	if valid, errs := format.IsValid(); !valid {
		return app.usageError(issue.NewErrorContext().
			WithOperation("render plan").
			WithSuggestion("Use --format text, json, yaml or toml").
			WithIssue(issue.UnsupportedFormatId).
			Wrap(errs[0]).
			BuildError())
	}

	outDir := settings.OutputDir
	if flags.outDir != "" {
		outDir = flags.outDir
	}
	platforms := settings.Platforms
	if len(flags.platforms) > 0 {
		platforms = flags.platforms
	}

	cfg, err := app.loadProject(dir, &flags.projectFlags, settings.Strict)
	if err != nil {
		return app.failure(stderr, err)
	}

	paths, err := layout.Resolve(cfg, "", layout.WithOutputDir(outDir))
	if err != nil {
		var report diag.Report
		if errors.As(err, &report) {
			err = append(cfg.Warnings(), report...)
		}
		return app.failure(stderr, err)
	}

	targets, err := target.NewResolver(cfg, paths).ResolveAll(ctx, platforms)
	if err != nil {
		return app.failure(stderr, err)
	}

	if warnings := cfg.Warnings(); len(warnings) > 0 {
		printReport(stderr, warnings)
	}

	doc := planDocument{
		Source:      cfg.Source(),
		ProjectRoot: paths.ProjectRoot,
		Targets:     targets,
	}
	if err := renderPlan(cmd.OutOrStdout(), format, doc); err != nil {
		return app.usageError(issue.Wrap(err, "render plan", ""))
	}
	return nil
}
