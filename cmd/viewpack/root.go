// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree for one invocation.
func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "viewpack",
		Short: "Validate and plan desktop web-view application builds",
		Long: TitleStyle.Render("viewpack") + SubtitleStyle.Render(" - Validate and plan desktop web-view application builds") + `

viewpack reads a project's build configuration (viewpack.config.cue, .json,
.yaml or .yml), checks it, and resolves the per-platform build plan: which
views are bundled where, which files are copied, and whether the app ships
the bundled CEF engine or the system web view.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a project with: viewpack init
  2. Check the configuration with: viewpack validate
  3. Show the build plan with: viewpack plan

` + SubtitleStyle.Render("Examples:") + `
  viewpack validate --strict        Fail on warnings too
  viewpack validate --watch         Re-check on every change
  viewpack plan --platform mac      Plan only the macOS target
  viewpack plan --format json       Emit the plan as JSON
  viewpack explain DestinationConflict`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.installLogger()
		},
	}

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "settings file (default is the viewpack directory under the user config dir)")

	root.AddCommand(
		newValidateCommand(app),
		newPlanCommand(app),
		newInitCommand(app),
		newPlatformsCommand(app),
		newExplainCommand(app),
		newConfigCommand(app),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app, err := NewApp(Dependencies{Stdout: stdout, Stderr: stderr})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	root := newRootCommand(app)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	err = fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	return int(exitCode(err))
}

// Execute runs the CLI against the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
