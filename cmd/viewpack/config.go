// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viewpack/viewpack/internal/config"
	"github.com/viewpack/viewpack/internal/issue"
	"github.com/viewpack/viewpack/pkg/types"
)

// newConfigCommand creates the `viewpack config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage viewpack settings",
		Long: `Manage viewpack settings.

Settings are stored in:
  - Linux: ~/.config/viewpack/config.cue
  - macOS: ~/Library/Application Support/viewpack/config.cue
  - Windows: %APPDATA%\viewpack\config.cue

Environment variables prefixed with VIEWPACK_ override the file, for example
VIEWPACK_FORMAT=json or VIEWPACK_UI_VERBOSE=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective settings as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Settings(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.settingsPath()
			if err != nil {
				return app.usageError(err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, path)
			if _, err := os.Stat(string(path)); err != nil {
				fmt.Fprintf(w, "%s %s\n", infoIcon, SubtitleStyle.Render("(not created yet; defaults apply)"))
			}
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.settingsPath()
			if err != nil {
				return app.usageError(err)
			}
			if err := config.WriteDefault(path, force); err != nil {
				ctx := issue.NewErrorContext().
					WithOperation("write settings").
					WithResource(string(path))
				if errors.Is(err, config.ErrConfigExists) {
					ctx = ctx.WithSuggestion("Use --force to overwrite it")
				}
				return app.usageError(ctx.Wrap(err).BuildError())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", successIcon, pathStyle.Render(string(path)))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

// settingsPath returns the --config path, or the default settings location.
func (a *App) settingsPath() (types.FilesystemPath, error) {
	if a.configPath != "" {
		return types.FilesystemPath(a.configPath), nil
	}
	return config.DefaultPath()
}
