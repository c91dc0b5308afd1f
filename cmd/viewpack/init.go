// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/viewpack/viewpack/internal/issue"
	"github.com/viewpack/viewpack/pkg/buildconfig"
	"github.com/viewpack/viewpack/pkg/document"
	"github.com/viewpack/viewpack/pkg/fspath"
	"github.com/viewpack/viewpack/pkg/types"
)

type initFlags struct {
	name       string
	identifier string
	version    string
	format     string
	force      bool
}

// newInitCommand creates the `viewpack init` command.
func newInitCommand(app *App) *cobra.Command {
	var flags initFlags

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter build configuration and sources",
		Long: `Create a starter build configuration and the sources it references.

The project directory (default: the current directory) is created if needed.
The generated configuration declares one view, copies its HTML and CSS next to
the bundle, and passes 'viewpack validate' without warnings.

An existing build configuration is kept unless --force is given. With --force
and a different --format the new file is written next to the old one, which
still wins discovery until it is removed. Starter sources that already exist
are never overwritten.

Examples:
  viewpack init
  viewpack init ./hello --name "Hello" --identifier dev.example.hello
  viewpack init --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, app, projectDir(args), &flags)
		},
	}

	def := buildconfig.DefaultApp()
	cmd.Flags().StringVar(&flags.name, "name", def.Name.String(), "application display name")
	cmd.Flags().StringVar(&flags.identifier, "identifier", def.Identifier.String(), "reverse-DNS application identifier")
	cmd.Flags().StringVar(&flags.version, "app-version", def.Version.String(), "initial semantic version")
	cmd.Flags().StringVar(&flags.format, "format", string(document.FormatCUE), "configuration format: cue, json or yaml")
	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite an existing build configuration")
	return cmd
}

func runInit(cmd *cobra.Command, app *App, dir string, flags *initFlags) error {
	stdout := cmd.OutOrStdout()

	identity, format, err := flags.resolve()
	if err != nil {
		return app.usageError(err)
	}

	root := types.FilesystemPath(dir)
	if !flags.force {
		if existing, err := buildconfig.Discover(root); err == nil {
			return app.usageError(issue.NewErrorContext().
				WithOperation("initialize project").
				WithResource(string(existing)).
				WithSuggestion("Use --force to overwrite it").
				Wrap(errors.New("a build configuration already exists")).
				BuildError())
		}
	}

	content, err := buildconfig.Generate(identity, format)
	if err != nil {
		return app.usageError(issue.Wrap(err, "generate build configuration", ""))
	}

	configPath := fspath.JoinStr(root, buildconfig.ConfigBaseName+format.Extension())
	if err := writeProjectFile(configPath, content, true); err != nil {
		return app.usageError(err)
	}
	fmt.Fprintf(stdout, "%s Created %s\n", successIcon, pathStyle.Render(string(configPath)))
	if active, err := buildconfig.Discover(root); err == nil && active != configPath {
		fmt.Fprintf(stdout, "%s %s takes precedence over it during discovery; remove it or pass --file\n",
			warningIcon, pathStyle.Render(string(active)))
	}

	for _, f := range buildconfig.Scaffold(identity) {
		path := fspath.JoinStr(root, filepath.FromSlash(f.Path))
		if err := writeProjectFile(path, []byte(f.Content), false); err != nil {
			if errors.Is(err, os.ErrExist) {
				fmt.Fprintf(stdout, "%s Kept existing %s\n", infoIcon, path)
				continue
			}
			return app.usageError(err)
		}
		fmt.Fprintf(stdout, "%s Created %s\n", successIcon, pathStyle.Render(string(path)))
	}

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintln(stdout, "  1. Edit the configuration to add views and assets")
	fmt.Fprintln(stdout, "  2. Run 'viewpack validate' to check it")
	fmt.Fprintln(stdout, "  3. Run 'viewpack plan' to see what each platform builds")
	return nil
}

// resolve validates the identity and format flags.
func (f *initFlags) resolve() (buildconfig.AppIdentity, document.Format, error) {
	identity := buildconfig.AppIdentity{
		Name:       types.DisplayName(f.name),
		Identifier: buildconfig.Identifier(f.identifier),
		Version:    buildconfig.Version(f.version),
	}

	var errs []error
	for _, check := range []func() (bool, []error){
		identity.Name.IsValid,
		identity.Identifier.IsValid,
		identity.Version.IsValid,
	} {
		if ok, fieldErrs := check(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}

	format, err := document.ParseFormat(f.format)
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return buildconfig.AppIdentity{}, "", issue.NewErrorContext().
			WithOperation("initialize project").
			WithSuggestion("Identifiers look like dev.example.myapp").
			WithSuggestion("Versions look like 0.1.0").
			Wrap(errors.Join(errs...)).
			BuildError()
	}
	return identity, format, nil
}

// writeProjectFile writes data to path, creating parent directories. Without
// overwrite an existing file is left alone and os.ErrExist is returned.
func writeProjectFile(path types.FilesystemPath, data []byte, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o755); err != nil {
		return issue.Wrap(err, "create project directory", string(fspath.Dir(path)))
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(string(path), flag, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return err
		}
		return issue.Wrap(err, "write project file", string(path))
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return issue.Wrap(err, "write project file", string(path))
	}
	return f.Close()
}
