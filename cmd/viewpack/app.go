// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"

	"github.com/viewpack/viewpack/internal/config"
	"github.com/viewpack/viewpack/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra command handler receives an App reference and reads
	// settings, writers and the logger through it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
		logger *log.Logger

		// Populated from persistent flags.
		verbose    bool
		configPath string

		settings *config.Config
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}

	logger := log.NewWithOptions(deps.Stderr, log.Options{
		Prefix: config.AppName,
		Level:  log.WarnLevel,
	})

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		logger: logger,
	}, nil
}

// installLogger makes the App's logger the slog default so that library
// packages log through it.
func (a *App) installLogger() {
	if a.verbose {
		a.logger.SetLevel(log.DebugLevel)
	}
	slog.SetDefault(slog.New(a.logger))
}

// Settings loads the tool settings once per invocation. The --config flag
// selects an explicit file; otherwise the platform config directory is used.
// A ui.verbose setting raises the log level like --verbose does.
func (a *App) Settings(ctx context.Context) (*config.Config, error) {
	if a.settings != nil {
		return a.settings, nil
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.configPath)})
	if err != nil {
		return nil, a.usageError(err)
	}
	if cfg.UI.Verbose && !a.verbose {
		a.verbose = true
		a.logger.SetLevel(log.DebugLevel)
	}
	a.settings = cfg
	return cfg, nil
}

// usageError wraps err as an exit-code-2 failure.
func (a *App) usageError(err error) error {
	return &ExitError{Code: types.ExitUsage, Err: err, Verbose: a.verbose}
}
