// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/viewpack/viewpack/internal/issue"
	"github.com/viewpack/viewpack/pkg/platform"
	"github.com/viewpack/viewpack/pkg/types"
)

func writeSettings(t *testing.T, content string) types.FilesystemPath {
	t.Helper()

	path := filepath.Join(t.TempDir(), ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return types.FilesystemPath(path)
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if !slices.Equal(cfg.Platforms, platform.Names()) {
		t.Errorf("expected every platform by default, got %v", cfg.Platforms)
	}
	if cfg.Strict {
		t.Error("expected strict to be false by default")
	}
	if cfg.OutputDir != "build" {
		t.Errorf("expected default output dir to be build, got %q", cfg.OutputDir)
	}
	if cfg.Format != FormatText {
		t.Errorf("expected default format to be text, got %s", cfg.Format)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}
	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("DefaultConfig() is invalid: %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != platform.GOOSLinux {
		t.Skip("XDG lookup only applies on Linux")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if want := filepath.Join("/tmp/test-xdg-config", AppName); string(dir) != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", AppName); string(dir) != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}
}

func TestConfigDirOverride(t *testing.T) {
	dir := types.FilesystemPath(t.TempDir())
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	got, err := ConfigDir()
	if err != nil || got != dir {
		t.Errorf("ConfigDir() = %q, %v; want %q", got, err, dir)
	}
	path, err := DefaultPath()
	if err != nil || string(path) != filepath.Join(string(dir), "config.cue") {
		t.Errorf("DefaultPath() = %q, %v", path, err)
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	loaded, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	if loaded.Path != "" {
		t.Errorf("Path = %q, want empty", loaded.Path)
	}
	if !slices.Equal(loaded.Config.Platforms, platform.Names()) || loaded.Config.Format != FormatText {
		t.Errorf("Config = %+v, want defaults", loaded.Config)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := writeSettings(t, `
platforms: ["win", "mac"]
strict: true
format: "json"
ui: color_scheme: "dark"
`)

	loaded, err := LoadWithPath(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	cfg := loaded.Config
	if loaded.Path != path {
		t.Errorf("Path = %q, want %q", loaded.Path, path)
	}
	if !slices.Equal(cfg.Platforms, []string{"win", "mac"}) {
		t.Errorf("Platforms = %v", cfg.Platforms)
	}
	if !cfg.Strict || cfg.Format != FormatJSON || cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("Config = %+v", cfg)
	}
	// Fields the file omits keep their defaults.
	if cfg.OutputDir != DefaultOutputDir || cfg.UI.Verbose {
		t.Errorf("omitted fields lost their defaults: %+v", cfg)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	path := writeSettings(t, `output_dir: "dist"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(filepath.Dir(string(path)))})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OutputDir != "dist" {
		t.Errorf("OutputDir = %q, want dist", cfg.OutputDir)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeSettings(t, `format: "yaml"`)
	t.Setenv("VIEWPACK_FORMAT", "toml")
	t.Setenv("VIEWPACK_UI_VERBOSE", "true")
	t.Setenv("VIEWPACK_PLATFORMS", "linux,win")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != FormatTOML {
		t.Errorf("Format = %s, want toml from the environment", cfg.Format)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose should come from VIEWPACK_UI_VERBOSE")
	}
	if !slices.Equal(cfg.Platforms, []string{"linux", "win"}) {
		t.Errorf("Platforms = %v", cfg.Platforms)
	}
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("VIEWPACK_FORMAT", "xml")

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if !errors.Is(err, ErrInvalidOutputFormat) {
		t.Fatalf("Load() error = %v, want ErrInvalidOutputFormat", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || len(ae.Suggestions) == 0 {
		t.Errorf("error should be actionable: %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", `format: "json`, "load settings"},
		{"unknown field", `colour: "dark"`, "colour"},
		{"bad enum", `format: "xml"`, "format"},
		{"wrong type", `strict: "yes"`, "strict"},
		{"unknown platform", `platforms: ["beos"]`, "platforms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSettings(t, tt.content)
			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be *issue.ActionableError, got %T", err)
			}
			if ae.Issue != issue.SettingsLoadFailedId {
				t.Errorf("Issue = %d, want SettingsLoadFailedId", ae.Issue)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	missing := types.FilesystemPath(filepath.Join(t.TempDir(), "absent.cue"))

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: missing})
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("Load() error = %v, want *issue.ActionableError", err)
	}
	if ae.Resource != string(missing) {
		t.Errorf("Resource = %q, want %q", ae.Resource, missing)
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestWriteDefault(t *testing.T) {
	path := types.FilesystemPath(filepath.Join(t.TempDir(), "nested", "config.cue"))

	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if err := WriteDefault(path, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second WriteDefault() error = %v, want ErrConfigExists", err)
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("forced WriteDefault() error = %v", err)
	}

	// The generated file must load back to the defaults.
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() of generated file error = %v", err)
	}
	def := DefaultConfig()
	if !slices.Equal(cfg.Platforms, def.Platforms) || cfg.Format != def.Format || cfg.OutputDir != def.OutputDir || cfg.UI != def.UI {
		t.Errorf("round trip = %+v, want %+v", cfg, def)
	}
}

func TestGenerateCUE(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Platforms = []string{"mac"}
	cfg.Strict = true

	out := GenerateCUE(cfg)
	for _, want := range []string{`platforms: ["mac"]`, "strict: true", `output_dir: "build"`, `format: "text"`, `color_scheme: "auto"`} {
		if !strings.Contains(out, want) {
			t.Errorf("GenerateCUE() missing %q:\n%s", want, out)
		}
	}
}
