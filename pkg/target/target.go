// SPDX-License-Identifier: MPL-2.0

package target

import (
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/viewpack/viewpack/pkg/buildconfig"
	"github.com/viewpack/viewpack/pkg/diag"
	"github.com/viewpack/viewpack/pkg/layout"
	"github.com/viewpack/viewpack/pkg/platform"
	"github.com/viewpack/viewpack/pkg/types"
)

// PlatformField names the requested platform in diagnostics.
const PlatformField = "platform"

type (
	// ResolvedTarget is the build plan for one platform.
	ResolvedTarget struct {
		Platform platform.Platform       `json:"platform" yaml:"platform" toml:"platform"`
		App      buildconfig.AppIdentity `json:"app" yaml:"app" toml:"app"`
		// BundleCEF is the effective flag after defaults are applied.
		BundleCEF bool `json:"bundleCEF" yaml:"bundleCEF" toml:"bundleCEF"`
		// Engine is the rendering engine the packaged app runs on.
		Engine platform.Engine `json:"engine" yaml:"engine" toml:"engine"`
		// Defaulted is true when the configuration has no block for the
		// platform and every setting comes from defaults.
		Defaulted bool `json:"defaulted" yaml:"defaulted" toml:"defaulted"`
		// Settings holds the platform block's extension knobs.
		Settings   map[string]any       `json:"settings,omitempty" yaml:"settings,omitempty" toml:"settings,omitempty"`
		OutputRoot types.FilesystemPath `json:"outputRoot" yaml:"outputRoot" toml:"outputRoot"`
		Views      []layout.ViewUnit    `json:"views" yaml:"views" toml:"views"`
		Copies     []layout.CopyOp      `json:"copies" yaml:"copies" toml:"copies"`
	}

	// Resolver derives targets from a configuration and its layout.
	// It holds no mutable state and is safe for concurrent use.
	Resolver struct {
		cfg   *buildconfig.BuildConfig
		paths *layout.Paths
	}
)

// NewResolver creates a Resolver over cfg and the layout resolved from it.
func NewResolver(cfg *buildconfig.BuildConfig, paths *layout.Paths) *Resolver {
	return &Resolver{cfg: cfg, paths: paths}
}

// Resolve builds the target for the named platform. Aliases such as
// "windows" and "host" are accepted. An unknown name returns a diag.Report
// with an UnsupportedPlatform diagnostic.
func (r *Resolver) Resolve(name string) (ResolvedTarget, error) {
	p, err := platform.Parse(name)
	if err != nil {
		var report diag.Report
		report.Errorf(diag.UnsupportedPlatform, PlatformField, "%s", err)
		return ResolvedTarget{}, report
	}
	return r.ResolvePlatform(p), nil
}

// ResolvePlatform builds the target for p, which must be valid.
func (r *Resolver) ResolvePlatform(p platform.Platform) ResolvedTarget {
	override, declared := r.cfg.Override(p)

	return ResolvedTarget{
		Platform:   p,
		App:        r.cfg.App(),
		BundleCEF:  override.BundleCEF,
		Engine:     engineFor(p, override.BundleCEF),
		Defaulted:  !declared,
		Settings:   override.Extra,
		OutputRoot: r.paths.OutputRoot,
		Views:      slices.Clone(r.paths.Views),
		Copies:     slices.Clone(r.paths.Copies),
	}
}

// ResolveAll resolves every named platform concurrently. Names are parsed
// up front and every unknown one is reported together; duplicates (including
// aliases of the same platform) collapse to their first occurrence. With no
// names, every supported platform is resolved.
//
// Output follows request order. The context is checked before fan-out and
// by each worker before it starts.
func (r *Resolver) ResolveAll(ctx context.Context, names []string) ([]ResolvedTarget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	platforms, err := parseAll(names)
	if err != nil {
		return nil, err
	}

	slog.Debug("resolving platform targets", "platforms", platforms)

	results := make([]ResolvedTarget, len(platforms))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range platforms {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.ResolvePlatform(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseAll(names []string) ([]platform.Platform, error) {
	if len(names) == 0 {
		return platform.All(), nil
	}

	var report diag.Report
	seen := make(map[platform.Platform]bool, len(names))
	platforms := make([]platform.Platform, 0, len(names))
	for _, name := range names {
		p, err := platform.Parse(name)
		if err != nil {
			report.Errorf(diag.UnsupportedPlatform, PlatformField, "%s", err)
			continue
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		platforms = append(platforms, p)
	}
	if report.HasErrors() {
		return nil, report
	}
	return platforms, nil
}

func engineFor(p platform.Platform, bundleCEF bool) platform.Engine {
	if bundleCEF {
		return platform.EngineCEF
	}
	return p.NativeWebView()
}
