// SPDX-License-Identifier: MPL-2.0

package layout

import (
	"errors"
	"log/slog"
	"path"
	"strings"

	"github.com/viewpack/viewpack/pkg/buildconfig"
	"github.com/viewpack/viewpack/pkg/diag"
	"github.com/viewpack/viewpack/pkg/fspath"
	"github.com/viewpack/viewpack/pkg/types"
)

const (
	// DefaultOutputDir is the output directory, relative to the project root,
	// used when WithOutputDir is not given.
	DefaultOutputDir = "build"

	// ViewsDir is the directory under the output root holding compiled views.
	ViewsDir = "views"

	// BundleExt is the extension of a compiled view bundle.
	BundleExt = ".js"

	// OutputDirField names the output directory in diagnostics. It is not a
	// key of the configuration document.
	OutputDirField = "outputDir"
)

type (
	// Option configures Resolve.
	Option func(*options)

	options struct {
		outputDir string
	}

	// ViewUnit is one view build: an entrypoint compiled to a single bundle.
	ViewUnit struct {
		Name buildconfig.ViewName `json:"name" yaml:"name" toml:"name"`
		// Entrypoint is the absolute source file.
		Entrypoint types.FilesystemPath `json:"entrypoint" yaml:"entrypoint" toml:"entrypoint"`
		// Output is the absolute bundle path under the output root.
		Output types.FilesystemPath `json:"output" yaml:"output" toml:"output"`
		// OutputRel is Output relative to the output root, slash-separated.
		OutputRel string `json:"outputRel" yaml:"outputRel" toml:"outputRel"`
	}

	// CopyOp copies one static asset into the output tree.
	CopyOp struct {
		Source      types.FilesystemPath `json:"source" yaml:"source" toml:"source"`
		Destination types.FilesystemPath `json:"destination" yaml:"destination" toml:"destination"`
		// SourceRel and DestinationRel are the configured paths in clean slash form.
		SourceRel      string `json:"sourceRel" yaml:"sourceRel" toml:"sourceRel"`
		DestinationRel string `json:"destinationRel" yaml:"destinationRel" toml:"destinationRel"`
	}

	// Paths is the resolved filesystem layout of a build configuration.
	// Views and Copies keep configuration insertion order.
	Paths struct {
		ProjectRoot types.FilesystemPath `json:"projectRoot" yaml:"projectRoot" toml:"projectRoot"`
		OutputRoot  types.FilesystemPath `json:"outputRoot" yaml:"outputRoot" toml:"outputRoot"`
		Views       []ViewUnit           `json:"views" yaml:"views" toml:"views"`
		Copies      []CopyOp             `json:"copies" yaml:"copies" toml:"copies"`
	}

	resolver struct {
		root   types.FilesystemPath
		out    types.FilesystemPath
		report diag.Report
	}
)

// WithOutputDir sets the output directory relative to the project root.
func WithOutputDir(dir string) Option {
	return func(o *options) { o.outputDir = dir }
}

// Resolve computes absolute build paths for cfg under projectRoot.
// An empty projectRoot falls back to the root recorded in cfg, then to the
// working directory.
//
// The error, when non-nil, is a diag.Report listing every path problem.
func Resolve(cfg *buildconfig.BuildConfig, projectRoot string, opts ...Option) (*Paths, error) {
	o := options{outputDir: DefaultOutputDir}
	for _, opt := range opts {
		opt(&o)
	}

	root := types.FilesystemPath(projectRoot)
	if root == "" {
		root = cfg.ProjectRoot()
	}
	if root == "" {
		root = "."
	}
	root, err := fspath.Abs(root)
	if err != nil {
		return nil, err
	}

	r := &resolver{root: fspath.Clean(root)}

	outRel, ok := r.relative(OutputDirField, "output directory", o.outputDir)
	if !ok {
		return nil, r.report
	}
	r.out = fspath.JoinStr(r.root, outRel)

	paths := &Paths{ProjectRoot: r.root, OutputRoot: r.out}
	tree := newOutputTree()

	// Bundles claim their paths first, so a copy is always the one blamed
	// for colliding with a view.
	for _, v := range cfg.Views() {
		unit, ok := r.view(v)
		if !ok {
			continue
		}
		c := claim{rel: unit.OutputRel, view: v.Name}
		if prev, clash := tree.collision(c); clash {
			r.report = append(r.report, conflict(c, prev))
			continue
		}
		tree.add(c)
		paths.Views = append(paths.Views, unit)
	}

	for _, cp := range cfg.Copies() {
		op, ok := r.copyOp(cp)
		if !ok {
			continue
		}
		c := claim{rel: op.DestinationRel, src: op.SourceRel, key: cp.Source}
		if prev, clash := tree.collision(c); clash {
			r.report = append(r.report, conflict(c, prev))
			continue
		}
		tree.add(c)
		paths.Copies = append(paths.Copies, op)
	}

	if r.report.HasErrors() {
		return nil, r.report
	}

	slog.Debug("resolved build layout",
		"project_root", paths.ProjectRoot,
		"output_root", paths.OutputRoot,
		"views", len(paths.Views),
		"copies", len(paths.Copies))
	return paths, nil
}

// OutputFor returns the bundle path, relative to the output root, that a
// view with the given name and entrypoint compiles to.
func OutputFor(name buildconfig.ViewName, entrypoint string) string {
	base := path.Base(entrypoint)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return path.Join(ViewsDir, string(name), stem+BundleExt)
}

func (r *resolver) view(v buildconfig.View) (ViewUnit, bool) {
	field := diag.Field(diag.Field(diag.Path("build", "views"), string(v.Name)), "entrypoint")

	entry, err := r.within(r.root, field, "entrypoint", v.Entrypoint)
	if err != nil {
		return ViewUnit{}, false
	}
	rel := OutputFor(v.Name, v.Entrypoint)
	out, err := r.within(r.out, field, "view output", rel)
	if err != nil {
		return ViewUnit{}, false
	}
	return ViewUnit{Name: v.Name, Entrypoint: entry, Output: out, OutputRel: rel}, true
}

func (r *resolver) copyOp(c buildconfig.CopyEntry) (CopyOp, bool) {
	field := diag.Field(diag.Path("build", "copy"), c.Source)

	srcRel, ok := r.relative(field, "copy source", c.Source)
	if !ok {
		return CopyOp{}, false
	}
	dstRel, ok := r.relative(field, "copy destination", c.Destination)
	if !ok {
		return CopyOp{}, false
	}
	src, err := r.within(r.root, field, "copy source", srcRel)
	if err != nil {
		return CopyOp{}, false
	}
	dst, err := r.within(r.out, field, "copy destination", dstRel)
	if err != nil {
		return CopyOp{}, false
	}
	return CopyOp{Source: src, Destination: dst, SourceRel: srcRel, DestinationRel: dstRel}, true
}

func (r *resolver) relative(field, what, raw string) (string, bool) {
	clean, err := fspath.CleanRelative(raw)
	if err == nil {
		return clean, true
	}
	r.fail(field, what, raw, err)
	return "", false
}

func (r *resolver) within(base types.FilesystemPath, field, what, rel string) (types.FilesystemPath, error) {
	full, err := fspath.Within(base, rel)
	if err != nil {
		r.fail(field, what, rel, err)
		return "", err
	}
	return full, nil
}

func (r *resolver) fail(field, what, raw string, err error) {
	switch {
	case errors.Is(err, fspath.ErrPathEscape):
		r.report.Errorf(diag.PathEscape, field, "%s %q escapes its root directory", what, raw)
	case errors.Is(err, fspath.ErrAbsolutePath):
		r.report.Errorf(diag.InvalidFormat, field, "%s %q must be relative", what, raw)
	default:
		r.report.Errorf(diag.InvalidFormat, field, "%s: %v", what, err)
	}
}

// foldKey compares destinations case-insensitively: two paths differing only
// in case land on the same file on the default macOS and Windows filesystems.
func foldKey(rel string) string {
	return strings.ToLower(rel)
}
