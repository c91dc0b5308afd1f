// SPDX-License-Identifier: MPL-2.0

package buildconfig

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"github.com/viewpack/viewpack/pkg/diag"
	"github.com/viewpack/viewpack/pkg/document"
	"github.com/viewpack/viewpack/pkg/fspath"
	"github.com/viewpack/viewpack/pkg/platform"
	"github.com/viewpack/viewpack/pkg/types"
)

const (
	fieldApp   = "app"
	fieldBuild = "build"
	fieldViews = "views"
	fieldCopy  = "copy"

	fieldName       = "name"
	fieldIdentifier = "identifier"
	fieldVersion    = "version"
	fieldEntrypoint = "entrypoint"
	fieldBundleCEF  = "bundleCEF"
)

var (
	rootKeys  = []string{fieldApp, fieldBuild}
	appKeys   = []string{fieldName, fieldIdentifier, fieldVersion}
	buildKeys = []string{fieldViews, fieldCopy, string(platform.Mac), string(platform.Linux), string(platform.Win)}
	viewKeys  = []string{fieldEntrypoint}
)

type (
	// ValidateOption configures Validate.
	ValidateOption func(*validateOptions)

	validateOptions struct {
		fsys        fs.FS
		projectRoot types.FilesystemPath
		strict      bool
		source      string
	}

	// validator accumulates diagnostics over a single document walk.
	validator struct {
		opts   validateOptions
		report diag.Report
	}
)

// WithFS sets the filesystem, rooted at the project root, used for
// read-only entrypoint and copy-source checks. Defaults to os.DirFS of the
// project root.
func WithFS(fsys fs.FS) ValidateOption {
	return func(o *validateOptions) { o.fsys = fsys }
}

// WithProjectRoot sets the directory relative paths are checked against.
// Defaults to the current directory.
func WithProjectRoot(root types.FilesystemPath) ValidateOption {
	return func(o *validateOptions) { o.projectRoot = root }
}

// WithStrict promotes every warning to an error.
func WithStrict(strict bool) ValidateOption {
	return func(o *validateOptions) { o.strict = strict }
}

// WithSource records the name of the document being validated.
func WithSource(name string) ValidateOption {
	return func(o *validateOptions) { o.source = name }
}

// Validate checks a raw document and builds a BuildConfig from it.
//
// Every field problem is collected; only a root that is not an object stops
// the walk early. The returned error, when non-nil, is a diag.Report holding
// errors and warnings alike. On success the warnings are available through
// BuildConfig.Warnings.
func Validate(raw document.Value, opts ...ValidateOption) (*BuildConfig, error) {
	o := validateOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fsys == nil {
		root := o.projectRoot
		if root == "" {
			root = "."
		}
		o.fsys = os.DirFS(string(root))
	}

	v := &validator{opts: o}
	if raw.Kind != document.KindObject {
		v.report.Errorf(diag.TypeMismatch, "", "configuration root must be an object, got %s", raw.Kind)
		return nil, v.finish()
	}

	cfg := &BuildConfig{source: o.source, projectRoot: o.projectRoot}

	v.checkKeys(raw, "", rootKeys)
	cfg.app = v.app(raw)

	build, ok := v.object(raw, "", fieldBuild)
	if !ok && !v.present(raw, fieldBuild) {
		v.report.Errorf(diag.EmptyViewSet, diag.Path(fieldBuild, fieldViews), "at least one view is required")
	}
	if ok {
		v.checkKeys(build, fieldBuild, buildKeys)
		cfg.views = v.views(build)
		cfg.copies = v.copies(build)
		cfg.overrides = v.overrides(build)
	}

	report := v.finish()
	if report.HasErrors() {
		return nil, report
	}
	cfg.warnings = report

	slog.Debug("validated build configuration",
		"source", o.source,
		"views", len(cfg.views),
		"copies", len(cfg.copies),
		"overrides", len(cfg.overrides),
		"warnings", len(report))
	return cfg, nil
}

func (v *validator) finish() diag.Report {
	if v.opts.strict {
		return v.report.Strict()
	}
	return v.report
}

// checkKeys reports repeated keys, and keys outside known when known is non-nil.
func (v *validator) checkKeys(obj document.Value, path string, known []string) {
	for _, dup := range obj.Duplicates() {
		v.report.Errorf(diag.DuplicateKey, diag.Field(path, dup.Key), "key %q is declared more than once%s", dup.Key, atLine(dup.Line))
	}
	if known == nil {
		return
	}
	seen := make(map[string]bool, len(obj.Fields))
	for _, f := range obj.Fields {
		if slices.Contains(known, f.Key) || seen[f.Key] {
			continue
		}
		seen[f.Key] = true
		field := diag.Field(path, f.Key)
		if path == fieldBuild {
			if p, ok := platform.Canonical(f.Key); ok {
				v.report.Warnf(diag.UnknownField, field, "unknown key %q is ignored; did you mean %q?", f.Key, p)
				continue
			}
		}
		v.report.Warnf(diag.UnknownField, field, "unknown key %q is ignored", f.Key)
	}
}

// present reports whether key exists with a non-null value.
func (v *validator) present(obj document.Value, key string) bool {
	val, ok := obj.Lookup(key)
	return ok && !val.IsNull()
}

// object looks up an optional object-valued key. A present non-object value
// is reported as TypeMismatch.
func (v *validator) object(obj document.Value, path, key string) (document.Value, bool) {
	val, ok := obj.Lookup(key)
	if !ok || val.IsNull() {
		return document.Value{}, false
	}
	if val.Kind != document.KindObject {
		v.report.Errorf(diag.TypeMismatch, diag.Field(path, key), "expected object, got %s", val.Kind)
		return document.Value{}, false
	}
	return val, true
}

// requiredString looks up a string-valued key. Absent and null values are
// MissingField; any other kind is TypeMismatch.
func (v *validator) requiredString(obj document.Value, path, key string) (string, bool) {
	field := diag.Field(path, key)
	val, ok := obj.Lookup(key)
	if !ok || val.IsNull() {
		v.report.Errorf(diag.MissingField, field, "required field is missing")
		return "", false
	}
	if val.Kind != document.KindString {
		v.report.Errorf(diag.TypeMismatch, field, "expected string, got %s", val.Kind)
		return "", false
	}
	return val.Text, true
}

func (v *validator) app(raw document.Value) AppIdentity {
	var app AppIdentity

	obj, ok := v.object(raw, "", fieldApp)
	if !ok {
		if v.present(raw, fieldApp) {
			return app
		}
		// Treat a missing block as empty so each required field is named.
		obj = document.Object()
	}
	v.checkKeys(obj, fieldApp, appKeys)

	if name, ok := v.requiredString(obj, fieldApp, fieldName); ok {
		app.Name = types.DisplayName(name)
		if valid, _ := app.Name.IsValid(); !valid {
			v.report.Errorf(diag.InvalidFormat, diag.Path(fieldApp, fieldName), "application name must not be blank")
		}
	}
	if id, ok := v.requiredString(obj, fieldApp, fieldIdentifier); ok {
		app.Identifier = Identifier(id)
		if valid, errs := app.Identifier.IsValid(); !valid {
			v.report.Errorf(diag.InvalidFormat, diag.Path(fieldApp, fieldIdentifier), "%s", errs[0])
		}
	}
	if ver, ok := v.requiredString(obj, fieldApp, fieldVersion); ok {
		app.Version = Version(ver)
		if valid, errs := app.Version.IsValid(); !valid {
			v.report.Errorf(diag.InvalidFormat, diag.Path(fieldApp, fieldVersion), "%s", errs[0])
		}
	}
	return app
}

func (v *validator) views(build document.Value) []View {
	path := diag.Path(fieldBuild, fieldViews)

	obj, ok := v.object(build, fieldBuild, fieldViews)
	if !ok {
		if !v.present(build, fieldViews) {
			v.report.Errorf(diag.EmptyViewSet, path, "at least one view is required")
		}
		return nil
	}
	if len(obj.Fields) == 0 {
		v.report.Errorf(diag.EmptyViewSet, path, "at least one view is required")
		return nil
	}
	v.checkKeys(obj, path, nil)

	var views []View
	seen := make(map[string]bool, len(obj.Fields))
	for _, f := range obj.Fields {
		if seen[f.Key] {
			continue
		}
		seen[f.Key] = true
		if view, ok := v.view(path, f); ok {
			views = append(views, view)
		}
	}
	return views
}

func (v *validator) view(viewsPath string, f document.Field) (View, bool) {
	path := diag.Field(viewsPath, f.Key)
	name := ViewName(f.Key)

	valid := true
	if ok, errs := name.IsValid(); !ok {
		v.report.Errorf(diag.InvalidFormat, path, "%s", errs[0])
		valid = false
	} else if platform.IsWindowsReservedName(f.Key) {
		v.report.Warnf(diag.InvalidFormat, path, "view name %q is a reserved file name on Windows", f.Key)
	}

	if f.Value.IsNull() {
		v.report.Errorf(diag.MissingField, diag.Field(path, fieldEntrypoint), "required field is missing")
		return View{}, false
	}
	if f.Value.Kind != document.KindObject {
		v.report.Errorf(diag.TypeMismatch, path, "expected object, got %s", f.Value.Kind)
		return View{}, false
	}
	v.checkKeys(f.Value, path, viewKeys)

	raw, ok := v.requiredString(f.Value, path, fieldEntrypoint)
	if !ok {
		return View{}, false
	}
	entry, ok := v.relativePath(diag.Field(path, fieldEntrypoint), "entrypoint", raw)
	if !ok {
		return View{}, false
	}
	if !v.checkEntrypoint(diag.Field(path, fieldEntrypoint), entry) || !valid {
		return View{}, false
	}
	return View{Name: name, Entrypoint: entry}, true
}

// checkEntrypoint checks that entry names an existing regular file.
func (v *validator) checkEntrypoint(field, entry string) bool {
	info, err := fs.Stat(v.opts.fsys, entry)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		v.report.Errorf(diag.NotFound, field, "entrypoint %q does not exist in the project", entry)
		return false
	case err != nil:
		v.report.Errorf(diag.NotFound, field, "entrypoint %q cannot be read: %v", entry, err)
		return false
	case info.IsDir():
		v.report.Errorf(diag.InvalidFormat, field, "entrypoint %q is a directory, expected a file", entry)
		return false
	default:
		return true
	}
}

func (v *validator) copies(build document.Value) []CopyEntry {
	path := diag.Path(fieldBuild, fieldCopy)

	obj, ok := v.object(build, fieldBuild, fieldCopy)
	if !ok {
		return nil
	}
	v.checkKeys(obj, path, nil)

	var copies []CopyEntry
	seen := make(map[string]bool, len(obj.Fields))
	for _, f := range obj.Fields {
		if seen[f.Key] {
			continue
		}
		seen[f.Key] = true

		field := diag.Field(path, f.Key)
		if f.Value.Kind != document.KindString {
			v.report.Errorf(diag.TypeMismatch, field, "copy destination must be a string, got %s", f.Value.Kind)
			continue
		}
		src, srcOK := v.relativePath(field, "copy source", f.Key)
		dst, dstOK := v.relativePath(field, "copy destination", f.Value.Text)
		if !srcOK || !dstOK {
			continue
		}

		if _, err := fs.Stat(v.opts.fsys, src); errors.Is(err, fs.ErrNotExist) {
			v.report.Warnf(diag.NotFound, field, "copy source %q does not exist in the project", src)
		}
		if seg := platform.ReservedSegment(dst); seg != "" {
			v.report.Warnf(diag.InvalidFormat, field, "destination segment %q is a reserved file name on Windows", seg)
		}
		copies = append(copies, CopyEntry{Source: src, Destination: dst})
	}
	return copies
}

// relativePath normalizes a project-relative path, reporting problems under field.
func (v *validator) relativePath(field, what, raw string) (string, bool) {
	clean, err := fspath.CleanRelative(raw)
	switch {
	case err == nil:
		return clean, true
	case errors.Is(err, fspath.ErrPathEscape):
		v.report.Errorf(diag.PathEscape, field, "%s %q escapes the project root", what, raw)
	case errors.Is(err, fspath.ErrAbsolutePath):
		v.report.Errorf(diag.InvalidFormat, field, "%s %q must be relative to the project root", what, raw)
	case errors.Is(err, fspath.ErrEmptyPath):
		v.report.Errorf(diag.InvalidFormat, field, "%s must name a file", what)
	default:
		v.report.Errorf(diag.InvalidFormat, field, "%s: %v", what, err)
	}
	return "", false
}

func (v *validator) overrides(build document.Value) map[platform.Platform]PlatformOverride {
	out := make(map[platform.Platform]PlatformOverride)
	for _, p := range platform.All() {
		key := string(p)
		obj, ok := v.object(build, fieldBuild, key)
		if !ok {
			continue
		}
		path := diag.Field(fieldBuild, key)
		v.checkKeys(obj, path, nil)

		var o PlatformOverride
		seen := make(map[string]bool, len(obj.Fields))
		for _, f := range obj.Fields {
			if seen[f.Key] {
				continue
			}
			seen[f.Key] = true

			if f.Key != fieldBundleCEF {
				if o.Extra == nil {
					o.Extra = make(map[string]any)
				}
				o.Extra[f.Key] = f.Value.Interface()
				continue
			}
			switch f.Value.Kind {
			case document.KindBool:
				o.BundleCEF = f.Value.Bool
			case document.KindNull:
				// Same as absent: the default applies.
			default:
				v.report.Errorf(diag.TypeMismatch, diag.Field(path, fieldBundleCEF), "expected bool, got %s", f.Value.Kind)
			}
		}
		out[p] = o
	}
	return out
}

func atLine(line int) string {
	if line <= 0 {
		return ""
	}
	return " (again at line " + strconv.Itoa(line) + ")"
}
