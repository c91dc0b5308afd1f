// SPDX-License-Identifier: MPL-2.0

package buildconfig

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/viewpack/viewpack/pkg/diag"
	"github.com/viewpack/viewpack/pkg/document"
	"github.com/viewpack/viewpack/pkg/platform"
)

// projectFS is a project tree containing every file the template references.
func projectFS() fstest.MapFS {
	return fstest.MapFS{
		"src/mainview/index.ts":   {Data: []byte("export {}")},
		"src/mainview/index.html": {Data: []byte("<html></html>")},
		"src/mainview/index.css":  {Data: []byte("body {}")},
		"src/settings/main.ts":    {Data: []byte("export {}")},
		"src/assets":              {Mode: fs.ModeDir},
	}
}

// set returns a copy of v with the value at path replaced (or appended when absent).
func set(v document.Value, path []string, val document.Value) document.Value {
	if len(path) == 0 {
		return val
	}
	if v.Kind != document.KindObject {
		v = document.Object()
	}
	fields := make([]document.Field, len(v.Fields))
	copy(fields, v.Fields)
	for i, f := range fields {
		if f.Key == path[0] {
			fields[i].Value = set(f.Value, path[1:], val)
			return document.Object(fields...)
		}
	}
	fields = append(fields, document.F(path[0], set(document.Null(), path[1:], val)))
	return document.Object(fields...)
}

// remove returns a copy of v without the field at path.
func remove(v document.Value, path []string) document.Value {
	fields := make([]document.Field, 0, len(v.Fields))
	for _, f := range v.Fields {
		switch {
		case f.Key != path[0]:
			fields = append(fields, f)
		case len(path) > 1:
			fields = append(fields, document.F(f.Key, remove(f.Value, path[1:])))
		}
	}
	return document.Object(fields...)
}

func validDoc() document.Value {
	return Template(DefaultApp())
}

func mustReport(t *testing.T, err error) diag.Report {
	t.Helper()

	if err == nil {
		t.Fatal("Validate() succeeded, want a report")
	}
	var report diag.Report
	if !errors.As(err, &report) {
		t.Fatalf("Validate() error = %T (%v), want diag.Report", err, err)
	}
	if !errors.Is(err, diag.ErrInvalidConfig) {
		t.Error("report should match diag.ErrInvalidConfig")
	}
	return report
}

func requireDiag(t *testing.T, report diag.Report, code diag.Code, field string, sev diag.Severity) diag.Diagnostic {
	t.Helper()

	for _, d := range report.Find(code) {
		if d.Field == field {
			if d.Severity != sev {
				t.Errorf("%s at %s has severity %s, want %s", code, field, d.Severity, sev)
			}
			return d
		}
	}
	t.Fatalf("no %s diagnostic at %q in report:\n%s", code, field, report.Error())
	return diag.Diagnostic{}
}

func TestValidate_Template(t *testing.T) {
	t.Parallel()

	cfg, err := Validate(validDoc(), WithFS(projectFS()), WithSource("viewpack.config.cue"))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.App() != DefaultApp() {
		t.Errorf("App() = %+v, want %+v", cfg.App(), DefaultApp())
	}
	views := cfg.Views()
	if len(views) != 1 || views[0] != (View{Name: "mainview", Entrypoint: "src/mainview/index.ts"}) {
		t.Errorf("Views() = %+v", views)
	}
	wantCopies := []CopyEntry{
		{Source: "src/mainview/index.html", Destination: "views/mainview/index.html"},
		{Source: "src/mainview/index.css", Destination: "views/mainview/index.css"},
	}
	copies := cfg.Copies()
	if len(copies) != len(wantCopies) {
		t.Fatalf("Copies() = %+v", copies)
	}
	for i := range wantCopies {
		if copies[i] != wantCopies[i] {
			t.Errorf("Copies()[%d] = %+v, want %+v", i, copies[i], wantCopies[i])
		}
	}
	for _, p := range platform.All() {
		o, ok := cfg.Override(p)
		if !ok || o.BundleCEF {
			t.Errorf("Override(%s) = %+v, %v; want bundleCEF false", p, o, ok)
		}
	}
	if len(cfg.Warnings()) != 0 {
		t.Errorf("Warnings() = %v, want none", cfg.Warnings())
	}
	if cfg.Source() != "viewpack.config.cue" {
		t.Errorf("Source() = %q", cfg.Source())
	}
}

func TestValidate_RootMustBeObject(t *testing.T) {
	t.Parallel()

	for _, raw := range []document.Value{document.Null(), document.String("app"), document.List()} {
		_, err := Validate(raw, WithFS(projectFS()))
		report := mustReport(t, err)
		if len(report) != 1 {
			t.Errorf("non-object root should short-circuit with one diagnostic, got %d", len(report))
		}
		d := requireDiag(t, report, diag.TypeMismatch, "", diag.SeverityError)
		if !strings.HasPrefix(d.Error(), diag.RootField) {
			t.Errorf("root diagnostic = %q", d.Error())
		}
	}
}

func TestValidate_AppFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		doc   document.Value
		code  diag.Code
		field string
	}{
		{"missing name", remove(validDoc(), []string{"app", "name"}), diag.MissingField, "app.name"},
		{"null identifier", set(validDoc(), []string{"app", "identifier"}, document.Null()), diag.MissingField, "app.identifier"},
		{"numeric version", set(validDoc(), []string{"app", "version"}, document.Number("1")), diag.TypeMismatch, "app.version"},
		{"bool name", set(validDoc(), []string{"app", "name"}, document.Bool(true)), diag.TypeMismatch, "app.name"},
		{"blank name", set(validDoc(), []string{"app", "name"}, document.String("  ")), diag.InvalidFormat, "app.name"},
		{"identifier with spaces", set(validDoc(), []string{"app", "identifier"}, document.String("My App")), diag.InvalidFormat, "app.identifier"},
		{"app not an object", set(validDoc(), []string{"app"}, document.String("demo")), diag.TypeMismatch, "app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Validate(tt.doc, WithFS(projectFS()))
			requireDiag(t, mustReport(t, err), tt.code, tt.field, diag.SeverityError)
		})
	}
}

func TestValidate_MissingAppNamesEveryField(t *testing.T) {
	t.Parallel()

	_, err := Validate(remove(validDoc(), []string{"app"}), WithFS(projectFS()))
	report := mustReport(t, err)
	for _, field := range []string{"app.name", "app.identifier", "app.version"} {
		requireDiag(t, report, diag.MissingField, field, diag.SeverityError)
	}
}

func TestIdentifier_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   Identifier
		want bool
	}{
		{"com.example.my-electrobun-app", true},
		{"io.viewpack.demo", true},
		{"a.b", true},
		{"com.example.app2", true},
		{"My App", false},
		{"com.Example.app", false},
		{"single", false},
		{"com..app", false},
		{".com.app", false},
		{"com.app.", false},
		{"-com.app", false},
		{"com.my_app", false},
		{"", false},
	}

	for _, tt := range tests {
		ok, errs := tt.id.IsValid()
		if ok != tt.want {
			t.Errorf("Identifier(%q).IsValid() = %v, want %v", tt.id, ok, tt.want)
		}
		if !ok && !errors.Is(errs[0], ErrInvalidIdentifier) {
			t.Errorf("Identifier(%q) error should wrap ErrInvalidIdentifier", tt.id)
		}
	}
}

func TestVersion_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    Version
		want bool
	}{
		{"0.1.0", true},
		{"1.2.3", true},
		{"10.20.30", true},
		{"1.0.0-alpha", true},
		{"1.0.0-alpha.1", true},
		{"1.0.0-rc.1+build.5", true},
		{"1.0.0+20260101", true},
		{"1.0", false},
		{"1", false},
		{"v1.0.0", false},
		{"01.0.0", false},
		{"1.02.0", false},
		{"1.0.0-01", false},
		{"1.0.0.0", false},
		{"latest", false},
		{"", false},
	}

	for _, tt := range tests {
		ok, errs := tt.v.IsValid()
		if ok != tt.want {
			t.Errorf("Version(%q).IsValid() = %v, want %v", tt.v, ok, tt.want)
		}
		if !ok && !errors.Is(errs[0], ErrInvalidVersion) {
			t.Errorf("Version(%q) error should wrap ErrInvalidVersion", tt.v)
		}
	}

	if Version("1.0.0-rc.1").Compare("1.0.0") >= 0 {
		t.Error("pre-release must sort before the release")
	}
	if Version("1.0.0-rc.1").Prerelease() != "-rc.1" {
		t.Errorf("Prerelease() = %q", Version("1.0.0-rc.1").Prerelease())
	}
}

func TestValidate_EmptyViewSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  document.Value
	}{
		{"empty mapping", set(validDoc(), []string{"build", "views"}, document.Object())},
		{"null mapping", set(validDoc(), []string{"build", "views"}, document.Null())},
		{"missing mapping", remove(validDoc(), []string{"build", "views"})},
		{"missing build", remove(validDoc(), []string{"build"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Validate(tt.doc, WithFS(projectFS()))
			requireDiag(t, mustReport(t, err), diag.EmptyViewSet, "build.views", diag.SeverityError)
		})
	}
}

func TestValidate_Views(t *testing.T) {
	t.Parallel()

	entry := func(path string) document.Value {
		return document.Object(document.F("entrypoint", document.String(path)))
	}

	tests := []struct {
		name  string
		views document.Value
		code  diag.Code
		field string
		sev   diag.Severity
	}{
		{"invalid name", document.Object(document.F("main view", entry("src/mainview/index.ts"))), diag.InvalidFormat, `build.views["main view"]`, diag.SeverityError},
		{"name starts with digit", document.Object(document.F("1view", entry("src/mainview/index.ts"))), diag.InvalidFormat, `build.views["1view"]`, diag.SeverityError},
		{"reserved name", document.Object(document.F("con", entry("src/mainview/index.ts"))), diag.InvalidFormat, "build.views.con", diag.SeverityWarning},
		{"view not an object", document.Object(document.F("mainview", document.String("src/mainview/index.ts"))), diag.TypeMismatch, "build.views.mainview", diag.SeverityError},
		{"null view", document.Object(document.F("mainview", document.Null())), diag.MissingField, "build.views.mainview.entrypoint", diag.SeverityError},
		{"missing entrypoint", document.Object(document.F("mainview", document.Object())), diag.MissingField, "build.views.mainview.entrypoint", diag.SeverityError},
		{"numeric entrypoint", document.Object(document.F("mainview", document.Object(document.F("entrypoint", document.Number("3"))))), diag.TypeMismatch, "build.views.mainview.entrypoint", diag.SeverityError},
		{"entrypoint not found", document.Object(document.F("mainview", entry("src/mainview/missing.ts"))), diag.NotFound, "build.views.mainview.entrypoint", diag.SeverityError},
		{"entrypoint is directory", document.Object(document.F("mainview", entry("src/assets"))), diag.InvalidFormat, "build.views.mainview.entrypoint", diag.SeverityError},
		{"entrypoint escapes", document.Object(document.F("mainview", entry("../outside/index.ts"))), diag.PathEscape, "build.views.mainview.entrypoint", diag.SeverityError},
		{"entrypoint absolute", document.Object(document.F("mainview", entry("/src/mainview/index.ts"))), diag.InvalidFormat, "build.views.mainview.entrypoint", diag.SeverityError},
		{"entrypoint empty", document.Object(document.F("mainview", entry(""))), diag.InvalidFormat, "build.views.mainview.entrypoint", diag.SeverityError},
		{"unknown view key", document.Object(document.F("mainview", document.Object(
			document.F("entrypoint", document.String("src/mainview/index.ts")),
			document.F("minify", document.Bool(true)),
		))), diag.UnknownField, "build.views.mainview.minify", diag.SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := set(validDoc(), []string{"build", "views"}, tt.views)
			cfg, err := Validate(doc, WithFS(projectFS()))
			if tt.sev == diag.SeverityWarning {
				if err != nil {
					t.Fatalf("warnings must not reject: %v", err)
				}
				requireDiag(t, cfg.Warnings(), tt.code, tt.field, diag.SeverityWarning)
				return
			}
			requireDiag(t, mustReport(t, err), tt.code, tt.field, tt.sev)
		})
	}
}

func TestValidate_DuplicateViewNames(t *testing.T) {
	t.Parallel()

	data := `{
  "app": {"name": "demo", "identifier": "io.example.demo", "version": "1.0.0"},
  "build": {
    "views": {
      "mainview": {"entrypoint": "src/mainview/index.ts"},
      "settings": {"entrypoint": "src/settings/main.ts"},
      "mainview": {"entrypoint": "src/settings/main.ts"}
    }
  }
}`
	raw, err := document.Decode([]byte(data), "viewpack.config.json", document.FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	_, err = Validate(raw, WithFS(projectFS()))
	report := mustReport(t, err)
	d := requireDiag(t, report, diag.DuplicateKey, "build.views.mainview", diag.SeverityError)
	if !strings.Contains(d.Message, "line 7") {
		t.Errorf("duplicate message should point at the repeated line: %q", d.Message)
	}
	if len(report) != 1 {
		t.Errorf("only the duplicate should be reported, got:\n%s", report.Error())
	}
}

func TestValidate_DuplicateKeysEverywhere(t *testing.T) {
	t.Parallel()

	data := `
app:
  name: demo
  name: again
  identifier: io.example.demo
  version: 1.0.0
build:
  views:
    mainview: {entrypoint: src/mainview/index.ts}
  copy:
    src/mainview/index.html: views/mainview/index.html
    src/mainview/index.html: views/mainview/other.html
  mac:
    bundleCEF: true
    bundleCEF: false
`
	raw, err := document.Decode([]byte(data), "viewpack.config.yaml", document.FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	_, err = Validate(raw, WithFS(projectFS()))
	report := mustReport(t, err)
	requireDiag(t, report, diag.DuplicateKey, "app.name", diag.SeverityError)
	requireDiag(t, report, diag.DuplicateKey, `build.copy["src/mainview/index.html"]`, diag.SeverityError)
	requireDiag(t, report, diag.DuplicateKey, "build.mac.bundleCEF", diag.SeverityError)
}

func TestValidate_Copies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		copy  document.Value
		code  diag.Code
		field string
		sev   diag.Severity
	}{
		{"non-string destination", document.Object(document.F("src/mainview/index.html", document.Bool(true))), diag.TypeMismatch, `build.copy["src/mainview/index.html"]`, diag.SeverityError},
		{"null destination", document.Object(document.F("src/mainview/index.html", document.Null())), diag.TypeMismatch, `build.copy["src/mainview/index.html"]`, diag.SeverityError},
		{"source escapes", document.Object(document.F("../secret.txt", document.String("secret.txt"))), diag.PathEscape, `build.copy["../secret.txt"]`, diag.SeverityError},
		{"destination escapes", document.Object(document.F("src/mainview/index.html", document.String("../../index.html"))), diag.PathEscape, `build.copy["src/mainview/index.html"]`, diag.SeverityError},
		{"absolute destination", document.Object(document.F("src/mainview/index.html", document.String("/tmp/index.html"))), diag.InvalidFormat, `build.copy["src/mainview/index.html"]`, diag.SeverityError},
		{"empty destination", document.Object(document.F("src/mainview/index.html", document.String(""))), diag.InvalidFormat, `build.copy["src/mainview/index.html"]`, diag.SeverityError},
		{"missing source warns", document.Object(document.F("src/mainview/logo.png", document.String("views/mainview/logo.png"))), diag.NotFound, `build.copy["src/mainview/logo.png"]`, diag.SeverityWarning},
		{"reserved destination warns", document.Object(document.F("src/mainview/index.css", document.String("views/aux/index.css"))), diag.InvalidFormat, `build.copy["src/mainview/index.css"]`, diag.SeverityWarning},
		{"copy not an object", document.List(), diag.TypeMismatch, "build.copy", diag.SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := set(validDoc(), []string{"build", "copy"}, tt.copy)
			cfg, err := Validate(doc, WithFS(projectFS()))
			if tt.sev == diag.SeverityWarning {
				if err != nil {
					t.Fatalf("warnings must not reject: %v", err)
				}
				requireDiag(t, cfg.Warnings(), tt.code, tt.field, diag.SeverityWarning)
				if len(cfg.Copies()) != 1 {
					t.Errorf("entry with a warning should still be kept, got %+v", cfg.Copies())
				}
				return
			}
			requireDiag(t, mustReport(t, err), tt.code, tt.field, tt.sev)
		})
	}
}

func TestValidate_CopyPathsAreNormalized(t *testing.T) {
	t.Parallel()

	doc := set(validDoc(), []string{"build", "copy"}, document.Object(
		document.F("./src/mainview/../mainview/index.html", document.String(`views\mainview\index.html`)),
	))
	cfg, err := Validate(doc, WithFS(projectFS()))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	want := CopyEntry{Source: "src/mainview/index.html", Destination: "views/mainview/index.html"}
	if got := cfg.Copies(); len(got) != 1 || got[0] != want {
		t.Errorf("Copies() = %+v, want %+v", got, want)
	}
}

func TestValidate_PlatformOverrides(t *testing.T) {
	t.Parallel()

	t.Run("extras are kept and absent platforms are undeclared", func(t *testing.T) {
		t.Parallel()

		doc := remove(remove(validDoc(), []string{"build", "linux"}), []string{"build", "win"})
		doc = set(doc, []string{"build", "mac"}, document.Object(
			document.F("bundleCEF", document.Bool(true)),
			document.F("codesignIdentity", document.String("Developer ID")),
			document.F("entitlements", document.Object(document.F("com.apple.security.network.client", document.Bool(true)))),
		))
		cfg, err := Validate(doc, WithFS(projectFS()))
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}

		mac, ok := cfg.Override(platform.Mac)
		if !ok || !mac.BundleCEF {
			t.Fatalf("Override(mac) = %+v, %v", mac, ok)
		}
		if mac.Extra["codesignIdentity"] != "Developer ID" {
			t.Errorf("Extra = %v", mac.Extra)
		}
		if _, ok := cfg.Override(platform.Win); ok {
			t.Error("win has no block and should not report an override")
		}
		if got := cfg.Platforms(); len(got) != 1 || got[0] != platform.Mac {
			t.Errorf("Platforms() = %v", got)
		}

		// Mutating a returned override must not leak into the config.
		mac.Extra["codesignIdentity"] = "changed"
		mac.Extra["entitlements"].(map[string]any)["com.apple.security.network.client"] = false
		again, _ := cfg.Override(platform.Mac)
		if again.Extra["codesignIdentity"] != "Developer ID" {
			t.Error("Override() must return a copy of Extra")
		}
		if again.Extra["entitlements"].(map[string]any)["com.apple.security.network.client"] != true {
			t.Error("Override() must deep-copy nested extras")
		}
	})

	t.Run("null bundleCEF means default", func(t *testing.T) {
		t.Parallel()

		doc := set(validDoc(), []string{"build", "linux", "bundleCEF"}, document.Null())
		cfg, err := Validate(doc, WithFS(projectFS()))
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if o, ok := cfg.Override(platform.Linux); !ok || o.BundleCEF {
			t.Errorf("Override(linux) = %+v, %v", o, ok)
		}
	})

	t.Run("type errors", func(t *testing.T) {
		t.Parallel()

		doc := set(validDoc(), []string{"build", "win", "bundleCEF"}, document.String("yes"))
		doc = set(doc, []string{"build", "linux"}, document.Bool(true))
		_, err := Validate(doc, WithFS(projectFS()))
		report := mustReport(t, err)
		requireDiag(t, report, diag.TypeMismatch, "build.win.bundleCEF", diag.SeverityError)
		requireDiag(t, report, diag.TypeMismatch, "build.linux", diag.SeverityError)
	})
}

func TestValidate_UnknownKeys(t *testing.T) {
	t.Parallel()

	doc := set(validDoc(), []string{"description"}, document.String("demo"))
	doc = set(doc, []string{"app", "author"}, document.String("me"))
	doc = set(doc, []string{"build", "windows"}, document.Object(document.F("bundleCEF", document.Bool(true))))

	cfg, err := Validate(doc, WithFS(projectFS()))
	if err != nil {
		t.Fatalf("unknown keys must not reject: %v", err)
	}
	warnings := cfg.Warnings()
	requireDiag(t, warnings, diag.UnknownField, "description", diag.SeverityWarning)
	requireDiag(t, warnings, diag.UnknownField, "app.author", diag.SeverityWarning)
	d := requireDiag(t, warnings, diag.UnknownField, "build.windows", diag.SeverityWarning)
	if !strings.Contains(d.Message, `"win"`) {
		t.Errorf("alias warning should suggest win: %q", d.Message)
	}
}

func TestValidate_Strict(t *testing.T) {
	t.Parallel()

	doc := set(validDoc(), []string{"build", "windows"}, document.Object())
	if _, err := Validate(doc, WithFS(projectFS())); err != nil {
		t.Fatalf("non-strict Validate() error = %v", err)
	}

	_, err := Validate(doc, WithFS(projectFS()), WithStrict(true))
	requireDiag(t, mustReport(t, err), diag.UnknownField, "build.windows", diag.SeverityError)
}

func TestValidate_AccumulatesAllErrors(t *testing.T) {
	t.Parallel()

	doc := set(validDoc(), []string{"app", "identifier"}, document.String("My App"))
	doc = set(doc, []string{"app", "version"}, document.String("1.0"))
	doc = set(doc, []string{"build", "views", "mainview", "entrypoint"}, document.String("../escape.ts"))
	doc = set(doc, []string{"build", "mac", "bundleCEF"}, document.Number("1"))

	_, err := Validate(doc, WithFS(projectFS()))
	report := mustReport(t, err)
	if report.ErrorCount() != 4 {
		t.Errorf("ErrorCount() = %d, want 4:\n%s", report.ErrorCount(), report.Error())
	}
}

func TestBuildConfig_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	cfg, err := Validate(validDoc(), WithFS(projectFS()))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	views := cfg.Views()
	views[0].Entrypoint = "changed.ts"
	copies := cfg.Copies()
	copies[0].Destination = "changed"

	if cfg.Views()[0].Entrypoint != "src/mainview/index.ts" {
		t.Error("Views() must return a copy")
	}
	if cfg.Copies()[0].Destination != "views/mainview/index.html" {
		t.Error("Copies() must return a copy")
	}
}
