// SPDX-License-Identifier: MPL-2.0

package buildconfig

import (
	"html"
	"strconv"

	"github.com/viewpack/viewpack/pkg/document"
	"github.com/viewpack/viewpack/pkg/platform"
	"github.com/viewpack/viewpack/pkg/types"
)

const (
	// DefaultAppName is the application name used by the starter template.
	DefaultAppName types.DisplayName = "my-electrobun-app"
	// DefaultIdentifier is the identifier used by the starter template.
	DefaultIdentifier Identifier = "com.example.my-electrobun-app"
	// DefaultVersion is the version every new project starts at.
	DefaultVersion Version = "0.1.0"
	// DefaultViewName is the single view of the starter template.
	DefaultViewName ViewName = "mainview"

	templateHeader = `viewpack build configuration
Platform blocks opt into bundling CEF. Without bundleCEF the system web view
is used: WebKit on macOS and Linux, WebView2 on Windows.`
)

// ScaffoldFile is a starter source file that makes a new project validate.
type ScaffoldFile struct {
	// Path is relative to the project root, slash-separated.
	Path    string
	Content string
}

// DefaultApp returns the starter template's identity.
func DefaultApp() AppIdentity {
	return AppIdentity{Name: DefaultAppName, Identifier: DefaultIdentifier, Version: DefaultVersion}
}

// Template returns the starter configuration document for app: one view,
// its HTML and CSS copied next to the compiled bundle, and CEF bundling
// turned off on every platform.
func Template(app AppIdentity) document.Value {
	view := string(DefaultViewName)
	src := "src/" + view + "/"
	dst := "views/" + view + "/"

	platforms := make([]document.Field, 0, len(platform.All()))
	for _, p := range platform.All() {
		platforms = append(platforms, document.F(string(p), document.Object(
			document.F(fieldBundleCEF, document.Bool(false)),
		)))
	}

	build := []document.Field{
		document.F(fieldViews, document.Object(
			document.F(view, document.Object(
				document.F(fieldEntrypoint, document.String(src+"index.ts")),
			)),
		)),
		document.F(fieldCopy, document.Object(
			document.F(src+"index.html", document.String(dst+"index.html")),
			document.F(src+"index.css", document.String(dst+"index.css")),
		)),
	}

	return document.Object(
		document.F(fieldApp, document.Object(
			document.F(fieldName, document.String(app.Name.String())),
			document.F(fieldIdentifier, document.String(app.Identifier.String())),
			document.F(fieldVersion, document.String(app.Version.String())),
		)),
		document.F(fieldBuild, document.Object(append(build, platforms...)...)),
	)
}

// Generate renders the starter configuration for app in the given format.
func Generate(app AppIdentity, format document.Format) ([]byte, error) {
	return document.Encode(Template(app), format, templateHeader)
}

// Scaffold returns the source files referenced by Template, so that a
// freshly initialized project passes validation with no warnings.
func Scaffold(app AppIdentity) []ScaffoldFile {
	dir := "src/" + string(DefaultViewName) + "/"
	return []ScaffoldFile{
		{
			Path: dir + "index.ts",
			Content: `const title = document.querySelector<HTMLHeadingElement>("h1");
if (title) {
	title.textContent = ` + strconv.Quote(app.Name.String()) + `;
}
`,
		},
		{
			Path: dir + "index.html",
			Content: `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>` + html.EscapeString(app.Name.String()) + `</title>
	<link rel="stylesheet" href="index.css">
</head>
<body>
	<h1></h1>
	<script type="module" src="index.js"></script>
</body>
</html>
`,
		},
		{
			Path: dir + "index.css",
			Content: `body {
	font-family: system-ui, sans-serif;
	margin: 2rem;
}
`,
		},
	}
}
