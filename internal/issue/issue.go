// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/viewpack/viewpack/pkg/diag"
)

// Id identifies a catalog entry.
type Id int

const (
	MissingFieldId Id = iota + 1
	TypeMismatchId
	InvalidFormatId
	EmptyViewSetId
	DuplicateKeyId
	PathEscapeId
	DestinationConflictId
	OutputConflictId
	UnsupportedPlatformId
	NotFoundId
	UnknownFieldId
	ConfigNotFoundId
	ConfigParseFailedId
	SettingsLoadFailedId
	UnsupportedFormatId
)

type MarkdownMsg string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id      Id          // ID used to lookup the issue
	name    string      // name accepted by "viewpack explain"
	code    diag.Code   // diagnostic code, empty for operational failures
	mdMsg   MarkdownMsg // Markdown text that will be rendered
	related []Id        // entries listed under "See also"
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Name() string {
	return i.name
}

// Code returns the diagnostic code the entry explains, or "" when the entry
// covers an operational failure.
func (i *Issue) Code() diag.Code {
	return i.code
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Related() []Id {
	return slices.Clone(i.related)
}

// Markdown returns the entry text with its "See also" section appended.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(string(i.mdMsg)))
	sb.WriteString("\n")

	var names []string
	for _, id := range i.related {
		if rel := Get(id); rel != nil {
			names = append(names, rel.name)
		}
	}
	if len(names) > 0 {
		sb.WriteString("\n## See also\n")
		for _, name := range names {
			sb.WriteString("- `viewpack explain " + name + "`\n")
		}
	}
	return sb.String()
}

// Render renders the entry with glamour. stylePath is a glamour style name
// ("auto", "dark", "light", "notty") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	missingFieldIssue = &Issue{
		id:   MissingFieldId,
		name: "MissingField",
		code: diag.MissingField,
		mdMsg: `
# A required field is missing!

The build configuration leaves out a field viewpack cannot work without.
A field set to null counts as missing.

## Required fields:
- **app.name**: display name of the application
- **app.identifier**: reverse-DNS bundle identifier
- **app.version**: semantic version
- **build.views**: at least one view with an entrypoint

## Example:
~~~cue
app: {
	name:       "My App"
	identifier: "dev.example.myapp"
	version:    "0.1.0"
}
~~~`,
		related: []Id{TypeMismatchId, EmptyViewSetId},
	}

	typeMismatchIssue = &Issue{
		id:   TypeMismatchId,
		name: "TypeMismatch",
		code: diag.TypeMismatch,
		mdMsg: `
# A value has the wrong type!

A field holds a value of a different kind than expected, such as a number where
a string belongs or a list where an object belongs.

## Expected kinds:
- **app**, **build**, **build.views**, **build.copy**, **build.<platform>**: objects
- **app.name**, **app.identifier**, **app.version**: strings
- **build.views.<name>.entrypoint** and **build.copy** values: strings
- **build.<platform>.bundleCEF**: boolean

## Things you can try:
- Quote strings in YAML that look like numbers or booleans:
~~~yaml
app:
  version: "1.0"
~~~`,
		related: []Id{MissingFieldId},
	}

	invalidFormatIssue = &Issue{
		id:   InvalidFormatId,
		name: "InvalidFormat",
		code: diag.InvalidFormat,
		mdMsg: `
# A value is not in the expected format!

## Format rules:
- **app.identifier**: two or more dot-separated segments of letters, digits and
  hyphens, e.g. ` + "`dev.example.myapp`" + `. Spaces are not allowed.
- **app.version**: a semantic version such as ` + "`1.2.3`" + ` or ` + "`1.0.0-rc.1`" + `.
- **view names**: letters, digits, ` + "`-`" + ` and ` + "`_`" + `, starting with a letter or digit.
  Names reserved on Windows (con, nul, com1...) are reported as warnings.
- **paths**: non-empty and relative to the project root.

## Example:
~~~cue
app: identifier: "dev.example.myapp"
~~~`,
		related: []Id{PathEscapeId},
	}

	emptyViewSetIssue = &Issue{
		id:   EmptyViewSetId,
		name: "EmptyViewSet",
		code: diag.EmptyViewSet,
		mdMsg: `
# No views declared!

Every application needs at least one view. A view maps a name to the
TypeScript entrypoint that is bundled for it.

## Example:
~~~cue
build: views: {
	mainview: entrypoint: "src/mainview/index.ts"
}
~~~

## Things you can try:
- Scaffold a starter project:
~~~
$ viewpack init
~~~`,
		related: []Id{MissingFieldId},
	}

	duplicateKeyIssue = &Issue{
		id:   DuplicateKeyId,
		name: "DuplicateKey",
		code: diag.DuplicateKey,
		mdMsg: `
# A key appears twice!

The same key is declared more than once in one object. Most JSON and YAML
parsers silently keep the last value; viewpack rejects the document instead so
that nothing is dropped by accident.

## Things you can try:
- Search the file for the key named in the report and merge the two entries.
- Give views distinct names; view names must be unique.`,
		related: []Id{DestinationConflictId},
	}

	pathEscapeIssue = &Issue{
		id:   PathEscapeId,
		name: "PathEscape",
		code: diag.PathEscape,
		mdMsg: `
# A path leaves the project!

Entrypoints, copy sources, copy destinations and the output directory must stay
inside their root once ` + "`..`" + ` segments are resolved. Absolute paths are rejected.

## Example:
~~~cue
// rejected
build: copy: "../secrets/key.pem": "key.pem"

// accepted
build: copy: "assets/logo.png": "logo.png"
~~~`,
		related: []Id{InvalidFormatId, NotFoundId},
	}

	destinationConflictIssue = &Issue{
		id:   DestinationConflictId,
		name: "DestinationConflict",
		code: diag.DestinationConflict,
		mdMsg: `
# Two copy rules write the same file!

Two entries in **build.copy** resolve to the same destination. Destinations are
compared after normalization and without regard to case, since macOS and Windows
file systems do not distinguish them.

## Example:
~~~cue
// rejected: both write out/index.html
build: copy: {
	"a.html": "out/index.html"
	"b.html": "out/index.html"
}
~~~

## Things you can try:
- Rename one destination, or drop the redundant rule.`,
		related: []Id{OutputConflictId, DuplicateKeyId},
	}

	outputConflictIssue = &Issue{
		id:   OutputConflictId,
		name: "OutputConflict",
		code: diag.OutputConflict,
		mdMsg: `
# A copy rule overwrites a bundle!

A **build.copy** destination is the same file a view bundle is written to.
Bundles are written to ` + "`views/<name>/<entrypoint stem>.js`" + ` inside the output directory.

## Things you can try:
- Copy the file somewhere outside ` + "`views/`" + `.
- Run ` + "`viewpack plan`" + ` on a valid configuration to see every output path.`,
		related: []Id{DestinationConflictId},
	}

	unsupportedPlatformIssue = &Issue{
		id:   UnsupportedPlatformId,
		name: "UnsupportedPlatform",
		code: diag.UnsupportedPlatform,
		mdMsg: `
# Unsupported platform!

viewpack targets exactly three platforms: **mac**, **linux** and **win**.
Common aliases such as darwin, macos and windows are accepted too.

## Things you can try:
- List the accepted names:
~~~
$ viewpack platforms
~~~`,
	}

	notFoundIssue = &Issue{
		id:   NotFoundId,
		name: "NotFound",
		code: diag.NotFound,
		mdMsg: `
# A referenced file does not exist!

A view entrypoint is missing from the project tree, or is a directory. For
**build.copy** sources this is a warning, since assets are often generated
before packaging.

## Things you can try:
- Check the spelling and case of the path.
- Paths are relative to the directory holding the configuration file.`,
		related: []Id{PathEscapeId},
	}

	unknownFieldIssue = &Issue{
		id:   UnknownFieldId,
		name: "UnknownField",
		code: diag.UnknownField,
		mdMsg: `
# Unknown field!

The configuration contains a key viewpack does not recognize. This is a warning
unless strict mode is on. Platform sections inside **build** also accept the
aliases listed by ` + "`viewpack platforms`" + ` and suggest the canonical name.

## Things you can try:
- Fix the spelling of the key.
- Fail on unknown keys in CI:
~~~
$ viewpack validate --strict
~~~`,
	}

	configNotFoundIssue = &Issue{
		id:   ConfigNotFoundId,
		name: "ConfigNotFound",
		mdMsg: `
# No build configuration found!

viewpack looks for one of these files in the project directory, in order:

1. viewpack.config.cue
2. viewpack.config.json
3. viewpack.config.yaml
4. viewpack.config.yml

## Things you can try:
- Create one:
~~~
$ viewpack init
~~~

- Or point at a file explicitly:
~~~
$ viewpack validate --file path/to/viewpack.config.cue
~~~`,
		related: []Id{ConfigParseFailedId},
	}

	configParseFailedIssue = &Issue{
		id:   ConfigParseFailedId,
		name: "ConfigParseFailed",
		mdMsg: `
# Failed to parse the build configuration!

The file is not valid CUE, JSON or YAML, or is larger than 5 MiB. The error
names the line and column where parsing stopped.

## Things you can try:
- Check for missing quotes, commas or braces near the reported position.
- Regenerate a known good file to compare against:
~~~
$ viewpack init --force /tmp/sample
~~~`,
		related: []Id{ConfigNotFoundId, UnsupportedFormatId},
	}

	settingsLoadFailedIssue = &Issue{
		id:   SettingsLoadFailedId,
		name: "SettingsLoadFailed",
		mdMsg: `
# Failed to load viewpack settings!

The tool settings file is invalid, or a VIEWPACK_* environment variable holds a
value viewpack does not accept.

## Settings file locations:
- Linux: ~/.config/viewpack/config.cue
- macOS: ~/Library/Application Support/viewpack/config.cue
- Windows: %APPDATA%\viewpack\config.cue

## Things you can try:
- Show the effective settings:
~~~
$ viewpack config show
~~~

- Regenerate the defaults:
~~~
$ viewpack config init --force
~~~

## Example settings:
~~~cue
platforms: ["mac", "linux", "win"]
strict: false
output_dir: "build"
format: "text"

ui: {
	color_scheme: "auto"
	verbose: false
}
~~~`,
	}

	unsupportedFormatIssue = &Issue{
		id:   UnsupportedFormatId,
		name: "UnsupportedFormat",
		mdMsg: `
# Unsupported file format!

Build configurations may be written in CUE (.cue), JSON (.json) or YAML
(.yaml, .yml). Plans render as text, json, yaml or toml.`,
		related: []Id{ConfigParseFailedId},
	}

	issues = map[Id]*Issue{
		missingFieldIssue.id:        missingFieldIssue,
		typeMismatchIssue.id:        typeMismatchIssue,
		invalidFormatIssue.id:       invalidFormatIssue,
		emptyViewSetIssue.id:        emptyViewSetIssue,
		duplicateKeyIssue.id:        duplicateKeyIssue,
		pathEscapeIssue.id:          pathEscapeIssue,
		destinationConflictIssue.id: destinationConflictIssue,
		outputConflictIssue.id:      outputConflictIssue,
		unsupportedPlatformIssue.id: unsupportedPlatformIssue,
		notFoundIssue.id:            notFoundIssue,
		unknownFieldIssue.id:        unknownFieldIssue,
		configNotFoundIssue.id:      configNotFoundIssue,
		configParseFailedIssue.id:   configParseFailedIssue,
		settingsLoadFailedIssue.id:  settingsLoadFailedIssue,
		unsupportedFormatIssue.id:   unsupportedFormatIssue,
	}
)

// Values returns every entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// ForCode returns the entry explaining a diagnostic code, or nil.
func ForCode(code diag.Code) *Issue {
	for _, i := range issues {
		if i.code != "" && i.code == code {
			return i
		}
	}
	return nil
}

// Lookup finds an entry by name, ignoring case and surrounding space.
func Lookup(name string) (*Issue, bool) {
	name = strings.TrimSpace(name)
	for _, i := range Values() {
		if strings.EqualFold(i.name, name) {
			return i, true
		}
	}
	return nil, false
}
