// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/viewpack/viewpack/internal/config"
	"github.com/viewpack/viewpack/pkg/target"
	"github.com/viewpack/viewpack/pkg/types"
)

// planDocument is the machine-readable shape of a plan.
type planDocument struct {
	Source      string                  `json:"source" yaml:"source" toml:"source"`
	ProjectRoot types.FilesystemPath    `json:"projectRoot" yaml:"projectRoot" toml:"projectRoot"`
	Targets     []target.ResolvedTarget `json:"targets" yaml:"targets" toml:"targets"`
}

func renderPlan(w io.Writer, format config.OutputFormat, doc planDocument) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case config.FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(doc)
	case config.FormatText:
		renderPlanText(w, doc)
		return nil
	default:
		return &config.InvalidOutputFormatError{Value: format}
	}
}

// renderPlanText prints the shared layout once, then one line per target.
// Every target of a plan shares the same views and copies.
func renderPlanText(w io.Writer, doc planDocument) {
	if len(doc.Targets) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No targets."))
		return
	}
	first := doc.Targets[0]
	app := first.App

	fmt.Fprintf(w, "%s %s %s (%s)\n", TitleStyle.Render("Build plan for"), app.Name, app.Version, app.Identifier)
	fmt.Fprintf(w, "Source:  %s\n", pathStyle.Render(doc.Source))
	fmt.Fprintf(w, "Output:  %s\n", pathStyle.Render(string(first.OutputRoot)))

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Views"))
	for _, v := range first.Views {
		entry := relativeTo(doc.ProjectRoot, v.Entrypoint)
		fmt.Fprintf(w, "  %s  %s → %s\n", CmdStyle.Render(string(v.Name)), entry, v.OutputRel)
	}

	if len(first.Copies) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, TitleStyle.Render("Copies"))
		for _, c := range first.Copies {
			fmt.Fprintf(w, "  %s → %s\n", c.SourceRel, c.DestinationRel)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Targets"))
	for _, t := range doc.Targets {
		line := fmt.Sprintf("  %s %s", platformStyle.Render(string(t.Platform)), t.Engine)
		switch {
		case t.BundleCEF:
			line += " " + SuccessStyle.Render("(bundled)")
		case t.Defaulted:
			line += " " + WarningStyle.Render("(default)")
		}
		fmt.Fprintln(w, line)
		if len(t.Settings) > 0 {
			fmt.Fprintf(w, "         %s %s\n", SubtitleStyle.Render("settings:"), formatSettings(t.Settings))
		}
	}
}

func formatSettings(settings map[string]any) string {
	keys := slices.Sorted(maps.Keys(settings))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, settings[k])
	}
	return strings.Join(parts, " ")
}

func relativeTo(root, p types.FilesystemPath) string {
	rel, err := filepath.Rel(string(root), string(p))
	if err != nil {
		return string(p)
	}
	return filepath.ToSlash(rel)
}
