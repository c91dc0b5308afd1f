// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/viewpack/viewpack/internal/config"
	"github.com/viewpack/viewpack/pkg/buildconfig"
	"github.com/viewpack/viewpack/pkg/layout"
	"github.com/viewpack/viewpack/pkg/platform"
	"github.com/viewpack/viewpack/pkg/target"
)

func samplePlan() planDocument {
	app := buildconfig.AppIdentity{Name: "Demo", Identifier: "dev.example.demo", Version: "1.0.0"}
	views := []layout.ViewUnit{{
		Name:       "main",
		Entrypoint: "/proj/src/main.ts",
		Output:     "/proj/build/views/main/main.js",
		OutputRel:  "views/main/main.js",
	}}
	copies := []layout.CopyOp{{
		Source:         "/proj/logo.png",
		Destination:    "/proj/build/logo.png",
		SourceRel:      "logo.png",
		DestinationRel: "logo.png",
	}}

	return planDocument{
		Source:      "/proj/viewpack.config.cue",
		ProjectRoot: "/proj",
		Targets: []target.ResolvedTarget{
			{
				Platform:   platform.Mac,
				App:        app,
				BundleCEF:  true,
				Engine:     platform.EngineCEF,
				Settings:   map[string]any{"codesign": true, "team": "ABC"},
				OutputRoot: "/proj/build",
				Views:      views,
				Copies:     copies,
			},
			{
				Platform:   platform.Win,
				App:        app,
				Engine:     platform.EngineWebView2,
				Defaulted:  true,
				OutputRoot: "/proj/build",
				Views:      views,
				Copies:     copies,
			},
		},
	}
}

// decodedPlan is the subset of fields every machine format must carry.
type decodedPlan struct {
	Source  string `json:"source" yaml:"source" toml:"source"`
	Targets []struct {
		Platform  string         `json:"platform" yaml:"platform" toml:"platform"`
		BundleCEF bool           `json:"bundleCEF" yaml:"bundleCEF" toml:"bundleCEF"`
		Engine    string         `json:"engine" yaml:"engine" toml:"engine"`
		Defaulted bool           `json:"defaulted" yaml:"defaulted" toml:"defaulted"`
		Settings  map[string]any `json:"settings" yaml:"settings" toml:"settings"`
		App       struct {
			Identifier string `json:"identifier" yaml:"identifier" toml:"identifier"`
		} `json:"app" yaml:"app" toml:"app"`
		Views []struct {
			OutputRel string `json:"outputRel" yaml:"outputRel" toml:"outputRel"`
		} `json:"views" yaml:"views" toml:"views"`
	} `json:"targets" yaml:"targets" toml:"targets"`
}

func TestRenderPlan_MachineFormats(t *testing.T) {
	t.Parallel()

	decoders := map[config.OutputFormat]func([]byte, any) error{
		config.FormatJSON: json.Unmarshal,
		config.FormatYAML: yaml.Unmarshal,
		config.FormatTOML: toml.Unmarshal,
	}

	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := renderPlan(&buf, format, samplePlan()); err != nil {
				t.Fatalf("renderPlan() error = %v", err)
			}

			var got decodedPlan
			if err := decode(buf.Bytes(), &got); err != nil {
				t.Fatalf("output does not decode: %v\n%s", err, buf.String())
			}
			if got.Source != "/proj/viewpack.config.cue" || len(got.Targets) != 2 {
				t.Fatalf("decoded = %+v", got)
			}

			mac, win := got.Targets[0], got.Targets[1]
			if mac.Platform != "mac" || !mac.BundleCEF || mac.Engine != "cef" || mac.Defaulted {
				t.Errorf("mac target = %+v", mac)
			}
			if mac.Settings["codesign"] != true || mac.Settings["team"] != "ABC" {
				t.Errorf("mac settings = %v", mac.Settings)
			}
			if win.Platform != "win" || win.BundleCEF || win.Engine != "webview2" || !win.Defaulted {
				t.Errorf("win target = %+v", win)
			}
			if len(win.Settings) != 0 {
				t.Errorf("win settings = %v, want none", win.Settings)
			}
			if mac.App.Identifier != "dev.example.demo" || len(mac.Views) != 1 || mac.Views[0].OutputRel != "views/main/main.js" {
				t.Errorf("mac layout = %+v", mac)
			}
		})
	}
}

func TestRenderPlan_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := renderPlan(&buf, config.FormatText, samplePlan()); err != nil {
		t.Fatalf("renderPlan() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Demo 1.0.0 (dev.example.demo)",
		"main  src/main.ts → views/main/main.js",
		"logo.png → logo.png",
		"cef (bundled)",
		"webview2 (default)",
		"settings: codesign=true team=ABC",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text plan missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "mac") > strings.Index(out, "win ") {
		t.Error("targets should keep request order")
	}
}

func TestRenderPlan_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := renderPlan(&bytes.Buffer{}, "xml", samplePlan()); err == nil {
		t.Error("renderPlan() should reject unknown formats")
	}
}
