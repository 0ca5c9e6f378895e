package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/render/mesh/attributes"
)

const yamlSystem = `
rows: 1
columns: 2
cores:
  - id: 0
    allocatedTask: 3
    attributes: {temperature: "61"}
    channels: [{direction: East}, {direction: north}]
  - id: 1
    router: {attributes: {buffer: "8"}}
    channels: [{direction: West}]
borders:
  - {core: 0, sinks: [North]}
routing:
  RowFirst:
    - {core: 0, direction: East, load: 20}
    - {target: sink, core: 0, direction: North, load: 5}
`

const tomlConfiguration = `
[core."@id"]
type = "text"
label = "ID"

[core."@temperature"]
type = "colouredText"
label = "Temp"
bounds = [0, 50, 70, 90]
colours = ["green", "yellow", "orange", "red"]

[channel."@routingAlgorithm"]
type = "routing"
algorithm = "RowFirst"
`

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"mesh.json", FormatJSON, false},
		{"dir/mesh.YAML", FormatYAML, false},
		{"mesh.yml", FormatYAML, false},
		{"config.toml", FormatTOML, false},
		{"mesh.xml", "", true},
		{"mesh", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadSystemYAML(t *testing.T) {
	sys, err := ReadSystem(strings.NewReader(yamlSystem), FormatYAML)
	if err != nil {
		t.Fatalf("ReadSystem() error: %v", err)
	}

	if sys.Rows != 1 || sys.Columns != 2 || len(sys.Cores) != 2 {
		t.Fatalf("system = %dx%d with %d cores", sys.Rows, sys.Columns, len(sys.Cores))
	}
	if v, ok := sys.Cores[0].Attribute("@allocatedTask"); !ok || v != "3" {
		t.Errorf("allocated task = %q, %v", v, ok)
	}
	if _, ok := sys.Cores[0].Channel(manycore.North); !ok {
		t.Error("lower-case direction was not parsed")
	}
	if v, _ := sys.Cores[1].RouterElement().Attribute("@buffer"); v != "8" {
		t.Errorf("router buffer = %q, want 8", v)
	}
	if got := sys.Routing["RowFirst"][1].Target; got != manycore.TargetSink {
		t.Errorf("route target = %v, want sink", got)
	}

	result, err := sys.Route("RowFirst")
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}
	if got := result.LoadsFor(0); got != manycore.NewLinkSet(manycore.East, manycore.North) {
		t.Errorf("LoadsFor(0) = %v", got)
	}
}

func TestReadSystemInvalid(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		code   errors.Code
	}{
		{"malformed json", `{"rows": `, FormatJSON, errors.ErrCodeInvalidFormat},
		{"bad direction", `{"rows":1,"columns":1,"cores":[{"id":0,"channels":[{"direction":"Up"}]}]}`, FormatJSON, errors.ErrCodeInvalidFormat},
		{"zero rows", `{"rows":0,"columns":1,"cores":[{"id":0}]}`, FormatJSON, errors.ErrCodeInvalidInput},
		{"unknown format", `{}`, Format("xml"), errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSystem(strings.NewReader(tt.input), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadSystem() error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestReadConfigurationTOML(t *testing.T) {
	cfg, err := ReadConfiguration(strings.NewReader(tomlConfiguration), FormatTOML)
	if err != nil {
		t.Fatalf("ReadConfiguration() error: %v", err)
	}
	if _, ok := cfg.Core["@id"].(attributes.Text); !ok {
		t.Errorf("@id = %#v, want Text", cfg.Core["@id"])
	}
	ct, ok := cfg.Core["@temperature"].(attributes.ColouredText)
	if !ok || ct.Bounds[2] != 70 || ct.Colours[3] != "red" {
		t.Errorf("@temperature = %#v", cfg.Core["@temperature"])
	}
	if algo, ok := cfg.RoutingAlgorithm(); !ok || algo != "RowFirst" {
		t.Errorf("RoutingAlgorithm() = %q, %v", algo, ok)
	}
}

func TestConfigurationRoundTrip(t *testing.T) {
	cfg, err := ReadConfiguration(strings.NewReader(tomlConfiguration), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}

	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteConfiguration(cfg, &buf, format); err != nil {
				t.Fatalf("WriteConfiguration() error: %v", err)
			}
			back, err := ReadConfiguration(&buf, format)
			if err != nil {
				t.Fatalf("ReadConfiguration() error: %v\n%s", err, buf.String())
			}
			if len(back.Core) != len(cfg.Core) || len(back.Channel) != len(cfg.Channel) {
				t.Errorf("round trip lost keys: %+v", back)
			}
			if back.Core["@temperature"] != cfg.Core["@temperature"] {
				t.Errorf("@temperature = %#v, want %#v", back.Core["@temperature"], cfg.Core["@temperature"])
			}
		})
	}
}

func TestExportImportSystem(t *testing.T) {
	sys, err := ReadSystem(strings.NewReader(yamlSystem), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	for _, name := range []string{"mesh.json", "mesh.yaml", "mesh.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := ExportSystem(sys, path); err != nil {
				t.Fatalf("ExportSystem() error: %v", err)
			}
			back, err := ImportSystem(path)
			if err != nil {
				t.Fatalf("ImportSystem() error: %v", err)
			}
			if len(back.Cores) != 2 || len(back.Routing["RowFirst"]) != 2 || len(back.Borders) != 1 {
				t.Errorf("imported system differs: %+v", back)
			}
			if v, _ := back.Cores[0].Attribute("@temperature"); v != "61" {
				t.Errorf("temperature = %q, want 61", v)
			}
		})
	}
}

func TestImportMissingFile(t *testing.T) {
	_, err := ImportSystem(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportSystem() error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
	_, err = ImportConfiguration("config.ini")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ImportConfiguration() error = %v, want %v", err, errors.ErrCodeInvalidFormat)
	}
}
