package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	meshio "github.com/matzehuels/meshview/pkg/io"
	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/pipeline"
	"github.com/matzehuels/meshview/pkg/render/mesh"
	"github.com/matzehuels/meshview/pkg/settings"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,json,dot", []string{"svg", "json", "dot"}},
		{"spaces trimmed", "svg, png", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "arch/mesh.json", "arch/mesh"},
		{"out.svg", "mesh.json", "out"},
		{"out.dot", "mesh.json", "out"},
		{"out", "mesh.json", "out"},
		{"out.txt", "mesh.json", "out.txt"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	single := outputPaths("mesh.yaml", pipeline.ViewMesh, &renderOpts{formats: []string{"svg"}, output: "x/grid.svg"})
	if single["svg"] != "x/grid.svg" {
		t.Errorf("single output = %q, want %q", single["svg"], "x/grid.svg")
	}

	multi := outputPaths("mesh.yaml", pipeline.ViewMesh, &renderOpts{formats: []string{"svg", "json"}})
	if multi["svg"] != "mesh.svg" || multi["json"] != "mesh.json" {
		t.Errorf("multi outputs = %v", multi)
	}

	topo := outputPaths("mesh.yaml", pipeline.ViewTopology, &renderOpts{formats: []string{"dot"}})
	if topo["dot"] != "mesh_topology.dot" {
		t.Errorf("topology output = %q, want %q", topo["dot"], "mesh_topology.dot")
	}
}

// writeDescription stores a 2x2 mesh with a routing table under dir.
func writeDescription(t *testing.T, dir string) string {
	t.Helper()
	sys := manycore.NewMesh(2, 2)
	for i := range sys.Cores {
		sys.Cores[i].Attributes = map[string]string{"temperature": []string{"40", "55", "72", "91"}[i]}
	}
	sys.Routing = map[string][]manycore.RouteEntry{
		"RowFirst": {{Target: manycore.TargetCore, Core: 0, Direction: manycore.East, Load: 12}},
	}
	path := filepath.Join(dir, "mesh.json")
	if err := meshio.ExportSystem(sys, path); err != nil {
		t.Fatalf("ExportSystem() error: %v", err)
	}
	return path
}

const testConfiguration = `
[core."@temperature"]
type = "colouredText"
label = "Temp"
bounds = [50, 70, 90, 100]
colours = ["green", "yellow", "orange", "red"]

[channel."@routingAlgorithm"]
type = "routing"
algorithm = "RowFirst"

[channel."@borderRouters"]
type = "boolean"
value = true
`

func testContext(t *testing.T) context.Context {
	t.Helper()
	s := settings.Default()
	s.Cache.Backend = settings.CacheNone
	return withSettings(context.Background(), s)
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	input := writeDescription(t, dir)
	cfgPath := filepath.Join(dir, "overlay.toml")
	if err := os.WriteFile(cfgPath, []byte(testConfiguration), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := &renderOpts{
		formats: []string{"svg", "json"},
		config:  cfgPath,
		output:  filepath.Join(dir, "out", "grid"),
		scale:   pipeline.DefaultScale,
	}
	if err := runRender(testContext(t), input, pipeline.ViewMesh, opts); err != nil {
		t.Fatalf("runRender() error: %v", err)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "out", "grid.svg"))
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !strings.Contains(string(svg), `viewBox="0 0 722 722"`) {
		t.Error("svg should have the border-extended viewBox")
	}

	data, err := os.ReadFile(filepath.Join(dir, "out", "grid.json"))
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var res mesh.UpdateResult
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if !strings.Contains(res.InformationGroup, "Temp: 40") {
		t.Errorf("information group should show the temperature text, got %q", res.InformationGroup)
	}
}

func TestRunRenderTopology(t *testing.T) {
	dir := t.TempDir()
	input := writeDescription(t, dir)

	opts := &renderOpts{formats: []string{"dot"}, scale: pipeline.DefaultScale}
	if err := runRender(testContext(t), input, pipeline.ViewTopology, opts); err != nil {
		t.Fatalf("runRender() error: %v", err)
	}
	dot, err := os.ReadFile(filepath.Join(dir, "mesh_topology.dot"))
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.HasPrefix(string(dot), "digraph Mesh") {
		t.Errorf("dot output = %.40q", dot)
	}
}

func TestRunRenderMissingInput(t *testing.T) {
	opts := &renderOpts{formats: []string{"svg"}}
	if err := runRender(testContext(t), filepath.Join(t.TempDir(), "none.json"), pipeline.ViewMesh, opts); err == nil {
		t.Error("runRender() should fail for a missing description")
	}
}

func TestRunUpdate(t *testing.T) {
	dir := t.TempDir()
	input := writeDescription(t, dir)
	cfgPath := filepath.Join(dir, "overlay.toml")
	if err := os.WriteFile(cfgPath, []byte(testConfiguration), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "update.json")

	opts := &renderOpts{formats: []string{pipeline.FormatJSON}, config: cfgPath, output: out}
	if err := runUpdate(testContext(t), input, opts); err != nil {
		t.Fatalf("runUpdate() error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var res mesh.UpdateResult
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if res.ViewBox != "0 0 722 722" {
		t.Errorf("ViewBox = %q, want %q", res.ViewBox, "0 0 722 722")
	}
	if !strings.Contains(string(data), "\n  \"style\"") {
		t.Error("update payload should be indented")
	}
}
