package mesh

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/render/mesh/attributes"
	"github.com/matzehuels/meshview/pkg/render/mesh/bucket"
	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
	"github.com/matzehuels/meshview/pkg/render/mesh/styles"
)

var (
	testBounds  = bucket.Bounds{10, 20, 30, 40}
	testColours = bucket.Colours{"c0", "c1", "c2", "c3"}
)

func loadedMesh(loads ...int) *manycore.System {
	sys := manycore.NewMesh(2, 2)
	for i, l := range loads {
		sys.Cores[i].Attributes = map[string]string{"load": strconv.Itoa(l)}
	}
	return sys
}

func newDocument(t *testing.T, sys *manycore.System, opts ...Option) *Document {
	t.Helper()
	d, err := New(sys, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return d
}

func TestUpdateFill(t *testing.T) {
	d := newDocument(t, loadedMesh(5, 25, 40, 100))
	cfg := &attributes.Configuration{Core: attributes.Set{
		"@load": attributes.Fill{Bounds: testBounds, Colours: testColours},
	}}

	res, err := d.Update(cfg)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	want := styles.Minimal +
		"\n#core0 {fill: c0;}" +
		"\n#core1 {fill: c1;}" +
		"\n#core2 {fill: c3;}" +
		"\n#core3 {fill: c3;}"
	if res.Style != want {
		t.Errorf("Style = %q, want %q", res.Style, want)
	}
	if got := strings.Count(res.InformationGroup, `filter="url(#textBackground)"`); got != 4 {
		t.Errorf("%d filtered groups, want 4", got)
	}
}

func TestUpdateIDLineFirst(t *testing.T) {
	sys := manycore.NewMesh(2, 4)
	sys.Cores[7].Attributes = map[string]string{"alpha": "1"}
	d := newDocument(t, sys)

	cfg := &attributes.Configuration{Core: attributes.Set{
		"@alpha": attributes.Text{Label: "Alpha"},
		"@id":    attributes.Text{Label: "ID"},
	}}
	res, err := d.Update(cfg)
	if err != nil {
		t.Fatal(err)
	}

	start := strings.Index(res.InformationGroup, `<g id="information7">`)
	if start < 0 {
		t.Fatalf("no layer for core 7:\n%s", res.InformationGroup)
	}
	layer := res.InformationGroup[start:]
	id, alpha := strings.Index(layer, ">ID: 7<"), strings.Index(layer, ">Alpha: 1<")
	if id < 0 || alpha < 0 || id > alpha {
		t.Errorf("ID line at %d, Alpha line at %d; want ID first", id, alpha)
	}
}

func TestUpdateEmptyConfiguration(t *testing.T) {
	d := newDocument(t, loadedMesh(5, 25, 40, 100))
	w, h := geometry.GridSize(2, 2)

	for _, cfg := range []*attributes.Configuration{nil, {}, {Core: attributes.Set{}}} {
		res, err := d.Update(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if res.InformationGroup != "" {
			t.Errorf("InformationGroup = %q, want empty", res.InformationGroup)
		}
		if res.Style != styles.Minimal {
			t.Errorf("Style = %q, want minimal", res.Style)
		}
		if want := fmt.Sprintf("%d %d %d %d", geometry.EdgeMargin, geometry.EdgeMargin, w, h); res.ViewBox != want {
			t.Errorf("ViewBox = %q, want %q", res.ViewBox, want)
		}
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	sys := loadedMesh(5, 25, 40, 100)
	sys.Routing = map[string][]manycore.RouteEntry{
		"RowFirst": {{Core: 0, Direction: manycore.East, Load: 25}, {Core: 1, Direction: manycore.South, Load: 33}},
	}
	d := newDocument(t, sys)

	cfg := &attributes.Configuration{
		Core: attributes.Set{
			"@coordinates": attributes.Text{Label: "C"},
			"@id":          attributes.Text{Label: "ID"},
			"@load":        attributes.ColouredText{Label: "Load", Bounds: testBounds, Colours: testColours},
		},
		Router: attributes.Set{"@id": attributes.Text{Label: "R"}},
		Channel: attributes.Set{
			manycore.RoutingKey:       attributes.Routing{Algorithm: "RowFirst"},
			manycore.BorderRoutersKey: attributes.Boolean{Value: true},
			manycore.LoadKey:          attributes.Fill{Bounds: testBounds, Colours: testColours},
		},
	}

	first, err := d.Update(cfg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Update(cfg)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("payloads differ:\n%s\n%s", a, b)
	}
	if !strings.Contains(first.Style, "#channel0East {stroke: c1;}") {
		t.Errorf("Style = %q, want routed link colour", first.Style)
	}
}

func TestUpdateDoesNotLeakState(t *testing.T) {
	d := newDocument(t, loadedMesh(5, 25, 40, 100))
	fill := &attributes.Configuration{
		Core:    attributes.Set{"@load": attributes.Fill{Bounds: testBounds, Colours: testColours}},
		Channel: attributes.Set{manycore.BorderRoutersKey: attributes.Boolean{Value: true}},
	}
	if _, err := d.Update(fill); err != nil {
		t.Fatal(err)
	}

	res, err := d.Update(&attributes.Configuration{Core: attributes.Set{"@id": attributes.Text{Label: "ID"}}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Style != styles.Minimal {
		t.Errorf("Style = %q, want minimal after fill was removed", res.Style)
	}
	if strings.Contains(res.InformationGroup, "filter=") {
		t.Error("background filter leaked into the next pass")
	}
	if strings.HasPrefix(res.ViewBox, "0 0 ") {
		t.Errorf("ViewBox = %q, still expanded", res.ViewBox)
	}
}

func TestUpdateBorders(t *testing.T) {
	d := newDocument(t, manycore.NewMesh(2, 2))
	w, h := geometry.GridSize(2, 2)

	tests := []struct {
		name      string
		value     bool
		wantStyle string
		wantBox   string
	}{
		{"shown", true, styles.Extended, fmt.Sprintf("0 0 %d %d", w+2*geometry.EdgeMargin, h+2*geometry.EdgeMargin)},
		{"hidden", false, styles.Minimal, fmt.Sprintf("%d %d %d %d", geometry.EdgeMargin, geometry.EdgeMargin, w, h)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &attributes.Configuration{Channel: attributes.Set{manycore.BorderRoutersKey: attributes.Boolean{Value: tt.value}}}
			res, err := d.Update(cfg)
			if err != nil {
				t.Fatal(err)
			}
			if res.Style != tt.wantStyle {
				t.Errorf("Style = %q, want %q", res.Style, tt.wantStyle)
			}
			if res.ViewBox != tt.wantBox {
				t.Errorf("ViewBox = %q, want %q", res.ViewBox, tt.wantBox)
			}
		})
	}
}

func TestUpdateRoutingFailureKeepsState(t *testing.T) {
	d := newDocument(t, loadedMesh(5, 25, 40, 100))
	fill := &attributes.Configuration{Core: attributes.Set{"@load": attributes.Fill{Bounds: testBounds, Colours: testColours}}}
	before, err := d.Update(fill)
	if err != nil {
		t.Fatal(err)
	}

	bad := &attributes.Configuration{Channel: attributes.Set{manycore.RoutingKey: attributes.Routing{Algorithm: "Unknown"}}}
	res, err := d.Update(bad)
	if err == nil {
		t.Fatal("Update() error = nil, want routing error")
	}
	if res != nil {
		t.Errorf("Update() returned a payload on failure: %+v", res)
	}
	if !errors.Is(err, errors.ErrCodeRouting) {
		t.Errorf("Update() code = %v, want %v", errors.GetCode(err), errors.ErrCodeRouting)
	}
	if d.Style() != before.Style {
		t.Errorf("Style changed after failed update: %q", d.Style())
	}
}

func routingConfig(algorithm string) *attributes.Configuration {
	return &attributes.Configuration{Channel: attributes.Set{
		manycore.RoutingKey: attributes.Routing{Algorithm: algorithm},
		manycore.LoadKey:    attributes.Text{Label: "L"},
	}}
}

func TestUpdateFailedRouteKeepsLoads(t *testing.T) {
	sys := manycore.NewMesh(2, 2)
	sys.Routing = map[string][]manycore.RouteEntry{
		"Good":   {{Core: 0, Direction: manycore.East, Load: 30}},
		"Broken": {{Core: 1, Direction: manycore.South, Load: 7}, {Core: 9, Direction: manycore.East, Load: 1}},
	}
	d := newDocument(t, sys)

	before, err := d.Update(routingConfig("Good"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Update(routingConfig("Broken")); !errors.Is(err, errors.ErrCodeRouting) {
		t.Fatalf("Update(Broken) error = %v, want %v", err, errors.ErrCodeRouting)
	}

	east, _ := sys.Cores[0].Channel(manycore.East)
	south, _ := sys.Cores[1].Channel(manycore.South)
	if east.Load != 30 || south.Load != 0 {
		t.Errorf("loads after failed routing = (core0 East %d, core1 South %d), want (30, 0)", east.Load, south.Load)
	}
	if got := d.informationGroup(); got != before.InformationGroup {
		t.Errorf("information group changed after failed routing:\n%s\nwant\n%s", got, before.InformationGroup)
	}
}

func TestUpdateSourceLoads(t *testing.T) {
	sys := manycore.NewMesh(2, 2)
	sys.Borders = []manycore.BorderEntry{{Core: 0, Sources: []manycore.Direction{manycore.West}}}
	sys.Routing = map[string][]manycore.RouteEntry{
		"RowFirst": {{Target: manycore.TargetSource, Core: 0, Direction: manycore.West, Load: 12}},
	}
	d := newDocument(t, sys)

	res, err := d.Update(routingConfig("RowFirst"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.InformationGroup, ">L: 12</text>") {
		t.Errorf("information group lacks the source load:\n%s", res.InformationGroup)
	}
}

type fakeRouter struct {
	result manycore.RoutingResult
	calls  []string
}

func (f *fakeRouter) Route(algorithm string) (manycore.RoutingResult, error) {
	f.calls = append(f.calls, algorithm)
	return f.result, nil
}

func TestUpdateAggregatesLoads(t *testing.T) {
	sys := manycore.NewMesh(2, 2)
	sys.Cores[1].Channels[2].Load = 7 // South
	sys.Cores[1].Channels[1].Load = 3 // East, to the sink
	router := &fakeRouter{result: manycore.RoutingResult{
		manycore.CoreTarget(1): manycore.NewLinkSet(manycore.South),
		manycore.SinkTarget(1): manycore.NewLinkSet(manycore.East),
	}}
	d := newDocument(t, sys, WithRouter(router))

	cfg := &attributes.Configuration{Channel: attributes.Set{
		manycore.RoutingKey: attributes.Routing{Algorithm: "Custom"},
		manycore.LoadKey:    attributes.Text{Label: "L"},
	}}
	res, err := d.Update(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if len(router.calls) != 1 || router.calls[0] != "Custom" {
		t.Errorf("router calls = %v, want [Custom]", router.calls)
	}
	for _, want := range []string{">L: 7<", ">L: 3<"} {
		if !strings.Contains(res.InformationGroup, want) {
			t.Errorf("InformationGroup missing %s:\n%s", want, res.InformationGroup)
		}
	}
}

func TestNewMismatch(t *testing.T) {
	sys := manycore.NewMesh(2, 2)
	sys.Cores = sys.Cores[:3]
	if _, err := New(sys); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("New() error = %v, want %v", err, errors.ErrCodeConfiguration)
	}
}

func TestUpdateResultJSON(t *testing.T) {
	data, err := json.Marshal(UpdateResult{Style: "s", InformationGroup: "g", ViewBox: "v"})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"style":"s","informationGroup":"g","viewBox":"v"}`; string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestRender(t *testing.T) {
	d := newDocument(t, loadedMesh(5, 25, 40, 100))
	if _, err := d.Update(&attributes.Configuration{Core: attributes.Set{"@id": attributes.Text{Label: "ID"}}}); err != nil {
		t.Fatal(err)
	}
	out := string(d.Render())

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`viewBox="` + d.ViewBox().String() + `"`,
		`<marker id="arrowHead"`,
		`<filter id="textBackground"`,
		"<style>" + styles.Minimal + "</style>",
		`<g id="mainGroup">`,
		`<g id="processingGroup">`,
		`<g id="connectionsGroup">`,
		`<g id="information"><g id="information0">`,
		`<g id="sinksSources">`,
		`<rect id="exportingAid"`,
		">ID: 3<",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %s", want)
		}
	}
	if strings.Contains(out, "clip-path") {
		t.Error("unclipped document references a clip path")
	}
}

func TestClipPath(t *testing.T) {
	d := newDocument(t, manycore.NewMesh(1, 1))

	if err := d.SetClipPath("0,0 100,0 100,100"); err != nil {
		t.Fatalf("SetClipPath() error: %v", err)
	}
	out := string(d.Render())
	if !strings.Contains(out, `<polygon points="0,0 100,0 100,100"/>`) || !strings.Contains(out, `clip-path="url(#mainClip)"`) {
		t.Errorf("clip path not rendered:\n%s", out)
	}

	d.ClearClipPath()
	if strings.Contains(string(d.Render()), "clipPath") {
		t.Error("ClearClipPath() left the clip path in place")
	}

	for _, bad := range []string{"", "0,0 <script>", "1,2,3"} {
		if err := d.SetClipPath(bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("SetClipPath(%q) error = %v, want %v", bad, err, errors.ErrCodeInvalidInput)
		}
	}
}
