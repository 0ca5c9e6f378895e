package attributes

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/render/mesh/bucket"
)

const sample = `{
	"core": {
		"@id": {"type": "text", "label": "ID"},
		"@load": {"type": "fill", "bounds": [10, 20, 30, 40], "colours": ["c0", "c1", "c2", "c3"]},
		"@temperature": {"type": "colouredText", "label": "Temp", "bounds": [0, 50, 70, 90], "colours": ["#00ff00", "yellow", "orange", "red"]}
	},
	"router": {
		"@buffer": {"type": "text", "label": "Buf"}
	},
	"channel": {
		"@routingAlgorithm": {"type": "routing", "algorithm": "RowFirst"},
		"@borderRouters": {"type": "boolean", "value": true}
	}
}`

func TestUnmarshalJSON(t *testing.T) {
	var c Configuration
	if err := json.Unmarshal([]byte(sample), &c); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if got, ok := c.Core["@id"].(Text); !ok || got.Label != "ID" {
		t.Errorf("@id = %#v, want Text{ID}", c.Core["@id"])
	}
	fill, ok := c.Core["@load"].(Fill)
	if !ok {
		t.Fatalf("@load = %#v, want Fill", c.Core["@load"])
	}
	if fill.Bounds != (bucket.Bounds{10, 20, 30, 40}) || fill.Colours[3] != "c3" {
		t.Errorf("@load = %+v", fill)
	}
	if got, ok := c.Core["@temperature"].(ColouredText); !ok || got.Label != "Temp" || got.Colours[0] != "#00ff00" {
		t.Errorf("@temperature = %#v, want ColouredText", c.Core["@temperature"])
	}

	if algo, ok := c.RoutingAlgorithm(); !ok || algo != "RowFirst" {
		t.Errorf("RoutingAlgorithm() = (%q, %v), want (RowFirst, true)", algo, ok)
	}
	if !c.ShowBorders() {
		t.Error("ShowBorders() = false, want true")
	}
}

func TestKeysAreSorted(t *testing.T) {
	s := Set{"@zeta": Text{}, "@alpha": Text{}, "@id": Text{}, "@coordinates": Text{}}
	got := s.Keys()
	want := []string{"@alpha", "@coordinates", "@id", "@zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Configuration
		want bool
	}{
		{"nil", nil, true},
		{"zero", &Configuration{}, true},
		{"empty sets", &Configuration{Core: Set{}, Router: Set{}, Channel: Set{}}, true},
		{"core key", &Configuration{Core: Set{"@id": Text{Label: "ID"}}}, false},
		{"routing only", &Configuration{Channel: Set{"@routingAlgorithm": Routing{Algorithm: "X"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
			if got := tt.cfg.Len() == 0; got != tt.want {
				t.Errorf("Len() == 0 is %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirectivesIgnoreWrongVariant(t *testing.T) {
	c := &Configuration{Channel: Set{
		"@routingAlgorithm": Text{Label: "nope"},
		"@borderRouters":    Text{Label: "nope"},
	}}
	if _, ok := c.RoutingAlgorithm(); ok {
		t.Error("RoutingAlgorithm() should ignore a non-routing field")
	}
	if c.ShowBorders() {
		t.Error("ShowBorders() should ignore a non-boolean field")
	}
	if !IsDirective("@routingAlgorithm") || !IsDirective("@borderRouters") || IsDirective("@load") {
		t.Error("IsDirective() misclassifies keys")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
	}{
		{"unknown type", Document{Core: map[string]FieldSpec{"@a": {Type: "circle"}}}},
		{"missing type", Document{Core: map[string]FieldSpec{"@a": {Label: "A"}}}},
		{"key without at", Document{Core: map[string]FieldSpec{"load": {Type: KindText}}}},
		{"three bounds", Document{Core: map[string]FieldSpec{"@a": {
			Type: KindFill, Bounds: []uint64{1, 2, 3}, Colours: []string{"a", "b", "c", "d"},
		}}}},
		{"five colours", Document{Core: map[string]FieldSpec{"@a": {
			Type: KindFill, Bounds: []uint64{1, 2, 3, 4}, Colours: []string{"a", "b", "c", "d", "e"},
		}}}},
		{"descending bounds", Document{Router: map[string]FieldSpec{"@a": {
			Type: KindColouredText, Bounds: []uint64{4, 3, 2, 1}, Colours: []string{"a", "b", "c", "d"},
		}}}},
		{"css injection", Document{Core: map[string]FieldSpec{"@a": {
			Type: KindFill, Bounds: []uint64{1, 2, 3, 4}, Colours: []string{"red;}", "b", "c", "d"},
		}}}},
		{"bad algorithm", Document{Channel: map[string]FieldSpec{"@routingAlgorithm": {Type: KindRouting, Algorithm: ""}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.doc.Build()
			if err == nil {
				t.Fatal("Build() error = nil, want error")
			}
			if !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("Build() code = %v, want %v", errors.GetCode(err), errors.ErrCodeConfiguration)
			}
		})
	}
}

func TestUnmarshalJSONInvalid(t *testing.T) {
	var c Configuration
	err := json.Unmarshal([]byte(`{"core": [1, 2]}`), &c)
	if err == nil {
		t.Fatal("Unmarshal() error = nil, want error")
	}
}

func TestRoundTrip(t *testing.T) {
	var first Configuration
	if err := json.Unmarshal([]byte(sample), &first); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(&first)
	if err != nil {
		t.Fatal(err)
	}
	var second Configuration
	if err := json.Unmarshal(data, &second); err != nil {
		t.Fatalf("re-Unmarshal() error: %v", err)
	}
	again, _ := json.Marshal(&second)
	if string(again) != string(data) {
		t.Errorf("marshal is not stable:\n%s\n%s", data, again)
	}
}
