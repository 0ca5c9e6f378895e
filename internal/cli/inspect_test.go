package cli

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/meshview/pkg/manycore"
)

func TestCoreRows(t *testing.T) {
	sys := manycore.NewMesh(2, 3)
	task := uint16(7)
	sys.Cores[4].AllocatedTask = &task
	sys.Cores[4].Attributes = map[string]string{"zeta": "1", "alpha": "2"}
	sys.Cores[4].Channels[1].Load = 12
	sys.Cores[4].Channels[1].Bandwidth = 20

	rows := coreRows(sys)
	if len(rows) != 6 {
		t.Fatalf("coreRows() = %d rows, want 6", len(rows))
	}

	tests := []struct {
		col  int
		want string
	}{
		{0, "4"},
		{1, "(1,1)"},
		{2, "7"},
		{3, "{South}"},
		{4, "N 0/0  E 12/20  S 0/0  W 0/0"},
		{5, "alpha=2, zeta=1"},
	}
	for _, tt := range tests {
		if got := rows[4][tt.col]; got != tt.want {
			t.Errorf("rows[4][%s] = %q, want %q", coreHeaders[tt.col], got, tt.want)
		}
	}
	if rows[0][2] != "-" || rows[0][5] != "-" {
		t.Errorf("empty task/attributes should render as -, got %q %q", rows[0][2], rows[0][5])
	}
}

func TestRunInspect(t *testing.T) {
	dir := t.TempDir()
	input := writeDescription(t, dir)
	if err := runInspect(testContext(t), input, "RowFirst"); err != nil {
		t.Fatalf("runInspect() error: %v", err)
	}
	if err := runInspect(testContext(t), input, "Nope"); err == nil {
		t.Error("runInspect() should fail for an unknown algorithm")
	}
	if err := runInspect(testContext(t), filepath.Join(dir, "none.json"), ""); err == nil {
		t.Error("runInspect() should fail for a missing file")
	}
}
