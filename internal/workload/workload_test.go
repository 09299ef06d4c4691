package workload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/me/cpusim/internal/config"
	"github.com/me/cpusim/pkg/model"
)

const rrScenario = `
name: mixed
policy: rr
quantum: 3
overhead: 2
memory:
  capacity: 8
  policy: lru
processes:
  - {id: 1, arrival: 0, service: 4, deadline: 7, pages: 3}
  - {id: 2, arrival: 2, service: 1, pages: 1}
`

func TestParse_YAML(t *testing.T) {
	sc, err := Parse([]byte(rrScenario), config.DefaultSimulationConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sc.Name != "mixed" || sc.Policy != "rr" || sc.QuantumValue() != 3 || sc.OverheadValue() != 2 {
		t.Errorf("scenario = %+v", sc)
	}
	if sc.Memory.CapacityValue() != 8 || sc.Memory.Policy != "lru" {
		t.Errorf("memory = %+v", sc.Memory)
	}
	if len(sc.Processes) != 2 {
		t.Fatalf("processes = %d, want 2", len(sc.Processes))
	}
	if d, ok := sc.Processes[0].AbsoluteDeadline(); !ok || d != 7 {
		t.Errorf("P1 absolute deadline = %d, %v", d, ok)
	}
	if sc.Processes[1].HasDeadline() {
		t.Error("P2 should have no deadline")
	}
}

func TestParse_JSON(t *testing.T) {
	data := `{"policy":"edf","quantum":1,"overhead":1,"processes":[{"id":4,"arrival":0,"service":2,"deadline":3,"pages":2}]}`
	sc, err := Parse([]byte(data), config.DefaultSimulationConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sc.Policy != "edf" || len(sc.Processes) != 1 || sc.Processes[0].ID != 4 {
		t.Errorf("scenario = %+v", sc)
	}
}

func TestParse_Defaults(t *testing.T) {
	defaults := config.DefaultSimulationConfig()
	sc, err := Parse([]byte("processes:\n  - {id: 1, arrival: 0, service: 1, pages: 1}\n"), defaults)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sc.Policy != defaults.Policy || sc.QuantumValue() != defaults.Quantum || sc.OverheadValue() != defaults.Overhead {
		t.Errorf("scheduling defaults not applied: %+v", sc)
	}
	if sc.Memory.CapacityValue() != 50 || sc.Memory.Policy != defaults.MemoryPolicy {
		t.Errorf("memory defaults not applied: %+v", sc.Memory)
	}
}

func TestParse_ExplicitZeroKept(t *testing.T) {
	data := "policy: rr\nquantum: 0\noverhead: 0\nmemory: {capacity: 0}\nprocesses:\n  - {id: 1, arrival: 0, service: 1, pages: 1}\n"
	sc, err := Parse([]byte(data), config.DefaultSimulationConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sc.Quantum == nil || sc.Overhead == nil || sc.Memory.Capacity == nil {
		t.Fatalf("explicit zeros dropped: %+v", sc)
	}
	if sc.QuantumValue() != 0 || sc.OverheadValue() != 0 || sc.Memory.CapacityValue() != 0 {
		t.Errorf("explicit zeros replaced by defaults: quantum=%d overhead=%d capacity=%d",
			sc.QuantumValue(), sc.OverheadValue(), sc.Memory.CapacityValue())
	}
	if sc.Memory.Policy != "fifo" {
		t.Errorf("memory policy = %q, want default fifo", sc.Memory.Policy)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty", "", "empty scenario"},
		{"unknown key", "policy: fifo\npriority: 3\n", "priority"},
		{"bad type", "processes: nope\n", "decode scenario"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), config.DefaultSimulationConfig())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unnamed.yml")
	body := "policy: sjf\nprocesses:\n  - {id: 1, arrival: 0, service: 2, pages: 1}\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	sc, err := Load(path, config.DefaultSimulationConfig())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sc.Name != "unnamed" || sc.Policy != "sjf" {
		t.Errorf("scenario = %+v", sc)
	}
}

func TestLoad_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.xlsx")
	xl := excelize.NewFile()
	rows := [][]any{
		{"ID", "Arrival", "Service", "Deadline", "Pages"},
		{1, 0, 3, 4, 2},
		{},
		{2, 1, 2, "", 1},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := xl.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := xl.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	sc, err := Load(path, config.DefaultSimulationConfig())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sc.Name != "table" || len(sc.Processes) != 2 {
		t.Fatalf("scenario = %+v", sc)
	}
	want := []model.Process{
		{ID: 1, Arrival: 0, Service: 3, Pages: 2},
		{ID: 2, Arrival: 1, Service: 2, Pages: 1},
	}
	for i, p := range sc.Processes {
		if p.ID != want[i].ID || p.Arrival != want[i].Arrival || p.Service != want[i].Service || p.Pages != want[i].Pages {
			t.Errorf("process %d = %+v, want %+v", i, p, want[i])
		}
	}
	if d, ok := sc.Processes[0].AbsoluteDeadline(); !ok || d != 4 {
		t.Errorf("P1 deadline = %d, %v", d, ok)
	}
	if sc.Processes[1].HasDeadline() {
		t.Error("P2 should have no deadline")
	}
	if sc.Memory.CapacityValue() != 50 {
		t.Errorf("capacity = %d, want default 50", sc.Memory.CapacityValue())
	}
}

func TestLoad_XLSXMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	xl := excelize.NewFile()
	if err := xl.SetSheetRow("Sheet1", "A1", &[]any{"id", "arrival", "service"}); err != nil {
		t.Fatal(err)
	}
	if err := xl.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path, config.DefaultSimulationConfig())
	if err == nil || !strings.Contains(err.Error(), `"pages"`) {
		t.Errorf("err = %v, want missing pages column", err)
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("scenario.toml", config.DefaultSimulationConfig())
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("err = %v", err)
	}
}
