package render

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/me/cpusim/internal/replay"
	"github.com/me/cpusim/internal/scheduler"
	"github.com/me/cpusim/pkg/model"
)

func plainRenderer() *Renderer {
	lr := lipgloss.NewRenderer(io.Discard)
	lr.SetColorProfile(termenv.Ascii)
	return NewWithRenderer(lr)
}

func TestGantt(t *testing.T) {
	processes := []model.Process{
		{ID: 2, Arrival: 0, Service: 2, Pages: 1},
		{ID: 1, Arrival: 0, Service: 3, Pages: 1},
	}
	trace, err := scheduler.Simulate(processes, model.RoundRobin{Quantum: 2, Overhead: 1})
	if err != nil {
		t.Fatal(err)
	}
	// P2 runs 0-1 and completes, P1 runs 2-3, overhead 4, P1 runs 5.
	out := plainRenderer().Gantt(trace, processes)
	lines := strings.Split(out, "\n")

	if lines[0] != "Gantt (rr)" {
		t.Errorf("title = %q", lines[0])
	}
	if lines[1] != "    012345" {
		t.Errorf("tick header = %q", lines[1])
	}
	// Rows are sorted by id regardless of input order.
	if lines[2] != "P1  ░░██▓█" {
		t.Errorf("P1 row = %q", lines[2])
	}
	if lines[3] != "P2  ██····" {
		t.Errorf("P2 row = %q", lines[3])
	}
	if !strings.Contains(out, "▓ overhead") || !strings.Contains(out, "▒ late") {
		t.Errorf("legend missing in:\n%s", out)
	}
}

func TestGantt_LateAndTensRow(t *testing.T) {
	processes := []model.Process{{ID: 1, Arrival: 0, Service: 12, Deadline: intPtr(10), Pages: 1}}
	trace, err := scheduler.Simulate(processes, model.EDF{Quantum: 20, Overhead: 1})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(plainRenderer().Gantt(trace, processes), "\n")
	if strings.TrimRight(lines[1], " ") != "    0         1" {
		t.Errorf("tens row = %q", lines[1])
	}
	if lines[3] != "P1  "+strings.Repeat("█", 10)+"▒▒" {
		t.Errorf("P1 row = %q", lines[3])
	}
}

func intPtr(v int) *int { return &v }

func TestMemory(t *testing.T) {
	frames := make([]model.Page, 12)
	frames[0] = model.Page{Process: 1, Index: 0}
	frames[11] = model.Page{Process: 3, Index: 2}

	out := plainRenderer().Memory(frames, 5)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 grid rows:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "2/12 frames, 5 faults") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "P1:0    --") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if strings.TrimSpace(lines[2]) != "--      P3:2" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestReport(t *testing.T) {
	out := plainRenderer().Report(model.Report{
		Policy:         model.PolicySJF,
		Ticks:          10,
		BusyTicks:      8,
		IdleTicks:      2,
		AvgTurnaround:  4.5,
		CPUUtilization: 0.8,
		Throughput:     0.3,
		PageFaults:     6,
	})
	for _, want := range []string{
		"Policy           sjf",
		"Ticks            10 (busy 8, overhead 0, idle 2)",
		"Avg turnaround   4.50",
		"CPU utilization  80.0%",
		"Throughput       0.300 processes/tick",
		"Page faults      6",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestOutcomesAndCompare(t *testing.T) {
	r := plainRenderer()
	trace := &model.Trace{Outcomes: []model.Outcome{
		{ID: 1, Arrival: 0, Service: 3, Completion: 3, Turnaround: 3, MissedDeadline: true},
	}}
	if out := r.Outcomes(trace); !strings.Contains(out, "P1") || !strings.Contains(out, "yes") {
		t.Errorf("outcomes:\n%s", out)
	}

	out := r.Compare([]model.Comparison{
		{Policy: model.PolicyFIFO, Report: model.Report{Ticks: 8, AvgTurnaround: 6}},
		{Policy: model.PolicyEDF, Report: model.Report{Ticks: 9, AvgTurnaround: 5.25}},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "fifo") || !strings.Contains(lines[2], "5.25") {
		t.Errorf("compare:\n%s", out)
	}
}

func TestTick(t *testing.T) {
	r := plainRenderer()
	owner := model.ProcessID(4)
	tests := []struct {
		frame replay.Frame
		want  string
	}{
		{replay.Frame{Tick: 3, Entry: model.HistoryEntry{Tick: 3, Processes: []model.ProcessID{2, 5}}, NewFaults: 2},
			"t=3    running P2  ready: P5  +2 faults\n"},
		{replay.Frame{Tick: 4, Entry: model.HistoryEntry{Tick: 4, Processes: []model.ProcessID{5}, Overhead: &owner}},
			"t=4    context switch (P4)  ready: P5\n"},
		{replay.Frame{Tick: 0, Entry: model.HistoryEntry{Processes: []model.ProcessID{}}},
			"t=0    idle\n"},
	}
	for _, tt := range tests {
		if got := r.Tick(tt.frame); got != tt.want {
			t.Errorf("Tick = %q, want %q", got, tt.want)
		}
	}
}
