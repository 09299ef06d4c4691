package scheduler

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/me/cpusim/pkg/model"
)

func deadline(d int) *int { return &d }

func proc(id, arrival, service int) model.Process {
	return model.Process{ID: model.ProcessID(id), Arrival: arrival, Service: service, Pages: 1}
}

func procDL(id, arrival, service, dl int) model.Process {
	p := proc(id, arrival, service)
	p.Deadline = deadline(dl)
	return p
}

// runningByTick flattens a trace to the running process per tick (0 for
// overhead or idle ticks).
func runningByTick(trace *model.Trace) []model.ProcessID {
	out := make([]model.ProcessID, len(trace.Entries))
	for i, e := range trace.Entries {
		if id, ok := e.Running(); ok {
			out[i] = id
		}
	}
	return out
}

func mustSimulate(t *testing.T, processes []model.Process, policy model.Policy) *model.Trace {
	t.Helper()
	trace, err := Simulate(processes, policy)
	if err != nil {
		t.Fatalf("Simulate(%s): %v", policy.Name(), err)
	}
	return trace
}

func outcome(t *testing.T, trace *model.Trace, id model.ProcessID) model.Outcome {
	t.Helper()
	for _, o := range trace.Outcomes {
		if o.ID == id {
			return o
		}
	}
	t.Fatalf("no outcome for process %d", id)
	return model.Outcome{}
}

// TestSimulate_FIFOContiguous: P1 runs ticks 0-4, P2 runs 5-7, no overhead.
func TestSimulate_FIFOContiguous(t *testing.T) {
	trace := mustSimulate(t, []model.Process{proc(1, 0, 5), proc(2, 1, 3)}, model.FIFO{})

	want := []model.ProcessID{1, 1, 1, 1, 1, 2, 2, 2}
	if got := runningByTick(trace); !reflect.DeepEqual(got, want) {
		t.Fatalf("running = %v, want %v", got, want)
	}
	for _, e := range trace.Entries {
		if e.IsOverhead() {
			t.Errorf("tick %d: unexpected overhead under FIFO", e.Tick)
		}
	}
	if got := trace.Entries[1].Processes; !reflect.DeepEqual(got, []model.ProcessID{1, 2}) {
		t.Errorf("tick 1 snapshot = %v, want [1 2]", got)
	}
	if c := outcome(t, trace, 1).Completion; c != 5 {
		t.Errorf("P1 completion = %d, want 5", c)
	}
	if c := outcome(t, trace, 2).Completion; c != 8 {
		t.Errorf("P2 completion = %d, want 8", c)
	}
}

// TestSimulate_RoundRobinSingleProcess: quantum 2, overhead 1 gives run, run,
// overhead, run, run and no trailing overhead after completion.
func TestSimulate_RoundRobinSingleProcess(t *testing.T) {
	trace := mustSimulate(t, []model.Process{proc(1, 0, 4)}, model.RoundRobin{Quantum: 2, Overhead: 1})

	if trace.Length() != 5 {
		t.Fatalf("trace length = %d, want 5", trace.Length())
	}
	want := []model.ProcessID{1, 1, 0, 1, 1}
	if got := runningByTick(trace); !reflect.DeepEqual(got, want) {
		t.Errorf("running = %v, want %v", got, want)
	}
	over := trace.Entries[2]
	if !over.IsOverhead() || *over.Overhead != 1 {
		t.Errorf("tick 2 = %+v, want overhead attributed to P1", over)
	}
	if len(over.Processes) != 0 {
		t.Errorf("tick 2 queue = %v, want empty (P1 is held out)", over.Processes)
	}
	if c := outcome(t, trace, 1).Completion; c != 5 {
		t.Errorf("completion = %d, want 5", c)
	}
}

func TestSimulate_RoundRobinInterleaving(t *testing.T) {
	trace := mustSimulate(t,
		[]model.Process{proc(1, 0, 3), proc(2, 0, 2)},
		model.RoundRobin{Quantum: 1, Overhead: 1},
	)

	want := []model.ProcessID{1, 0, 2, 0, 1, 0, 2, 1}
	if got := runningByTick(trace); !reflect.DeepEqual(got, want) {
		t.Fatalf("running = %v, want %v", got, want)
	}
	owners := map[int]model.ProcessID{1: 1, 3: 2, 5: 1}
	for tick, owner := range owners {
		e := trace.Entries[tick]
		if !e.IsOverhead() || *e.Overhead != owner {
			t.Errorf("tick %d: overhead owner = %v, want %d", tick, e.Overhead, owner)
		}
	}
	if got := trace.Entries[2].Processes; !reflect.DeepEqual(got, []model.ProcessID{2, 1}) {
		t.Errorf("tick 2 snapshot = %v, want [2 1]", got)
	}
	if c := outcome(t, trace, 2).Completion; c != 7 {
		t.Errorf("P2 completion = %d, want 7", c)
	}
	if c := outcome(t, trace, 1).Completion; c != 8 {
		t.Errorf("P1 completion = %d, want 8", c)
	}
}

// TestSimulate_ArrivalsDuringOverheadGoFirst: a process arriving while P1 pays
// overhead is queued ahead of P1.
func TestSimulate_ArrivalsDuringOverheadGoFirst(t *testing.T) {
	trace := mustSimulate(t,
		[]model.Process{proc(1, 0, 2), proc(2, 2, 1)},
		model.RoundRobin{Quantum: 1, Overhead: 2},
	)

	want := []model.ProcessID{1, 0, 0, 2, 1}
	if got := runningByTick(trace); !reflect.DeepEqual(got, want) {
		t.Fatalf("running = %v, want %v", got, want)
	}
	if got := trace.Entries[2].Processes; !reflect.DeepEqual(got, []model.ProcessID{2}) {
		t.Errorf("tick 2 (overhead) queue = %v, want [2]", got)
	}
	if got := trace.Entries[3].Processes; !reflect.DeepEqual(got, []model.ProcessID{2, 1}) {
		t.Errorf("tick 3 snapshot = %v, want [2 1]", got)
	}
}

func TestSimulate_ArrivalAfterOverheadQueuesBehind(t *testing.T) {
	trace := mustSimulate(t,
		[]model.Process{proc(1, 0, 2), proc(2, 3, 1)},
		model.RoundRobin{Quantum: 1, Overhead: 2},
	)

	want := []model.ProcessID{1, 0, 0, 1, 2}
	if got := runningByTick(trace); !reflect.DeepEqual(got, want) {
		t.Fatalf("running = %v, want %v", got, want)
	}
}

func TestSimulate_SJF(t *testing.T) {
	trace := mustSimulate(t, []model.Process{
		proc(1, 0, 5),
		proc(2, 1, 4),
		proc(3, 1, 2),
		proc(4, 2, 2),
	}, model.SJF{})

	want := []model.ProcessID{1, 1, 1, 1, 1, 3, 3, 4, 4, 2, 2, 2, 2}
	if got := runningByTick(trace); !reflect.DeepEqual(got, want) {
		t.Fatalf("running = %v, want %v", got, want)
	}
}

func TestSimulate_EDFOrdersByAbsoluteDeadline(t *testing.T) {
	trace := mustSimulate(t, []model.Process{
		procDL(1, 0, 2, 10),
		procDL(2, 0, 2, 5),
		procDL(3, 1, 1, 3),
	}, model.EDF{Quantum: 10, Overhead: 1})

	want := []model.ProcessID{2, 2, 3, 1, 1}
	if got := runningByTick(trace); !reflect.DeepEqual(got, want) {
		t.Fatalf("running = %v, want %v", got, want)
	}
}

// TestSimulate_EDFTieBreaksOnArrival: equal absolute deadlines fall back to
// arrival time, not queue position.
func TestSimulate_EDFTieBreaksOnArrival(t *testing.T) {
	trace := mustSimulate(t, []model.Process{
		procDL(1, 0, 2, 5),
		procDL(2, 1, 1, 4),
	}, model.EDF{Quantum: 1, Overhead: 1})

	want := []model.ProcessID{1, 0, 1, 2}
	if got := runningByTick(trace); !reflect.DeepEqual(got, want) {
		t.Fatalf("running = %v, want %v", got, want)
	}
	if got := trace.Entries[2].Processes; !reflect.DeepEqual(got, []model.ProcessID{1, 2}) {
		t.Errorf("tick 2 snapshot = %v, want [1 2]", got)
	}
}

func TestSimulate_EDFWithoutDeadlineGoesLast(t *testing.T) {
	trace := mustSimulate(t, []model.Process{
		proc(1, 0, 1),
		procDL(2, 0, 1, 9),
	}, model.EDF{Quantum: 2, Overhead: 1})

	want := []model.ProcessID{2, 1}
	if got := runningByTick(trace); !reflect.DeepEqual(got, want) {
		t.Fatalf("running = %v, want %v", got, want)
	}
}

// TestSimulate_EDFPastDeadline: a lone process with deadline 2 and service 3
// runs ticks 0-2; only tick 2 is at or beyond arrival+deadline.
func TestSimulate_EDFPastDeadline(t *testing.T) {
	trace := mustSimulate(t, []model.Process{procDL(1, 0, 3, 2)}, model.EDF{Quantum: 5, Overhead: 1})

	if trace.Length() != 3 {
		t.Fatalf("trace length = %d, want 3", trace.Length())
	}
	wantLate := []bool{false, false, true}
	for i, e := range trace.Entries {
		if e.Late != wantLate[i] {
			t.Errorf("tick %d late = %v, want %v", i, e.Late, wantLate[i])
		}
	}
	if got := trace.Entries[2].Cell(1); got != model.CellLate {
		t.Errorf("tick 2 cell = %q, want late", got)
	}
	if !outcome(t, trace, 1).MissedDeadline {
		t.Error("expected missed deadline")
	}
}

func TestSimulate_LateOnlyMarkedUnderEDF(t *testing.T) {
	trace := mustSimulate(t, []model.Process{procDL(1, 0, 3, 1)}, model.RoundRobin{Quantum: 5, Overhead: 1})
	for _, e := range trace.Entries {
		if e.Late {
			t.Errorf("tick %d marked late under round robin", e.Tick)
		}
	}
	if !outcome(t, trace, 1).MissedDeadline {
		t.Error("missed deadline should still be reported in the outcome")
	}
}

func TestSimulate_IdleGap(t *testing.T) {
	trace := mustSimulate(t, []model.Process{proc(1, 2, 1)}, model.FIFO{})

	if trace.Length() != 3 {
		t.Fatalf("trace length = %d, want 3", trace.Length())
	}
	for _, tick := range []int{0, 1} {
		if !trace.Entries[tick].IsIdle() {
			t.Errorf("tick %d should be idle: %+v", tick, trace.Entries[tick])
		}
		if trace.Entries[tick].Processes == nil {
			t.Errorf("tick %d: idle snapshot should be empty, not nil", tick)
		}
	}
	o := outcome(t, trace, 1)
	if o.FirstRun != 2 || o.Response != 0 || o.Turnaround != 1 {
		t.Errorf("outcome = %+v", o)
	}
}

func TestSimulate_DoesNotMutateInput(t *testing.T) {
	input := []model.Process{proc(1, 0, 3), procDL(2, 1, 2, 4)}
	snapshot := []model.Process{proc(1, 0, 3), procDL(2, 1, 2, 4)}
	mustSimulate(t, input, model.EDF{Quantum: 1, Overhead: 1})
	if !reflect.DeepEqual(input, snapshot) {
		t.Errorf("input mutated: %+v", input)
	}
}

func TestSimulate_RejectsInvalidInput(t *testing.T) {
	_, err := Simulate([]model.Process{proc(1, 0, 0)}, model.RoundRobin{Quantum: 0, Overhead: 1})
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("error = %T %v, want *model.APIError", err, err)
	}
	if apiErr.Code != model.ErrValidation {
		t.Errorf("code = %q", apiErr.Code)
	}
	if len(apiErr.Details) != 2 {
		t.Errorf("details = %+v, want quantum and service errors", apiErr.Details)
	}
}

func TestEngine_LogsDispatch(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := NewEngine(logger).Simulate([]model.Process{proc(7, 0, 2)}, model.RoundRobin{Quantum: 1, Overhead: 1}); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"component=scheduler", "msg=dispatch", "process=7", "msg=preempt", "msg=complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestEngine_TickLimitIsFatal(t *testing.T) {
	tests := []struct {
		name      string
		processes []model.Process
		policy    model.Policy
		limit     int
	}{
		{"fifo mid-run", []model.Process{proc(1, 0, 5)}, model.FIFO{}, 3},
		{"rr during overhead", []model.Process{proc(1, 0, 3), proc(2, 0, 3)}, model.RoundRobin{Quantum: 1, Overhead: 2}, 2},
		{"before first tick", []model.Process{proc(1, 0, 1)}, model.SJF{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := NewEngine(slog.New(slog.NewTextHandler(&buf, nil)))
			e.limit = func([]model.Process, int, int, bool) int { return tt.limit }

			trace, err := e.Simulate(tt.processes, tt.policy)
			if trace != nil {
				t.Errorf("trace = %+v, want nil", trace)
			}
			var inv *model.InvariantError
			if !errors.As(err, &inv) {
				t.Fatalf("err = %T %v, want *model.InvariantError", err, err)
			}
			if inv.Engine != "scheduler" || inv.Tick != tt.limit || inv.Process != model.NoProcess {
				t.Errorf("invariant error = %+v", inv)
			}
			if !strings.Contains(buf.String(), "invariant violated") {
				t.Errorf("violation not logged:\n%s", buf.String())
			}
		})
	}
}

func TestEngine_RealLimitNeverReached(t *testing.T) {
	// Tightest case: no idle gap, one overhead per slice.
	processes := []model.Process{proc(1, 0, 3), proc(2, 0, 3)}
	policy := model.RoundRobin{Quantum: 1, Overhead: 1}
	trace := mustSimulate(t, processes, policy)
	if limit := tickLimit(processes, 1, 1, true); len(trace.Entries) >= limit {
		t.Errorf("trace has %d ticks, limit %d", len(trace.Entries), limit)
	}
}

func TestTickLimit(t *testing.T) {
	processes := []model.Process{proc(1, 0, 5), proc(2, 7, 3)}
	if got := tickLimit(processes, 0, 0, false); got != 1+8+7 {
		t.Errorf("tickLimit(unsliced) = %d, want 16", got)
	}
	// ceil(5/2)=3 and ceil(3/2)=2 slices, each paying 2 ticks.
	if got := tickLimit(processes, 2, 2, true); got != 1+8+10+7 {
		t.Errorf("tickLimit(sliced) = %d, want 26", got)
	}
}
