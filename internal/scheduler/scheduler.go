// Package scheduler implements the time-stepped single-CPU dispatch engine.
//
// The engine is a pure function of its input: it owns private working copies of
// every process, never blocks, and produces the same trace for the same input.
package scheduler

import (
	"io"
	"log/slog"

	"github.com/me/cpusim/pkg/model"
)

// Engine runs simulations and reports dispatch decisions to its logger.
type Engine struct {
	logger *slog.Logger

	// limit bounds the tick loop; reaching it is an invariant violation.
	limit func(processes []model.Process, quantum, overhead int, sliced bool) int
}

// NewEngine creates an engine. A nil logger discards all output.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{logger: logger.With("component", "scheduler"), limit: tickLimit}
}

// Simulate runs processes under policy with a silent engine.
func Simulate(processes []model.Process, policy model.Policy) (*model.Trace, error) {
	return NewEngine(nil).Simulate(processes, policy)
}

// Simulate validates the input and computes the full trace in one pass.
// Invalid input yields a *model.APIError; a broken engine invariant yields a
// *model.InvariantError. In both cases no trace is returned.
func (e *Engine) Simulate(processes []model.Process, policy model.Policy) (*model.Trace, error) {
	if err := Validate(processes, policy); err != nil {
		return nil, err
	}

	quantum, overheadCost, sliced := model.Slicing(policy)
	_, edf := policy.(model.EDF)

	a := newArena(processes)
	limit := e.limit(processes, quantum, overheadCost, sliced)

	var (
		queue        readyQueue
		running      = none
		switchedOut  = none
		sliceBound   int
		overheadLeft int
		unfinished   = len(a.tasks)
		entries      = make([]model.HistoryEntry, 0, max(limit, 0))
	)

	for t := 0; unfinished > 0 || running != none; t++ {
		if t >= limit {
			return nil, e.violation(t, model.NoProcess, "tick limit exceeded")
		}

		// Arrivals keep input order, which is the FIFO tie-break.
		for i := range a.tasks {
			if a.tasks[i].proc.Arrival == t {
				queue.push(i)
			}
		}

		if overheadLeft > 0 {
			owner := a.tasks[switchedOut].proc.ID
			entries = append(entries, model.HistoryEntry{
				Tick:      t,
				Processes: queue.ids(a),
				Overhead:  &owner,
			})
			overheadLeft--
			if overheadLeft == 0 {
				queue.push(switchedOut)
				e.logger.Debug("overhead paid", "tick", t, "process", owner)
				switchedOut = none
			}
			continue
		}

		if running == none && len(queue) > 0 {
			pos, err := selectNext(policy, a, queue, t)
			if err != nil {
				return nil, err
			}
			running = queue.remove(pos)
			tk := &a.tasks[running]
			tk.slice = 0
			if tk.firstRun == none {
				tk.firstRun = t
			}
			if sliced {
				sliceBound = min(tk.remaining, quantum)
			}
			e.logger.Debug("dispatch", "tick", t, "process", tk.proc.ID, "remaining", tk.remaining, "policy", policy.Name())
		}

		if running == none {
			entries = append(entries, model.HistoryEntry{Tick: t, Processes: []model.ProcessID{}})
			continue
		}

		tk := &a.tasks[running]
		if queue.contains(running) {
			return nil, e.violation(t, tk.proc.ID, "running process is also in the ready queue")
		}
		if tk.remaining <= 0 {
			return nil, e.violation(t, tk.proc.ID, "dispatched process has no remaining time")
		}
		tk.remaining--
		tk.slice++

		entry := model.HistoryEntry{
			Tick:      t,
			Processes: append([]model.ProcessID{tk.proc.ID}, queue.ids(a)...),
		}
		if edf {
			if due, ok := tk.proc.AbsoluteDeadline(); ok && t >= due {
				entry.Late = true
			}
		}
		entries = append(entries, entry)

		if tk.remaining == 0 {
			tk.completion = t + 1
			unfinished--
			e.logger.Debug("complete", "tick", t, "process", tk.proc.ID, "completion", tk.completion)
			running = none
			continue
		}

		if sliced && tk.slice >= sliceBound {
			e.logger.Debug("preempt", "tick", t, "process", tk.proc.ID, "remaining", tk.remaining, "overhead", overheadCost)
			overheadLeft = overheadCost
			switchedOut = running
			running = none
		}
	}

	trace := &model.Trace{
		Policy:   policy.Name(),
		Entries:  entries,
		Outcomes: a.outcomes(),
	}
	e.logger.Debug("simulation finished", "policy", policy.Name(), "ticks", len(entries), "processes", len(a.tasks))
	return trace, nil
}

func (e *Engine) violation(tick int, id model.ProcessID, detail string) error {
	err := &model.InvariantError{Engine: "scheduler", Tick: tick, Process: id, Detail: detail}
	e.logger.Error("invariant violated", "error", err)
	return err
}

// tickLimit bounds the loop: every idle gap ends by the last arrival, every tick
// after that executes or pays overhead, and each slice pays at most one overhead.
func tickLimit(processes []model.Process, quantum, overhead int, sliced bool) int {
	limit := 1
	lastArrival := 0
	for _, p := range processes {
		limit += p.Service
		if sliced {
			limit += ((p.Service + quantum - 1) / quantum) * overhead
		}
		lastArrival = max(lastArrival, p.Arrival)
	}
	return limit + lastArrival
}
