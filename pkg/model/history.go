package model

// HistoryEntry is one tick of the scheduler trace. Processes is the ready-queue
// snapshot; on an execution tick the running process comes first. On an overhead
// tick nothing executes and Overhead names the process being switched out.
type HistoryEntry struct {
	Tick      int         `json:"tick"`
	Processes []ProcessID `json:"processes"`
	Overhead  *ProcessID  `json:"overhead_process,omitempty"`

	// Late marks an EDF execution tick at or past the running process's deadline.
	Late bool `json:"late,omitempty"`
}

// IsOverhead reports whether the tick is a context-switch tick.
func (e HistoryEntry) IsOverhead() bool {
	return e.Overhead != nil
}

// IsIdle reports whether the CPU did nothing and nobody was waiting.
func (e HistoryEntry) IsIdle() bool {
	return e.Overhead == nil && len(e.Processes) == 0
}

// Running returns the executing process, if any.
func (e HistoryEntry) Running() (ProcessID, bool) {
	if e.Overhead != nil || len(e.Processes) == 0 {
		return NoProcess, false
	}
	return e.Processes[0], true
}

// Waiting returns the processes that are ready but not executing.
func (e HistoryEntry) Waiting() []ProcessID {
	if _, ok := e.Running(); ok {
		return e.Processes[1:]
	}
	return e.Processes
}

// CellState is how a single process appears on a single tick.
type CellState string

const (
	CellAbsent   CellState = "absent"
	CellRunning  CellState = "running"
	CellWaiting  CellState = "waiting"
	CellOverhead CellState = "overhead"
	CellLate     CellState = "late"
)

// Cell classifies process id on this tick.
func (e HistoryEntry) Cell(id ProcessID) CellState {
	if e.Overhead != nil && *e.Overhead == id {
		return CellOverhead
	}
	if running, ok := e.Running(); ok && running == id {
		if e.Late {
			return CellLate
		}
		return CellRunning
	}
	for _, p := range e.Waiting() {
		if p == id {
			return CellWaiting
		}
	}
	return CellAbsent
}

// Trace is the complete output of one scheduler run.
type Trace struct {
	Policy   PolicyName     `json:"policy"`
	Entries  []HistoryEntry `json:"entries"`
	Outcomes []Outcome      `json:"outcomes"`
}

// Length returns the number of ticks in the trace.
func (t *Trace) Length() int {
	return len(t.Entries)
}
