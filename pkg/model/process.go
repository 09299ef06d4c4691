package model

// ProcessID identifies a process for its whole lifetime. Valid ids are positive;
// NoProcess doubles as the owner of a free memory frame.
type ProcessID int

// NoProcess is the zero ProcessID.
const NoProcess ProcessID = 0

// Process is an immutable input descriptor. The scheduler never mutates it; all
// per-run counters live in the scheduler's own working copies.
type Process struct {
	ID      ProcessID `json:"id" yaml:"id"`
	Arrival int       `json:"arrival" yaml:"arrival"`
	Service int       `json:"service" yaml:"service"`

	// Deadline is relative to Arrival and only meaningful under EDF.
	Deadline *int `json:"deadline,omitempty" yaml:"deadline,omitempty"`

	// Pages is the size of the working set loaded while the process runs.
	Pages int `json:"pages" yaml:"pages"`
}

// HasDeadline reports whether a deadline was supplied.
func (p Process) HasDeadline() bool {
	return p.Deadline != nil
}

// AbsoluteDeadline returns Arrival + Deadline. ok is false when no deadline is set.
func (p Process) AbsoluteDeadline() (tick int, ok bool) {
	if !p.HasDeadline() {
		return 0, false
	}
	return p.Arrival + *p.Deadline, true
}

// Outcome holds the per-process results of a finished simulation.
type Outcome struct {
	ID         ProcessID `json:"id"`
	Arrival    int       `json:"arrival"`
	Service    int       `json:"service"`
	FirstRun   int       `json:"first_run"`
	Completion int       `json:"completion"`
	Turnaround int       `json:"turnaround"`
	Waiting    int       `json:"waiting"`
	Response   int       `json:"response"`

	// MissedDeadline is set when a deadline exists and Completion exceeds it.
	MissedDeadline bool `json:"missed_deadline,omitempty"`
}
