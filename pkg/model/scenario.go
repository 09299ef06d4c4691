package model

import "time"

// Scenario is the declarative input of a simulation run.
//
// Quantum, Overhead and Memory.Capacity are pointers so that an omitted setting
// (nil, filled from defaults) stays distinct from an explicit zero (rejected).
type Scenario struct {
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Policy    string     `json:"policy" yaml:"policy"`
	Quantum   *int       `json:"quantum,omitempty" yaml:"quantum,omitempty"`
	Overhead  *int       `json:"overhead,omitempty" yaml:"overhead,omitempty"`
	Memory    MemorySpec `json:"memory" yaml:"memory"`
	Processes []Process  `json:"processes" yaml:"processes"`
}

// MemorySpec configures the page-residency engine.
type MemorySpec struct {
	Capacity *int   `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	Policy   string `json:"policy" yaml:"policy"`
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// intValue reads an optional setting; unset reads as zero.
func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// QuantumValue returns the quantum, or 0 when unset.
func (s Scenario) QuantumValue() int { return intValue(s.Quantum) }

// OverheadValue returns the context-switch cost, or 0 when unset.
func (s Scenario) OverheadValue() int { return intValue(s.Overhead) }

// CapacityValue returns the frame count, or 0 when unset.
func (m MemorySpec) CapacityValue() int { return intValue(m.Capacity) }

// SchedulingPolicy builds the Policy variant named by the scenario. An unset
// quantum or overhead reads as zero and fails validation for RR and EDF.
func (s Scenario) SchedulingPolicy() (Policy, error) {
	return ParsePolicy(s.Policy, s.QuantumValue(), s.OverheadValue())
}

// WithPolicy returns a copy of s scheduled under name. The process slice is shared;
// descriptors are never mutated.
func (s Scenario) WithPolicy(name PolicyName) Scenario {
	s.Policy = string(name)
	return s
}

// Report aggregates the metrics of one run.
type Report struct {
	Policy         PolicyName `json:"policy"`
	Ticks          int        `json:"ticks"`
	BusyTicks      int        `json:"busy_ticks"`
	OverheadTicks  int        `json:"overhead_ticks"`
	IdleTicks      int        `json:"idle_ticks"`
	AvgTurnaround  float64    `json:"avg_turnaround"`
	AvgWaiting     float64    `json:"avg_waiting"`
	AvgResponse    float64    `json:"avg_response"`
	CPUUtilization float64    `json:"cpu_utilization"`
	Throughput     float64    `json:"throughput"`
	DeadlineMisses int        `json:"deadline_misses"`
	PageFaults     int        `json:"page_faults"`
}

// MemoryResult is the final state of the frame table after a run.
type MemoryResult struct {
	Policy   MemoryPolicy `json:"policy"`
	Capacity int          `json:"capacity"`
	Faults   int          `json:"faults"`
	Frames   []Page       `json:"frames"`
}

// Run is a finished simulation as kept by the run registry.
type Run struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Scenario  Scenario     `json:"scenario"`
	Trace     *Trace       `json:"trace"`
	Report    Report       `json:"report"`
	Memory    MemoryResult `json:"memory"`
}

// RunSummary is the list view of a Run.
type RunSummary struct {
	ID            string     `json:"id"`
	Name          string     `json:"name,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	Policy        PolicyName `json:"policy"`
	Processes     int        `json:"processes"`
	Ticks         int        `json:"ticks"`
	AvgTurnaround float64    `json:"avg_turnaround"`
	PageFaults    int        `json:"page_faults"`
}

// Summary returns the list view of r.
func (r *Run) Summary() RunSummary {
	return RunSummary{
		ID:            r.ID,
		Name:          r.Scenario.Name,
		CreatedAt:     r.CreatedAt,
		Policy:        r.Report.Policy,
		Processes:     len(r.Scenario.Processes),
		Ticks:         r.Report.Ticks,
		AvgTurnaround: r.Report.AvgTurnaround,
		PageFaults:    r.Report.PageFaults,
	}
}

// Comparison pairs a policy with the report it produced for the same scenario.
type Comparison struct {
	Policy PolicyName `json:"policy"`
	Report Report     `json:"report"`
}
