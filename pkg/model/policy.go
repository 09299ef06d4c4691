package model

import (
	"fmt"
	"strings"
)

// PolicyName is the canonical short name of a scheduling discipline.
type PolicyName string

const (
	PolicyFIFO       PolicyName = "fifo"
	PolicySJF        PolicyName = "sjf"
	PolicyRoundRobin PolicyName = "rr"
	PolicyEDF        PolicyName = "edf"
)

// AllPolicies lists every discipline in display order.
var AllPolicies = []PolicyName{PolicyFIFO, PolicySJF, PolicyRoundRobin, PolicyEDF}

// Policy is a closed set of scheduling disciplines. Only the variants declared in
// this package implement it; each carries exactly the parameters it needs.
type Policy interface {
	Name() PolicyName
	isPolicy()
}

// FIFO dispatches in arrival order and never preempts.
type FIFO struct{}

// SJF dispatches the shortest service time and never preempts.
type SJF struct{}

// RoundRobin dispatches in queue order and preempts after Quantum ticks,
// charging Overhead ticks of context switch.
type RoundRobin struct {
	Quantum  int `json:"quantum"`
	Overhead int `json:"overhead"`
}

// EDF dispatches the nearest absolute deadline and preempts like RoundRobin.
type EDF struct {
	Quantum  int `json:"quantum"`
	Overhead int `json:"overhead"`
}

func (FIFO) Name() PolicyName       { return PolicyFIFO }
func (SJF) Name() PolicyName        { return PolicySJF }
func (RoundRobin) Name() PolicyName { return PolicyRoundRobin }
func (EDF) Name() PolicyName        { return PolicyEDF }

func (FIFO) isPolicy()       {}
func (SJF) isPolicy()        {}
func (RoundRobin) isPolicy() {}
func (EDF) isPolicy()        {}

// Slicing returns the quantum and overhead of a preemptive policy.
// ok is false for FIFO and SJF.
func Slicing(p Policy) (quantum, overhead int, ok bool) {
	switch v := p.(type) {
	case RoundRobin:
		return v.Quantum, v.Overhead, true
	case EDF:
		return v.Quantum, v.Overhead, true
	}
	return 0, 0, false
}

// NormalizePolicyName maps accepted spellings to a canonical PolicyName.
func NormalizePolicyName(s string) (PolicyName, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fifo", "fcfs":
		return PolicyFIFO, nil
	case "sjf":
		return PolicySJF, nil
	case "rr", "round-robin", "roundrobin":
		return PolicyRoundRobin, nil
	case "edf":
		return PolicyEDF, nil
	}
	return "", fmt.Errorf("unknown scheduling policy %q", s)
}

// ParsePolicy builds a Policy from its name. quantum and overhead are ignored by
// the non-preemptive disciplines.
func ParsePolicy(name string, quantum, overhead int) (Policy, error) {
	n, err := NormalizePolicyName(name)
	if err != nil {
		return nil, err
	}
	switch n {
	case PolicyFIFO:
		return FIFO{}, nil
	case PolicySJF:
		return SJF{}, nil
	case PolicyRoundRobin:
		return RoundRobin{Quantum: quantum, Overhead: overhead}, nil
	default:
		return EDF{Quantum: quantum, Overhead: overhead}, nil
	}
}

// MemoryPolicy selects the page replacement algorithm.
type MemoryPolicy string

const (
	MemoryFIFO MemoryPolicy = "fifo"
	MemoryLRU  MemoryPolicy = "lru"
)

// ParseMemoryPolicy maps a case-insensitive name to a MemoryPolicy.
func ParseMemoryPolicy(s string) (MemoryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fifo":
		return MemoryFIFO, nil
	case "lru":
		return MemoryLRU, nil
	}
	return "", fmt.Errorf("unknown memory policy %q", s)
}
