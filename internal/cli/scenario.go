package cli

import (
	"github.com/spf13/cobra"

	"github.com/me/cpusim/internal/workload"
	"github.com/me/cpusim/pkg/model"
)

// overrides are the scenario settings a command line may replace.
type overrides struct {
	policy         string
	quantum        int
	overhead       int
	memoryCapacity int
	memoryPolicy   string
}

func (o *overrides) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.policy, "policy", "", "Scheduling policy (fifo, sjf, rr, edf)")
	f.IntVar(&o.quantum, "quantum", 0, "Time slice for rr and edf")
	f.IntVar(&o.overhead, "overhead", 0, "Context-switch cost in ticks for rr and edf")
	f.IntVar(&o.memoryCapacity, "memory-capacity", 0, "Number of physical frames")
	f.StringVar(&o.memoryPolicy, "memory-policy", "", "Page replacement policy (fifo, lru)")
}

// apply replaces the settings whose flags were given explicitly.
func (o *overrides) apply(cmd *cobra.Command, sc *model.Scenario) {
	f := cmd.Flags()
	if f.Changed("policy") {
		sc.Policy = o.policy
	}
	if f.Changed("quantum") {
		sc.Quantum = model.Int(o.quantum)
	}
	if f.Changed("overhead") {
		sc.Overhead = model.Int(o.overhead)
	}
	if f.Changed("memory-capacity") {
		sc.Memory.Capacity = model.Int(o.memoryCapacity)
	}
	if f.Changed("memory-policy") {
		sc.Memory.Policy = o.memoryPolicy
	}
}

func loadScenario(cmd *cobra.Command, path string, o *overrides) (model.Scenario, error) {
	sc, err := workload.Load(path, defaults)
	if err != nil {
		return model.Scenario{}, err
	}
	o.apply(cmd, &sc)
	logger.Debug("scenario loaded", "path", path, "name", sc.Name, "policy", sc.Policy, "processes", len(sc.Processes))
	return sc, nil
}
