package scheduler

import "github.com/me/cpusim/pkg/model"

// Summarize computes aggregate metrics from a finished trace. PageFaults is left
// for the caller that drove the memory engine.
func Summarize(trace *model.Trace) model.Report {
	r := model.Report{Policy: trace.Policy, Ticks: len(trace.Entries)}
	for _, e := range trace.Entries {
		switch {
		case e.IsOverhead():
			r.OverheadTicks++
		case e.IsIdle():
			r.IdleTicks++
		default:
			r.BusyTicks++
		}
	}

	n := len(trace.Outcomes)
	if n == 0 {
		return r
	}
	var turnaround, waiting, response int
	for _, o := range trace.Outcomes {
		turnaround += o.Turnaround
		waiting += o.Waiting
		response += o.Response
		if o.MissedDeadline {
			r.DeadlineMisses++
		}
	}
	r.AvgTurnaround = float64(turnaround) / float64(n)
	r.AvgWaiting = float64(waiting) / float64(n)
	r.AvgResponse = float64(response) / float64(n)
	if r.Ticks > 0 {
		r.CPUUtilization = float64(r.BusyTicks) / float64(r.Ticks)
		r.Throughput = float64(n) / float64(r.Ticks)
	}
	return r
}
