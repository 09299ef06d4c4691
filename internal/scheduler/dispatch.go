package scheduler

import (
	"fmt"

	"github.com/me/cpusim/pkg/model"
)

// selectNext returns the queue position of the process to dispatch at tick t.
func selectNext(policy model.Policy, a *arena, q readyQueue, t int) (int, error) {
	switch policy.(type) {
	case model.FIFO, model.RoundRobin:
		return 0, nil
	case model.SJF:
		best := 0
		for pos := 1; pos < len(q); pos++ {
			// Strict comparison keeps the earlier queue member on ties.
			if a.tasks[q[pos]].proc.Service < a.tasks[q[best]].proc.Service {
				best = pos
			}
		}
		return best, nil
	case model.EDF:
		best := 0
		for pos := 1; pos < len(q); pos++ {
			if earlierDeadline(&a.tasks[q[pos]], &a.tasks[q[best]], t) {
				best = pos
			}
		}
		return best, nil
	default:
		return 0, fmt.Errorf("unsupported scheduling policy %T", policy)
	}
}

// earlierDeadline orders by time left until the absolute deadline at tick t,
// then arrival, then input order. Processes without a deadline go last.
func earlierDeadline(x, y *task, t int) bool {
	xd, xok := x.proc.AbsoluteDeadline()
	yd, yok := y.proc.AbsoluteDeadline()
	if xok != yok {
		return xok
	}
	if xok {
		if xs, ys := xd-t, yd-t; xs != ys {
			return xs < ys
		}
	}
	if x.proc.Arrival != y.proc.Arrival {
		return x.proc.Arrival < y.proc.Arrival
	}
	return x.order < y.order
}
