package scheduler

import "github.com/me/cpusim/pkg/model"

// none marks an empty CPU slot or an unset tick.
const none = -1

// task is the scheduler's working copy of one process.
type task struct {
	proc       model.Process
	order      int
	remaining  int
	slice      int
	firstRun   int
	completion int
}

// arena stores every task once; the ready queue and the CPU slot refer to
// tasks by index, so no mutable record is ever aliased across containers.
type arena struct {
	tasks []task
}

func newArena(processes []model.Process) *arena {
	a := &arena{tasks: make([]task, len(processes))}
	for i, p := range processes {
		a.tasks[i] = task{
			proc:      p,
			order:     i,
			remaining: p.Service,
			firstRun:  none,
		}
	}
	return a
}

func (a *arena) outcomes() []model.Outcome {
	out := make([]model.Outcome, 0, len(a.tasks))
	for _, tk := range a.tasks {
		o := model.Outcome{
			ID:         tk.proc.ID,
			Arrival:    tk.proc.Arrival,
			Service:    tk.proc.Service,
			FirstRun:   tk.firstRun,
			Completion: tk.completion,
			Turnaround: tk.completion - tk.proc.Arrival,
			Response:   tk.firstRun - tk.proc.Arrival,
		}
		o.Waiting = o.Turnaround - tk.proc.Service
		if due, ok := tk.proc.AbsoluteDeadline(); ok && tk.completion > due {
			o.MissedDeadline = true
		}
		out = append(out, o)
	}
	return out
}

// readyQueue holds arena indices in queue order.
type readyQueue []int

func (q *readyQueue) push(i int) {
	*q = append(*q, i)
}

// remove deletes the element at pos, keeping the order of the rest.
func (q *readyQueue) remove(pos int) int {
	old := *q
	i := old[pos]
	*q = append(old[:pos:pos], old[pos+1:]...)
	return i
}

func (q readyQueue) contains(i int) bool {
	for _, v := range q {
		if v == i {
			return true
		}
	}
	return false
}

func (q readyQueue) ids(a *arena) []model.ProcessID {
	ids := make([]model.ProcessID, len(q))
	for k, i := range q {
		ids[k] = a.tasks[i].proc.ID
	}
	return ids
}
