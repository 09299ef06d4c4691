// Package replay turns a finished trace into a sequence of displayable frames
// and plays them back at a fixed cadence.
package replay

import (
	"github.com/me/cpusim/internal/memory"
	"github.com/me/cpusim/pkg/model"
)

// Frame is the state of the simulation after one tick.
type Frame struct {
	Tick      int                `json:"tick"`
	Entry     model.HistoryEntry `json:"entry"`
	Memory    []model.Page       `json:"memory"`
	Faults    int                `json:"faults"`
	NewFaults int                `json:"new_faults"`
}

// Timeline walks trace and makes every executing process resident in ft before
// recording the frame for that tick. ft is mutated; pass a fresh table per run.
func Timeline(trace *model.Trace, processes []model.Process, ft *memory.FrameTable) []Frame {
	pages := make(map[model.ProcessID]int, len(processes))
	for _, p := range processes {
		pages[p.ID] = p.Pages
	}

	frames := make([]Frame, 0, len(trace.Entries))
	for _, e := range trace.Entries {
		added := 0
		if id, ok := e.Running(); ok {
			added = ft.EnsureResident(id, pages[id])
		}
		frames = append(frames, Frame{
			Tick:      e.Tick,
			Entry:     e,
			Memory:    ft.Frames(),
			Faults:    ft.Faults(),
			NewFaults: added,
		})
	}
	return frames
}
