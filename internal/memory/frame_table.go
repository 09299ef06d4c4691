// Package memory tracks which process pages are resident in a fixed set of
// physical frames and replaces them on fault.
package memory

import (
	"fmt"

	"github.com/me/cpusim/pkg/model"
)

// FrameTable is a fixed-capacity table of physical frames. It has a single
// writer; callers that share one across goroutines must serialize access.
type FrameTable struct {
	policy   model.MemoryPolicy
	frames   []model.Page
	replacer Replacer
	clock    int64
	faults   int
}

// New creates a frame table with every frame free.
func New(capacity int, policy model.MemoryPolicy) (*FrameTable, error) {
	var details []model.FieldError
	if capacity <= 0 {
		details = append(details, model.FieldError{
			Field:   "memory.capacity",
			Message: fmt.Sprintf("must be positive, got %d", capacity),
		})
	}
	replacer, err := newReplacer(policy)
	if err != nil {
		details = append(details, model.FieldError{Field: "memory.policy", Message: err.Error()})
	}
	if len(details) > 0 {
		return nil, model.NewValidationError("invalid memory configuration", details...)
	}

	frames := make([]model.Page, capacity)
	for i := range frames {
		frames[i] = model.Page{Process: model.NoProcess}
	}
	return &FrameTable{policy: policy, frames: frames, replacer: replacer}, nil
}

// Reference touches one page of process pid and reports whether it was already
// resident. A miss counts a fault and installs the page, evicting if needed.
func (ft *FrameTable) Reference(pid model.ProcessID, page int) bool {
	ft.clock++
	if slot := ft.find(pid, page); slot >= 0 {
		ft.replacer.Touch(ft.frames, slot, ft.clock)
		return true
	}

	ft.faults++
	slot := ft.freeSlot()
	if slot < 0 {
		slot = ft.replacer.Victim(ft.frames)
	}
	ft.frames[slot] = model.Page{Index: page, Process: pid, LastAccess: ft.clock}
	return false
}

// EnsureResident references pages 0..pageCount-1 of pid in order and returns
// the number of faults taken.
func (ft *FrameTable) EnsureResident(pid model.ProcessID, pageCount int) int {
	before := ft.faults
	for page := 0; page < pageCount; page++ {
		ft.Reference(pid, page)
	}
	return ft.faults - before
}

// IsResident reports whether page of pid currently occupies a frame.
func (ft *FrameTable) IsResident(pid model.ProcessID, page int) bool {
	return ft.find(pid, page) >= 0
}

// Faults returns the number of faults since creation. It never decreases.
func (ft *FrameTable) Faults() int { return ft.faults }

// Capacity returns the number of frames.
func (ft *FrameTable) Capacity() int { return len(ft.frames) }

// Policy returns the replacement policy.
func (ft *FrameTable) Policy() model.MemoryPolicy { return ft.policy }

// Frames returns a copy of the frame table.
func (ft *FrameTable) Frames() []model.Page {
	out := make([]model.Page, len(ft.frames))
	copy(out, ft.frames)
	return out
}

// Occupied returns the number of frames holding a page.
func (ft *FrameTable) Occupied() int {
	n := 0
	for _, f := range ft.frames {
		if !f.Free() {
			n++
		}
	}
	return n
}

// Result snapshots the table for a finished run.
func (ft *FrameTable) Result() model.MemoryResult {
	return model.MemoryResult{
		Policy:   ft.policy,
		Capacity: len(ft.frames),
		Faults:   ft.faults,
		Frames:   ft.Frames(),
	}
}

func (ft *FrameTable) find(pid model.ProcessID, page int) int {
	for i, f := range ft.frames {
		if f.Holds(pid, page) {
			return i
		}
	}
	return -1
}

func (ft *FrameTable) freeSlot() int {
	for i, f := range ft.frames {
		if f.Free() {
			return i
		}
	}
	return -1
}
