package memory

import (
	"fmt"

	"github.com/me/cpusim/pkg/model"
)

// Replacer chooses which frame to evict when the table is full.
type Replacer interface {
	// Victim returns the slot to overwrite. frames is never empty and has no
	// free slot when Victim is called.
	Victim(frames []model.Page) int
	// Touch records a hit on slot at logical time now.
	Touch(frames []model.Page, slot int, now int64)
}

func newReplacer(policy model.MemoryPolicy) (Replacer, error) {
	switch policy {
	case model.MemoryFIFO:
		return &fifoReplacer{}, nil
	case model.MemoryLRU:
		return lruReplacer{}, nil
	default:
		return nil, fmt.Errorf("unknown memory policy %q", policy)
	}
}

// fifoReplacer evicts slots round-robin. The pointer only moves on eviction.
type fifoReplacer struct {
	next int
}

func (r *fifoReplacer) Victim(frames []model.Page) int {
	slot := r.next
	r.next = (r.next + 1) % len(frames)
	return slot
}

// Touch is a no-op: FIFO ignores hits.
func (r *fifoReplacer) Touch([]model.Page, int, int64) {}

// lruReplacer evicts the least recently referenced slot, lowest index on ties.
type lruReplacer struct{}

func (lruReplacer) Victim(frames []model.Page) int {
	slot := 0
	for i := 1; i < len(frames); i++ {
		if frames[i].LastAccess < frames[slot].LastAccess {
			slot = i
		}
	}
	return slot
}

func (lruReplacer) Touch(frames []model.Page, slot int, now int64) {
	frames[slot].LastAccess = now
}
