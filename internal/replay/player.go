package replay

import (
	"context"
	"log/slog"
	"time"

	"github.com/me/cpusim/internal/logging"
)

// Player emits frames one at a time.
type Player struct {
	// Interval between frames. Zero or negative plays without delay.
	Interval time.Duration
	Logger   *slog.Logger
}

// Play calls fn for each frame in order. It stops early when ctx is cancelled
// (returning ctx.Err()) or when fn returns an error.
func (p Player) Play(ctx context.Context, frames []Frame, fn func(Frame) error) error {
	logger := p.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	if p.Interval <= 0 {
		for _, f := range frames {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(f); err != nil {
				return err
			}
		}
		return nil
	}

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for i, f := range frames {
		if i > 0 {
			select {
			case <-ctx.Done():
				logger.Debug("playback cancelled", "tick", f.Tick, "remaining", len(frames)-i)
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
